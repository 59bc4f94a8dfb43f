package sources

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gnames/gnamed/pkg/entity"
)

// Validate checks the configuration for errors and applies defaults.
func (c *SourcesConfig) Validate() error {
	if len(c.Sources) == 0 {
		return fmt.Errorf("no sources specified in configuration")
	}

	for i := range c.Namespaces {
		ns := &c.Namespaces[i]
		ns.Name = strings.ToLower(strings.TrimSpace(ns.Name))
		if ns.Name == "" {
			return fmt.Errorf("namespace %d: name is required", i+1)
		}
		if !ns.Kind.Valid() {
			return fmt.Errorf("namespace %s: kind must be gene or protein", ns.Name)
		}
	}

	reg := c.Registry()
	for i := range c.Sources {
		warnings, err := c.Sources[i].Validate(reg)
		if err != nil {
			return fmt.Errorf("source %d: %w", i+1, err)
		}
		c.Warnings = append(c.Warnings, warnings...)
	}

	return nil
}

// Validate checks a single source for data structure validity and fills
// in its kind from the registry when it is missing. File existence is
// checked at runtime by the I/O layer.
func (s *Source) Validate(reg *entity.Registry) ([]ValidationWarning, error) {
	var warnings []ValidationWarning

	s.Namespace = strings.ToLower(strings.TrimSpace(s.Namespace))
	if s.Namespace == "" {
		return nil, fmt.Errorf("namespace is required")
	}
	if strings.TrimSpace(s.File) == "" {
		return nil, fmt.Errorf("file is required")
	}

	if s.Kind == entity.KindInvalid {
		return nil, fmt.Errorf("kind must be gene or protein")
	}

	f, err := ParseFormat(string(s.Format))
	if err != nil {
		return nil, err
	}
	s.Format = f
	if f == FormatGeneInfo && s.Namespace != "entrez" {
		return nil, fmt.Errorf(
			"gene_info files belong to entrez, not '%s'", s.Namespace)
	}

	ns, known := reg.Lookup(s.Namespace)
	switch {
	case !s.Kind.Valid() && !known:
		return nil, fmt.Errorf(
			"kind of unregistered namespace '%s' must be gene or protein",
			s.Namespace,
		)
	case !s.Kind.Valid():
		s.Kind = ns.Kind
	case known && ns.Kind != s.Kind:
		return nil, fmt.Errorf(
			"namespace '%s' is registered as %s, not %s",
			s.Namespace, ns.Kind, s.Kind,
		)
	case !known:
		warnings = append(warnings, ValidationWarning{
			Namespace:  s.Namespace,
			Field:      "namespace",
			Message:    "namespace is not registered, its cross-references are ignored",
			Suggestion: "Add it to the 'namespaces' section of sources.yaml",
		})
	}

	if s.Bulk && !s.Anchor {
		warnings = append(warnings, ValidationWarning{
			Namespace:  s.Namespace,
			Field:      "bulk",
			Message:    "bulk loading is meant for anchor sources loaded first",
			Suggestion: "Set 'anchor: true' or remove 'bulk: true'",
		})
	}

	return warnings, nil
}

// Filter returns sources of the given namespaces, keeping the order of
// the configuration. Returns all sources if names is empty, warnings for
// names that match nothing, and an error if no source matched.
func Filter(srcs []Source, names []string) ([]Source, []string, error) {
	if len(names) == 0 {
		return srcs, nil, nil
	}

	var warnings []string
	var res []Source
	for _, v := range srcs {
		if slices.Contains(names, v.Namespace) {
			res = append(res, v)
		}
	}

	for _, name := range names {
		found := slices.ContainsFunc(srcs, func(s Source) bool {
			return s.Namespace == name
		})
		if !found {
			warnings = append(warnings,
				fmt.Sprintf("namespace '%s' not found in sources", name))
		}
	}

	if len(res) == 0 {
		return nil, warnings, fmt.Errorf(
			"no sources matched namespaces '%s'", strings.Join(names, ","),
		)
	}
	return res, warnings, nil
}

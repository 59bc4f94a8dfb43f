// Package sources provides configuration and validation of the source
// files gnamed loads.
//
// sources.yaml lists source files in load order. Order matters: anchor
// sources of a kind create canonical entities, later sources attach to
// them through cross-references, and the last source that supplies a
// scalar value determines it.
package sources

import "github.com/gnames/gnamed/pkg/entity"

// Sources loads the sources configuration.
type Sources interface {
	Load() (*SourcesConfig, error)
}

// SourcesConfig represents the complete sources.yaml configuration file.
type SourcesConfig struct {
	// Namespaces registers repositories in addition to the built-in ones,
	// or replaces built-in definitions of the same name.
	Namespaces []entity.Namespace `yaml:"namespaces,omitempty"`

	// Sources are source files in load order.
	Sources []Source `yaml:"sources"`

	// Warnings holds non-fatal validation warnings (not serialized)
	Warnings []ValidationWarning `yaml:"-"`
}

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Namespace  string // Namespace of the source
	Field      string // Field name that has the issue
	Message    string // Description of the issue
	Suggestion string // How to fix it
}

// Source is one source file of canonical records.
type Source struct {
	// Namespace is the repository the file comes from, e.g. "entrez".
	Namespace string `yaml:"namespace"`

	// Kind of records in the file: gene or protein.
	Kind entity.Kind `yaml:"kind"`

	// File is a path to the source file, optionally gzipped.
	// A leading ~ expands to the home directory.
	File string `yaml:"file"`

	// Format of the file, JSON Lines when empty. Entrez sources can
	// be loaded from the gene_info dump as is.
	Format Format `yaml:"format,omitempty"`

	// Anchor marks sources that establish canonical entities of their kind.
	Anchor bool `yaml:"anchor,omitempty"`

	// Bulk allows the bulk loader for this source.
	Bulk bool `yaml:"bulk,omitempty"`
}

// Registry returns the namespace registry with built-in namespaces and
// the ones of the configuration.
func (c *SourcesConfig) Registry() *entity.Registry {
	res := entity.NewRegistry()
	for _, v := range c.Namespaces {
		res.Add(v)
	}
	return res
}

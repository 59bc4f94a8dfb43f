package entity

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/gnames/gnlib"
)

// String pool categories filled from dedicated record fields.
const (
	CatSymbol     = "symbol"
	CatName       = "name"
	CatKeyword    = "keyword"
	CatAccession  = "accession"
	CatIdentifier = "identifier"
)

// Column limits of variant metadata and pooled strings.
const (
	MaxNamespace  = 64
	MaxChromosome = 32
	MaxLocation   = 64
	// MaxAccession bounds the text primary and reference keys.
	MaxAccession  = 255
	// MaxValueBytes keeps pooled strings within index row limits.
	MaxValueBytes = 1024
)

var (
	ErrMissingNamespace = errors.New("missing namespace")
	ErrMissingAccession = errors.New("missing accession")
	ErrLongAccession    = errors.New("accession is too long")
	ErrBadKind          = errors.New("kind must be gene or protein")
	ErrBadMetadata      = errors.New("invalid metadata")
)

// Metadata holds the optional scalar values of a record. Values not
// applicable to the record's kind are ignored.
type Metadata struct {
	Chromosome *string `json:"chromosome,omitempty"`
	Location   *string `json:"location,omitempty"`
	Mass       *int64  `json:"mass,omitempty"`
	Length     *int64  `json:"length,omitempty"`
}

// Record is one canonical per-entity record of a source file.
type Record struct {
	Namespace string `json:"namespace"`
	Accession string `json:"accession"`
	Kind      Kind   `json:"kind"`
	// SpeciesID is the raw taxonomy id, not yet resolved against merges.
	SpeciesID *int    `json:"species_id,omitempty"`
	Symbol    *string `json:"symbol,omitempty"`
	Name      *string `json:"name,omitempty"`
	Metadata

	Symbols     []string `json:"symbols,omitempty"`
	Names       []string `json:"names,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	Accessions  []string `json:"accessions,omitempty"`
	Identifiers []string `json:"identifiers,omitempty"`
	// Strings keeps any other categories, e.g. "description".
	Strings map[string][]string `json:"strings,omitempty"`

	PubMedIDs []int `json:"pubmed_ids,omitempty"`
	CrossRefs []Ref `json:"cross_refs,omitempty"`
}

// Key is the record's own (namespace, accession).
func (r *Record) Key() Ref {
	return Ref{Namespace: r.Namespace, Accession: r.Accession}
}

// Normalize repairs UTF-8, trims whitespace, drops empty values and
// sorts and deduplicates sets. It is idempotent.
func (r *Record) Normalize() {
	r.Namespace = strings.ToLower(clean(r.Namespace))
	r.Accession = clean(r.Accession)
	r.Symbol = cleanPtr(r.Symbol)
	r.Name = cleanPtr(r.Name)
	r.Chromosome = cleanPtr(r.Chromosome)
	r.Location = cleanPtr(r.Location)

	r.Symbols = cleanSet(r.Symbols)
	r.Names = cleanSet(r.Names)
	r.Keywords = cleanSet(r.Keywords)
	r.Accessions = cleanSet(r.Accessions)
	r.Identifiers = cleanSet(r.Identifiers)

	if len(r.Strings) > 0 {
		strs := make(map[string][]string, len(r.Strings))
		for k, v := range r.Strings {
			k = strings.ToLower(clean(k))
			if k == "" {
				continue
			}
			if vals := cleanSet(append(strs[k], v...)); len(vals) > 0 {
				strs[k] = vals
			}
		}
		r.Strings = strs
	}

	pmids := make([]int, 0, len(r.PubMedIDs))
	for _, v := range r.PubMedIDs {
		if v > 0 {
			pmids = append(pmids, v)
		}
	}
	slices.Sort(pmids)
	r.PubMedIDs = slices.Compact(pmids)

	refs := make([]Ref, 0, len(r.CrossRefs))
	key := r.Key()
	for _, v := range r.CrossRefs {
		v.Namespace = strings.ToLower(clean(v.Namespace))
		v.Accession = clean(v.Accession)
		if v.Namespace == "" || v.Accession == "" || v == key {
			continue
		}
		if len(v.Namespace) > MaxNamespace || len(v.Accession) > MaxAccession {
			continue
		}
		refs = append(refs, v)
	}
	slices.SortFunc(refs, func(a, b Ref) int {
		return cmp.Or(
			cmp.Compare(a.Namespace, b.Namespace),
			cmp.Compare(a.Accession, b.Accession),
		)
	})
	r.CrossRefs = slices.Compact(refs)
}

// Validate reports why a record cannot be loaded.
func (r *Record) Validate() error {
	if r.Namespace == "" {
		return ErrMissingNamespace
	}
	if len(r.Namespace) > MaxNamespace {
		return fmt.Errorf("%w: namespace longer than %d", ErrBadMetadata, MaxNamespace)
	}
	if r.Accession == "" {
		return ErrMissingAccession
	}
	if len(r.Accession) > MaxAccession {
		return fmt.Errorf("%w: %d bytes, limit %d",
			ErrLongAccession, len(r.Accession), MaxAccession)
	}
	if !r.Kind.Valid() {
		return ErrBadKind
	}
	if r.Chromosome != nil && utf8.RuneCountInString(*r.Chromosome) > MaxChromosome {
		return fmt.Errorf("%w: chromosome longer than %d", ErrBadMetadata, MaxChromosome)
	}
	if r.Location != nil && utf8.RuneCountInString(*r.Location) > MaxLocation {
		return fmt.Errorf("%w: location longer than %d", ErrBadMetadata, MaxLocation)
	}
	if r.Mass != nil && *r.Mass < 0 {
		return fmt.Errorf("%w: negative mass", ErrBadMetadata)
	}
	if r.Length != nil && *r.Length < 0 {
		return fmt.Errorf("%w: negative length", ErrBadMetadata)
	}
	return nil
}

// StringPool returns all categorized strings of a record, ordered by
// category and value, without duplicates. Official symbol and name are
// part of the pool as well, cut to MaxValueBytes like set members.
func (r *Record) StringPool() []String {
	var res []String
	add := func(cat string, vals ...string) {
		for _, v := range vals {
			res = append(res, String{Category: cat, Value: v})
		}
	}
	// official values stay whole on the record itself
	if r.Symbol != nil {
		add(CatSymbol, truncate(*r.Symbol))
	}
	if r.Name != nil {
		add(CatName, truncate(*r.Name))
	}
	add(CatSymbol, r.Symbols...)
	add(CatName, r.Names...)
	add(CatKeyword, r.Keywords...)
	add(CatAccession, r.Accessions...)
	add(CatIdentifier, r.Identifiers...)
	for k, v := range r.Strings {
		add(k, v...)
	}

	slices.SortFunc(res, func(a, b String) int {
		return cmp.Or(
			cmp.Compare(a.Category, b.Category),
			cmp.Compare(a.Value, b.Value),
		)
	})
	return slices.Compact(res)
}

func clean(s string) string {
	return strings.TrimSpace(gnlib.FixUtf8(s))
}

func cleanPtr(s *string) *string {
	if s == nil {
		return nil
	}
	res := clean(*s)
	if res == "" {
		return nil
	}
	return &res
}

func cleanSet(ss []string) []string {
	if len(ss) == 0 {
		return nil
	}
	res := make([]string, 0, len(ss))
	for _, v := range ss {
		if v = truncate(clean(v)); v != "" {
			res = append(res, v)
		}
	}
	if len(res) == 0 {
		return nil
	}
	slices.Sort(res)
	return slices.Compact(res)
}

// truncate cuts s to MaxValueBytes on a rune boundary.
func truncate(s string) string {
	if len(s) <= MaxValueBytes {
		return s
	}
	s = s[:MaxValueBytes]
	for !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return strings.TrimSpace(s)
}

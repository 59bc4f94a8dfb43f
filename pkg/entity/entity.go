package entity

import "fmt"

// UnknownSpecies is the NCBI taxonomy id of "unidentified" organisms.
// Every unresolvable species reference degrades to it.
const UnknownSpecies = 32644

// Ref is a (namespace, accession) pair that identifies a record within
// its source repository.
type Ref struct {
	Namespace string `json:"namespace"`
	Accession string `json:"accession"`
}

func (r Ref) String() string {
	return fmt.Sprintf("%s:%s", r.Namespace, r.Accession)
}

// Less orders refs by namespace, then accession.
func (r Ref) Less(o Ref) bool {
	if r.Namespace != o.Namespace {
		return r.Namespace < o.Namespace
	}
	return r.Accession < o.Accession
}

// Entity is a canonical gene or protein. Shared fields are kept here,
// variant metadata lives in Attrs.
type Entity struct {
	ID        int64
	SpeciesID int
	Attrs     Attributes
}

// Kind returns the variant of the entity.
func (e Entity) Kind() Kind {
	if e.Attrs == nil {
		return KindUnset
	}
	return e.Attrs.Kind()
}

// Attributes is the variant part of an Entity. GeneAttrs and ProteinAttrs
// are the only implementations.
type Attributes interface {
	Kind() Kind
	// Overwrite returns attributes with all non-nil values of m applied
	// and reports whether anything changed.
	Overwrite(m Metadata) (Attributes, bool)
	sealed()
}

// NewAttributes creates variant attributes of a kind from record metadata.
func NewAttributes(k Kind, m Metadata) Attributes {
	var res Attributes
	switch k {
	case Gene:
		res = GeneAttrs{}
	case Protein:
		res = ProteinAttrs{}
	default:
		return nil
	}
	res, _ = res.Overwrite(m)
	return res
}

// GeneAttrs holds gene-specific metadata.
type GeneAttrs struct {
	Chromosome *string
	Location   *string
}

func (GeneAttrs) Kind() Kind { return Gene }

func (a GeneAttrs) Overwrite(m Metadata) (Attributes, bool) {
	var changed, ok bool
	a.Chromosome, ok = overwrite(a.Chromosome, m.Chromosome)
	changed = changed || ok
	a.Location, ok = overwrite(a.Location, m.Location)
	changed = changed || ok
	return a, changed
}

func (GeneAttrs) sealed() {}

// ProteinAttrs holds protein-specific metadata.
type ProteinAttrs struct {
	Mass   *int64
	Length *int64
}

func (ProteinAttrs) Kind() Kind { return Protein }

func (a ProteinAttrs) Overwrite(m Metadata) (Attributes, bool) {
	var changed, ok bool
	a.Mass, ok = overwrite(a.Mass, m.Mass)
	changed = changed || ok
	a.Length, ok = overwrite(a.Length, m.Length)
	changed = changed || ok
	return a, changed
}

func (ProteinAttrs) sealed() {}

// overwrite implements last-write-wins where nil never clears a value.
func overwrite[T comparable](old, val *T) (*T, bool) {
	if val == nil {
		return old, false
	}
	if old != nil && *old == *val {
		return old, false
	}
	v := *val
	return &v, true
}

// EntityRef links a source record to its entity. Symbol and Name are the
// official values given by the source.
type EntityRef struct {
	Ref
	EntityID int64
	Symbol   *string
	Name     *string
}

// Update applies the record's official symbol and name to the ref.
func (r EntityRef) Update(symbol, name *string) (EntityRef, bool) {
	var changed, ok bool
	r.Symbol, ok = overwrite(r.Symbol, symbol)
	changed = changed || ok
	r.Name, ok = overwrite(r.Name, name)
	changed = changed || ok
	return r, changed
}

// String is one categorized value of an entity's string pool.
type String struct {
	Category string
	Value    string
}

// Mapping links a gene to a protein.
type Mapping struct {
	GeneID    int64
	ProteinID int64
}

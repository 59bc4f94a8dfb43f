package entity

import (
	"maps"
	"slices"
	"strings"
)

// Namespace describes a source repository. A non-empty Species list
// restricts which organisms the repository may annotate; anchoring
// through a restricted namespace is only attempted for those species.
type Namespace struct {
	Name    string `yaml:"name"`
	Kind    Kind   `yaml:"kind"`
	Species []int  `yaml:"species,omitempty"`
}

// AllowsSpecies reports whether records of a species may use the
// namespace for anchoring.
func (ns Namespace) AllowsSpecies(id int) bool {
	return len(ns.Species) == 0 || slices.Contains(ns.Species, id)
}

// Registry maps namespace names to their descriptions.
type Registry struct {
	spaces map[string]Namespace
}

// NewRegistry creates a registry with the well-known repositories.
func NewRegistry() *Registry {
	res := &Registry{spaces: make(map[string]Namespace)}
	for _, v := range defaultNamespaces {
		res.Add(v)
	}
	return res
}

// Add registers or replaces a namespace.
func (r *Registry) Add(ns Namespace) {
	ns.Name = strings.ToLower(strings.TrimSpace(ns.Name))
	if ns.Name == "" {
		return
	}
	r.spaces[ns.Name] = ns
}

// Lookup finds a namespace by name.
func (r *Registry) Lookup(name string) (Namespace, bool) {
	ns, ok := r.spaces[strings.ToLower(name)]
	return ns, ok
}

// Names returns sorted names of registered namespaces of a kind, or of
// all kinds if k is KindUnset.
func (r *Registry) Names(k Kind) []string {
	var res []string
	for _, name := range slices.Sorted(maps.Keys(r.spaces)) {
		if k == KindUnset || r.spaces[name].Kind == k {
			res = append(res, name)
		}
	}
	return res
}

const (
	human        = 9606
	mouse        = 10090
	rat          = 10116
	fly          = 7227
	bakersYeast  = 4932
	fissionYeast = 4896
	cress        = 3702
	eColi        = 562
	nematode     = 6239
	africanFrog  = 8355
	westernFrog  = 8364
)

var defaultNamespaces = []Namespace{
	{Name: "entrez", Kind: Gene},
	{Name: "uniprot", Kind: Protein},
	{Name: "hgnc", Kind: Gene, Species: []int{human}},
	{Name: "mgd", Kind: Gene, Species: []int{mouse}},
	{Name: "rgd", Kind: Gene, Species: []int{human, rat}},
	{Name: "flybase", Kind: Gene, Species: []int{fly, 46245, 7217, 7220,
		7222, 7230, 7234, 7238, 7240, 7244, 7245, 7260}},
	{Name: "sgd", Kind: Gene, Species: []int{bakersYeast, 559292}},
	{Name: "pombase", Kind: Gene, Species: []int{fissionYeast}},
	{Name: "tair", Kind: Gene, Species: []int{cress}},
	{Name: "ecocyc", Kind: Gene, Species: []int{eColi, 511145}},
	{Name: "wormbase", Kind: Gene, Species: []int{nematode, 6238, 31234,
		135651, 860376, 54126, 6289, 6305, 6306, 6279}},
	{Name: "xenbase", Kind: Gene, Species: []int{westernFrog, africanFrog}},
}

package iorecords

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/gnames/gnamed/pkg/entity"
)

// gene_info columns, tab separated, "-" for no value.
const (
	giTaxID = iota
	giGeneID
	giSymbol
	giLocusTag
	giSynonyms
	giDBXrefs
	giChromosome
	giMapLocation
	giDescription
	giTypeOfGene
	giNomenSymbol
	giNomenName
	giNomenStatus
	giOtherDesignations
	giModificationDate
	giColumns
)

// maxSymbol is the longest value kept as a symbol, longer ones and
// values with spaces are names.
const maxSymbol = 64

// junkNames are placeholders found in gene_info name columns.
var junkNames = []string{
	"hypothetical protein",
	"polypeptide",
	"polyprotein",
	"predicted protein",
	"protein",
	"pseudo",
	"unnamed",
	"similar to predicted protein",
	"similar to conserved hypothetical protein",
	"similar to hypothetical protein",
	"similar to polypeptide",
	"similar to polyprotein",
}

// decodeGeneInfo converts a gene_info line to an entrez gene record.
// The second value is false for NEWENTRY placeholder lines.
func decodeGeneInfo(line string) (entity.Record, bool, error) {
	fs := strings.Split(line, "\t")
	if len(fs) < giColumns {
		return entity.Record{}, true,
			fmt.Errorf("%d columns, gene_info has at least %d", len(fs), giColumns)
	}
	for i := range fs {
		if fs[i] = strings.TrimSpace(fs[i]); fs[i] == "-" {
			fs[i] = ""
		}
	}
	if fs[giSymbol] == "NEWENTRY" {
		return entity.Record{}, false, nil
	}

	taxID, err := strconv.Atoi(fs[giTaxID])
	if err != nil {
		return entity.Record{}, true, fmt.Errorf("tax_id: %w", err)
	}
	res := entity.Record{
		Namespace: "entrez",
		Accession: fs[giGeneID],
		Kind:      entity.Gene,
		SpeciesID: &taxID,
		Symbol:    value(fs[giSymbol]),
		Name:      value(fs[giDescription]),
		Metadata: entity.Metadata{
			Chromosome: value(fs[giChromosome]),
			Location:   value(fs[giMapLocation]),
		},
	}
	if v := fs[giLocusTag]; v != "" {
		res.Identifiers = []string{v}
	}
	if v := fs[giNomenSymbol]; v != "" && !isJunk(v) {
		res.Symbols = append(res.Symbols, v)
	}
	if v := fs[giNomenName]; v != "" && !isJunk(v) {
		res.Names = append(res.Names, v)
	}
	for _, v := range split(fs[giSynonyms]) {
		if isSymbol(v) {
			res.Symbols = append(res.Symbols, v)
		} else {
			res.Names = append(res.Names, v)
		}
	}
	for _, v := range split(fs[giOtherDesignations]) {
		res.Names = append(res.Names, v)
	}

	for _, v := range split(fs[giDBXrefs]) {
		db, acc, ok := strings.Cut(v, ":")
		if !ok {
			continue
		}
		if ns := xrefNamespace(db); ns != "" {
			res.CrossRefs = append(res.CrossRefs,
				entity.Ref{Namespace: ns, Accession: acc})
		}
	}
	return res, true, nil
}

// value drops empty and placeholder official values.
func value(s string) *string {
	if s == "" || isJunk(s) {
		return nil
	}
	return &s
}

// split returns the "|" separated values of a column without
// placeholders.
func split(s string) []string {
	if s == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(s, "|") {
		if v = strings.TrimSpace(v); v != "" && !isJunk(v) {
			res = append(res, v)
		}
	}
	return res
}

func isJunk(s string) bool {
	return slices.Contains(junkNames, strings.ToLower(s))
}

// xrefNamespace maps a dbXrefs prefix to a built-in namespace.
func xrefNamespace(db string) string {
	switch db {
	case "UniProtKB/Swiss-Prot":
		return "uniprot"
	case "MGI":
		return "mgd"
	case "HGNC", "RGD", "FLYBASE", "SGD", "PomBase", "TAIR", "ECOCYC",
		"WormBase", "Xenbase":
		return strings.ToLower(db)
	}
	return ""
}

func isSymbol(s string) bool {
	return len(s) <= maxSymbol && !strings.Contains(s, " ")
}

package sources

import "fmt"

// Format is the layout of a source file.
type Format string

const (
	// FormatJSONL is one canonical record per line, in JSON.
	FormatJSONL Format = "jsonl"
	// FormatGeneInfo is the tab-separated NCBI Entrez gene_info dump.
	FormatGeneInfo Format = "gene_info"
)

// ParseFormat returns the format of a sources.yaml value. An empty
// value means JSON Lines.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case "":
		return FormatJSONL, nil
	case FormatJSONL, FormatGeneInfo:
		return f, nil
	default:
		return "", fmt.Errorf("format '%s' must be %s or %s",
			s, FormatJSONL, FormatGeneInfo)
	}
}

package render

import "fmt"

type OutputFormat int

const (
	OutputFormatTable OutputFormat = iota
	OutputFormatYAML
	OutputFormatNDJSON
	OutputFormatTree
)

func (o OutputFormat) String() string {
	switch o {
	case OutputFormatTable:
		return "table"
	case OutputFormatYAML:
		return "yaml"
	case OutputFormatNDJSON:
		return "json"
	case OutputFormatTree:
		return "tree"
	default:
		return fmt.Sprintf("unknown(%d)", o)
	}
}

// Formats lists the accepted values of output flags, the first one is the default.
var Formats = []string{OutputFormatTable.String(), OutputFormatYAML.String(), OutputFormatNDJSON.String(), OutputFormatTree.String()}

func ParseOutputFormat(s string) (OutputFormat, error) {
	for _, f := range []OutputFormat{OutputFormatTable, OutputFormatYAML, OutputFormatNDJSON, OutputFormatTree} {
		if f.String() == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown output format: %q", s)
}

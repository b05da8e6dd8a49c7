package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/gregLibert/thai-id-card/pkg/thaiid"
)

// Output formats of the read command.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
)

func render(w io.Writer, format string, rec *thaiid.Record, data map[string]any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	case FormatText:
		_, err := fmt.Fprintln(w, rec.Describe())
		return err
	default:
		return validFormat(format)
	}
}

func validFormat(format string) error {
	switch format {
	case FormatJSON, FormatYAML, FormatText:
		return nil
	}
	return fmt.Errorf("unknown format %q (want %s, %s or %s)", format, FormatJSON, FormatYAML, FormatText)
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/coglog/coglog/internal/changelog"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// writeValue writes v to w in format. TOML documents cannot hold a bare
// value, so there v is written under key.
func writeValue(w io.Writer, format changelog.Format, key string, v any) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case changelog.FormatJSON:
		data, err = json.MarshalIndent(v, "", "  ")
		data = append(data, '\n')
	case changelog.FormatYAML:
		data, err = yaml.Marshal(v)
	case changelog.FormatTOML:
		data, err = toml.Marshal(map[string]any{key: v})
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// writeTOMLDocument writes a struct or map as a top-level TOML document.
func writeTOMLDocument(w io.Writer, v any) error {
	data, err := toml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

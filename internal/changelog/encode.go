package changelog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a structured output format for changelog records.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ValidFormats returns the supported formats in display order.
func ValidFormats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatTOML}
}

// FormatNames returns the names of ValidFormats, for help and error text.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats()))
	for _, f := range ValidFormats() {
		names = append(names, string(f))
	}
	return names
}

// ParseFormat resolves a format name, accepting "yml" as YAML.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "yml" {
		return FormatYAML, nil
	}
	for _, f := range ValidFormats() {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (valid: %s)", s, strings.Join(FormatNames(), ", "))
}

// Marshal encodes a single record in the given format.
func (c ChangelogCommit) Marshal(format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return c.MarshalJSON()
	case FormatYAML:
		return yamlDocument(c)
	case FormatTOML:
		return c.MarshalTOML()
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// MarshalJSON writes the record as a JSON object with keys in record order.
// Unset optionals are written as null.
func (c ChangelogCommit) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range c.Record() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := json.Marshal(textValue(f.Value))
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML returns a mapping node with keys in record order.
// Unset optionals are written as null.
func (c ChangelogCommit) MarshalYAML() (any, error) {
	return c.yamlNode()
}

func (c ChangelogCommit) yamlNode() (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, f := range c.Record() {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Name}
		val := &yaml.Node{}
		if err := val.Encode(textValue(f.Value)); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, key, val)
	}
	return node, nil
}

// MarshalTOML writes the record as the body of a TOML table.
//
// TOML has no null: unset optionals are left out. The date is the same
// string as in JSON and YAML. Footers are an array of tables, or an empty
// array.
func (c ChangelogCommit) MarshalTOML() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.writeTOML(&buf, ""); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeTOML writes the record body. Footer tables are named prefix+"footer",
// so a record nested under [[commits]] uses the prefix "commits.".
func (c ChangelogCommit) writeTOML(buf *bytes.Buffer, prefix string) error {
	enc := toml.NewEncoder(buf)
	for _, f := range c.Record() {
		switch v := f.Value.(type) {
		case nil:
			continue
		case []ChangelogFooter:
			if len(v) == 0 {
				if err := enc.Encode(map[string]any{f.Name: []any{}}); err != nil {
					return err
				}
				continue
			}
			for _, footer := range v {
				fmt.Fprintf(buf, "\n[[%s%s]]\n", prefix, f.Name)
				if err := enc.Encode(footer); err != nil {
					return err
				}
			}
		case time.Time:
			if err := enc.Encode(map[string]any{f.Name: FormatDate(v)}); err != nil {
				return err
			}
		default:
			if err := enc.Encode(map[string]any{f.Name: v}); err != nil {
				return err
			}
		}
	}
	return nil
}

// textValue maps record values to what the JSON and YAML encoders take.
func textValue(v any) any {
	if t, ok := v.(time.Time); ok {
		return FormatDate(t)
	}
	return v
}

func yamlDocument(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

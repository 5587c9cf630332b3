package changelog

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// tomlBatchTable is the array-of-tables name used when several records are
// written into one TOML document.
const tomlBatchTable = "commits"

// EncodeAll encodes every record independently, running up to parallelism
// encoders at once. The result keeps the order of commits.
//
// Each entry is the record as it appears inside a batch document, so the
// output is meant for WriteDocument rather than for standalone use.
func EncodeAll(ctx context.Context, format Format, commits []ChangelogCommit, parallelism int) ([][]byte, error) {
	return encodeEach(ctx, commits, parallelism, func(c ChangelogCommit) ([]byte, error) {
		return encodeBatchEntry(format, c)
	})
}

// encodeEach runs encode over commits with at most parallelism calls in
// flight and returns the results in input order.
func encodeEach[T any](ctx context.Context, commits []ChangelogCommit, parallelism int, encode func(ChangelogCommit) (T, error)) ([]T, error) {
	if parallelism < 1 {
		parallelism = 1
	}

	out := make([]T, len(commits))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for i := range commits {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := encode(commits[i])
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func encodeBatchEntry(format Format, c ChangelogCommit) ([]byte, error) {
	switch format {
	case FormatJSON:
		return c.MarshalJSON()
	case FormatYAML:
		return yamlDocument(c)
	case FormatTOML:
		var buf bytes.Buffer
		if err := c.writeTOML(&buf, tomlBatchTable+"."); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// WriteDocument joins entries produced by EncodeAll into one document:
// a JSON array, a YAML sequence, or a TOML array of tables named "commits".
func WriteDocument(w io.Writer, format Format, entries [][]byte) error {
	switch format {
	case FormatJSON:
		return writeJSONArray(w, entries)
	case FormatYAML:
		return writeYAMLSequence(w, entries)
	case FormatTOML:
		return writeTOMLTables(w, entries)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// Encode encodes commits and writes them to w as one document. YAML records
// are built as nodes and the sequence is encoded in one pass.
func Encode(ctx context.Context, w io.Writer, format Format, commits []ChangelogCommit, parallelism int) error {
	if format == FormatYAML {
		nodes, err := encodeEach(ctx, commits, parallelism, ChangelogCommit.yamlNode)
		if err != nil {
			return err
		}
		return writeYAMLNodes(w, nodes)
	}

	entries, err := EncodeAll(ctx, format, commits, parallelism)
	if err != nil {
		return err
	}
	return WriteDocument(w, format, entries)
}

func writeJSONArray(w io.Writer, entries [][]byte) error {
	if len(entries) == 0 {
		_, err := io.WriteString(w, "[]\n")
		return err
	}

	var buf bytes.Buffer
	buf.WriteString("[\n")
	for i, e := range entries {
		buf.WriteString("  ")
		buf.Write(e)
		if i < len(entries)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("]\n")
	_, err := w.Write(buf.Bytes())
	return err
}

// writeYAMLSequence parses entries back into nodes so that the sequence is
// laid out by the encoder.
func writeYAMLSequence(w io.Writer, entries [][]byte) error {
	nodes := make([]*yaml.Node, 0, len(entries))
	for i, e := range entries {
		var doc yaml.Node
		if err := yaml.Unmarshal(e, &doc); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		if len(doc.Content) != 1 {
			return fmt.Errorf("entry %d: expected one YAML document", i)
		}
		nodes = append(nodes, doc.Content[0])
	}
	return writeYAMLNodes(w, nodes)
}

func writeYAMLNodes(w io.Writer, nodes []*yaml.Node) error {
	if len(nodes) == 0 {
		_, err := io.WriteString(w, "[]\n")
		return err
	}

	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: nodes}
	data, err := yamlDocument(seq)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func writeTOMLTables(w io.Writer, entries [][]byte) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintf(w, "%s = []\n", tomlBatchTable)
		return err
	}

	var buf bytes.Buffer
	for i, e := range entries {
		if i > 0 {
			buf.WriteByte('\n')
		}
		fmt.Fprintf(&buf, "[[%s]]\n", tomlBatchTable)
		buf.Write(e)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

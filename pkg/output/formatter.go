// Package output renders reports as JSON, YAML, CSV or an aligned table.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Formatter converts report data to bytes.
type Formatter interface {
	Format(data any, pretty bool) ([]byte, error)
}

// Tabular is implemented by reports that can be laid out as rows. CSV and
// table output use it; other values fall back to a flattened key/value
// listing.
type Tabular interface {
	Header() []string
	Rows() [][]string
}

// NewFormatter returns the formatter for name, defaulting to JSON.
func NewFormatter(name string) Formatter {
	switch strings.ToLower(name) {
	case "yaml", "yml":
		return &YAMLFormatter{}
	case "csv":
		return &CSVFormatter{}
	case "table":
		return &TableFormatter{}
	default:
		return &JSONFormatter{}
	}
}

// JSONFormatter renders JSON.
type JSONFormatter struct{}

func (f *JSONFormatter) Format(data any, pretty bool) ([]byte, error) {
	var (
		out []byte
		err error
	)
	if pretty {
		out, err = json.MarshalIndent(data, "", "  ")
	} else {
		out, err = json.Marshal(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(out, '\n'), nil
}

// YAMLFormatter renders YAML.
type YAMLFormatter struct{}

func (f *YAMLFormatter) Format(data any, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if pretty {
		enc.SetIndent(2)
	}
	if err := enc.Encode(data); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to flush YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// CSVFormatter renders comma separated rows.
type CSVFormatter struct{}

func (f *CSVFormatter) Format(data any, pretty bool) ([]byte, error) {
	header, rows := tabulate(data)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return buf.Bytes(), nil
}

// TableFormatter renders an aligned, human readable table.
type TableFormatter struct{}

func (f *TableFormatter) Format(data any, pretty bool) ([]byte, error) {
	header, rows := tabulate(data)

	title := cases.Title(language.English)
	for i, h := range header {
		header[i] = title.String(strings.ReplaceAll(h, "_", " "))
	}

	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	if pretty {
		rule := make([]string, len(header))
		for i, h := range header {
			rule[i] = strings.Repeat("-", len(h))
		}
		fmt.Fprintln(tw, strings.Join(rule, "\t"))
	}
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return nil, fmt.Errorf("failed to render table: %w", err)
	}
	return buf.Bytes(), nil
}

func tabulate(data any) ([]string, [][]string) {
	if t, ok := data.(Tabular); ok {
		return t.Header(), t.Rows()
	}

	flat := make(map[string]string)
	flatten("", data, flat)

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]string, len(keys))
	for i, k := range keys {
		rows[i] = []string{k, flat[k]}
	}
	return []string{"key", "value"}, rows
}

// flatten walks maps produced by the report builders into dotted keys.
func flatten(prefix string, data any, out map[string]string) {
	switch v := data.(type) {
	case map[string]any:
		for k, val := range v {
			flatten(join(prefix, k), val, out)
		}
	case []any:
		for i, val := range v {
			flatten(join(prefix, fmt.Sprint(i)), val, out)
		}
	default:
		out[prefix] = fmt.Sprint(v)
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

/*
Copyright © 2025 Stackup Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package serializer renders report data as yaml, json, or a flattened
// key/value table.
package serializer

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Format selects the output encoding.
type Format string

const (
	// FormatJSON emits indented JSON.
	FormatJSON Format = "json"
	// FormatYAML emits YAML.
	FormatYAML Format = "yaml"
	// FormatTable emits a two-column table of flattened fields.
	FormatTable Format = "table"
)

// IsUnknown reports whether the format is not one of the supported values.
func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTable:
		return false
	default:
		return true
	}
}

// SupportedFormats lists the accepted format names.
func SupportedFormats() []string {
	return []string{string(FormatYAML), string(FormatJSON), string(FormatTable)}
}

// Writer renders values in a fixed format to a destination.
type Writer struct {
	format Format
	output io.Writer
}

// NewWriter creates a Writer. A nil output means stdout; an unknown format
// falls back to yaml.
func NewWriter(format Format, output io.Writer) *Writer {
	if output == nil {
		output = os.Stdout
	}
	if format.IsUnknown() {
		slog.Warn("unknown output format, defaulting to yaml", "format", format)
		format = FormatYAML
	}
	return &Writer{format: format, output: output}
}

// Serialize renders v in the configured format.
func (w *Writer) Serialize(v any) error {
	switch w.format {
	case FormatJSON:
		enc := json.NewEncoder(w.output)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w.output)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case FormatTable:
		return w.writeTable(v)
	default:
		return fmt.Errorf("unsupported format: %s", w.format)
	}
}

// writeTable flattens v through a JSON round trip so field visibility and
// naming follow the value's json tags.
func (w *Writer) writeTable(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to flatten value: %w", err)
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("failed to flatten value: %w", err)
	}

	flat := map[string]any{}
	flatten("", decoded, flat)
	if len(flat) == 0 {
		_, err := fmt.Fprintln(w.output, "<empty>")
		return err
	}

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := tabwriter.NewWriter(w.output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE")
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%v\n", k, flat[k])
	}
	return tw.Flush()
}

func flatten(prefix string, v any, out map[string]any) {
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			flatten(joinKey(prefix, k), child, out)
		}
	case []any:
		for i, child := range val {
			flatten(fmt.Sprintf("%s[%d]", prefix, i), child, out)
		}
	default:
		if prefix == "" {
			prefix = "value"
		}
		out[prefix] = v
	}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

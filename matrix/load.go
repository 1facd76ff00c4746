package matrix

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lattice-substrate/decimal-parity/parityerr"
)

// document is the on-disk matrix shape.
type document struct {
	Version  string    `yaml:"version" json:"version"`
	Locale   string    `yaml:"locale" json:"locale"`
	Patterns []string  `yaml:"patterns" json:"patterns"`
	Values   valueList `yaml:"values" json:"values"`
}

// valueList is the values sequence. YAML resolves a bare -0 as the integer
// zero, which would silently drop negative zero from the matrix, so an
// integer-tagged negative zero is rejected and must be written as -0.0.
type valueList []float64

func (l *valueList) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: values must be a sequence", n.Line)
	}
	out := make(valueList, len(n.Content))
	for i, item := range n.Content {
		if err := item.Decode(&out[i]); err != nil {
			return fmt.Errorf("values[%d]: %w", i, err)
		}
		if item.ShortTag() == "!!int" && out[i] == 0 && strings.HasPrefix(strings.TrimSpace(item.Value), "-") {
			return fmt.Errorf("values[%d] (line %d): %q is an integer zero without a sign; write -0.0", i, item.Line, item.Value)
		}
	}
	*l = out
	return nil
}

// Resolve returns the built-in matrix called name, or loads name as a file.
// A name that is neither is MATRIX_INVALID.
func Resolve(name string) (*Matrix, error) {
	if name == "" {
		name = DefaultName
	}
	if m, ok := Named(name); ok {
		return m, nil
	}
	if _, err := os.Stat(name); errors.Is(err, fs.ErrNotExist) {
		return nil, parityerr.Newf(parityerr.MatrixInvalid, -1,
			"unknown matrix %q: not a built-in (%s) and no such file", name, strings.Join(Names(), ", "))
	}
	return Load(name)
}

// Load reads, decodes, and validates a matrix document. Files ending in
// .yaml or .yml are decoded as YAML, anything else as JSON. Unknown fields
// are rejected in both.
//
//nolint:gosec // matrix path is explicit operator input.
func Load(path string) (*Matrix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, parityerr.Wrap(parityerr.InternalIO, -1, "read matrix", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return DecodeJSON(data)
	}
}

// DecodeJSON decodes a single JSON matrix document.
func DecodeJSON(data []byte) (*Matrix, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var d document
	if err := dec.Decode(&d); err != nil {
		return nil, parityerr.Wrap(parityerr.MatrixInvalid, -1, "decode matrix json", err)
	}
	if err := ensureSingleJSONDocument(dec); err != nil {
		return nil, parityerr.Wrap(parityerr.MatrixInvalid, -1, "decode matrix json", err)
	}
	return New(d.Version, d.Locale, d.Patterns, d.Values)
}

// DecodeYAML decodes a single YAML matrix document.
func DecodeYAML(data []byte) (*Matrix, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var d document
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty document")
		}
		return nil, parityerr.Wrap(parityerr.MatrixInvalid, -1, "decode matrix yaml", err)
	}
	var trailing yaml.Node
	if err := dec.Decode(&trailing); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected trailing yaml document")
		}
		return nil, parityerr.Wrap(parityerr.MatrixInvalid, -1, "decode matrix yaml", err)
	}
	return New(d.Version, d.Locale, d.Patterns, d.Values)
}

func ensureSingleJSONDocument(dec *json.Decoder) error {
	var trailing any
	if err := dec.Decode(&trailing); err != io.EOF {
		if err == nil {
			return fmt.Errorf("unexpected trailing json content")
		}
		return fmt.Errorf("decode trailing json token: %w", err)
	}
	return nil
}

package dictionary

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed household.yaml
var householdYAML []byte

// Builtin returns the embedded household dictionary.
func Builtin() *Dictionary {
	d, err := ParseYAML(bytes.NewReader(householdYAML))
	if err != nil {
		panic(fmt.Sprintf("builtin dictionary: %v", err))
	}
	return d
}

// LoadFile reads a YAML or JSON dictionary, chosen by extension.
func LoadFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseJSON(f)
	default:
		return ParseYAML(f)
	}
}

// ParseYAML reads a top-level mapping of name to volume. Document order is preserved.
func ParseYAML(r io.Reader) (*Dictionary, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("parse yaml dictionary: %w", err)
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, ErrEmpty
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse yaml dictionary: line %d: expected a mapping of name to volume", root.Line)
	}

	entries := make([]Entry, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		vol, err := strconv.ParseFloat(val.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("parse yaml dictionary: line %d: volume for %q: %w", val.Line, key.Value, err)
		}
		entries = append(entries, Entry{Name: key.Value, Volume: vol})
	}

	return New(entries)
}

// ParseJSON reads a JSON object of name to volume. Key order is preserved.
func ParseJSON(r io.Reader) (*Dictionary, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err == io.EOF {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("parse json dictionary: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("parse json dictionary: expected an object of name to volume")
	}

	var entries []Entry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse json dictionary: %w", err)
		}
		name, _ := keyTok.(string)

		var num json.Number
		if err := dec.Decode(&num); err != nil {
			return nil, fmt.Errorf("parse json dictionary: volume for %q: %w", name, err)
		}
		vol, err := num.Float64()
		if err != nil {
			return nil, fmt.Errorf("parse json dictionary: volume for %q: %w", name, err)
		}
		entries = append(entries, Entry{Name: name, Volume: vol})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parse json dictionary: %w", err)
	}

	return New(entries)
}

// Package dictionary provides the read-only item volume dictionary and its sources.
package dictionary

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Common errors
var (
	ErrEmpty         = errors.New("dictionary is empty")
	ErrInvalidEntry  = errors.New("invalid dictionary entry")
	ErrDuplicateName = errors.New("duplicate dictionary name")
)

// Entry is one canonical item and its volume in cubic feet.
type Entry struct {
	Name   string  `json:"name" yaml:"name"`
	Volume float64 `json:"volume" yaml:"volume"`
}

// Dictionary is an immutable, insertion-ordered mapping from canonical item name to volume.
// It is safe for concurrent readers.
type Dictionary struct {
	entries     []Entry
	index       map[string]int
	fingerprint string
}

// New builds a dictionary from entries. Names are trimmed and lowercased; order is kept.
func New(entries []Entry) (*Dictionary, error) {
	d := &Dictionary{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}

	h := sha256.New()
	for i, e := range entries {
		name := strings.Join(strings.Fields(strings.ToLower(e.Name)), " ")
		if name == "" {
			return nil, fmt.Errorf("%w: entry %d has no name", ErrInvalidEntry, i)
		}
		if e.Volume <= 0 {
			return nil, fmt.Errorf("%w: %q has non-positive volume %v", ErrInvalidEntry, name, e.Volume)
		}
		if _, dup := d.index[name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}

		d.index[name] = len(d.entries)
		d.entries = append(d.entries, Entry{Name: name, Volume: e.Volume})

		h.Write([]byte(name))
		h.Write([]byte{0})
		h.Write([]byte(strconv.FormatFloat(e.Volume, 'g', -1, 64)))
		h.Write([]byte{'\n'})
	}

	d.fingerprint = hex.EncodeToString(h.Sum(nil)[:12])
	return d, nil
}

// MustNew is New for static tables; it panics on invalid input.
func MustNew(entries []Entry) *Dictionary {
	d, err := New(entries)
	if err != nil {
		panic(err)
	}
	return d
}

// FromMap builds a dictionary from a map. Map iteration is unordered, so entries are
// sorted by name to keep resolver tie-breaks deterministic.
func FromMap(m map[string]float64) (*Dictionary, error) {
	entries := make([]Entry, 0, len(m))
	for name, vol := range m {
		entries = append(entries, Entry{Name: name, Volume: vol})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return New(entries)
}

// Len returns the number of entries. A nil dictionary has length zero.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Entries returns a copy of the entries in insertion order.
func (d *Dictionary) Entries() []Entry {
	if d == nil {
		return nil
	}
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Lookup returns the entry for a canonical name.
func (d *Dictionary) Lookup(name string) (Entry, bool) {
	if d == nil {
		return Entry{}, false
	}
	i, ok := d.index[name]
	if !ok {
		return Entry{}, false
	}
	return d.entries[i], true
}

// Fingerprint identifies the dictionary contents. Equal contents in equal order give equal fingerprints.
func (d *Dictionary) Fingerprint() string {
	if d == nil {
		return ""
	}
	return d.fingerprint
}

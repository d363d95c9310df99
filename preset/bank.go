package preset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Bank is a set of presets keyed by name.
type Bank map[string]Preset

// Names returns the preset names in sorted order.
func (b Bank) Names() []string {
	names := make([]string, 0, len(b))
	for n := range b {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Merge copies every preset of other into b, replacing equal names.
func (b Bank) Merge(other Bank) {
	for n, p := range other {
		b[n] = p
	}
}

// LoadDir reads every *.json file in dir. Files that fail to load are
// skipped and reported in the joined error; the bank holds the rest. A
// missing directory yields an empty bank.
func LoadDir(dir string) (Bank, error) {
	bank := Bank{}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return bank, nil
	}
	if err != nil {
		return bank, fmt.Errorf("preset: %w", err)
	}

	var errs []error
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), Ext) {
			continue
		}
		p, err := Load(filepath.Join(dir, e.Name()))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		bank[p.Name] = p
	}
	return bank, errors.Join(errs...)
}

// ExportBank writes the whole bank as one JSON object of name to document.
func ExportBank(w io.Writer, b Bank) error {
	docs := make(map[string]map[string]json.RawMessage, len(b))
	for name, p := range b {
		doc, err := p.document()
		if err != nil {
			return err
		}
		docs[name] = doc
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(docs); err != nil {
		return fmt.Errorf("preset: export: %w", err)
	}
	return nil
}

// ImportBank reads a document written by ExportBank.
func ImportBank(r io.Reader) (Bank, error) {
	var docs map[string]map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&docs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	bank := make(Bank, len(docs))
	for name, doc := range docs {
		p, err := fromDocument(doc)
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		p.Name = name
		bank[name] = p
	}
	return bank, nil
}

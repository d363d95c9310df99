// Package preset reads and writes parameter sets as flat JSON documents.
//
// Keys the engine knows are decoded into [synth.Params]; absent keys keep
// their defaults. Unknown keys are kept verbatim and written back on encode,
// so documents from newer or older versions survive a round trip.
package preset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cwbudde/algo-synth/synth"
)

// Ext is the preset file extension.
const Ext = ".json"

// ErrInvalid is returned for documents that are not a JSON object or hold a
// value of the wrong type for a known key.
var ErrInvalid = errors.New("preset: invalid document")

// Preset is a named parameter set plus the keys the engine does not use.
type Preset struct {
	Name   string
	Params synth.Params
	Extra  map[string]json.RawMessage
}

// New returns a preset with default parameters.
func New(name string) Preset {
	return Preset{Name: name, Params: synth.DefaultParams()}
}

// Decode reads one parameter document.
func Decode(r io.Reader) (Preset, error) {
	var doc map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Preset{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return fromDocument(doc)
}

func fromDocument(doc map[string]json.RawMessage) (Preset, error) {
	p := Preset{Params: synth.DefaultParams()}
	var errs []error

	for key, raw := range doc {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			continue
		}

		err := p.Params.Set(key, v)
		switch {
		case errors.Is(err, synth.ErrUnknownParam):
			if p.Extra == nil {
				p.Extra = make(map[string]json.RawMessage)
			}
			p.Extra[key] = raw
		case err != nil:
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		sort.Slice(errs, func(i, j int) bool { return errs[i].Error() < errs[j].Error() })
		return Preset{}, fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return p, nil
}

// Encode writes p as an indented JSON object with sorted keys.
func Encode(w io.Writer, p Preset) error {
	doc, err := p.document()
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("preset: encode: %w", err)
	}
	return nil
}

func (p Preset) document() (map[string]json.RawMessage, error) {
	doc := make(map[string]json.RawMessage, len(p.Extra)+len(synth.Keys()))
	for k, v := range p.Extra {
		doc[k] = v
	}
	for k, v := range p.Params.Values() {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("preset: encode %s: %w", k, err)
		}
		doc[k] = raw
	}
	return doc, nil
}

// Load reads a preset file. The name is the file name without extension.
func Load(path string) (Preset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Preset{}, fmt.Errorf("preset: %w", err)
	}
	defer f.Close()

	p, err := Decode(f)
	if err != nil {
		return Preset{}, fmt.Errorf("%s: %w", path, err)
	}
	p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return p, nil
}

// Save writes p to dir/<name>.json, creating dir when needed, and returns
// the path.
func Save(dir string, p Preset) (string, error) {
	if p.Name == "" {
		return "", fmt.Errorf("%w: empty name", ErrInvalid)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("preset: %w", err)
	}

	var b bytes.Buffer
	if err := Encode(&b, p); err != nil {
		return "", err
	}

	path := filepath.Join(dir, p.Name+Ext)
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("preset: %w", err)
	}
	return path, nil
}

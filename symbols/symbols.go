// Package symbols reads per-symbol metadata from a YAML file:
//
//	symbols:
//	  FUND:
//	    sample: "1,312719"
//	    market: TEFAS
//	    name: Some money market fund
package symbols

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/etnz/holdings"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Symbol is the metadata of one symbol.
type Symbol struct {
	Sample string `yaml:"sample,omitempty"` // desired layout of the feed value
	Market string `yaml:"market,omitempty"`
	Name   string `yaml:"name,omitempty"`
}

// File is a set of symbol metadata. It implements holdings.SymbolMetadata.
type File struct {
	Symbols map[string]Symbol `yaml:"symbols"`
}

// Load reads the file at path. A missing file is an empty set.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("path", path).Msg("no symbols file")
		return &File{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open symbols %q: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads YAML metadata. Symbols are canonicalized.
func Decode(r io.Reader) (*File, error) {
	var raw File
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid symbols file: %w", err)
	}
	f := &File{Symbols: make(map[string]Symbol, len(raw.Symbols))}
	for k, v := range raw.Symbols {
		f.Symbols[holdings.CanonicalSymbol(k)] = v
	}
	return f, nil
}

// Encode writes the metadata as YAML.
func (f *File) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return err
	}
	return enc.Close()
}

// DesiredSample implements holdings.SymbolMetadata.
func (f *File) DesiredSample(symbol string) (string, bool) {
	s, ok := f.Symbols[holdings.CanonicalSymbol(symbol)]
	if !ok || s.Sample == "" {
		return "", false
	}
	return s.Sample, true
}

// Lookup returns the metadata of symbol.
func (f *File) Lookup(symbol string) (Symbol, bool) {
	s, ok := f.Symbols[holdings.CanonicalSymbol(symbol)]
	return s, ok
}

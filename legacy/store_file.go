package legacy

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
)

// arrayFile is the on-disk form of one Array. Real and imaginary parts are
// split since JSON has no complex numbers; a missing imaginary part is zero.
type arrayFile struct {
	Shape []int     `json:"shape"`
	Real  []float64 `json:"real"`
	Imag  []float64 `json:"imag,omitempty"`
}

// LoadStore reads a JSON array file written by WriteJSON
func LoadStore(path string) (*MemStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open array store: %w", err)
	}
	defer f.Close()
	store, err := ReadStore(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return store, nil
}

// ReadStore decodes arrays keyed by group and then name:
//
//	{"fields": {"E": {"shape": [3, 2, 2, 1, 1], "real": [...], "imag": [...]}}}
func ReadStore(r io.Reader) (*MemStore, error) {
	var doc map[string]map[string]arrayFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode array store: %w", err)
	}

	store := NewMemStore()
	for group, arrays := range doc {
		for name, af := range arrays {
			if af.Imag != nil && len(af.Imag) != len(af.Real) {
				return nil, fmt.Errorf("%s/%s: %d real and %d imaginary values",
					group, name, len(af.Real), len(af.Imag))
			}
			data := make([]complex128, len(af.Real))
			for i, re := range af.Real {
				var im float64
				if af.Imag != nil {
					im = af.Imag[i]
				}
				data[i] = complex(re, im)
			}
			arr, err := NewArray(af.Shape, data)
			if err != nil {
				return nil, fmt.Errorf("%s/%s: %w", group, name, err)
			}
			store.Put(group, name, arr)
		}
	}
	return store, nil
}

// WriteJSON writes every array in the form ReadStore accepts
func (s *MemStore) WriteJSON(w io.Writer) error {
	s.mu.RLock()
	doc := make(map[string]map[string]arrayFile, len(s.groups))
	for group, arrays := range s.groups {
		g := make(map[string]arrayFile, len(arrays))
		for name, arr := range arrays {
			af := arrayFile{
				Shape: arr.Shape,
				Real:  make([]float64, len(arr.Data)),
				Imag:  make([]float64, len(arr.Data)),
			}
			for i, v := range arr.Data {
				af.Real[i], af.Imag[i] = real(v), imag(v)
			}
			g[name] = af
		}
		doc[group] = g
	}
	s.mu.RUnlock()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Groups lists the stored group names in sorted order
func (s *MemStore) Groups() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.groups))
	for g := range s.groups {
		names = append(names, g)
	}
	sort.Strings(names)
	return names
}

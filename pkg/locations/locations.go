// Package locations holds the hand-authored table of Santa figures.
//
// The built-in table lives in locations.toml and is embedded into the binary.
// It is decoded once, validated, and exposed as an immutable [Table]: callers
// receive copies of the records and cannot change the table after startup.
//
//	table, err := locations.Default()
//	if err != nil {
//	    return err
//	}
//	for _, r := range table.Records() {
//	    fmt.Println(r.Name, r.Tradition)
//	}
package locations

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/santamap/pkg/errors"
)

//go:embed locations.toml
var defaultTOML []byte

// Record is one Santa figure on the map.
type Record struct {
	Name        string  `toml:"name" json:"name" yaml:"name"`
	Tradition   string  `toml:"tradition" json:"tradition" yaml:"tradition"`
	Place       string  `toml:"place" json:"place,omitempty" yaml:"place,omitempty"`
	Latitude    float64 `toml:"lat" json:"lat" yaml:"lat"`
	Longitude   float64 `toml:"lon" json:"lon" yaml:"lon"`
	Description string  `toml:"description" json:"description,omitempty" yaml:"description,omitempty"`
	Hat         bool    `toml:"hat" json:"hat,omitempty" yaml:"hat,omitempty"`
}

// Table is an ordered, read-only sequence of records.
// Order follows the source document and only matters for deterministic
// label placement.
type Table struct {
	records []Record
}

type document struct {
	Locations []Record `toml:"location"`
}

var (
	defaultTable     *Table
	defaultTableErr  error
	defaultTableOnce sync.Once
)

// Default returns the built-in table. The embedded document is decoded on
// first use; later calls return the same table.
func Default() (*Table, error) {
	defaultTableOnce.Do(func() {
		defaultTable, defaultTableErr = Parse(defaultTOML)
	})
	return defaultTable, defaultTableErr
}

// Load decodes a table from a TOML file with the same layout as the
// built-in locations.toml.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "locations file %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read locations file: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse decodes and validates a TOML table document.
// Unknown keys are rejected so typos ("latitude" instead of "lat") do not
// silently place a record at 0,0.
func Parse(data []byte) (*Table, error) {
	var doc document
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLocation, err, "decode locations")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidLocation, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return New(doc.Locations)
}

// New validates records and returns a table holding a private copy of them.
func New(records []Record) (*Table, error) {
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidLocation, "location table is empty")
	}
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("record %d (%q): %w", i, r.Name, err)
		}
	}
	return &Table{records: slices.Clone(records)}, nil
}

// Validate checks the record invariants: a non-empty name and tradition and
// coordinates inside the geographic domain.
func (r Record) Validate() error {
	if err := errors.ValidateLabel("name", r.Name); err != nil {
		return err
	}
	if err := errors.ValidateLabel("tradition", r.Tradition); err != nil {
		return err
	}
	if err := errors.ValidateLatitude(r.Latitude); err != nil {
		return err
	}
	return errors.ValidateLongitude(r.Longitude)
}

// Len returns the number of records.
func (t *Table) Len() int { return len(t.records) }

// Records returns a copy of all records in table order.
func (t *Table) Records() []Record { return slices.Clone(t.records) }

// Traditions returns the distinct traditions, sorted. The legend uses this
// order so it does not depend on how the table is authored.
func (t *Table) Traditions() []string {
	seen := make(map[string]bool, len(t.records))
	var out []string
	for _, r := range t.records {
		if !seen[r.Tradition] {
			seen[r.Tradition] = true
			out = append(out, r.Tradition)
		}
	}
	slices.Sort(out)
	return out
}

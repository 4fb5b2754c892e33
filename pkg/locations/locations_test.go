package locations

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/santamap/pkg/errors"
)

func TestDefault(t *testing.T) {
	table, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	if table.Len() < 7 {
		t.Fatalf("Default() has %d records, want at least 7", table.Len())
	}

	again, _ := Default()
	if again != table {
		t.Error("Default() should return the same table on every call")
	}

	byName := make(map[string]Record)
	for _, r := range table.Records() {
		byName[r.Name] = r
	}

	tests := []struct {
		name      string
		tradition string
		lon       float64
		hat       bool
	}{
		{"Santa Claus (Rovaniemi)", "Official Santa", 25.7294, true},
		{"Surfing Santa", "Southern Hemisphere (Summer)", 151.2093, true},
		{"Père Noël", "Western Europe", 7.7521, false},
		{"Ded Moroz (Father Frost)", "Slavic", 46.3056, false},
	}
	for _, tt := range tests {
		r, ok := byName[tt.name]
		if !ok {
			t.Errorf("record %q missing from default table", tt.name)
			continue
		}
		if r.Tradition != tt.tradition {
			t.Errorf("%s tradition = %q, want %q", tt.name, r.Tradition, tt.tradition)
		}
		if r.Longitude != tt.lon {
			t.Errorf("%s lon = %v, want %v", tt.name, r.Longitude, tt.lon)
		}
		if r.Hat != tt.hat {
			t.Errorf("%s hat = %v, want %v", tt.name, r.Hat, tt.hat)
		}
	}
}

func TestTableIsImmutable(t *testing.T) {
	table, err := New([]Record{
		{Name: "A", Tradition: "Nordic", Latitude: 60, Longitude: 10},
	})
	if err != nil {
		t.Fatal(err)
	}

	records := table.Records()
	records[0].Name = "mutated"

	if table.Records()[0].Name != "A" {
		t.Error("mutating Records() result should not change the table")
	}
}

func TestNewCopiesInput(t *testing.T) {
	input := []Record{{Name: "A", Tradition: "Nordic", Latitude: 60, Longitude: 10}}
	table, err := New(input)
	if err != nil {
		t.Fatal(err)
	}
	input[0].Name = "changed"
	if table.Records()[0].Name != "A" {
		t.Error("New() should copy its input")
	}
}

func TestTraditionsSorted(t *testing.T) {
	table, err := New([]Record{
		{Name: "A", Tradition: "Slavic", Latitude: 1, Longitude: 1},
		{Name: "B", Tradition: "Americas", Latitude: 1, Longitude: 1},
		{Name: "C", Tradition: "Slavic", Latitude: 1, Longitude: 1},
		{Name: "D", Tradition: "East Asia", Latitude: 1, Longitude: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Americas", "East Asia", "Slavic"}
	if got := table.Traditions(); !slices.Equal(got, want) {
		t.Errorf("Traditions() = %v, want %v", got, want)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ``},
		{"syntax", `[[location]` + "\n"},
		{"unknown key", "[[location]]\nname = \"A\"\ntradition = \"T\"\nlatitude = 1.0\nlon = 2.0\n"},
		{"empty name", "[[location]]\nname = \"\"\ntradition = \"T\"\nlat = 1.0\nlon = 2.0\n"},
		{"empty tradition", "[[location]]\nname = \"A\"\ntradition = \" \"\nlat = 1.0\nlon = 2.0\n"},
		{"lat out of range", "[[location]]\nname = \"A\"\ntradition = \"T\"\nlat = 91.0\nlon = 2.0\n"},
		{"lon out of range", "[[location]]\nname = \"A\"\ntradition = \"T\"\nlat = 1.0\nlon = -181.0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("Parse() should fail")
			}
			if !errors.Is(err, errors.ErrCodeInvalidLocation) {
				t.Errorf("error code = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidLocation)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	doc := "[[location]]\nname = \"Joulupukki\"\ntradition = \"Nordic\"\nplace = \"Helsinki\"\nlat = 60.1699\nlon = 24.9384\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if table.Len() != 1 || table.Records()[0].Place != "Helsinki" {
		t.Errorf("Load() = %+v, want single Helsinki record", table.Records())
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load() error = %v, want FILE_NOT_FOUND", err)
	}
}

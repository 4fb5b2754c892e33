package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/santamap/pkg/errors"
	"github.com/matzehuels/santamap/pkg/features"
	"github.com/matzehuels/santamap/pkg/locations"
)

// Output formats for the locations command.
const (
	formatTable   = "table"
	formatJSON    = "json"
	formatYAML    = "yaml"
	formatGeoJSON = "geojson"
)

var locationFormats = []string{formatTable, formatJSON, formatYAML, formatGeoJSON}

// locationRow is the flat, serializable view of one enriched feature.
type locationRow struct {
	Name      string  `json:"name" yaml:"name"`
	Tradition string  `json:"tradition" yaml:"tradition"`
	Place     string  `json:"place,omitempty" yaml:"place,omitempty"`
	Lat       float64 `json:"lat" yaml:"lat"`
	Lon       float64 `json:"lon" yaml:"lon"`
	UTCOffset int     `json:"utc_offset" yaml:"utc_offset"`
	Timezone  string  `json:"timezone" yaml:"timezone"`
	Vertices  int     `json:"buffer_vertices" yaml:"buffer_vertices"`
}

// locationsCommand creates the "locations" command.
func (c *CLI) locationsCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "locations",
		Short: "Print the enriched location table",
		Long: `Print every Santa figure with its derived UTC offset and buffer.

The geojson format emits a FeatureCollection holding each location's point
followed by its buffer polygon.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			fs, err := enrichFromConfig(cfg)
			if err != nil {
				return err
			}
			return writeLocations(cmd.OutOrStdout(), fs, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: "+strings.Join(locationFormats, ", "))
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return locationFormats, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// enrichFromConfig loads the configured table and derives its geometry.
func enrichFromConfig(cfg *config) ([]features.Feature, error) {
	var (
		table *locations.Table
		err   error
	)
	if cfg.LocationsFile != "" {
		table, err = locations.Load(cfg.LocationsFile)
	} else {
		table, err = locations.Default()
	}
	if err != nil {
		return nil, err
	}
	if cfg.BufferKm <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "buffer radius must be positive, got %g", cfg.BufferKm)
	}
	return features.Enrich(table, features.Options{
		RadiusMeters: cfg.BufferKm * 1000,
		Segments:     cfg.Segments,
	}), nil
}

func writeLocations(w io.Writer, fs []features.Feature, format string) error {
	switch format {
	case formatTable:
		writeLocationTable(w, fs)
		return nil
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(toRows(fs))
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(toRows(fs))
	case formatGeoJSON:
		data, err := json.MarshalIndent(features.GeoJSON(fs), "", "  ")
		if err != nil {
			return fmt.Errorf("marshal geojson: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want one of %s)", format, strings.Join(locationFormats, ", "))
	}
}

func toRows(fs []features.Feature) []locationRow {
	rows := make([]locationRow, len(fs))
	for i, f := range fs {
		rows[i] = locationRow{
			Name:      f.Name,
			Tradition: f.Tradition,
			Place:     f.Place,
			Lat:       f.Latitude,
			Lon:       f.Longitude,
			UTCOffset: f.UTCOffset,
			Timezone:  f.TimezoneLabel,
		}
		if len(f.Buffer) > 0 {
			rows[i].Vertices = len(f.Buffer[0])
		}
	}
	return rows
}

func writeLocationTable(w io.Writer, fs []features.Feature) {
	name := lipgloss.NewStyle().Width(widest(fs, func(f features.Feature) string { return f.Name }) + 2)
	trad := lipgloss.NewStyle().Width(widest(fs, func(f features.Feature) string { return f.Tradition }) + 2)
	coord := lipgloss.NewStyle().Width(18)

	fmt.Fprintln(w, StyleTitle.Render(name.Render("NAME")+trad.Render("TRADITION")+coord.Render("LAT,LON")+"UTC"))
	for _, f := range fs {
		fmt.Fprintln(w,
			StyleValue.Render(name.Render(f.Name))+
				StyleDim.Render(trad.Render(f.Tradition))+
				coord.Render(fmt.Sprintf("%.2f,%.2f", f.Latitude, f.Longitude))+
				StyleNumber.Render(f.TimezoneLabel))
	}
}

func widest(fs []features.Feature, field func(features.Feature) string) int {
	n := 0
	for _, f := range fs {
		n = max(n, lipgloss.Width(field(f)))
	}
	return n
}

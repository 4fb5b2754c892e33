package observability

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestPrometheusRecords(t *testing.T) {
	ctx := context.Background()
	p := NewPrometheus()

	p.OnStageComplete(ctx, StageRender, 120*time.Millisecond, nil)
	p.OnStageComplete(ctx, StageWrite, time.Millisecond, errors.New("disk full"))
	p.OnBasemap(ctx, false, "timeout")
	p.OnCacheHit(ctx, "tile")
	p.OnCacheMiss(ctx, "tile")
	p.OnCacheMiss(ctx, "tile")
	p.OnCacheSet(ctx, "tile", 2048)
	p.OnResponse(ctx, "GET", "tiles.test", "/2/1/1.png", 500, 30*time.Millisecond)
	p.OnError(ctx, "GET", "tiles.test", "/2/1/2.png", errors.New("refused"))

	families, err := p.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	got := map[string]int{}
	for _, mf := range families {
		got[mf.GetName()] = len(mf.GetMetric())
	}

	tests := []struct {
		name   string
		series int
	}{
		{"santamap_stage_duration_seconds", 2},
		{"santamap_basemap_available", 1},
		{"santamap_cache_lookups_total", 2},
		{"santamap_cache_written_bytes_total", 1},
		{"santamap_http_responses_total", 1},
		{"santamap_http_errors_total", 1},
	}
	for _, tt := range tests {
		if got[tt.name] != tt.series {
			t.Errorf("%s: %d series, want %d", tt.name, got[tt.name], tt.series)
		}
	}

	for _, mf := range families {
		if mf.GetName() != "santamap_cache_lookups_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "result" && l.GetValue() == "miss" && m.GetCounter().GetValue() != 2 {
					t.Errorf("miss counter = %v, want 2", m.GetCounter().GetValue())
				}
			}
		}
	}
}

func TestPrometheusWriteTextfile(t *testing.T) {
	p := NewPrometheus()
	p.OnBasemap(context.Background(), true, "")

	path := filepath.Join(t.TempDir(), "santamap.prom")
	if err := p.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "santamap_basemap_available 1") {
		t.Errorf("textfile missing basemap gauge:\n%s", data)
	}
}

func TestPrometheusInstall(t *testing.T) {
	defer Reset()

	p := NewPrometheus()
	p.Install()
	if Pipeline() != PipelineHooks(p) || Cache() != CacheHooks(p) || HTTP() != HTTPHooks(p) {
		t.Error("Install should register p for every hook type")
	}
}

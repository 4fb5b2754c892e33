package buildinfo

import (
	"strings"
	"testing"
)

func TestUserAgent(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "v1.2.3"
	ua := UserAgent()
	if !strings.HasPrefix(ua, "santamap/v1.2.3 ") {
		t.Errorf("UserAgent() = %q, want santamap/v1.2.3 prefix", ua)
	}
}

func TestTemplate(t *testing.T) {
	tmpl := Template()
	if !strings.Contains(tmpl, "{{.Name}}") {
		t.Errorf("Template() should reference command name, got %q", tmpl)
	}
	if !strings.Contains(tmpl, Commit) {
		t.Errorf("Template() should include commit %q", Commit)
	}
}

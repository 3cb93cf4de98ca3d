package logging

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		level string
		debug bool
		info  bool
	}{
		{"debug", true, true},
		{"INFO", false, true},
		{"warn", false, false},
		{"bogus", false, true},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		lg := Plain(&buf, tt.level)
		lg.Debug("dbg")
		lg.Info("inf")
		out := buf.String()
		if got := strings.Contains(out, "dbg"); got != tt.debug {
			t.Errorf("%s: debug written = %v", tt.level, got)
		}
		if got := strings.Contains(out, "inf"); got != tt.info {
			t.Errorf("%s: info written = %v", tt.level, got)
		}
	}
}

func TestPlainFormat(t *testing.T) {
	var buf bytes.Buffer
	Plain(&buf, "info").Warn("value skipped", "name", "Kitsilano")
	out := buf.String()
	for _, want := range []string{"level=warn", "prefix=roomviz", "name=Kitsilano"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}

func TestFile(t *testing.T) {
	lg, c, err := File(filepath.Join(t.TempDir(), "roomviz.log"), "info")
	if err != nil {
		t.Fatal(err)
	}
	lg.Info("ready")
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
}

// SPDX-License-Identifier: GPL-2.0-or-later

package conlog

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"":      slog.LevelInfo,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v, want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Errorf("ParseLevel(loud) did not fail")
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "info", "json")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Debug("hidden")
	l.Info("loading bsp", "version", int32(46))
	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("output %q is not a single json object: %v", buf.String(), err)
	}
	if m["msg"] != "loading bsp" || m["version"] != float64(46) {
		t.Errorf("logged %v", m)
	}
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "warn", "text")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("hidden")
	l.Warn("odd version", "version", 12)
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "odd version") {
		t.Errorf("output %q", out)
	}
	if _, err := New(&buf, "info", "xml"); err == nil {
		t.Errorf("New with format xml did not fail")
	}
}

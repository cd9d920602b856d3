package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name, level, format string
		wantJSON, wantErr   bool
	}{
		{name: "auto on a buffer is json", level: "info", format: "auto", wantJSON: true},
		{name: "text", level: "debug", format: "text"},
		{name: "json", level: "warn", format: "JSON", wantJSON: true},
		{name: "bad level", level: "loud", format: "text", wantErr: true},
		{name: "bad format", level: "info", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log, err := New(&buf, tt.level, tt.format)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}

			log.Error("boom", "k", "v")
			line := strings.TrimSpace(buf.String())
			if got := json.Valid([]byte(line)); got != tt.wantJSON {
				t.Errorf("json output = %v for %q", got, line)
			}
		})
	}
}

func TestNew_level(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "warn", "text")
	if err != nil {
		t.Fatal(err)
	}
	log.Info("hidden")
	log.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("got %q", buf.String())
	}
}

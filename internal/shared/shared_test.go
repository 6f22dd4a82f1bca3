package shared

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	first := GenerateID()
	second := GenerateID()

	if first == "" {
		t.Fatal("expected a non-empty id")
	}
	if first == second {
		t.Errorf("expected unique ids, got %s twice", first)
	}
}

func TestGenerateState(t *testing.T) {
	state, err := GenerateState()
	if err != nil {
		t.Fatalf("failed to generate state: %v", err)
	}

	if len(state) < 32 {
		t.Errorf("expected at least 32 characters of state, got %d", len(state))
	}
	if strings.ContainsAny(state, "+/=") {
		t.Errorf("expected URL-safe encoding, got %q", state)
	}

	other, err := GenerateState()
	if err != nil {
		t.Fatalf("failed to generate second state: %v", err)
	}
	if state == other {
		t.Error("expected unique state tokens")
	}
}

func TestMarshalJSON(t *testing.T) {
	tc := []struct {
		name   string
		pretty bool
		want   string
	}{
		{
			name:   "compact",
			pretty: false,
			want:   `{"name":"Road Trip"}`,
		},
		{
			name:   "pretty",
			pretty: true,
			want:   "{\n  \"name\": \"Road Trip\"\n}",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalJSON(map[string]string{"name": "Road Trip"}, tt.pretty)
			if err != nil {
				t.Fatalf("failed to marshal: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("MarshalJSON() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("unmarshalable value", func(t *testing.T) {
		if _, err := MarshalJSON(make(chan int), false); err == nil {
			t.Error("expected error for channel value")
		}
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	logger.Info("rewinding tape")
	if !strings.Contains(buf.String(), "rewinding tape") {
		t.Errorf("expected log output in buffer, got %q", buf.String())
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tapedeck.log")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create file logger: %v", err)
	}

	logger.Info("session opened")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file should exist: %v", err)
	}
	if !strings.Contains(string(data), "session opened") {
		t.Errorf("expected log entry in file, got %q", data)
	}
}

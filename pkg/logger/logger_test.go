package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit_JSONWithService(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	log := Init(Options{Level: "debug", Output: &buf, Service: "session-service"})
	log.Debug().Str("client_id", "c1").Msg("restored")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if entry["service"] != "session-service" || entry["client_id"] != "c1" || entry["level"] != "debug" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestInit_Singleton(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	first := Init(Options{Level: "warn", Output: &bytes.Buffer{}})
	second := Init(Options{Level: "debug", Output: &bytes.Buffer{}})
	if first.GetLevel() != zerolog.WarnLevel || second.GetLevel() != zerolog.WarnLevel {
		t.Fatalf("only the first Init must take effect")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		" DEBUG ": zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

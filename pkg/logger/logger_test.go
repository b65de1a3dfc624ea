package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		" DEBUG ": zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q): expected %s, got %s", in, want, got)
		}
	}
}

func TestComponent_TagsOutput(t *testing.T) {
	Reset()
	defer Reset()

	var buf bytes.Buffer
	Init(Options{Level: "info", Output: &buf})
	l := Component("session")
	l.Info().Msg("hello")

	if !strings.Contains(buf.String(), `"component":"session"`) {
		t.Fatalf("expected component field, got %s", buf.String())
	}
}

func TestComponent_BeforeInitIsNop(t *testing.T) {
	Reset()
	l := Component("x")
	l.Info().Msg("dropped")
}

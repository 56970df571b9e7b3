// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Level != "info" {
		t.Errorf("expected default level 'info', got '%s'", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("expected default format 'json', got '%s'", cfg.Format)
	}
	if !cfg.Timestamp {
		t.Error("expected default timestamp to be true")
	}
	if cfg.Output == nil {
		t.Error("expected default output to be set")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"ERROR", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

// Init mutates package globals, so these tests do not run in parallel.
func TestInit(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "json", Timestamp: true, Output: &buf})
	t.Cleanup(func() { Init(Config{Level: "info", Format: "json", Timestamp: true}) })

	Info().Str("kind", "deposit").Msg("catalog synced")
	Err(errors.New("boom")).Msg("sync failed")

	out := buf.String()
	for _, want := range []string{`"message":"catalog synced"`, `"kind":"deposit"`, `"level":"info"`, `"error":"boom"`, `"time":`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in output, got: %s", want, out)
		}
	}
}

func TestInitConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "console", Output: &buf})
	t.Cleanup(func() { Init(Config{Level: "info", Format: "json", Timestamp: true}) })

	Warn().Msg("human readable")

	out := buf.String()
	if strings.Contains(out, `"message"`) {
		t.Errorf("console output should not be JSON, got: %s", out)
	}
	if !strings.Contains(out, "human readable") {
		t.Errorf("expected message in console output, got: %s", out)
	}
}

func TestSetLoggerAndWith(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(NewTestLogger(&buf))
	t.Cleanup(func() { Init(Config{Level: "info", Format: "json", Timestamp: true}) })

	child := With().Str("component", "recommend").Logger()
	child.Info().Msg("scored")

	if !strings.Contains(buf.String(), `"component":"recommend"`) {
		t.Errorf("expected component field, got: %s", buf.String())
	}

	buf.Reset()
	c := WithComponent("exchange")
	c.Info().Msg("rates")
	if !strings.Contains(buf.String(), `"component":"exchange"`) {
		t.Errorf("expected component field, got: %s", buf.String())
	}
}

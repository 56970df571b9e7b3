// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSanitizeField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "alice", "alice"},
		{"korean", "김철수", "김철수"},
		{"newline injection", "bob\n{\"level\":\"error\"}", "bob{\"level\":\"error\"}"},
		{"truncated", strings.Repeat("a", 70), strings.Repeat("a", 64) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeField(tt.input); got != tt.want {
				t.Errorf("SanitizeField(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAuditAuth(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), zerolog.New(&buf).Level(zerolog.TraceLevel))

	AuditAuth(ctx, AuthEventLoginFailure, "mallory\r\n", "10.0.0.1", "bad password")

	out := buf.String()
	for _, want := range []string{
		`"level":"warn"`,
		`"audit":"auth"`,
		`"event":"login_failure"`,
		`"username":"mallory"`,
		`"remote_addr":"10.0.0.1"`,
		`"reason":"bad password"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in output, got: %s", want, out)
		}
	}
}

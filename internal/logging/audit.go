// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package logging

import (
	"context"
	"strings"
	"unicode"
)

// AuthEvent identifies an account lifecycle event written to the audit log.
type AuthEvent string

const (
	AuthEventSignup        AuthEvent = "signup"
	AuthEventLoginSuccess  AuthEvent = "login_success"
	AuthEventLoginFailure  AuthEvent = "login_failure"
	AuthEventLogout        AuthEvent = "logout"
	AuthEventTokenRejected AuthEvent = "token_rejected"
	AuthEventAccessDenied  AuthEvent = "access_denied"
)

// maxAuditField bounds user-supplied strings in audit records.
const maxAuditField = 64

// AuditAuth writes a structured audit record for an authentication event.
// Username and reason are user controlled and are sanitized before logging.
func AuditAuth(ctx context.Context, event AuthEvent, username, remoteAddr, reason string) {
	logger := Ctx(ctx)
	e := logger.Info()
	switch event {
	case AuthEventLoginFailure, AuthEventTokenRejected, AuthEventAccessDenied:
		e = logger.Warn()
	}

	e = e.Str("audit", "auth").
		Str("event", string(event)).
		Str("username", SanitizeField(username)).
		Str("remote_addr", remoteAddr)
	if reason != "" {
		e = e.Str("reason", SanitizeField(reason))
	}
	e.Msg("Authentication event")
}

// SanitizeField strips control characters and truncates s so that a
// client-supplied value cannot forge extra log lines.
func SanitizeField(s string) string {
	var b strings.Builder
	n := 0
	for _, r := range s {
		if n >= maxAuditField {
			b.WriteString("...")
			break
		}
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

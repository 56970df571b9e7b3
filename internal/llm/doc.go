// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

/*
Package llm provides a minimal client for OpenAI-compatible chat completion APIs.

Two features depend on it: the dynamic questionnaire (question generation) and
recommendation explanations. Both treat the LLM as best-effort and fall back to
static content on any error, so the client never retries and is wrapped in a
circuit breaker that fails fast while the upstream is unhealthy.

When no API key is configured, FromConfig returns Disabled, whose Complete
always fails with ErrDisabled.

Usage:

	completer := llm.FromConfig(&cfg.LLM)
	out, err := completer.Complete(ctx, llm.ChatRequest{
	    System: "You write short explanations.",
	    User:   prompt,
	    JSON:   true,
	})
*/
package llm

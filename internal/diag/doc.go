// Package diag defines the diagnostic model shared by the verification pass
// and its consumers.
//
// # Purpose
//
//   - Provide deterministic, serialisable records capturing findings produced
//     by the semantic verifier.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting layers.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; short and actionable.
//   - Args – the raw message arguments, retained so caches and renderers can
//     rebuild the message without re-running the pass.
//   - Primary span – exactly one canonical source.Span pointing at the issue.
//   - Notes – optional secondary spans for additional context.
//
// Diagnostics are immutable once created: producers build them fully and hand
// them to a Reporter; nothing mutates them afterwards.
//
// # Emitting diagnostics
//
// The verifier emits through diag.Reporter to stay decoupled from storage.
// BagReporter aggregates into a Bag per compilation unit; bags from
// independently verified units are merged afterwards in a deterministic
// order. Within one unit the Add order is the traversal order and is
// significant.
//
// # Consumers
//
//   - internal/diagfmt: renders diagnostics for humans.
//   - internal/driver: collects per-unit bags, applies severity overrides and
//     persists serialised diagnostics in the disk cache.
package diag

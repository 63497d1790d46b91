// Package statemachine provides a small finite state machine split into an
// immutable Definition, built once and shared, and a Run that tracks one
// traversal of it.
//
// A Definition is safe for concurrent use. A Run is not; each request or job
// starts its own:
//
//	def := statemachine.MustDefine("pending",
//		statemachine.Transition{From: "pending", Event: "submit", To: "review"},
//		statemachine.Transition{From: "review", Event: "approve", To: "done"},
//	)
//	run := def.Start()
//	if err := run.Fire(ctx, "submit"); err != nil { ... }
//
// Hooks registered with WithHook observe every accepted transition and may
// veto it by returning an error.
package statemachine

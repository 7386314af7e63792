// Package schedule provides the recomputation scheduling policy.
//
// Grid recomputation is deliberately lazy: history mutations arrive in
// bursts (a browsing session produces many visits in quick succession),
// and recomputing after each one wastes work whose output is
// immediately superseded. The Debouncer coalesces a burst of triggers
// into a single execution on the trailing edge of a quiet period.
//
// The policy lives in its own package, separate from the ranking
// engine, so callers that need immediate recomputation (the CLI's
// one-shot rank command) can bypass it entirely while long-running
// watchers route every change through it.
package schedule

// Package pipeline provides a framework for executing ranking steps in
// sequence.
//
// A grid recomputation runs through multiple stages: candidate
// filtering, ranking, domain deduplication, and grid composition. Each
// stage is implemented as a Step that receives the shared Computation
// carrier and can modify it.
//
// Design decision: We use a pipeline pattern instead of direct function
// calls because:
// 1. It allows easy addition/removal of steps without modifying core logic
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context between stages
// 4. It keeps each ranking stage independently testable
package pipeline

// Package trace records engine runs and replays them.
//
// The Recorder observes the engine's inbound feeds and outbound
// resolutions into bounded in-memory buffers; the resolution buffer is a
// fixed ring because that observation sits on the resolve hot path and
// must not allocate. Flush persists a run into a SQLite store for offline
// inspection.
//
// Replay re-feeds a recorded run through a fresh engine and verifies the
// resolutions come out identical. It is the operational form of the
// engine's determinism contract: same snapshot, same input, same answer.
// Nothing in this package is ever consulted by the engine itself.
package trace

// Package combat provides the shared identifier and bitset types for the
// resolution engine.
//
// This package contains type definitions only. All other internal packages
// import combat; combat imports nothing internal. This keeps it the
// foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Identifiers are fixed-width integers, never strings, so the hot path
//     stays allocation-free
//   - Flag sets are plain bitmasks with named bits; no maps on the hot path
//   - The remaining-seconds sentinel is defined here once and compared
//     exactly, never through arithmetic
package combat

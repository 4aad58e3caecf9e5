// Package rules implements the priority rule chains and the auxiliary
// suggestion rules that turn a trigger action into a resolved action.
//
// ARCHITECTURE:
//
// Declaration-Order Evaluation:
// A chain is an ordered list of condition/result rules claiming a set of
// input actions. Evaluation walks the list top to bottom; the first rule
// whose predicate holds wins. Order never changes after registration, so
// the same snapshot always produces the same resolution.
//
// Fail-Open Faults:
// A predicate or resolver that panics is treated as "did not match" and
// evaluation continues with the next rule. One malformed rule must never
// block a chain; the terminal fallback guarantees the original input comes
// back when nothing matches.
//
// Static Registration:
// Chains and auxiliary rules are registered from a static table at startup.
// There is no runtime discovery; what the registry holds is the complete
// rule surface, filtered per job by the external enablement profile.
package rules

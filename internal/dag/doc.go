// Package dag is the evaluation layer of a sheet. It keeps one node per cell
// in an arena addressed by NodeID, records input edges together with their
// inverse dependent edges, and computes node outputs lazily.
//
// Evaluation is pull-based: reading a node's Output computes and caches it,
// then clears the caches of its dependents so they recompute on their next
// read. Invalidate clears a cached output and fans out to every transitive
// dependent that still holds one.
//
// A Graph is not safe for concurrent use.
package dag

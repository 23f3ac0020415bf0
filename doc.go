// Package appstate implements a process-wide, scope-addressed value cache that
// backs several state flavors (in-memory, preference-, cloud-, file- and
// secure-store-backed) and a dependency registry with temporary overrides.
//
// Components:
//   - Scope: (name, id) pair; Scope.Key() = name + "/" + id is the only address.
//   - Store: one mutex-guarded map of type-erased values plus per-key generations.
//   - Value[T]: tiered read (cache, durable provider, default) with deferred
//     write-back on miss. Every state flavor is a Value[T] with a different
//     provider.
//   - Dependency[T]: get-or-create registry entry with single-slot overrides.
//   - Slice, Constant, OptionalSlice, OptionalFieldSlice, Path: projections
//     over a parent value that keep no storage of their own.
//
// Keys:
//
//	<name>/<id>                              - named scopes
//	<name>/<file>_<function>_<line>_<column> - call-site scopes (SiteScope)
//
// Write-back:
//
//	v := counter.Get() // miss: resolved from durable tier or default
//	                   // and committed to the Store later on the App's Executor,
//	                   // only if no Set/Remove touched the key in between.
//
// Compound updates (read, compute, write) are not atomic. Route them through
// App.Executor().Do to serialize them.
package appstate

/*
Package types provides the core interfaces and data structures shared across SynthFS.

This package establishes the contract between the virtual namespace (the pure
decision engine) and the FUSE protocol adapters that surface it:

	┌─────────────────────────────────────────────┐
	│              FUSE Interface                 │
	│         (cmd/synthfs, internal/fuse)        │
	└─────────────────────────────────────────────┘
	                      │
	              Namespace interface
	                      │
	┌─────────────────────────────────────────────┐
	│           Virtual Namespace Core            │
	│      (internal/shape, internal/virtual)     │
	└─────────────────────────────────────────────┘

The Namespace interface is deliberately tiny: four pure queries (attributes,
listing, open check, ranged read), each a deterministic function of the path
string. The adapter owns everything stateful (mount lifecycle, kernel
caching hints, operation counters) and depends on the core only through
this interface, which keeps the core testable without a FUSE runtime.
*/
package types

// Package catalog maps displayed type names to layout specs.
//
// A Catalog holds an ordered list of families, each a (pattern,
// parameter parser, layout builder) triple. Resolution walks the
// families in registration order, parses generic parameters (element
// type token, inline capacity) out of the matched name, builds the
// family's layout spec for the session's target platform, validates it,
// and caches the result per distinct type name.
//
// Built-in families:
//
//	smol_str::SmolStr          exact match, 24-byte nested-union tag
//	smallvec::SmallVec<T, N>   regex match, tagged length word
//
// New families register the same way the built-ins do; the resolver
// never changes. The exact bit encoding of each family's discriminant
// is data in the builder and must be verified against the container
// version actually being inspected.
package catalog

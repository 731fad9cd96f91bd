// Package layout describes the possible internal representations of a
// space-optimized container type and resolves which one is active.
//
// A Spec carries the value's total size, a discriminant Strategy, and
// an ordered list of VariantSpecs. Three strategies exist:
//
//	TagByte         one masked byte mapped through a range table
//	PointerRangeTag a pointer classified against the value's own address range
//	NestedUnionTag  a coarse strategy refined per outcome by a second level
//
// Strategies are data, not code: which bits of which byte select a
// variant differs between container versions, so catalog builders
// assemble the right strategy per family instead of this package
// hard-coding one encoding.
//
// Resolution reads only the bytes the strategy declares and never
// depends on variant-specific fields. An unmatched tag value fails
// with an unknown-discriminant error rather than defaulting.
package layout

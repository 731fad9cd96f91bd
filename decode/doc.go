// Package decode extracts a resolved variant's fields from raw bytes.
//
// Given the value's primary byte span and the VariantSpec the layout
// package resolved, Extract slices each declared field and decodes it
// per its kind: fixed-width unsigned integers (platform endianness),
// booleans, pointer values, inline text clamped to its declared
// capacity, and pointer-backed text fetched with a bounded secondary
// read through the memory source.
//
// Failure is contained per field: a degraded field renders as the
// Unavailable marker while the variant name and remaining fields stay
// inspectable. Whole-value failures belong to the layers above
// (unknown discriminants, unresolvable type names).
package decode

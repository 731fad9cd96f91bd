// Package errors provides structured error types for the hexlens library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, displayed type name, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindFieldDecode).
//		Path("content").
//		Detail("backing storage unreadable").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnsupportedType("std::collections::HashMap")
//	err := errors.UnknownDiscriminant(path, 0xfe)
//
// All errors implement the standard error interface and support errors.Is/As.
// Resolution and discriminant errors abort a decode for the whole value;
// decode-phase errors degrade a single field and leave the rest usable.
package errors

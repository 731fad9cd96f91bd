// Package hexlens decodes space-optimized container types from raw
// process memory for debugger display.
//
// Small-object-optimized containers (small-string types, small-vector
// types) hide their active representation behind discriminant bits,
// pointer tagging, or generic capacity parameters baked into the type
// name. This library determines which representation ("variant") is
// active for a given byte span, extracts the variant's logical fields
// with correct offsets and interpretations, and renders a one-line
// summary plus a lazy child tree an inspection host can display.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	hexlens/          Root package with the Memory source interface and platform facts
//	├── layout/       Layout specs, discriminant strategies, variant resolution
//	├── decode/       Field extraction and per-field rendering
//	├── catalog/      Type-name pattern matching and built-in container families
//	├── tree/         Lazy, invalidatable child trees and summaries
//	├── registry/     Host-facing registration surface
//	├── memsource/    Memory source implementations (captured images, WASM guests)
//	└── errors/       Structured error types for debugging
//
// # Quick Start
//
// Summarize a value from a captured image:
//
//	src := memsource.NewBuffer(0x7fff0000, imageBytes)
//	cat := catalog.New(hexlens.AMD64)
//
//	h := hexlens.ValueHandle{Addr: 0x7fff0040, TypeName: "smol_str::SmolStr"}
//	s, err := registry.Default(cat).Summarize(h, src)
//	fmt.Println(s) // "hello"
//
// # Decoding Model
//
// A decode is a pure function of (bytes read, layout spec): the
// catalog resolves the displayed type name to a cached layout, the
// resolver reads only the discriminant bytes, the extractor reads the
// active variant's fields, and the tree builder renders them. Field
// level failures (unreadable backing storage, invalid text) degrade
// the single field to an explicit unavailable marker; the variant name
// and remaining fields stay usable.
//
// # Thread Safety
//
// Catalog and Registry are safe for concurrent use after construction.
// A tree.Node caches decoded state and is NOT thread-safe; use one per
// host-side value, or synchronize access.
package hexlens

// Package memsource provides Memory source implementations.
//
// Buffer serves a captured image (core dump slice, test fixture)
// mapped at a fixed base address. Guest adapts a wazero linear memory
// so values inside a wasm32 guest can be decoded in place. Both fail
// reads that touch unmapped ranges; neither ever writes.
package memsource

// Package registry is the boundary between the decoding core and the
// inspection host.
//
// A Registry maps type name patterns (exact strings or regular
// expressions over the displayed name, generics included) to a summary
// entry point and an optional child-tree entry point, keyed to a
// stable category identifier. It holds no global state: the
// integration layer enumerates Providers at its own startup and
// performs the actual registration calls into whatever host it serves.
//
// Default wires the catalog's built-in families to a shared node cache
// whose Invalidate/InvalidateAll operations the integration layer
// calls when the host signals that process state may have advanced.
package registry

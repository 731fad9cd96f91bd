// Package tree assembles decoded values into the uniform child tree
// an inspection host displays.
//
// Every tree starts with a synthetic "variant" child naming the
// active representation, followed by the variant's fields in declared
// order and, for sequence families, the rendered elements. Trees are
// lazy (nothing is read until the host asks) and explicitly
// invalidatable: Update on a Node, or Invalidate on the Cache, drops
// decoded state so the next access observes the process's current
// memory.
package tree

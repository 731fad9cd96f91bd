package tree

import (
	hexlens "github.com/hexlens/hexlens"
	"github.com/hexlens/hexlens/catalog"
	"github.com/hexlens/hexlens/decode"
	"github.com/hexlens/hexlens/errors"
	"github.com/hexlens/hexlens/layout"
)

// Child is one named, rendered sub-value of a decoded instance.
type Child struct {
	Name  string
	Value string
	Err   error
}

// Node exposes one value's decoded state as an indexable child tree.
//
// Population is lazy: nothing is read from the memory source until the
// host asks for the summary or a child, and the decoded state is kept
// only until Update signals that the underlying process may have
// advanced. A Node is not safe for concurrent use.
type Node struct {
	handle hexlens.ValueHandle
	mem    hexlens.Memory
	entry  *catalog.Entry
	view   layout.View

	populated bool
	decoded   *decode.Value
	children  []Child
	err       error
}

// NewNode builds an unpopulated node. The entry must come from the
// same catalog that carries the session's platform facts.
func NewNode(h hexlens.ValueHandle, mem hexlens.Memory, entry *catalog.Entry, platform hexlens.Platform) *Node {
	return &Node{
		handle: h,
		mem:    mem,
		entry:  entry,
		view:   layout.View{Addr: h.Addr, Platform: platform},
	}
}

func (n *Node) populate() {
	if n.populated {
		return
	}
	n.populated = true
	n.decoded = nil
	n.children = nil
	n.err = nil

	spec := n.entry.Spec
	b, err := n.mem.Read(n.handle.Addr, spec.Size)
	if err != nil {
		n.err = errors.MemoryRead(n.handle.Addr, spec.Size, err)
		return
	}
	if uint32(len(b)) < spec.Size {
		n.err = errors.MemoryRead(n.handle.Addr, spec.Size, nil)
		return
	}

	idx, variant, err := spec.ResolveVariant(b, n.view)
	if err != nil {
		n.err = err
		return
	}
	n.decoded = decode.Extract(b, spec, idx, variant, n.view, n.mem)

	n.children = append(n.children, Child{Name: "variant", Value: n.decoded.Variant})
	for i := range n.decoded.Fields {
		f := &n.decoded.Fields[i]
		n.children = append(n.children, Child{
			Name:  f.Spec.Name,
			Value: f.Render(),
			Err:   f.Err,
		})
	}

	if n.entry.Elements != nil {
		elems, err := n.entry.Elements(b, n.decoded, n.view, n.mem)
		if err != nil {
			n.children = append(n.children, Child{Name: "elements", Value: decode.Unavailable, Err: err})
			return
		}
		for _, e := range elems {
			n.children = append(n.children, Child(e))
		}
	}
}

// Summary renders the family's one-line summary for this value.
func (n *Node) Summary() (string, error) {
	n.populate()
	if n.err != nil {
		return "", n.err
	}
	return n.entry.Summarize(n.decoded), nil
}

// NumChildren returns the size of the child list, decoding on first
// access. Whole-value failures (unreadable primary span, unknown
// discriminant) surface here rather than per child.
func (n *Node) NumChildren() (int, error) {
	n.populate()
	if n.err != nil {
		return 0, n.err
	}
	return len(n.children), nil
}

// ChildAtIndex returns the i-th child: the synthetic variant label
// first, then the variant's fields in declared order, then sequence
// elements when the family has them.
func (n *Node) ChildAtIndex(i int) (Child, error) {
	n.populate()
	if n.err != nil {
		return Child{}, n.err
	}
	if i < 0 || i >= len(n.children) {
		return Child{}, errors.New(errors.PhaseRender, errors.KindOutOfBounds).
			Detail("child index %d out of range (%d children)", i, len(n.children)).
			Build()
	}
	return n.children[i], nil
}

// Update discards all decoded state. The host calls this whenever the
// underlying process may have advanced; the next access re-reads and
// re-decodes.
func (n *Node) Update() {
	n.populated = false
	n.decoded = nil
	n.children = nil
	n.err = nil
}

// Handle returns the value identity this node was built for.
func (n *Node) Handle() hexlens.ValueHandle {
	return n.handle
}

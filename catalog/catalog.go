package catalog

import (
	"regexp"
	"sync"

	"go.uber.org/zap"

	hexlens "github.com/hexlens/hexlens"
	"github.com/hexlens/hexlens/decode"
	"github.com/hexlens/hexlens/errors"
	"github.com/hexlens/hexlens/layout"
)

// Element is one rendered sequence element for the child tree.
type Element struct {
	Name  string
	Value string
	Err   error
}

// Entry binds a resolved type name to its layout and family-specific
// rendering. Entries are immutable once built and cached for the
// catalog's lifetime.
type Entry struct {
	TypeName string
	Family   string
	Spec     *layout.Spec

	// Summarize renders the family's one-line summary.
	Summarize func(v *decode.Value) string

	// Elements enumerates sequence elements for families that have
	// them; nil for scalar families. b is the value's primary span.
	Elements func(b []byte, v *decode.Value, view layout.View, mem hexlens.Memory) ([]Element, error)
}

// Family is one registered (pattern, parameter parser, layout builder)
// triple. Exact takes precedence when set; otherwise Pattern matches
// the displayed type name and its submatches become the generic
// parameters handed to Build.
type Family struct {
	Name    string
	Exact   string
	Pattern *regexp.Regexp
	Build   func(typeName string, params []string, platform hexlens.Platform) (*Entry, error)
}

// Catalog resolves displayed type names to layout entries. Families
// are consulted in registration order; the first match wins. Resolved
// entries are cached per distinct type name for the catalog's
// lifetime, so concurrent decode requests share read-only specs.
type Catalog struct {
	platform hexlens.Platform
	families []Family

	mu    sync.Mutex
	cache map[string]*Entry
}

// New builds a catalog for one target platform with the built-in
// families (small-string and small-vector) registered.
func New(platform hexlens.Platform) *Catalog {
	c := &Catalog{
		platform: platform,
		cache:    make(map[string]*Entry),
	}
	c.mustRegister(smolStrFamily())
	c.mustRegister(smallVecFamily())
	return c
}

// Register appends a family. Families registered earlier win ties.
func (c *Catalog) Register(f Family) error {
	if f.Exact == "" && f.Pattern == nil {
		return errors.InvalidSpec(f.Name, "family without exact name or pattern")
	}
	if f.Build == nil {
		return errors.InvalidSpec(f.Name, "family without layout builder")
	}
	c.families = append(c.families, f)
	Logger().Debug("registered family",
		zap.String("family", f.Name),
		zap.String("exact", f.Exact))
	return nil
}

func (c *Catalog) mustRegister(f Family) {
	if err := c.Register(f); err != nil {
		panic(err)
	}
}

// Platform returns the target facts this catalog was built for.
func (c *Catalog) Platform() hexlens.Platform {
	return c.platform
}

// Resolve maps a displayed type name to its entry, building and
// caching the layout on first use. Unmatched names fail with an
// unsupported-type error the host treats as "fall back to default
// rendering".
func (c *Catalog) Resolve(typeName string) (*Entry, error) {
	c.mu.Lock()
	if e, ok := c.cache[typeName]; ok {
		c.mu.Unlock()
		return e, nil
	}
	c.mu.Unlock()

	for _, f := range c.families {
		var params []string
		switch {
		case f.Exact != "":
			if f.Exact != typeName {
				continue
			}
		case f.Pattern != nil:
			m := f.Pattern.FindStringSubmatch(typeName)
			if m == nil {
				continue
			}
			params = m[1:]
		}

		e, err := f.Build(typeName, params, c.platform)
		if err != nil {
			return nil, err
		}
		if err := e.Spec.Validate(); err != nil {
			return nil, err
		}
		e.Family = f.Name

		c.mu.Lock()
		c.cache[typeName] = e
		c.mu.Unlock()

		Logger().Debug("resolved type",
			zap.String("type", typeName),
			zap.String("family", f.Name),
			zap.Uint32("size", e.Spec.Size))
		return e, nil
	}

	return nil, errors.UnsupportedType(typeName)
}

package registry

import (
	"regexp"

	"go.uber.org/zap"

	hexlens "github.com/hexlens/hexlens"
	"github.com/hexlens/hexlens/catalog"
	"github.com/hexlens/hexlens/decode"
	"github.com/hexlens/hexlens/errors"
	"github.com/hexlens/hexlens/tree"
)

// Category is the stable group identifier the integration layer
// registers providers under in the host.
const Category = "rust"

// SummaryFunc renders a one-line summary for a value, or fails with an
// error the host shows as its unavailable sentinel.
type SummaryFunc func(h hexlens.ValueHandle, mem hexlens.Memory) (string, error)

// NodeFunc produces the child-tree entry point for a value.
type NodeFunc func(h hexlens.ValueHandle, mem hexlens.Memory) (*tree.Node, error)

// Provider binds one type name pattern to its entry points. Children
// is optional; summary-only providers are valid.
type Provider struct {
	Pattern  string
	Regex    bool
	Category string
	Summary  SummaryFunc
	Children NodeFunc

	re *regexp.Regexp
}

// Matches reports whether the provider covers the displayed type name.
func (p *Provider) Matches(typeName string) bool {
	if p.Regex {
		return p.re.MatchString(typeName)
	}
	return p.Pattern == typeName
}

// Registry is the side-effect-free registration surface this core
// exposes. The integration layer reads Providers at its own startup
// and performs the actual host registration calls; nothing here
// mutates global state at load time.
type Registry struct {
	providers []*Provider
	cache     *tree.Cache
}

func New() *Registry {
	return &Registry{}
}

// Register appends a provider. Providers registered earlier win when
// several patterns cover the same name.
func (r *Registry) Register(p Provider) error {
	if p.Pattern == "" {
		return errors.InvalidSpec("", "provider without pattern")
	}
	if p.Summary == nil {
		return errors.InvalidSpec(p.Pattern, "provider without summary entry point")
	}
	if p.Regex {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return errors.New(errors.PhaseRegister, errors.KindInvalidSpec).
				Detail("pattern %q: %v", p.Pattern, err).
				Build()
		}
		p.re = re
	}
	if p.Category == "" {
		p.Category = Category
	}
	r.providers = append(r.providers, &p)
	Logger().Debug("registered provider",
		zap.String("pattern", p.Pattern),
		zap.Bool("regex", p.Regex),
		zap.String("category", p.Category))
	return nil
}

// Providers returns the registered providers in registration order.
func (r *Registry) Providers() []*Provider {
	return r.providers
}

// Lookup resolves a displayed type name to its provider in
// registration order.
func (r *Registry) Lookup(typeName string) (*Provider, bool) {
	for _, p := range r.providers {
		if p.Matches(typeName) {
			return p, true
		}
	}
	return nil, false
}

// Summarize dispatches the summary entry point for h. An unmatched
// type name fails with an unsupported-type error so the host can fall
// back to its default rendering.
func (r *Registry) Summarize(h hexlens.ValueHandle, mem hexlens.Memory) (string, error) {
	p, ok := r.Lookup(h.TypeName)
	if !ok {
		return "", errors.UnsupportedType(h.TypeName)
	}
	return p.Summary(h, mem)
}

// Node dispatches the child-tree entry point for h.
func (r *Registry) Node(h hexlens.ValueHandle, mem hexlens.Memory) (*tree.Node, error) {
	p, ok := r.Lookup(h.TypeName)
	if !ok || p.Children == nil {
		return nil, errors.UnsupportedType(h.TypeName)
	}
	return p.Children(h, mem)
}

// Default builds a registry covering cat's built-in families, backed
// by a shared node cache the returned registry's entry points reuse
// across requests. Invalidate the cache through the registry when the
// host reports process state changes.
func Default(cat *catalog.Catalog) *Registry {
	r := New()
	cache := tree.NewCache()

	summary := func(h hexlens.ValueHandle, mem hexlens.Memory) (string, error) {
		entry, err := cat.Resolve(h.TypeName)
		if err != nil {
			return "", err
		}
		return cache.Node(h, mem, entry, cat.Platform()).Summary()
	}
	children := func(h hexlens.ValueHandle, mem hexlens.Memory) (*tree.Node, error) {
		entry, err := cat.Resolve(h.TypeName)
		if err != nil {
			return nil, err
		}
		return cache.Node(h, mem, entry, cat.Platform()), nil
	}

	// Registration mirrors the supported families: the string family
	// by exact name, the vector family by pattern over its generics.
	must(r.Register(Provider{
		Pattern:  "smol_str::SmolStr",
		Summary:  summary,
		Children: children,
	}))
	must(r.Register(Provider{
		Pattern:  `^smallvec::SmallVec<.+>$`,
		Regex:    true,
		Summary:  summary,
		Children: children,
	}))

	r.cache = cache
	return r
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// SummarizeOrFallback renders h's summary, substituting the host's
// unavailable sentinel for any failure.
func (r *Registry) SummarizeOrFallback(h hexlens.ValueHandle, mem hexlens.Memory) string {
	s, err := r.Summarize(h, mem)
	if err != nil {
		return decode.Unavailable
	}
	return s
}

// Invalidate drops cached decoded state for h, if this registry owns a
// node cache.
func (r *Registry) Invalidate(h hexlens.ValueHandle) {
	if r.cache != nil {
		r.cache.Invalidate(h)
	}
}

// InvalidateAll drops all cached decoded state.
func (r *Registry) InvalidateAll() {
	if r.cache != nil {
		r.cache.InvalidateAll()
	}
}

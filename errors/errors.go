package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseResolve      Phase = "resolve"      // type name to layout resolution
	PhaseDiscriminant Phase = "discriminant" // active variant determination
	PhaseDecode       Phase = "decode"       // field extraction
	PhaseRead         Phase = "read"         // memory source access
	PhaseRender       Phase = "render"       // summary / child tree rendering
	PhaseRegister     Phase = "register"     // catalog / registry construction
)

// Kind categorizes the error
type Kind string

const (
	KindUnsupportedType     Kind = "unsupported_type"
	KindUnknownDiscriminant Kind = "unknown_discriminant"
	KindMemoryRead          Kind = "memory_read"
	KindFieldDecode         Kind = "field_decode"
	KindOutOfBounds         Kind = "out_of_bounds"
	KindInvalidUTF8         Kind = "invalid_utf8"
	KindOverflow            Kind = "overflow"
	KindInvalidSpec         Kind = "invalid_spec"
	KindInvalidInput        Kind = "invalid_input"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	TypeName string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.TypeName != "" {
		b.WriteString(": type ")
		b.WriteString(e.TypeName)
	}

	if e.Detail != "" {
		if e.TypeName != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// TypeName sets the displayed type name
func (b *Builder) TypeName(t string) *Builder {
	b.err.TypeName = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// UnsupportedType creates an error for a type name no catalog entry matches.
// The host falls back to its default rendering on this error.
func UnsupportedType(typeName string) *Error {
	return &Error{
		Phase:    PhaseResolve,
		Kind:     KindUnsupportedType,
		TypeName: typeName,
		Detail:   "no matching catalog entry",
	}
}

// UnknownDiscriminant creates an error for bytes that match no known
// variant tag. This aborts the whole decode for the value.
func UnknownDiscriminant(path []string, tag uint64) *Error {
	return &Error{
		Phase:  PhaseDiscriminant,
		Kind:   KindUnknownDiscriminant,
		Path:   path,
		Detail: fmt.Sprintf("tag value 0x%x matches no variant", tag),
		Value:  tag,
	}
}

// MemoryRead creates an error for an unreadable address range
func MemoryRead(addr uint64, length uint32, cause error) *Error {
	return &Error{
		Phase:  PhaseRead,
		Kind:   KindMemoryRead,
		Detail: fmt.Sprintf("read %d bytes at 0x%x", length, addr),
		Cause:  cause,
	}
}

// FieldDecode creates a field-level error that degrades a single field
func FieldDecode(path []string, detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindFieldDecode,
		Path:   path,
		Detail: detail,
		Cause:  cause,
	}
}

// OutOfBounds creates an error for a field slice outside the value's span
func OutOfBounds(path []string, offset, length, total uint32) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("field [%d, %d) outside value of %d bytes", offset, offset+length, total),
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(path []string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidUTF8,
		Path:   path,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// Overflow creates an error for a decoded length exceeding its capacity
func Overflow(path []string, length, capacity uint64) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindOverflow,
		Path:   path,
		Detail: fmt.Sprintf("length %d exceeds capacity %d", length, capacity),
		Value:  length,
	}
}

// InvalidSpec creates an error for a malformed layout description
func InvalidSpec(typeName, detail string) *Error {
	return &Error{
		Phase:    PhaseRegister,
		Kind:     KindInvalidSpec,
		TypeName: typeName,
		Detail:   detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

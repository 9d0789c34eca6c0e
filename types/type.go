// Package types implements the small algebra of JVM types and method
// identifiers shared by the mapping-format parsers, the mapper, and the
// stack-trace rewriter.
package types

import "strings"

// Kind distinguishes the variants of Type.
type Kind int

const (
	Void Kind = iota
	Boolean
	Byte
	Char
	Short
	Int
	Long
	Float
	Double
	Object
	Array
)

// Type is a sum over JVM value types. Zero value is Void.
//
// Object carries a qualified name using "." as the package separator;
// slashes from wire formats must be normalized to dots before constructing
// one. Array carries a pointer to its element Type.
type Type struct {
	Kind Kind
	// Name is the qualified name, valid only when Kind == Object.
	Name string
	// Elem is the element type, valid only when Kind == Array.
	Elem *Type
}

var primitiveNames = map[string]Kind{
	"void":    Void,
	"boolean": Boolean,
	"byte":    Byte,
	"char":    Char,
	"short":   Short,
	"int":     Int,
	"long":    Long,
	"float":   Float,
	"double":  Double,
}

var primitiveKeywords = map[Kind]string{
	Void:    "void",
	Boolean: "boolean",
	Byte:    "byte",
	Char:    "char",
	Short:   "short",
	Int:     "int",
	Long:    "long",
	Float:   "float",
	Double:  "double",
}

// FromSourceName parses a dot-separated, bracket-suffixed source type name
// such as "int", "java.lang.String", or "java.lang.String[]" into a Type.
func FromSourceName(name string) Type {
	if k, ok := primitiveNames[name]; ok {
		return Type{Kind: k}
	}
	if rest, ok := strings.CutSuffix(name, "[]"); ok {
		elem := FromSourceName(rest)
		return Type{Kind: Array, Elem: &elem}
	}
	return Type{Kind: Object, Name: name}
}

// IsPrimitive reports whether the type is Void or one of the eight JVM
// primitive kinds (i.e. neither Object nor Array).
func (t Type) IsPrimitive() bool {
	switch t.Kind {
	case Object, Array:
		return false
	default:
		return true
	}
}

// String renders the type using the same source-like syntax FromSourceName
// accepts.
func (t Type) String() string {
	switch t.Kind {
	case Object:
		return t.Name
	case Array:
		return t.Elem.String() + "[]"
	default:
		if kw, ok := primitiveKeywords[t.Kind]; ok {
			return kw
		}
		return "void"
	}
}

// Equal reports structural equality, descending through Array element
// types.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case Object:
		return t.Name == o.Name
	case Array:
		return t.Elem.Equal(*o.Elem)
	default:
		return true
	}
}

// ClassMapper maps class names; implemented by both mapping.BaseMapper and
// mapping.CompositeMapper, and used here only to let Type/Descriptor remap
// themselves without importing the mapping package (which itself depends on
// types).
type ClassMapper interface {
	MapClass(name string) (string, bool)
}

// MapSelf returns a copy of t with any Object (including nested inside
// Array) remapped through m. Types with no entry in m are left unchanged.
func (t Type) MapSelf(m ClassMapper) Type {
	switch t.Kind {
	case Object:
		if mapped, ok := m.MapClass(t.Name); ok {
			return Type{Kind: Object, Name: mapped}
		}
		return t
	case Array:
		elem := t.Elem.MapSelf(m)
		return Type{Kind: Array, Elem: &elem}
	default:
		return t
	}
}

// Descriptor is an ordered list of parameter Types and a single return
// Type. Equality is structural.
type Descriptor struct {
	Params []Type
	Return Type
}

// Equal reports structural equality.
func (d Descriptor) Equal(o Descriptor) bool {
	if len(d.Params) != len(o.Params) || !d.Return.Equal(o.Return) {
		return false
	}
	for i := range d.Params {
		if !d.Params[i].Equal(o.Params[i]) {
			return false
		}
	}
	return true
}

// String renders the descriptor as "(p1,p2) ret", the same shape used in
// diagnostics throughout this module.
func (d Descriptor) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range d.Params {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.String())
	}
	b.WriteString(") ")
	b.WriteString(d.Return.String())
	return b.String()
}

// MapSelf remaps every Object type in the descriptor (params and return)
// through m, leaving unmapped classes unchanged.
func (d Descriptor) MapSelf(m ClassMapper) Descriptor {
	params := make([]Type, len(d.Params))
	for i, p := range d.Params {
		params[i] = p.MapSelf(m)
	}
	return Descriptor{Params: params, Return: d.Return.MapSelf(m)}
}

// MethodId is the pair (name, descriptor) that uniquely identifies a
// method within a class.
//
// Descriptor embeds a slice, so MethodId itself cannot be used directly as
// a Go map key; callers needing a hash key use Key, which renders an
// injective string (Java identifiers and the descriptor's own punctuation
// never contain the U+001F separator).
type MethodId struct {
	Name       string
	Descriptor Descriptor
}

// Key renders an injective string suitable for use as a map key.
func (m MethodId) Key() string {
	return m.Name + "\x1f" + m.Descriptor.String()
}

// MethodCandidate is one (owning class's to-name, MethodId-in-target-naming)
// result from MethodMapper.MapMethod.
type MethodCandidate struct {
	Class string
	ID    MethodId
}

// MethodMapper maps class-scoped method lookups; implemented by
// mapping.BaseMapper and mapping.CompositeMapper. Declared here (rather
// than imported from the mapping package) so Type/Descriptor/MethodId can
// stay independent of the mapper implementations that consume them.
type MethodMapper interface {
	ClassMapper
	MapMethod(fromClassName, name string, descriptor *Descriptor) []MethodCandidate
}

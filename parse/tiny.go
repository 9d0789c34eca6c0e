package parse

import (
	"strings"

	"github.com/octylFractal/stacked-portrayals/types"
)

// TinyHeader is the header line of a tiny v2 file: "tiny\t2\t0\t<a>\t<b>..."
// plus any property lines that follow it.
type TinyHeader struct {
	NamespaceA      string
	NamespaceB      string
	ExtraNamespaces []string
	Properties      []string
}

// TinyMapping holds one primary name plus its mapped name per extra
// namespace (namespace B plus any ExtraNamespaces). A nil entry means "no
// mapping given" for that namespace.
type TinyMapping struct {
	PrimaryName string
	MappedNames []*string
}

// TinyMethod is one "m" line plus its descriptor, in the primary
// namespace. Subsections (parameters, comments) are skipped entirely, per
// spec.
type TinyMethod struct {
	PrimaryDescriptor types.Descriptor
	Mapping           TinyMapping
}

// TinyClass is one "c" section: its class-name mapping plus method lines.
// Field lines are recognized and discarded.
type TinyClass struct {
	Mapping TinyMapping
	Methods []TinyMethod
}

// TinyMappings is the parse tree for an entire tiny v2 file.
type TinyMappings struct {
	Header  TinyHeader
	Classes []TinyClass
}

// TinyV2 parses a tab-delimited Fabric "tiny v2" mapping file. Parse
// errors are collected rather than fail-fast.
func TinyV2(src []byte) (*TinyMappings, *Diagnostics) {
	s := NewScanner(src)
	diags := &Diagnostics{Source: string(src)}

	header, ok := parseTinyHeader(s, diags)
	if !ok {
		return nil, diags
	}

	namesCount := 1 + len(header.ExtraNamespaces)
	var classes []TinyClass
	for !s.Eof() {
		start := s.Pos
		class, ok := parseTinyClass(s, diags, namesCount)
		if ok {
			classes = append(classes, class)
			continue
		}
		if s.Pos == start {
			s.SkipToNextLine()
			diags.Add(Span{start, s.Pos}, "expected a class section (\"c\\t...\")")
		}
	}

	result := &TinyMappings{Header: *header, Classes: classes}
	if diags.HasErrors() {
		return result, diags
	}
	return result, nil
}

func parseTinyHeader(s *Scanner, diags *Diagnostics) (*TinyHeader, bool) {
	start := s.Pos
	if !s.TryConsume("tiny\t2\t0\t") {
		diags.Add(Span{start, s.Pos}, "expected tiny v2 magic \"tiny\\t2\\t0\\t\"")
		return nil, false
	}
	nsA, ok := scanSafeString(s)
	if !ok {
		diags.Add(Span{start, s.Pos}, "expected namespace A")
		return nil, false
	}
	if !s.TryConsume("\t") {
		diags.Add(Span{start, s.Pos}, "expected tab before namespace B")
		return nil, false
	}
	nsB, ok := scanSafeString(s)
	if !ok {
		diags.Add(Span{start, s.Pos}, "expected namespace B")
		return nil, false
	}
	var extra []string
	for s.TryConsume("\t") {
		ns, ok := scanSafeString(s)
		if !ok {
			diags.Add(Span{start, s.Pos}, "expected extra namespace after tab")
			return nil, false
		}
		extra = append(extra, ns)
	}
	if !s.ConsumeEol() {
		diags.Add(Span{start, s.Pos}, "expected newline after header namespaces")
		return nil, false
	}
	var props []string
	for s.Peek() == '\t' {
		save := s.Pos
		s.Advance(1)
		// A property line is any non-"c"/"f"/"m" leading content; since
		// those also start with a tab-delimited token, a bare heuristic
		// (peek for a following class/method section marker) would be
		// fragile, so instead: a property line's remainder up to EOL is
		// consumed as one token.
		prop, _ := scanSafeStringAllowEmpty(s)
		if !s.ConsumeEol() {
			s.Pos = save
			break
		}
		props = append(props, prop)
	}
	return &TinyHeader{
		NamespaceA:      nsA,
		NamespaceB:      nsB,
		ExtraNamespaces: extra,
		Properties:      props,
	}, true
}

func parseTinyClass(s *Scanner, diags *Diagnostics, namesCount int) (TinyClass, bool) {
	start := s.Pos
	if !s.TryConsume("c\t") {
		return TinyClass{}, false
	}
	primary, ok := scanSafeString(s)
	if !ok {
		diags.Add(Span{start, s.Pos}, "expected primary class name")
		s.Pos = start
		return TinyClass{}, false
	}
	mapped, ok := scanMappedNames(s, namesCount)
	if !ok {
		diags.Add(Span{start, s.Pos}, "expected %d mapped class name column(s)", namesCount)
		s.Pos = start
		return TinyClass{}, false
	}
	if !s.ConsumeEol() {
		diags.Add(Span{start, s.Pos}, "expected newline after class section header")
		s.Pos = start
		return TinyClass{}, false
	}

	class := TinyClass{Mapping: TinyMapping{
		PrimaryName: strings.ReplaceAll(primary, "/", "."),
		MappedNames: replaceSlashesInAll(mapped),
	}}
	for {
		save := s.Pos
		if skipTinyFieldSection(s) {
			continue
		}
		s.Pos = save
		if method, ok := parseTinyMethod(s, diags, namesCount); ok {
			class.Methods = append(class.Methods, method)
			continue
		}
		s.Pos = save
		break
	}
	return class, true
}

func parseTinyMethod(s *Scanner, diags *Diagnostics, namesCount int) (TinyMethod, bool) {
	start := s.Pos
	if !s.TryConsume("\tm\t") {
		return TinyMethod{}, false
	}
	desc, ok := parseTinyDescriptor(s)
	if !ok {
		diags.Add(Span{start, s.Pos}, "expected method descriptor")
		s.Pos = start
		return TinyMethod{}, false
	}
	if !s.TryConsume("\t") {
		diags.Add(Span{start, s.Pos}, "expected tab after method descriptor")
		s.Pos = start
		return TinyMethod{}, false
	}
	primary, ok := scanSafeString(s)
	if !ok {
		diags.Add(Span{start, s.Pos}, "expected primary method name")
		s.Pos = start
		return TinyMethod{}, false
	}
	mapped, ok := scanMappedNames(s, namesCount)
	if !ok {
		diags.Add(Span{start, s.Pos}, "expected %d mapped method name column(s)", namesCount)
		s.Pos = start
		return TinyMethod{}, false
	}
	if !s.ConsumeEol() {
		diags.Add(Span{start, s.Pos}, "expected newline after method section header")
		s.Pos = start
		return TinyMethod{}, false
	}
	skipTinyMethodSubsections(s)
	return TinyMethod{
		PrimaryDescriptor: desc,
		Mapping: TinyMapping{
			PrimaryName: primary,
			MappedNames: mapped,
		},
	}, true
}

// skipTinyFieldSection recognizes "\tf\t...\n" and discards it.
func skipTinyFieldSection(s *Scanner) bool {
	if !s.TryConsume("\tf") {
		return false
	}
	for !s.Eof() && s.Peek() != '\n' {
		s.Pos++
	}
	s.ConsumeEol()
	return true
}

// skipTinyMethodSubsections discards any "\t\t..." lines that follow a
// method section (parameters, comments).
func skipTinyMethodSubsections(s *Scanner) {
	for s.TryConsume("\t\t") {
		for !s.Eof() && s.Peek() != '\n' {
			s.Pos++
		}
		s.ConsumeEol()
	}
}

// scanMappedNames reads exactly count columns of "\t<safe-string-or-empty>",
// where an empty column (nothing between two tabs, or at end of line)
// yields a nil entry.
func scanMappedNames(s *Scanner, count int) ([]*string, bool) {
	names := make([]*string, 0, count)
	for i := 0; i < count; i++ {
		if !s.TryConsume("\t") {
			return nil, false
		}
		if s.Peek() == '\t' || s.Peek() == '\n' || s.Peek() == '\r' || s.Eof() {
			names = append(names, nil)
			continue
		}
		v, ok := scanSafeString(s)
		if !ok {
			return nil, false
		}
		names = append(names, &v)
	}
	return names, true
}

func replaceSlashesInAll(names []*string) []*string {
	out := make([]*string, len(names))
	for i, n := range names {
		if n == nil {
			continue
		}
		v := strings.ReplaceAll(*n, "/", ".")
		out[i] = &v
	}
	return out
}

func isSafeStringChar(c byte) bool {
	return c != '\t' && c != '\n' && c != '\r' && c != 0 && c != '\\'
}

func scanSafeString(s *Scanner) (string, bool) {
	start := s.Pos
	for !s.Eof() && isSafeStringChar(s.Peek()) {
		s.Pos++
	}
	if s.Pos == start {
		return "", false
	}
	return string(s.Src[start:s.Pos]), true
}

func scanSafeStringAllowEmpty(s *Scanner) (string, bool) {
	start := s.Pos
	for !s.Eof() && isSafeStringChar(s.Peek()) {
		s.Pos++
	}
	return string(s.Src[start:s.Pos]), true
}

func parseTinyDescriptor(s *Scanner) (types.Descriptor, bool) {
	if !s.TryConsume("(") {
		return types.Descriptor{}, false
	}
	var params []types.Type
	for s.Peek() != ')' {
		t, ok := parseTinyDescriptorType(s)
		if !ok {
			return types.Descriptor{}, false
		}
		params = append(params, t)
	}
	if !s.TryConsume(")") {
		return types.Descriptor{}, false
	}
	ret, ok := parseTinyDescriptorType(s)
	if !ok {
		return types.Descriptor{}, false
	}
	return types.Descriptor{Params: params, Return: ret}, true
}

var tinyPrimitives = map[byte]types.Kind{
	'V': types.Void,
	'Z': types.Boolean,
	'B': types.Byte,
	'S': types.Short,
	'C': types.Char,
	'I': types.Int,
	'J': types.Long,
	'F': types.Float,
	'D': types.Double,
}

func parseTinyDescriptorType(s *Scanner) (types.Type, bool) {
	if s.Eof() {
		return types.Type{}, false
	}
	c := s.Peek()
	if c == '[' {
		s.Advance(1)
		elem, ok := parseTinyDescriptorType(s)
		if !ok {
			return types.Type{}, false
		}
		return types.Type{Kind: types.Array, Elem: &elem}, true
	}
	if c == 'L' {
		s.Advance(1)
		start := s.Pos
		for !s.Eof() && s.Peek() != ';' {
			s.Pos++
		}
		if s.Eof() {
			return types.Type{}, false
		}
		name := strings.ReplaceAll(string(s.Src[start:s.Pos]), "/", ".")
		s.Advance(1) // ';'
		return types.Type{Kind: types.Object, Name: name}, true
	}
	if k, ok := tinyPrimitives[c]; ok {
		s.Advance(1)
		return types.Type{Kind: k}, true
	}
	return types.Type{}, false
}

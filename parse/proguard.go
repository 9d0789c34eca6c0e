package parse

import (
	"strings"

	"github.com/octylFractal/stacked-portrayals/types"
)

// ProguardMapping is one class-rename declaration: "<primary> -> <secondary>:".
type ProguardMapping struct {
	PrimaryName   string
	SecondaryName string
}

// ProguardMethod is one method line inside a class block.
type ProguardMethod struct {
	PrimaryDescriptor types.Descriptor
	Mapping           ProguardMapping
}

// ProguardClass is one class block: its rename plus the method lines found
// inside it. Field lines are recognized and discarded, per spec.
type ProguardClass struct {
	Mapping ProguardMapping
	Methods []ProguardMethod
}

// ProguardMappings is the parse tree for an entire proguard/Mojang
// deobfuscation file.
type ProguardMappings struct {
	Classes []ProguardClass
}

// Proguard parses a line-oriented Mojang "proguard" deobfuscation file.
// Parse errors are collected rather than fail-fast: a malformed line is
// skipped and scanning resumes at the next line.
func Proguard(src []byte) (*ProguardMappings, *Diagnostics) {
	s := NewScanner(src)
	diags := &Diagnostics{Source: string(src)}

	skipComments(s)

	var classes []ProguardClass
	for !s.Eof() {
		start := s.Pos
		class, ok := parseClassSection(s, diags)
		if ok {
			classes = append(classes, class)
			continue
		}
		if s.Pos == start {
			// Made no progress; force past the offending line so the loop
			// terminates, and record why.
			s.SkipToNextLine()
			diags.Add(Span{start, s.Pos}, "expected a class mapping line (\"<from> -> <to>:\")")
		}
	}

	if diags.HasErrors() {
		return &ProguardMappings{Classes: classes}, diags
	}
	return &ProguardMappings{Classes: classes}, nil
}

func skipComments(s *Scanner) {
	for s.Peek() == '#' {
		s.SkipToNextLine()
	}
}

func parseClassSection(s *Scanner, diags *Diagnostics) (ProguardClass, bool) {
	mapping, ok := parseClassLine(s, diags)
	if !ok {
		return ProguardClass{}, false
	}
	class := ProguardClass{Mapping: mapping}
	for {
		save := s.Pos
		if parseFieldLine(s) {
			continue
		}
		s.Pos = save
		if method, ok := parseMethodLine(s, diags); ok {
			class.Methods = append(class.Methods, method)
			continue
		}
		s.Pos = save
		break
	}
	return class, true
}

func parseClassLine(s *Scanner, diags *Diagnostics) (ProguardMapping, bool) {
	start := s.Pos
	primary, ok := s.ScanJavaType()
	if !ok {
		return ProguardMapping{}, false
	}
	if !s.TryConsume(" -> ") {
		s.Pos = start
		return ProguardMapping{}, false
	}
	secondary, ok := s.ScanJavaType()
	if !ok {
		diags.Add(Span{start, s.Pos}, "expected target class name after ' -> '")
		s.Pos = start
		return ProguardMapping{}, false
	}
	if !s.TryConsume(":") || !s.ConsumeEol() {
		diags.Add(Span{start, s.Pos}, "expected ':' and newline after class mapping")
		s.Pos = start
		return ProguardMapping{}, false
	}
	return ProguardMapping{PrimaryName: primary, SecondaryName: secondary}, true
}

// parseFieldLine recognizes "    <type> <name> -> <name>\n" and discards
// it, reporting only whether it matched.
func parseFieldLine(s *Scanner) bool {
	start := s.Pos
	if !s.TryConsume("    ") {
		return false
	}
	if _, ok := s.ScanJavaType(); !ok {
		s.Pos = start
		return false
	}
	if !s.TryConsume(" ") {
		s.Pos = start
		return false
	}
	if _, ok := s.ScanJavaName(); !ok {
		s.Pos = start
		return false
	}
	if !s.TryConsume(" -> ") {
		s.Pos = start
		return false
	}
	if _, ok := s.ScanJavaName(); !ok {
		s.Pos = start
		return false
	}
	if !s.ConsumeEol() {
		s.Pos = start
		return false
	}
	return true
}

func parseLineData(s *Scanner) (ok bool) {
	start := s.Pos
	if _, ok1 := s.ScanUint32(); !ok1 {
		return false
	}
	if !s.TryConsume(":") {
		s.Pos = start
		return false
	}
	if _, ok2 := s.ScanUint32(); !ok2 {
		s.Pos = start
		return false
	}
	return true
}

func parseMethodLine(s *Scanner, diags *Diagnostics) (ProguardMethod, bool) {
	start := s.Pos
	if !s.TryConsume("    ") {
		return ProguardMethod{}, false
	}

	// Optional leading "startLine:endLine:".
	lineStart := s.Pos
	if parseLineData(s) {
		if !s.TryConsume(":") {
			s.Pos = lineStart
		}
	} else {
		s.Pos = lineStart
	}

	retType, ok := s.ScanJavaType()
	if !ok {
		s.Pos = start
		return ProguardMethod{}, false
	}
	if !s.TryConsume(" ") {
		s.Pos = start
		return ProguardMethod{}, false
	}

	// Optional "OuterClass." prefix on the method name; since both the
	// prefix and the method name are Java identifiers, scan a dot-joined
	// blob and keep only the final segment.
	nameBlob, ok := s.ScanJavaType()
	if !ok {
		s.Pos = start
		return ProguardMethod{}, false
	}
	srcMethod := nameBlob
	if idx := strings.LastIndexByte(nameBlob, '.'); idx >= 0 {
		srcMethod = nameBlob[idx+1:]
	}

	if !s.TryConsume("(") {
		diags.Add(Span{start, s.Pos}, "expected '(' to start method arguments")
		s.Pos = start
		return ProguardMethod{}, false
	}
	var params []types.Type
	if s.Peek() != ')' {
		for {
			argTy, ok := s.ScanJavaType()
			if !ok {
				diags.Add(Span{start, s.Pos}, "expected argument type")
				s.Pos = start
				return ProguardMethod{}, false
			}
			params = append(params, types.FromSourceName(argTy))
			if s.TryConsume(",") {
				continue
			}
			break
		}
	}
	if !s.TryConsume(")") {
		diags.Add(Span{start, s.Pos}, "expected ')' to close method arguments")
		s.Pos = start
		return ProguardMethod{}, false
	}

	// Optional trailing ":startLine:endLine".
	save := s.Pos
	if s.TryConsume(":") {
		if !parseLineData(s) {
			s.Pos = save
		}
	}

	if !s.TryConsume(" -> ") {
		diags.Add(Span{start, s.Pos}, "expected ' -> ' before obfuscated method name")
		s.Pos = start
		return ProguardMethod{}, false
	}
	obfMethod, ok := s.ScanJavaName()
	if !ok {
		diags.Add(Span{start, s.Pos}, "expected obfuscated method name")
		s.Pos = start
		return ProguardMethod{}, false
	}
	if !s.ConsumeEol() {
		diags.Add(Span{start, s.Pos}, "expected newline after method mapping")
		s.Pos = start
		return ProguardMethod{}, false
	}

	return ProguardMethod{
		PrimaryDescriptor: types.Descriptor{Params: params, Return: types.FromSourceName(retType)},
		Mapping:           ProguardMapping{PrimaryName: srcMethod, SecondaryName: obfMethod},
	}, true
}

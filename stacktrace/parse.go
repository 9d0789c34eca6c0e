package stacktrace

import (
	"strings"

	"github.com/octylFractal/stacked-portrayals/parse"
	"github.com/octylFractal/stacked-portrayals/types"
)

// Parse parses one logical stack trace: a "<type>: <message>" line
// followed by zero or more "\tat ..." frame lines. A trailing "Caused
// by:" chain, or any other trailing content, is reported as a diagnostic
// rather than silently dropped or merged in — chaining causes is out of
// scope (spec.md Non-goals).
func Parse(src []byte) (*Stacktrace, *parse.Diagnostics) {
	s := parse.NewScanner(src)
	diags := &parse.Diagnostics{Source: string(src)}

	start := s.Pos
	tyName, ok := s.ScanJavaType()
	if !ok {
		diags.Add(parse.Span{Start: start, End: s.Pos}, "expected exception type name")
		return nil, diags
	}
	if !s.TryConsume(": ") {
		diags.Add(parse.Span{Start: start, End: s.Pos}, "expected \": \" after exception type")
		return nil, diags
	}
	msgStart := s.Pos
	for !s.Eof() && s.Peek() != '\n' && !(s.Peek() == '\r' && s.PeekAt(1) == '\n') {
		s.Advance(1)
	}
	message := string(s.Src[msgStart:s.Pos])
	if !s.ConsumeEol() {
		diags.Add(parse.Span{Start: msgStart, End: s.Pos}, "expected newline after exception message")
		return nil, diags
	}

	var frames []Frame
	for !s.Eof() {
		frameStart := s.Pos
		f, ok := parseFrame(s, diags)
		if !ok {
			if s.Pos == frameStart {
				diags.Add(parse.Span{Start: frameStart, End: len(s.Src)}, "unexpected trailing content (nested \"Caused by\" chains are not supported)")
			}
			break
		}
		frames = append(frames, f)
	}

	result := &Stacktrace{Type: types.FromSourceName(tyName), Message: message, Frames: frames}
	if diags.HasErrors() {
		return result, diags
	}
	return result, nil
}

func parseFrame(s *parse.Scanner, diags *parse.Diagnostics) (Frame, bool) {
	start := s.Pos
	s.SkipInlineWhitespace()
	if !s.TryConsume("at ") {
		s.Pos = start
		return Frame{}, false
	}

	// Optional "<module>/" prefix before the class+method blob. Since both
	// a module name and a class+method blob are valid jtype tokens, scan
	// one jtype and check whether a "/" follows; if so, it was the module.
	var module *string
	blobStart := s.Pos
	first, ok := s.ScanJavaType()
	if !ok {
		diags.Add(parse.Span{Start: start, End: s.Pos}, "expected class and method")
		s.Pos = start
		return Frame{}, false
	}
	if s.TryConsume("/") {
		m := first
		module = &m
		blobStart = s.Pos
		first, ok = s.ScanJavaType()
		if !ok {
			diags.Add(parse.Span{Start: start, End: s.Pos}, "expected class and method after module")
			s.Pos = start
			return Frame{}, false
		}
	}
	classMethod := first
	lastDot := strings.LastIndexByte(classMethod, '.')
	if lastDot < 0 {
		diags.Add(parse.Span{Start: blobStart, End: s.Pos}, "no class name found in stack trace frame")
		s.Pos = start
		return Frame{}, false
	}
	class := classMethod[:lastDot]
	method := classMethod[lastDot+1:]

	if !s.TryConsume("(") {
		diags.Add(parse.Span{Start: start, End: s.Pos}, "expected '(' to start file/line")
		s.Pos = start
		return Frame{}, false
	}
	file, ok := s.ScanJavaType()
	if !ok {
		diags.Add(parse.Span{Start: start, End: s.Pos}, "expected file name")
		s.Pos = start
		return Frame{}, false
	}
	var line *uint32
	if s.TryConsume(":") {
		l, ok := s.ScanUint32()
		if !ok {
			diags.Add(parse.Span{Start: start, End: s.Pos}, "expected line number")
			s.Pos = start
			return Frame{}, false
		}
		line = &l
	}
	if !s.TryConsume(")") {
		diags.Add(parse.Span{Start: start, End: s.Pos}, "expected ')' to close file/line")
		s.Pos = start
		return Frame{}, false
	}

	// Optional trailing " ~[...]" classloader/jar decoration, discarded.
	if s.TryConsume(" ~[") {
		for !s.Eof() && s.Peek() != ']' {
			s.Advance(1)
		}
		if !s.TryConsume("]") {
			diags.Add(parse.Span{Start: start, End: s.Pos}, "expected ']' to close classloader decoration")
			s.Pos = start
			return Frame{}, false
		}
	}

	if !s.ConsumeEol() {
		diags.Add(parse.Span{Start: start, End: s.Pos}, "expected newline after frame")
		s.Pos = start
		return Frame{}, false
	}

	return Frame{Module: module, Class: class, Method: method, File: file, Line: line}, true
}

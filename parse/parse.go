// Package parse implements the shared lexical primitives used by the
// proguard, tiny-v2, and stack-trace parsers: byte-offset spans, an
// accumulating diagnostics list (parsing never short-circuits on the first
// error), and Java identifier/type token readers.
package parse

import (
	"fmt"
	"strconv"
)

// Span is a half-open byte range [Start, End) into the original source
// text, used for diagnostics rather than line/column so it stays cheap to
// compute while scanning.
type Span struct {
	Start, End int
}

// Diagnostic is one recovered parse error.
type Diagnostic struct {
	Span    Span
	Message string
}

// Diagnostics accumulates Diagnostic values plus the original source text,
// so an outer caller (the CLI) can render source-annotated error messages.
// It implements the error interface so it can travel as a normal Go error
// and be recovered with errors.As.
type Diagnostics struct {
	Source string
	Errors []Diagnostic
}

// Error implements error.
func (d *Diagnostics) Error() string {
	if len(d.Errors) == 1 {
		return d.Errors[0].Message
	}
	return fmt.Sprintf("%d parse errors, first: %s", len(d.Errors), d.Errors[0].Message)
}

// Add records a diagnostic at the given span.
func (d *Diagnostics) Add(span Span, format string, args ...any) {
	d.Errors = append(d.Errors, Diagnostic{Span: span, Message: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any diagnostics were recorded.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Scanner is a minimal cursor over a source byte slice shared by every
// parser in this module. It never panics on out-of-range access: Peek and
// Advance both tolerate (and report) EOF, which is what lets the callers
// above recover and keep scanning after an error.
type Scanner struct {
	Src []byte
	Pos int
}

// NewScanner constructs a Scanner over src.
func NewScanner(src []byte) *Scanner {
	return &Scanner{Src: src}
}

// Eof reports whether the cursor is at or past the end of the source.
func (s *Scanner) Eof() bool {
	return s.Pos >= len(s.Src)
}

// Peek returns the byte at the cursor without advancing, or 0 at EOF.
func (s *Scanner) Peek() byte {
	if s.Eof() {
		return 0
	}
	return s.Src[s.Pos]
}

// PeekAt returns the byte at Pos+offset, or 0 if out of range.
func (s *Scanner) PeekAt(offset int) byte {
	p := s.Pos + offset
	if p < 0 || p >= len(s.Src) {
		return 0
	}
	return s.Src[p]
}

// Advance moves the cursor forward n bytes, clamped to the source length.
func (s *Scanner) Advance(n int) {
	s.Pos += n
	if s.Pos > len(s.Src) {
		s.Pos = len(s.Src)
	}
}

// TryConsume advances past lit if the source at the cursor starts with it,
// reporting whether it did.
func (s *Scanner) TryConsume(lit string) bool {
	if s.Pos+len(lit) > len(s.Src) {
		return false
	}
	if string(s.Src[s.Pos:s.Pos+len(lit)]) != lit {
		return false
	}
	s.Advance(len(lit))
	return true
}

// SkipToNextLine advances the cursor past the next '\n', or to EOF if none
// remains. Used for error recovery: when a line fails to parse, the
// scanner can still resume at the following line instead of aborting.
func (s *Scanner) SkipToNextLine() {
	for !s.Eof() && s.Src[s.Pos] != '\n' {
		s.Pos++
	}
	if !s.Eof() {
		s.Pos++
	}
}

// IsJavaDigit reports whether c is an ASCII digit.
func IsJavaDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// IsJavaLetter reports whether c may start or continue a Java identifier,
// beyond digits: letters, '$', and '_'. This is deliberately ASCII-only,
// matching the original's "sloppy, but it should be fine" comment — full
// Unicode identifier classification is not needed for mapping file class
// and method names in practice.
func IsJavaLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '$' || c == '_'
}

// IsJavaIdentifierPart reports whether c may appear inside a Java
// identifier.
func IsJavaIdentifierPart(c byte) bool {
	return IsJavaDigit(c) || IsJavaLetter(c)
}

func isJTypeChar(c byte) bool {
	return IsJavaIdentifierPart(c) || c == '.' || c == '[' || c == ']' || c == '-'
}

// ScanJavaType reads a dot-separated, array-suffixed, hyphen-tolerant type
// token (as used for proguard/stacktrace class and type names) starting at
// the cursor. Returns the token and whether at least one character was
// consumed.
func (s *Scanner) ScanJavaType() (string, bool) {
	start := s.Pos
	for !s.Eof() && isJTypeChar(s.Peek()) {
		s.Pos++
	}
	if s.Pos == start {
		return "", false
	}
	return string(s.Src[start:s.Pos]), true
}

// ScanJavaName reads a Java identifier, or one of the special method names
// "<init>"/"<clinit>", starting at the cursor.
func (s *Scanner) ScanJavaName() (string, bool) {
	if s.TryConsume("<init>") {
		return "<init>", true
	}
	if s.TryConsume("<clinit>") {
		return "<clinit>", true
	}
	start := s.Pos
	for !s.Eof() && IsJavaIdentifierPart(s.Peek()) {
		s.Pos++
	}
	if s.Pos == start {
		return "", false
	}
	return string(s.Src[start:s.Pos]), true
}

// SkipInlineWhitespace advances past any run of spaces/tabs (not
// newlines).
func (s *Scanner) SkipInlineWhitespace() {
	for !s.Eof() && (s.Peek() == ' ' || s.Peek() == '\t') {
		s.Pos++
	}
}

// ScanUint32 reads a run of decimal digits and parses them as a uint32.
func (s *Scanner) ScanUint32() (uint32, bool) {
	start := s.Pos
	for !s.Eof() && IsJavaDigit(s.Peek()) {
		s.Pos++
	}
	if s.Pos == start {
		return 0, false
	}
	v, err := strconv.ParseUint(string(s.Src[start:s.Pos]), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}

// ConsumeEol consumes a "\n" or "\r\n" line terminator at the cursor,
// reporting whether one was present.
func (s *Scanner) ConsumeEol() bool {
	if s.TryConsume("\r\n") {
		return true
	}
	return s.TryConsume("\n")
}

package stacktrace

import (
	"context"
	"testing"

	"github.com/octylFractal/stacked-portrayals/types"
)

// fakeMapper is a minimal types.MethodMapper used to test the rewriter in
// isolation from the real mapping package.
type fakeMapper struct {
	classes map[string]string
	// methods indexed by "class\x1fname" -> candidates
	methods map[string][]types.MethodCandidate
}

func (f *fakeMapper) MapClass(name string) (string, bool) {
	v, ok := f.classes[name]
	return v, ok
}

func (f *fakeMapper) MapMethod(fromClass, name string, _ *types.Descriptor) []types.MethodCandidate {
	return f.methods[fromClass+"\x1f"+name]
}

func TestRewriteS2(t *testing.T) {
	m := &fakeMapper{
		classes: map[string]string{"a.b.C": "x.y.Z"},
		methods: map[string][]types.MethodCandidate{
			"a.b.C\x1fd": {{Class: "x.y.Z", ID: types.MethodId{Name: "m", Descriptor: types.Descriptor{Return: types.Type{Kind: types.Void}}}}},
		},
	}
	st, diags := Parse([]byte("a.b.C: e\n\tat a.b.C.d(C.java:7)\n"))
	if diags != nil {
		t.Fatalf("unexpected diagnostics: %v", diags.Errors)
	}
	got := Rewrite(context.Background(), *st, m)
	want := "x.y.Z: e\n\tat x.y.Z.m(Z.java:7)\n"
	if got.String() != want {
		t.Errorf("Rewrite() = %q, want %q", got.String(), want)
	}
}

func TestRewriteIdentity(t *testing.T) {
	m := &fakeMapper{classes: map[string]string{}, methods: map[string][]types.MethodCandidate{}}
	src := "java.lang.NullPointerException: oops\n\tat a.b.C.d(C.java:42)\n"
	st, diags := Parse([]byte(src))
	if diags != nil {
		t.Fatalf("unexpected diagnostics: %v", diags.Errors)
	}
	got := Rewrite(context.Background(), *st, m)
	if got.String() != src {
		t.Errorf("Rewrite() with identity mapper = %q, want %q", got.String(), src)
	}
}

func TestRewriteAmbiguousMethodKeptVerbatim(t *testing.T) {
	// S3: an unscoped lookup suppresses ambiguous results, so the real
	// BaseMapper would return no candidates here; this test exercises the
	// rewriter's handling of that empty-candidate case directly.
	m := &fakeMapper{classes: map[string]string{}, methods: map[string][]types.MethodCandidate{}}
	st, diags := Parse([]byte("E: e\n\tat Unknown.d(Unknown)\n"))
	if diags != nil {
		t.Fatalf("unexpected diagnostics: %v", diags.Errors)
	}
	got := Rewrite(context.Background(), *st, m)
	if got.Frames[0].Method != "d" {
		t.Errorf("method = %q, want unchanged \"d\"", got.Frames[0].Method)
	}
}

func TestRewriteMultiResultJoinedWithSlash(t *testing.T) {
	m := &fakeMapper{
		classes: map[string]string{},
		methods: map[string][]types.MethodCandidate{
			"a.B\x1fd": {
				{Class: "x.Y", ID: types.MethodId{Name: "m1"}},
				{Class: "x.Z", ID: types.MethodId{Name: "m2"}},
			},
		},
	}
	st, diags := Parse([]byte("E: e\n\tat a.B.d(B.java:1)\n"))
	if diags != nil {
		t.Fatalf("unexpected diagnostics: %v", diags.Errors)
	}
	got := Rewrite(context.Background(), *st, m)
	if got.Frames[0].Method != "m1/m2" {
		t.Errorf("method = %q, want m1/m2", got.Frames[0].Method)
	}
}

func TestRewriteFileFallsBackWhenClassUnresolved(t *testing.T) {
	m := &fakeMapper{classes: map[string]string{}, methods: map[string][]types.MethodCandidate{}}
	f := Frame{Class: "a.b.C", File: "C.java"}
	got := rewriteFile(f.File, f.Class, m)
	if got != "C.java" {
		t.Errorf("rewriteFile() = %q, want unchanged C.java", got)
	}
}

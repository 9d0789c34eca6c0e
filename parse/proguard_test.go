package parse

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/octylFractal/stacked-portrayals/types"
)

func TestProguardSingleMethod(t *testing.T) {
	src := "a.B -> x.Y:\n    void m() -> n\n"
	mappings, diags := Proguard([]byte(src))
	if diags != nil {
		t.Fatalf("unexpected diagnostics: %v", diags.Errors)
	}
	want := &ProguardMappings{
		Classes: []ProguardClass{
			{
				Mapping: ProguardMapping{PrimaryName: "a.B", SecondaryName: "x.Y"},
				Methods: []ProguardMethod{
					{
						PrimaryDescriptor: types.Descriptor{Return: types.Type{Kind: types.Void}},
						Mapping:           ProguardMapping{PrimaryName: "m", SecondaryName: "n"},
					},
				},
			},
		},
	}
	if diff := cmp.Diff(want, mappings); diff != "" {
		t.Errorf("Proguard() mismatch (-want +got):\n%s", diff)
	}
}

func TestProguardWithLineNumbersAndArgs(t *testing.T) {
	src := "a.B -> x.Y:\n" +
		"    1:2:int foo(java.lang.String,int):3:4 -> bar\n"
	mappings, diags := Proguard([]byte(src))
	if diags != nil {
		t.Fatalf("unexpected diagnostics: %v", diags.Errors)
	}
	if len(mappings.Classes) != 1 || len(mappings.Classes[0].Methods) != 1 {
		t.Fatalf("unexpected parse tree: %#v", mappings)
	}
	m := mappings.Classes[0].Methods[0]
	if m.Mapping.PrimaryName != "foo" || m.Mapping.SecondaryName != "bar" {
		t.Errorf("method mapping = %+v", m.Mapping)
	}
	wantDesc := types.Descriptor{
		Params: []types.Type{
			{Kind: types.Object, Name: "java.lang.String"},
			{Kind: types.Int},
		},
		Return: types.Type{Kind: types.Int},
	}
	if !m.PrimaryDescriptor.Equal(wantDesc) {
		t.Errorf("descriptor = %+v, want %+v", m.PrimaryDescriptor, wantDesc)
	}
}

func TestProguardIgnoresFieldLines(t *testing.T) {
	src := "a.B -> x.Y:\n" +
		"    int count -> a\n" +
		"    void m() -> n\n"
	mappings, diags := Proguard([]byte(src))
	if diags != nil {
		t.Fatalf("unexpected diagnostics: %v", diags.Errors)
	}
	if len(mappings.Classes[0].Methods) != 1 {
		t.Fatalf("expected the field line to be discarded, got methods: %#v", mappings.Classes[0].Methods)
	}
}

func TestProguardRecoversFromBadLine(t *testing.T) {
	src := "a.B -> x.Y:\n" +
		"    this is not a valid line\n" +
		"c.D -> y.Z:\n" +
		"    void m() -> n\n"
	mappings, diags := Proguard([]byte(src))
	if diags == nil {
		t.Fatal("expected diagnostics for malformed line, got none")
	}
	if len(mappings.Classes) != 2 {
		t.Fatalf("expected recovery to still find both classes, got %#v", mappings.Classes)
	}
}

func TestProguardSkipsLeadingComments(t *testing.T) {
	src := "# generated by some tool\na.B -> x.Y:\n    void m() -> n\n"
	mappings, diags := Proguard([]byte(src))
	if diags != nil {
		t.Fatalf("unexpected diagnostics: %v", diags.Errors)
	}
	if len(mappings.Classes) != 1 {
		t.Fatalf("unexpected parse tree: %#v", mappings)
	}
}

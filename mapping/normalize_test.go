package mapping

import (
	"testing"

	"github.com/octylFractal/stacked-portrayals/names"
	"github.com/octylFractal/stacked-portrayals/types"
)

func TestConvertMappingsBasic(t *testing.T) {
	classes := []RawClassMapping{
		{
			Mapping: [2]string{"a.B", "x.Y"},
			Methods: []RawMethodMapping{
				{
					Descriptor: types.Descriptor{Return: types.Type{Kind: types.Void}},
					Mapping:    [2]string{"d", "m"},
				},
			},
		},
	}
	bm := ConvertMappings(names.Obfuscated, names.Mojang, "1.20.1", classes, false)
	if bm.From != names.Obfuscated || bm.To != names.Mojang {
		t.Fatalf("unexpected direction: %s -> %s", bm.From, bm.To)
	}
	mapped, ok := bm.MapClass("a.B")
	if !ok || mapped != "x.Y" {
		t.Fatalf("MapClass(a.B) = %q, %v", mapped, ok)
	}
	cands := bm.MapMethod("a.B", "d", nil)
	if len(cands) != 1 || cands[0].ID.Name != "m" {
		t.Fatalf("MapMethod = %#v", cands)
	}
}

func TestConvertMappingsFlip(t *testing.T) {
	classes := []RawClassMapping{
		{
			Mapping: [2]string{"a.B", "x.Y"},
			Methods: []RawMethodMapping{
				{
					Descriptor: types.Descriptor{Return: types.Type{Kind: types.Void}},
					Mapping:    [2]string{"d", "m"},
				},
			},
		},
	}
	bm := ConvertMappings(names.Mojang, names.Obfuscated, "1.20.1", classes, true)
	if bm.From != names.Obfuscated || bm.To != names.Mojang {
		t.Fatalf("flipped direction unexpected: %s -> %s", bm.From, bm.To)
	}
	mapped, ok := bm.MapClass("x.Y")
	if !ok || mapped != "a.B" {
		t.Fatalf("MapClass(x.Y) after flip = %q, %v", mapped, ok)
	}
	cands := bm.MapMethod("x.Y", "m", nil)
	if len(cands) != 1 || cands[0].ID.Name != "d" {
		t.Fatalf("MapMethod after flip = %#v", cands)
	}
}

// TestDescriptorRemapCommutesWithClassTable covers testable property 5:
// remapping a descriptor via the normalizer's internal class table yields
// the same result as mapping each Object type individually.
func TestDescriptorRemapCommutesWithClassTable(t *testing.T) {
	classes := []RawClassMapping{
		{Mapping: [2]string{"a.B", "x.Y"}},
		{Mapping: [2]string{"a.C", "x.Z"}},
		{
			Mapping: [2]string{"a.D", "x.W"},
			Methods: []RawMethodMapping{
				{
					Descriptor: types.Descriptor{
						Params: []types.Type{
							{Kind: types.Object, Name: "a.B"},
							{Kind: types.Array, Elem: &types.Type{Kind: types.Object, Name: "a.C"}},
						},
						Return: types.Type{Kind: types.Object, Name: "a.B"},
					},
					Mapping: [2]string{"f", "g"},
				},
			},
		},
	}
	bm := ConvertMappings(names.Obfuscated, names.Mojang, "v", classes, false)
	cands := bm.MapMethod("a.D", "f", nil)
	if len(cands) != 1 {
		t.Fatalf("MapMethod = %#v", cands)
	}
	got := cands[0].ID.Descriptor
	want := types.Descriptor{
		Params: []types.Type{
			{Kind: types.Object, Name: "x.Y"},
			{Kind: types.Array, Elem: &types.Type{Kind: types.Object, Name: "x.Z"}},
		},
		Return: types.Type{Kind: types.Object, Name: "x.Y"},
	}
	if !got.Equal(want) {
		t.Errorf("descriptor = %+v, want %+v", got, want)
	}
}

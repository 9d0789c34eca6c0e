package types

import "testing"

type fakeClassMapper map[string]string

func (f fakeClassMapper) MapClass(name string) (string, bool) {
	v, ok := f[name]
	return v, ok
}

func TestFromSourceName(t *testing.T) {
	cases := []struct {
		in   string
		want Type
	}{
		{"void", Type{Kind: Void}},
		{"int", Type{Kind: Int}},
		{"java.lang.String", Type{Kind: Object, Name: "java.lang.String"}},
		{"int[]", Type{Kind: Array, Elem: &Type{Kind: Int}}},
		{"java.lang.String[]", Type{Kind: Array, Elem: &Type{Kind: Object, Name: "java.lang.String"}}},
	}
	for _, c := range cases {
		got := FromSourceName(c.in)
		if !got.Equal(c.want) {
			t.Errorf("FromSourceName(%q) = %#v, want %#v", c.in, got, c.want)
		}
		if got.String() != c.in {
			t.Errorf("FromSourceName(%q).String() = %q, want %q", c.in, got.String(), c.in)
		}
	}
}

func TestTypeMapSelf(t *testing.T) {
	m := fakeClassMapper{"a.B": "x.Y"}

	obj := Type{Kind: Object, Name: "a.B"}
	if got := obj.MapSelf(m); got.Name != "x.Y" {
		t.Errorf("MapSelf on mapped object = %q, want x.Y", got.Name)
	}

	unmapped := Type{Kind: Object, Name: "a.Z"}
	if got := unmapped.MapSelf(m); got.Name != "a.Z" {
		t.Errorf("MapSelf on unmapped object = %q, want a.Z", got.Name)
	}

	arr := Type{Kind: Array, Elem: &obj}
	got := arr.MapSelf(m)
	if got.Kind != Array || got.Elem.Name != "x.Y" {
		t.Errorf("MapSelf on array = %#v, want element x.Y", got)
	}

	prim := Type{Kind: Int}
	if got := prim.MapSelf(m); !got.Equal(prim) {
		t.Errorf("MapSelf on primitive changed value: %#v", got)
	}
}

func TestDescriptorMapSelfCommutesWithPerTypeMap(t *testing.T) {
	m := fakeClassMapper{"a.B": "x.Y", "a.C": "x.Z"}
	d := Descriptor{
		Params: []Type{
			{Kind: Object, Name: "a.B"},
			{Kind: Int},
			{Kind: Array, Elem: &Type{Kind: Object, Name: "a.C"}},
		},
		Return: Type{Kind: Object, Name: "a.B"},
	}

	whole := d.MapSelf(m)

	perType := Descriptor{Return: d.Return.MapSelf(m)}
	for _, p := range d.Params {
		perType.Params = append(perType.Params, p.MapSelf(m))
	}

	if !whole.Equal(perType) {
		t.Errorf("descriptor MapSelf does not commute with per-type MapSelf:\nwhole=%#v\nperType=%#v", whole, perType)
	}
}

func TestMethodIdKeyInjective(t *testing.T) {
	a := MethodId{Name: "foo", Descriptor: Descriptor{Params: []Type{{Kind: Int}}, Return: Type{Kind: Void}}}
	b := MethodId{Name: "foo", Descriptor: Descriptor{Params: []Type{{Kind: Long}}, Return: Type{Kind: Void}}}
	if a.Key() == b.Key() {
		t.Fatalf("distinct method ids produced the same key %q", a.Key())
	}
}

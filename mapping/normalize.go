package mapping

import (
	"github.com/octylFractal/stacked-portrayals/names"
	"github.com/octylFractal/stacked-portrayals/types"
)

// RawClassMapping is one format-agnostic class rename plus its methods,
// fed to ConvertMappings. Mapping is (primary-name, secondary-name).
type RawClassMapping struct {
	Mapping [2]string
	Methods []RawMethodMapping
}

// RawMethodMapping is one format-agnostic method rename: the method's
// descriptor as parsed (in the primary naming), plus (primary-name,
// secondary-name).
type RawMethodMapping struct {
	Descriptor types.Descriptor
	Mapping    [2]string
}

// ConvertMappings normalizes a format-specific parse tree into a
// BaseMapper, per spec.md §4.3.
//
// It first accumulates a primary -> secondary class-name table in a single
// pass (to resolve descriptor classes), then walks the input again
// producing, for each class, a ClassMapping whose method table maps
// MethodId(primary name, primary descriptor) to MethodId(secondary name,
// descriptor remapped through the class-name table).
//
// If shouldFlip, the (from, to) naming types and every method entry's (key,
// value) are swapped, and the class mappings are rekeyed on secondary
// names.
func ConvertMappings(primary, secondary names.NamesType, version string, classes []RawClassMapping, shouldFlip bool) *BaseMapper {
	classNameTable := make(map[string]string, max(len(classes), 8))
	for _, c := range classes {
		classNameTable[c.Mapping[0]] = c.Mapping[1]
	}
	classMapper := fnClassMapper(classNameTable)

	result := make(map[string]ClassMapping, len(classes))
	for _, c := range classes {
		from, to := doFlipStrings(shouldFlip, c.Mapping[0], c.Mapping[1])

		methods := make(map[string]MethodEntry, len(c.Methods))
		for _, rm := range c.Methods {
			firstID := types.MethodId{Name: rm.Mapping[0], Descriptor: rm.Descriptor}
			secondID := types.MethodId{Name: rm.Mapping[1], Descriptor: rm.Descriptor.MapSelf(classMapper)}
			fromID, toID := doFlipMethodIDs(shouldFlip, firstID, secondID)
			methods[fromID.Key()] = MethodEntry{From: fromID, To: toID}
		}

		result[from] = ClassMapping{ToName: to, Methods: methods}
	}

	fromNames, toNames := doFlipNames(shouldFlip, primary, secondary)
	return &BaseMapper{
		From:    fromNames,
		To:      toNames,
		Version: version,
		Data:    Mappings{Classes: result},
	}
}

type fnClassMapper map[string]string

func (f fnClassMapper) MapClass(name string) (string, bool) {
	v, ok := f[name]
	return v, ok
}

func doFlipStrings(flip bool, a, b string) (string, string) {
	if flip {
		return b, a
	}
	return a, b
}

func doFlipMethodIDs(flip bool, a, b types.MethodId) (types.MethodId, types.MethodId) {
	if flip {
		return b, a
	}
	return a, b
}

func doFlipNames(flip bool, a, b names.NamesType) (names.NamesType, names.NamesType) {
	if flip {
		return b, a
	}
	return a, b
}

// Package names defines the closed enumeration of Minecraft naming schemes
// this tool translates between.
package names

import "fmt"

// NamesType is a closed enumeration of naming schemes.
type NamesType int

const (
	// Obfuscated names are the short, meaningless identifiers as they
	// appear in shipped game binaries.
	Obfuscated NamesType = iota
	// Mojang names are human-readable identifiers published by the game
	// vendor in the "proguard" text format.
	Mojang
	// FabricIntermediary names are stable, version-spanning synthetic
	// identifiers published by the Fabric toolchain in the "tiny v2"
	// format.
	FabricIntermediary
)

// All returns every NamesType in the graph's canonical node order. The
// mapping graph's BFS tie-break policy depends on this order; see
// mapping.Graph.
func All() []NamesType {
	return []NamesType{Obfuscated, Mojang, FabricIntermediary}
}

var shortForms = map[NamesType]string{
	Obfuscated:         "obf",
	Mojang:             "mojang",
	FabricIntermediary: "fabric",
}

var fromShortForm = map[string]NamesType{
	"obf":    Obfuscated,
	"mojang": Mojang,
	"fabric": FabricIntermediary,
}

// String returns the stable short textual form used in the CLI and in
// diagnostics.
func (n NamesType) String() string {
	if s, ok := shortForms[n]; ok {
		return s
	}
	return fmt.Sprintf("NamesType(%d)", int(n))
}

// Parse parses one of "obf", "mojang", "fabric" into a NamesType.
func Parse(s string) (NamesType, error) {
	n, ok := fromShortForm[s]
	if !ok {
		return 0, fmt.Errorf("unknown names type %q: want one of obf, mojang, fabric", s)
	}
	return n, nil
}

// UnmarshalText implements encoding.TextUnmarshaler, so NamesType can be
// used directly as a flag.Value or JSON field, the same way
// claircore's Digest implements the marshaling trio for its own canonical
// string form.
func (n *NamesType) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (n NamesType) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// Set implements flag.Value, so NamesType can be bound directly to a CLI
// flag.
func (n *NamesType) Set(s string) error {
	return n.UnmarshalText([]byte(s))
}

// Package mojangapi holds the JSON shapes of the two Mojang piston-meta
// endpoints the mapping package needs: the version manifest and a single
// version's metadata.
package mojangapi

// VersionManifestURL is the well-known entry point listing every released
// version and where to find its metadata.
const VersionManifestURL = "https://piston-meta.mojang.com/mc/game/version_manifest_v2.json"

// VersionManifest is the top-level shape of VersionManifestURL.
type VersionManifest struct {
	Latest   Latest    `json:"latest"`
	Versions []Version `json:"versions"`
}

// Latest names the current release and snapshot version ids.
type Latest struct {
	Release  string `json:"release"`
	Snapshot string `json:"snapshot"`
}

// Version is one entry in VersionManifest.Versions: an id plus the URL of
// its full VersionInfo document.
type Version struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// VersionInfo is the shape of the per-version document a Version.URL
// points to. Only the Downloads field is used; the rest of the real
// document (java version, libraries, arguments, ...) is ignored.
type VersionInfo struct {
	Downloads Downloads `json:"downloads"`
}

// Downloads holds the artifacts attached to one version, keyed by kind.
// ClientMappings is the proguard mapping file this package consumes;
// Client and Server are present in the real API but unused here.
type Downloads struct {
	Client         *Download `json:"client,omitempty"`
	Server         *Download `json:"server,omitempty"`
	ClientMappings *Download `json:"client_mappings,omitempty"`
}

// Download describes one downloadable artifact: its expected sha1, size in
// bytes, and URL.
type Download struct {
	SHA1 string `json:"sha1"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

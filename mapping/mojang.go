package mapping

import (
	"context"
	"strings"

	"github.com/quay/zlog"

	"github.com/octylFractal/stacked-portrayals/internal/httpx"
	"github.com/octylFractal/stacked-portrayals/internal/mojangapi"
	"github.com/octylFractal/stacked-portrayals/names"
	"github.com/octylFractal/stacked-portrayals/parse"
)

// loadMojang fetches and parses Mojang's official client mapping file for
// version, per spec.md §4.9. flip selects the returned direction: false
// yields the file's natural Mojang -> Obfuscated mapping; true flips it to
// Obfuscated -> Mojang.
func loadMojang(ctx context.Context, cache *Cache, version string, flip bool) (*BaseMapper, error) {
	ctx = zlog.ContextWithValues(ctx, "component", "mapping/loadMojang", "version", version)
	client := httpx.Client{}

	var manifest mojangapi.VersionManifest
	if err := httpx.GetJSON(ctx, client, mojangapi.VersionManifestURL, &manifest); err != nil {
		return nil, newErr(KindNetworkFailure, err, "fetching Mojang version manifest")
	}

	var versionURL string
	for _, v := range manifest.Versions {
		if v.ID == version {
			versionURL = v.URL
			break
		}
	}
	if versionURL == "" {
		return nil, newErr(KindInvalidArgument, nil, "unknown Minecraft version %q", version)
	}

	var info mojangapi.VersionInfo
	if err := httpx.GetJSON(ctx, client, versionURL, &info); err != nil {
		return nil, newErr(KindNetworkFailure, err, "fetching version metadata for %s", version)
	}
	if info.Downloads.ClientMappings == nil {
		return nil, newErr(KindFormatFailure, nil, "version %s has no client_mappings download", version)
	}
	dl := info.Downloads.ClientMappings

	data, err := cache.Load(ctx, MappingDownload{
		Kind:   "mojang",
		Source: dl.URL,
		Hash:   Sha1,
		Digest: strings.ToLower(dl.SHA1),
		Size:   dl.Size,
	})
	if err != nil {
		return nil, err
	}

	tree, diags := parse.Proguard(data)
	if diags != nil {
		zlog.Info(ctx).Int("diagnostics", len(diags.Errors)).Msg("proguard mapping parsed with diagnostics")
	}

	classes := make([]RawClassMapping, 0, len(tree.Classes))
	for _, c := range tree.Classes {
		rc := RawClassMapping{Mapping: [2]string{c.Mapping.PrimaryName, c.Mapping.SecondaryName}}
		for _, m := range c.Methods {
			rc.Methods = append(rc.Methods, RawMethodMapping{
				Descriptor: m.PrimaryDescriptor,
				Mapping:    [2]string{m.Mapping.PrimaryName, m.Mapping.SecondaryName},
			})
		}
		classes = append(classes, rc)
	}

	return ConvertMappings(names.Mojang, names.Obfuscated, version, classes, flip), nil
}

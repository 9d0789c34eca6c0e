package mapping

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/quay/zlog"

	"github.com/octylFractal/stacked-portrayals/internal/httpx"
	"github.com/octylFractal/stacked-portrayals/names"
	"github.com/octylFractal/stacked-portrayals/parse"
)

const fabricMavenBase = "https://maven.fabricmc.net/net/fabricmc/intermediary"

// loadFabricIntermediary fetches and parses Fabric's official/intermediary
// tiny-v2 mapping jar for version, per spec.md §4.9. flip selects the
// returned direction: false yields the file's natural Obfuscated ->
// FabricIntermediary mapping; true flips it to FabricIntermediary ->
// Obfuscated.
func loadFabricIntermediary(ctx context.Context, cache *Cache, version string, flip bool) (*BaseMapper, error) {
	ctx = zlog.ContextWithValues(ctx, "component", "mapping/loadFabricIntermediary", "version", version)
	client := httpx.Client{}

	jarURL := fmt.Sprintf("%s/%s/intermediary-%s-v2.jar", fabricMavenBase, version, version)
	digest, err := client.Fetch(ctx, jarURL+".sha512")
	if err != nil {
		return nil, newErr(KindNetworkFailure, err, "fetching sha512 sidecar for %s", jarURL)
	}

	data, err := cache.Load(ctx, MappingDownload{
		Kind:   "fabric_intermediary",
		Source: jarURL,
		Hash:   Sha512,
		Digest: strings.ToLower(strings.TrimSpace(string(digest))),
	})
	if err != nil {
		return nil, err
	}

	tinySrc, err := readTinyFromJar(data)
	if err != nil {
		return nil, err
	}

	tree, diags := parse.TinyV2(tinySrc)
	if diags != nil && tree == nil {
		return nil, newErr(KindFormatFailure, diags, "parsing fabric intermediary mappings for %s", version)
	}
	if diags != nil {
		zlog.Info(ctx).Int("diagnostics", len(diags.Errors)).Msg("tiny v2 mapping parsed with diagnostics")
	}
	if tree.Header.NamespaceA != "official" || tree.Header.NamespaceB != "intermediary" {
		return nil, newErr(KindFormatFailure, nil,
			"unexpected tiny v2 namespaces %q/%q, want official/intermediary",
			tree.Header.NamespaceA, tree.Header.NamespaceB)
	}

	classes := make([]RawClassMapping, 0, len(tree.Classes))
	for _, c := range tree.Classes {
		mapped := c.Mapping.MappedNames[0]
		if mapped == nil {
			continue
		}
		rc := RawClassMapping{Mapping: [2]string{c.Mapping.PrimaryName, *mapped}}
		for _, m := range c.Methods {
			mappedMethod := m.Mapping.MappedNames[0]
			if mappedMethod == nil {
				continue
			}
			rc.Methods = append(rc.Methods, RawMethodMapping{
				Descriptor: m.PrimaryDescriptor,
				Mapping:    [2]string{m.Mapping.PrimaryName, *mappedMethod},
			})
		}
		classes = append(classes, rc)
	}

	return ConvertMappings(names.Obfuscated, names.FabricIntermediary, version, classes, flip), nil
}

// readTinyFromJar opens data as a ZIP archive and returns the contents of
// mappings/mappings.tiny, the conventional entry name Fabric's
// intermediary jars use.
func readTinyFromJar(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, newErr(KindFormatFailure, err, "opening intermediary jar as a ZIP archive")
	}
	const entryName = "mappings/mappings.tiny"
	for _, f := range zr.File {
		if f.Name != entryName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, newErr(KindIOFailure, err, "opening %s in jar", entryName)
		}
		defer rc.Close()
		content, err := io.ReadAll(rc)
		if err != nil {
			return nil, newErr(KindIOFailure, err, "reading %s in jar", entryName)
		}
		return content, nil
	}
	return nil, newErr(KindFormatFailure, nil, "intermediary jar has no %s entry", entryName)
}

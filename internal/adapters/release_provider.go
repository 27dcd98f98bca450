package adapters

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/ZanzyTHEbar/errbuilder-go"

	"vx/internal/ports"
	"vx/internal/shared"
	"vx/internal/types"
)

// releaseSource describes where one runtime's official builds live.
// urlTemplate placeholders: {version}, {os}, {arch}, {ext}.
type releaseSource struct {
	indexURL    string
	urlTemplate string
	exeRelPath  string
	archNames   map[string]string
	osNames     map[string]string
}

// ReleaseProviderAdapter maps runtimes to their official release
// downloads. Runtimes without a source here install through their
// providing runtime instead (npm ships with node).
type ReleaseProviderAdapter struct {
	Client  *http.Client
	sources map[string]releaseSource
}

func NewReleaseProviderAdapter() ReleaseProviderAdapter {
	return ReleaseProviderAdapter{
		Client: &http.Client{Timeout: 30 * time.Second},
		sources: map[string]releaseSource{
			"node": {
				indexURL:    "https://nodejs.org/dist/index.json",
				urlTemplate: "https://nodejs.org/dist/v{version}/node-v{version}-{os}-{arch}.{ext}",
				exeRelPath:  "bin/node",
				osNames:     map[string]string{"windows": "win"},
				archNames:   map[string]string{"amd64": "x64", "arm64": "arm64"},
			},
			"go": {
				urlTemplate: "https://go.dev/dl/go{version}.{os}-{arch}.{ext}",
				exeRelPath:  "go/bin/go",
			},
			"uv": {
				urlTemplate: "https://github.com/astral-sh/uv/releases/download/{version}/uv-{arch}-{os}.{ext}",
				exeRelPath:  "uv",
				osNames: map[string]string{
					"linux":   "unknown-linux-gnu",
					"darwin":  "apple-darwin",
					"windows": "pc-windows-msvc",
				},
				archNames: map[string]string{"amd64": "x86_64", "arm64": "aarch64"},
			},
		},
	}
}

// FetchVersions lists installable versions newest first, from the
// runtime's release index when it has one.
func (a ReleaseProviderAdapter) FetchVersions(runtime string) ([]string, error) {
	src, ok := a.sources[runtime]
	if !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no release source for %s", runtime))
	}
	if src.indexURL == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeUnimplemented).
			WithMsg(fmt.Sprintf("%s has no queryable release index", runtime))
	}

	resp, err := a.Client.Get(src.indexURL)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeUnavailable).
			WithMsg("failed to fetch release index").
			WithCause(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, shared.HTTPStatusError("release index", resp.StatusCode, body)
	}

	var entries []struct {
		Version string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to decode release index").
			WithCause(err)
	}
	versions := make([]string, 0, len(entries))
	for _, entry := range entries {
		versions = append(versions, strings.TrimPrefix(entry.Version, "v"))
	}
	sort.Slice(versions, func(i, j int) bool {
		vi, erri := semver.NewVersion(versions[i])
		vj, errj := semver.NewVersion(versions[j])
		if erri != nil || errj != nil {
			return versions[i] > versions[j]
		}
		return vi.GreaterThan(vj)
	})
	return versions, nil
}

func (a ReleaseProviderAdapter) DownloadURL(runtime string, version string, platform types.Platform) (string, error) {
	src, ok := a.sources[runtime]
	if !ok {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no release source for %s", runtime))
	}
	osName := platform.OS
	if mapped, ok := src.osNames[platform.OS]; ok {
		osName = mapped
	}
	archName := platform.Arch
	if mapped, ok := src.archNames[platform.Arch]; ok {
		archName = mapped
	}
	ext := "tar.gz"
	if platform.OS == "windows" {
		ext = "zip"
	}
	url := src.urlTemplate
	for placeholder, value := range map[string]string{
		"{version}": strings.TrimPrefix(version, "v"),
		"{os}":      osName,
		"{arch}":    archName,
		"{ext}":     ext,
	} {
		url = strings.ReplaceAll(url, placeholder, value)
	}
	return url, nil
}

func (a ReleaseProviderAdapter) ExecutableRelativePath(runtime string, platform types.Platform) string {
	rel := runtime
	if src, ok := a.sources[runtime]; ok {
		rel = src.exeRelPath
	}
	if platform.OS == "windows" && !strings.HasSuffix(rel, ".exe") {
		rel += ".exe"
	}
	return rel
}

var _ ports.ProviderPort = ReleaseProviderAdapter{}

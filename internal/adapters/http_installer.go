package adapters

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"vx/internal/ports"
	"vx/internal/shared"
	"vx/internal/types"
)

// HTTPInstallerAdapter downloads a runtime release archive and unpacks
// it into the store. Installation is staged: the archive extracts into
// a temp directory that renames into place only on success, so a
// killed install never leaves a half-populated version directory.
type HTTPInstallerAdapter struct {
	Provider     ports.ProviderPort
	StoreRoot    string
	DownloadsDir string
	Platform     types.Platform
	Client       *http.Client
}

func NewHTTPInstallerAdapter(provider ports.ProviderPort, storeRoot string, downloadsDir string) HTTPInstallerAdapter {
	return HTTPInstallerAdapter{
		Provider:     provider,
		StoreRoot:    storeRoot,
		DownloadsDir: downloadsDir,
		Platform:     types.CurrentPlatform(),
		Client:       &http.Client{Timeout: 10 * time.Minute},
	}
}

func (a HTTPInstallerAdapter) Install(ctx context.Context, runtime string, version string) error {
	version, err := a.resolveVersion(runtime, version)
	if err != nil {
		return err
	}

	url, err := a.Provider.DownloadURL(runtime, version, a.Platform)
	if err != nil {
		return err
	}

	archive, err := a.download(ctx, runtime, version, url)
	if err != nil {
		return err
	}
	defer os.Remove(archive)

	staging, err := os.MkdirTemp(filepath.Join(a.StoreRoot, runtime), ".install-*")
	if err != nil {
		if mkErr := os.MkdirAll(filepath.Join(a.StoreRoot, runtime), 0o755); mkErr != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create store directory").
				WithCause(mkErr)
		}
		staging, err = os.MkdirTemp(filepath.Join(a.StoreRoot, runtime), ".install-*")
		if err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create staging directory").
				WithCause(err)
		}
	}
	defer os.RemoveAll(staging)

	if err := extractArchive(archive, staging, runtime); err != nil {
		return err
	}

	target := filepath.Join(a.StoreRoot, runtime, version)
	if err := os.Rename(staging, target); err != nil {
		if _, statErr := os.Stat(target); statErr == nil {
			// Another process finished the same install first.
			return nil
		}
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to commit %s %s into store", runtime, version)).
			WithCause(err)
	}
	log.Ctx(ctx).Info().
		Str("runtime", runtime).
		Str("version", version).
		Str("path", target).
		Msg("runtime unpacked into store")
	return nil
}

// resolveVersion turns a requested version into a concrete release.
// Full X.Y.Z pins are used verbatim; "latest" or empty takes the
// newest release; anything else (ranges, partial pins like "18")
// picks the newest release satisfying it.
func (a HTTPInstallerAdapter) resolveVersion(runtime string, version string) (string, error) {
	if version != "" && version != "latest" &&
		shared.IsExactVersion(version) && strings.Count(version, ".") >= 2 {
		return version, nil
	}

	versions, err := a.Provider.FetchVersions(runtime)
	if err != nil {
		return "", err
	}
	if len(versions) == 0 {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no installable versions for %s", runtime))
	}
	if version == "" || version == "latest" {
		return versions[0], nil
	}

	constraint, err := semver.NewConstraint(version)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("cannot interpret version %q for %s", version, runtime)).
			WithCause(err)
	}
	for _, candidate := range versions {
		parsed, perr := semver.NewVersion(candidate)
		if perr != nil {
			continue
		}
		if constraint.Check(parsed) {
			return candidate, nil
		}
	}
	return "", errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("no release of %s satisfies %s", runtime, version))
}

func (a HTTPInstallerAdapter) download(ctx context.Context, runtime string, version string, url string) (string, error) {
	if err := os.MkdirAll(a.DownloadsDir, 0o755); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create downloads directory").
			WithCause(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create download request").
			WithCause(err)
	}
	resp, err := a.Client.Do(req)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeUnavailable).
			WithMsg(fmt.Sprintf("failed to download %s %s", runtime, version)).
			WithCause(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", shared.HTTPStatusError("release download", resp.StatusCode, body)
	}

	out, err := os.CreateTemp(a.DownloadsDir, runtime+"-"+version+"-*"+archiveExt(url))
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create download file").
			WithCause(err)
	}
	name := out.Name()
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(name)
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("download interrupted").
			WithCause(err)
	}
	if err := out.Close(); err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}

func archiveExt(url string) string {
	switch {
	case strings.HasSuffix(url, ".zip"):
		return ".zip"
	case strings.HasSuffix(url, ".tar.gz"), strings.HasSuffix(url, ".tgz"):
		return ".tar.gz"
	default:
		return filepath.Ext(url)
	}
}

func extractArchive(archive string, dest string, runtime string) error {
	switch {
	case strings.HasSuffix(archive, ".zip"):
		return extractZip(archive, dest)
	case strings.HasSuffix(archive, ".tar.gz"), strings.HasSuffix(archive, ".tgz"):
		return extractTarGz(archive, dest)
	default:
		// Bare binary release; install it as-is.
		return copyBinary(archive, dest, runtime)
	}
}

func extractTarGz(archive string, dest string) error {
	file, err := os.Open(archive)
	if err != nil {
		return err
	}
	defer file.Close()
	gz, err := gzip.NewReader(file)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("archive is not valid gzip").
			WithCause(err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to read archive").
				WithCause(err)
		}
		target, err := safeJoin(dest, hdr.Name)
		if err != nil {
			return err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			if err := os.Symlink(hdr.Linkname, target); err != nil && !os.IsExist(err) {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(hdr.Mode).Perm())
			if err != nil {
				return err
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}
		}
	}
}

func extractZip(archive string, dest string) error {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("archive is not a valid zip").
			WithCause(err)
	}
	defer zr.Close()
	for _, file := range zr.File {
		target, err := safeJoin(dest, file.Name)
		if err != nil {
			return err
		}
		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		in, err := file.Open()
		if err != nil {
			return err
		}
		out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, file.Mode().Perm())
		if err != nil {
			in.Close()
			return err
		}
		_, err = io.Copy(out, in)
		in.Close()
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func copyBinary(archive string, dest string, runtime string) error {
	data, err := os.ReadFile(archive)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dest, shared.ExecutableFileName(runtime)), data, 0o755)
}

// safeJoin rejects archive members that would escape the destination.
func safeJoin(dest string, name string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(name))
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) && target != filepath.Clean(dest) {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("archive member escapes destination: %s", name))
	}
	return target, nil
}

var _ ports.InstallerPort = HTTPInstallerAdapter{}

package fetcher

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// ExtractZIP unpacks an archive into destDir and returns the extracted file
// paths. Census boundary archives are flat (the shapefile components sit at
// the archive root); NHGIS extracts nest files under a directory, so entry
// paths are preserved relative to destDir.
func ExtractZIP(zipPath, destDir string) ([]string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, eris.Wrapf(err, "zip: open archive %s", filepath.Base(zipPath))
	}
	defer r.Close() //nolint:errcheck

	root := filepath.Clean(destDir)
	var extracted []string
	for _, f := range r.File {
		dest := filepath.Join(root, f.Name)
		if !strings.HasPrefix(dest, root+string(os.PathSeparator)) {
			return extracted, eris.Errorf("zip: illegal path %q", f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return extracted, eris.Wrap(err, "zip: create directory")
			}
			continue
		}
		if err := writeEntry(f, dest); err != nil {
			return extracted, err
		}
		extracted = append(extracted, dest)
	}
	return extracted, nil
}

func writeEntry(f *zip.File, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return eris.Wrap(err, "zip: create parent directory")
	}
	rc, err := f.Open()
	if err != nil {
		return eris.Wrapf(err, "zip: open entry %s", f.Name)
	}
	defer rc.Close() //nolint:errcheck

	out, err := os.Create(dest)
	if err != nil {
		return eris.Wrap(err, "zip: create file")
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close() //nolint:errcheck
		return eris.Wrapf(err, "zip: write %s", f.Name)
	}
	return out.Close()
}

// ShapefilePath returns the first .shp among extracted paths, or an error
// when the archive held none.
func ShapefilePath(paths []string) (string, error) {
	for _, p := range paths {
		if strings.EqualFold(filepath.Ext(p), ".shp") {
			return p, nil
		}
	}
	return "", eris.New("zip: no shapefile in archive")
}

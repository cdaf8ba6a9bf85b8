package export

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const (
	ArchiveJSONName = "ghost-import.json"
	ArchiveImageDir = "content/images"
)

// WriteArchive writes payload as ghost-import.json followed by every image,
// stored under content/images/ at its path relative to root.
func WriteArchive(w io.Writer, payload []byte, root string, images []string) error {
	zw := zip.NewWriter(w)

	f, err := zw.CreateHeader(fileHeader(ArchiveJSONName))
	if err != nil {
		return err
	}
	if _, err := f.Write(payload); err != nil {
		return err
	}

	for _, img := range images {
		name, err := ArchiveImagePath(root, img)
		if err != nil {
			return err
		}
		if err := addFile(zw, name, img); err != nil {
			return err
		}
	}
	return zw.Close()
}

// ArchiveImagePath maps an image on disk to its entry name in the archive.
func ArchiveImagePath(root, img string) (string, error) {
	rel, err := filepath.Rel(root, img)
	if err != nil {
		return "", fmt.Errorf("relative path for %s: %w", img, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("image %s is outside %s", img, root)
	}
	return path.Join(ArchiveImageDir, filepath.ToSlash(rel)), nil
}

func addFile(zw *zip.Writer, name, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	w, err := zw.CreateHeader(fileHeader(name))
	if err != nil {
		return err
	}
	_, err = io.Copy(w, in)
	return err
}

func fileHeader(name string) *zip.FileHeader {
	h := &zip.FileHeader{
		Name:   name,
		Method: zip.Deflate,
	}
	h.SetMode(0o644)
	return h
}

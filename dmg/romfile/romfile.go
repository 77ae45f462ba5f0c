// Package romfile reads cartridge images from disk, unpacking gzip, xz, zip
// and 7z archives.
package romfile

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/ulikunitz/xz"
)

// ErrEmptyArchive is returned when an archive has no file to load.
var ErrEmptyArchive = errors.New("archive contains no files")

var romExtensions = []string{".gb", ".gbc", ".bin"}

// Load reads the image at filename. Archives are recognised by extension;
// the first ROM-looking entry is returned, or the first file if none match.
func Load(filename string) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".gz":
		data, err = gunzip(data)
	case ".xz":
		data, err = unxz(data)
	case ".zip":
		data, err = unzip(data)
	case ".7z":
		data, err = un7z(data)
	}
	if err != nil {
		return nil, fmt.Errorf("unpacking %s: %w", filename, err)
	}

	return data, nil
}

func gunzip(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}

func unxz(data []byte) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	return io.ReadAll(r)
}

// entry is an archive member, independent of the archive format.
type entry struct {
	name string
	dir  bool
	open func() (io.ReadCloser, error)
}

func unzip(data []byte) ([]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	entries := make([]entry, 0, len(r.File))
	for _, f := range r.File {
		entries = append(entries, entry{name: f.Name, dir: f.FileInfo().IsDir(), open: f.Open})
	}
	return extract(entries)
}

func un7z(data []byte) ([]byte, error) {
	r, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	entries := make([]entry, 0, len(r.File))
	for _, f := range r.File {
		entries = append(entries, entry{name: f.Name, dir: f.FileInfo().IsDir(), open: f.Open})
	}
	return extract(entries)
}

func extract(entries []entry) ([]byte, error) {
	var chosen *entry
	for i := range entries {
		e := &entries[i]
		if e.dir {
			continue
		}
		if chosen == nil {
			chosen = e
		}
		if isROMName(e.name) {
			chosen = e
			break
		}
	}
	if chosen == nil {
		return nil, ErrEmptyArchive
	}

	rc, err := chosen.open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", chosen.name, err)
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

func isROMName(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range romExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

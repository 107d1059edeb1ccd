// Package zip bundles in-memory files into a zip archive.
package zip

import (
	"archive/zip"
	"fmt"
	"io"
	"time"
)

// File is one archive member.
type File struct {
	Name     string
	Modified time.Time
	Data     []byte
}

// Write streams files into a zip archive on w. Member names must be unique.
func Write(w io.Writer, files []File) error {
	zw := zip.NewWriter(w)
	seen := make(map[string]struct{}, len(files))
	for _, f := range files {
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("zip: duplicate member %q", f.Name)
		}
		seen[f.Name] = struct{}{}
		hdr := &zip.FileHeader{Name: f.Name, Method: zip.Deflate, Modified: f.Modified}
		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("zip: create %s: %w", f.Name, err)
		}
		if _, err := fw.Write(f.Data); err != nil {
			return fmt.Errorf("zip: write %s: %w", f.Name, err)
		}
	}
	return zw.Close()
}

package zip

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path"
	"strings"
	"time"
)

type Asset struct {
	Filename string
	MIME     string
	Data     []byte
	Modified time.Time
}

// ArchiveAssets packs assets into a zip archive. Duplicate filenames get a
// numeric suffix; images are stored without recompression.
func ArchiveAssets(assets []Asset) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	names := NewNames()
	for _, asset := range assets {
		hdr := &zip.FileHeader{
			Name:     names.Next(asset.Filename),
			Method:   zip.Deflate,
			Modified: asset.Modified,
		}
		if strings.HasPrefix(asset.MIME, "image/") {
			hdr.Method = zip.Store
		}
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return nil, fmt.Errorf("zip: create %s: %w", hdr.Name, err)
		}
		if _, err := w.Write(asset.Data); err != nil {
			return nil, fmt.Errorf("zip: write %s: %w", hdr.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: close: %w", err)
	}
	return buf.Bytes(), nil
}

// Names hands out filenames that are unique within one batch. A repeated
// name gets a " (2)", " (3)" ... suffix before its extension.
type Names struct {
	used map[string]int
}

func NewNames() *Names {
	return &Names{used: make(map[string]int)}
}

// Next returns name, or the first suffixed variant not handed out yet.
func (n *Names) Next(name string) string {
	name = strings.TrimLeft(strings.ReplaceAll(name, "\\", "/"), "/")
	if name == "" {
		name = "file"
	}
	count := n.used[name]
	n.used[name] = count + 1
	if count == 0 {
		return name
	}
	ext := path.Ext(name)
	candidate := fmt.Sprintf("%s (%d)%s", strings.TrimSuffix(name, ext), count+1, ext)
	if _, taken := n.used[candidate]; taken {
		return n.Next(candidate)
	}
	n.used[candidate] = 1
	return candidate
}

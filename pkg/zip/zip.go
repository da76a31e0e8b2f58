package zip

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
)

type Asset struct {
	Filename string
	MIME     string
	Data     []byte
}

// ArchiveAssets packs the assets into a single zip. Duplicate filenames get
// a numeric suffix so every asset survives the archive.
func ArchiveAssets(assets []Asset) []byte {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	seen := make(map[string]int, len(assets))
	for _, asset := range assets {
		name := asset.Filename
		if n := seen[name]; n > 0 {
			ext := ""
			if i := strings.LastIndex(name, "."); i > 0 {
				name, ext = name[:i], name[i:]
			}
			name = fmt.Sprintf("%s-%d%s", name, n, ext)
		}
		seen[asset.Filename]++
		w, err := zw.Create(name)
		if err != nil {
			continue
		}
		if _, err := w.Write(asset.Data); err != nil {
			return nil
		}
	}
	_ = zw.Close()
	return buf.Bytes()
}

package acquire

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/detectabb/detectago/constants"
)

// ScanDirectory walks root and returns the paths of files that look
// like boleto candidates by extension (pdf/jpg/jpeg/png). Hidden files
// and directories are skipped. Walk errors on individual entries are
// skipped too; batch intake is best effort.
func ScanDirectory(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		ext := constants.NormalizeExt(filepath.Ext(path))
		if _, ok := constants.AllowedExtensions[ext]; ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}

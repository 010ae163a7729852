// Package filex contains small filesystem helpers used when exporting
// library assets to disk.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureSubDir creates (if needed) a subdirectory of the current working
// directory and returns its absolute path.
func EnsureSubDir(dirName string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// SafeName turns an arbitrary asset name into a filename: path separators
// and control characters are replaced, empty input becomes "asset".
func SafeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "asset"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':':
			return '_'
		case r < 0x20:
			return '_'
		default:
			return r
		}
	}, name)
}

// WriteAsset writes data into dir under name, appending a numeric suffix
// instead of overwriting an existing file. The final path is returned.
func WriteAsset(dir, name string, data []byte) (string, error) {
	name = SafeName(name)
	path := filepath.Join(dir, name)

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		path = filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, i, ext))
	}

	if err := os.WriteFile(path, data, 0o660); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

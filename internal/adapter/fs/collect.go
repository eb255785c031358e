package fs

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Collect expands upload arguments into concrete PDF file paths. Each
// argument may be a literal file, a directory (searched recursively),
// or a glob like docs/**/*.pdf. Results are deduplicated in argument
// order.
func Collect(args []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		switch {
		case err == nil && !info.IsDir():
			add(arg)
			continue
		case err == nil && info.IsDir():
			matches, err := doublestar.FilepathGlob(filepath.Join(arg, "**", "*.pdf"))
			if err != nil {
				return nil, fmt.Errorf("invalid directory pattern for %s: %w", arg, err)
			}
			for _, m := range matches {
				add(m)
			}
			continue
		}

		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %s", arg)
		}
		for _, m := range matches {
			if isPDF(m) {
				add(m)
			}
		}
	}

	return paths, nil
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// HashFile returns the hex SHA-256 digest of a file's contents.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

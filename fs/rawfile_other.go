//go:build !unix

package fs

import (
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// readTextFile falls back to a plain read on platforms without the unix
// mmap build tag, matching the loader_other.go split the teacher uses
// for its own mmap-backed reader.
func readTextFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, raw)
	if err != nil {
		return string(raw), nil
	}
	return string(out), nil
}

//go:build unix

package fs

import (
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// readTextFile mmaps path to avoid copying large raw/text content into
// the heap before BOM-stripping and decoding, matching internal/mmfile's
// approach in the teacher repo. An empty file returns "" without being
// mapped; if the mmap call fails, it falls back to os.ReadFile.
func readTextFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	if info.Size() == 0 {
		return "", nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		raw, rerr := os.ReadFile(path)
		if rerr != nil {
			return "", rerr
		}
		return stripBOM(raw)
	}
	defer unix.Munmap(data)

	return stripBOM(data)
}

// stripBOM detects and removes a UTF-8 or UTF-16 byte-order mark,
// transcoding UTF-16 content down to UTF-8 in the process, using
// golang.org/x/text/encoding/unicode the same way the teacher's registry
// string handling does.
func stripBOM(data []byte) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return string(data), nil
	}
	return string(out), nil
}

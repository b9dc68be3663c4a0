// Package uploads writes marker images to a local directory that the HTTP
// layer serves under /uploads.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/samirrijal/mapboard/internal/core/domain"
)

// URLPrefix is the path uploaded files are served from.
const URLPrefix = "/uploads/"

// MaxNameLen keeps URLPrefix+name within the 255 characters image_url holds.
const MaxNameLen = 255 - len(URLPrefix)

// longest extension kept when a name is shortened
const maxExtLen = 16

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// Store saves uploads into a single flat directory.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir. The directory is created lazily.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory files are written to.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes content under the sanitised form of filename and returns the
// URL it is served from. An existing file with the same name is overwritten.
func (s *Store) Save(ctx context.Context, filename string, content io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name, err := SanitizeFilename(filename)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	path := filepath.Join(s.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}

	if _, err := io.Copy(f, content); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}

	return URLPrefix + name, nil
}

// Remove deletes the file behind a URL returned by Save. A missing file is
// not an error.
func (s *Store) Remove(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name, ok := strings.CutPrefix(url, URLPrefix)
	if !ok || name == "" || name != filepath.Base(name) {
		return fmt.Errorf("remove %q: not an upload URL", url)
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

// SanitizeFilename reduces a client supplied name to a safe ASCII base name.
// Path separators never survive, so the result cannot escape the upload
// directory, and long names are shortened to MaxNameLen.
// domain.ErrInvalidFilename is returned when nothing is left.
func SanitizeFilename(filename string) (string, error) {
	ascii, _, err := transform.String(transform.Chain(
		norm.NFKD,
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	), filename)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidFilename, err)
	}

	ascii = strings.NewReplacer("/", " ", "\\", " ").Replace(ascii)
	ascii = strings.Join(strings.Fields(ascii), "_")
	ascii = unsafeChars.ReplaceAllString(ascii, "")
	ascii = strings.Trim(ascii, "._")

	if len(ascii) > MaxNameLen {
		ascii = shorten(ascii)
	}

	if ascii == "" {
		return "", domain.ErrInvalidFilename
	}
	return ascii, nil
}

// shorten cuts name to MaxNameLen bytes, keeping a short extension. name is
// ASCII, so byte offsets are rune boundaries.
func shorten(name string) string {
	ext := filepath.Ext(name)
	if len(ext) > maxExtLen {
		ext = ""
	}
	base := strings.TrimRight(name[:MaxNameLen-len(ext)], "._")
	if base == "" {
		return ""
	}
	return base + ext
}

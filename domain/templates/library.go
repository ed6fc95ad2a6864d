package templates

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/corona10/goimagehash"

	"github.com/soocke/training-overlay/domain/vision"
)

// ErrLibraryMissing is returned when the template directory does not exist.
var ErrLibraryMissing = errors.New("template library missing")

// Library holds the normalized templates loaded from one directory. It is
// immutable after Load.
type Library struct {
	dir    string
	main   []*vision.Template
	extras []*vision.Template
}

// Load reads every .png file in dir, normalizes it with vision.Normalize using
// factor and splits the result into the main set and the extra set. A file is
// an extra when its name (with or without extension) appears in extras; extras
// keep the order of that list. Unreadable files are logged and skipped.
func Load(dir string, extras []string, factor float64, logger *slog.Logger) (*Library, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrLibraryMissing, dir)
		}
		return nil, fmt.Errorf("stat template dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrLibraryMissing, dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read template dir %s: %w", dir, err)
	}

	extraRank := make(map[string]int, len(extras))
	for i, e := range extras {
		extraRank[strings.ToLower(strings.TrimSpace(e))] = i
	}
	extraSlots := make([]*vision.Template, len(extras))

	lib := &Library{dir: dir}
	hashes := newHashIndex(logger)
	// os.ReadDir sorts by file name, so main keeps name order.
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		img, err := decodePNG(path)
		if err != nil {
			if logger != nil {
				logger.Warn("template skipped", "path", path, "error", err)
			}
			continue
		}
		hashes.check(name, img)
		tmpl := vision.NewTemplate(name, path, vision.Normalize(img, factor))

		rank, isExtra := extraRank[strings.ToLower(e.Name())]
		if !isExtra {
			rank, isExtra = extraRank[strings.ToLower(name)]
		}
		if isExtra {
			extraSlots[rank] = tmpl
			continue
		}
		lib.main = append(lib.main, tmpl)
	}
	for i, t := range extraSlots {
		if t != nil {
			lib.extras = append(lib.extras, t)
		} else if logger != nil {
			logger.Warn("extra template not found", "name", extras[i], "dir", dir)
		}
	}
	if logger != nil {
		logger.Info("templates loaded", "dir", dir, "main", len(lib.main), "extras", len(lib.extras), "factor", factor)
	}
	return lib, nil
}

// Dir returns the directory the library was loaded from.
func (l *Library) Dir() string {
	if l == nil {
		return ""
	}
	return l.dir
}

// Main returns the main templates sorted by name.
func (l *Library) Main() []*vision.Template {
	if l == nil {
		return nil
	}
	return l.main
}

// Extras returns the extra templates in configured order.
func (l *Library) Extras() []*vision.Template {
	if l == nil {
		return nil
	}
	return l.extras
}

// Len returns the number of main templates.
func (l *Library) Len() int {
	if l == nil {
		return 0
	}
	return len(l.main)
}

func decodePNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	if b := img.Bounds(); b.Empty() {
		return nil, fmt.Errorf("empty image %v", b)
	}
	return img, nil
}

// hashIndex flags templates whose difference hash equals an earlier one.
type hashIndex struct {
	logger *slog.Logger
	names  []string
	hashes []*goimagehash.ImageHash
}

func newHashIndex(logger *slog.Logger) *hashIndex { return &hashIndex{logger: logger} }

// check records img under name and reports whether it duplicates an earlier template.
func (h *hashIndex) check(name string, img image.Image) bool {
	hash, err := goimagehash.DifferenceHash(img)
	if err != nil {
		if h.logger != nil {
			h.logger.Debug("template hash failed", "name", name, "error", err)
		}
		return false
	}
	dup := false
	for i, other := range h.hashes {
		d, err := hash.Distance(other)
		if err == nil && d == 0 {
			dup = true
			if h.logger != nil {
				h.logger.Warn("template looks like a duplicate", "name", name, "of", h.names[i])
			}
			break
		}
	}
	h.names = append(h.names, name)
	h.hashes = append(h.hashes, hash)
	return dup
}

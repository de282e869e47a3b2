package textrender

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

// PreferredFonts is the monospaced fallback chain, most preferred first.
var PreferredFonts = []string{
	"DejaVuSansMono.ttf",
	"LiberationMono-Regular.ttf",
}

// BuiltinFontName names the face used when no preferred font can be loaded.
const BuiltinFontName = "basicfont-7x13"

var systemFontDirs = []string{
	"/usr/share/fonts",
	"/usr/local/share/fonts",
	"/Library/Fonts",
	"/System/Library/Fonts",
	`C:\Windows\Fonts`,
}

// FontOptions controls where fonts are looked up and at what size.
type FontOptions struct {
	Size  float64  // pixels per em
	Paths []string // explicit font files, tried before the preferred chain
	Dirs  []string // extra directories searched for the preferred chain
}

// ResolvedFont is the outcome of probing the fallback chain.
type ResolvedFont struct {
	Face font.Face
	Name string
	Path string // empty for the built-in face
}

// ResolveFont walks the fallback chain once: explicit paths, then each
// preferred font in the configured and system directories, then the
// built-in bitmap face. It never fails.
func ResolveFont(opts FontOptions) ResolvedFont {
	for _, path := range opts.Paths {
		if face, err := loadFace(path, opts.Size); err == nil {
			return ResolvedFont{Face: face, Name: filepath.Base(path), Path: path}
		}
	}

	dirs := append(append([]string{}, opts.Dirs...), userFontDirs()...)
	dirs = append(dirs, systemFontDirs...)

	for _, name := range PreferredFonts {
		for _, path := range findFont(dirs, name) {
			if face, err := loadFace(path, opts.Size); err == nil {
				return ResolvedFont{Face: face, Name: name, Path: path}
			}
		}
	}

	return ResolvedFont{Face: basicfont.Face7x13, Name: BuiltinFontName}
}

func loadFace(path string, size float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

var errFound = errors.New("found")

// findFont returns every file called name under dirs, first match per dir.
func findFont(dirs []string, name string) []string {
	var matches []string
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if !d.IsDir() && d.Name() == name {
				matches = append(matches, path)
				return errFound
			}
			return nil
		})
	}
	return matches
}

func userFontDirs() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(home, ".fonts"),
		filepath.Join(home, ".local", "share", "fonts"),
	}
}

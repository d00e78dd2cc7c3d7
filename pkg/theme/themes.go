package theme

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/rangeplot/pkg/errors"
)

// DefaultTheme is used when no theme is named.
const DefaultTheme = "light"

var (
	themesMu sync.RWMutex
	themes   = map[string]map[string]any{
		"light": {},
		"dark": {
			"colormap":    "G10",
			"fig_bkg":     "#1f1f1f",
			"plot_border": "white",
			"title_color": "goldenrod",
			"plot_bkg":    "grey",
			"grid_color":  "darkgrey",
			"arrow_color": "lightgrey",
			"shrunk_bkg":  "lightblue",
		},
		"Mariotti_lab": {
			"colormap":    Popart,
			"shrunk_bkg":  "#e7e0f5",
			"fig_bkg":     "#fff5ee",
			"title_color": "#590000",
			"plot_border": "#4c644c",
		},
		"swimming_pool": {
			"fig_bkg":     "#696969",
			"plot_bkg":    "#71E2E8",
			"colormap":    []string{"#0D61AF", "#B82C10", "white"},
			"shrunk_bkg":  "#c6e6c6",
			"plot_border": "#011334",
			"title_color": "#011334",
		},
	}
)

// Themes lists the registered theme names, sorted.
func Themes() []string {
	themesMu.RLock()
	defer themesMu.RUnlock()
	out := make([]string, 0, len(themes))
	for k := range themes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ForTheme returns the light defaults with the named theme's overrides
// applied. An empty name means the light theme.
func ForTheme(name string) (*Options, error) {
	if name == "" {
		name = DefaultTheme
	}
	themesMu.RLock()
	overrides, ok := themes[name]
	themesMu.RUnlock()
	if !ok {
		return nil, errors.ValidateTheme(name, Themes())
	}
	o := Default()
	if err := o.Apply(overrides); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTheme, err, "theme %s", name)
	}
	return o, nil
}

// RegisterTheme adds or replaces a theme. The overrides are validated
// against the light defaults before the theme is stored.
func RegisterTheme(name string, overrides map[string]any) error {
	if name == "" {
		return errors.New(errors.ErrCodeInvalidTheme, "theme name cannot be empty")
	}
	if err := Default().Apply(overrides); err != nil {
		return err
	}
	themesMu.Lock()
	defer themesMu.Unlock()
	themes[name] = overrides
	return nil
}

// =============================================================================
// Options files
// =============================================================================

// File is the on-disk form of an options file:
//
//	theme = "dark"
//
//	[options]
//	exon_height = 0.8
//	colormap = ["#0D61AF", "#B82C10"]
//	x_ticks = { "1" = 5, "2" = [0, 100, 200] }
type File struct {
	Theme   string         `toml:"theme"`
	Options map[string]any `toml:"options"`
}

// LoadFile decodes an options file. Unknown top-level keys and unknown
// option keys are rejected.
func LoadFile(path string) (*File, error) {
	var f File
	md, err := toml.DecodeFile(path, &f)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "options file %s does not exist", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidOption, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidOption, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := Default().Apply(f.Options); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadThemeDir registers every *.toml file in dir as a theme named after the
// file. The file's own theme key, when set, names the base theme whose
// overrides are merged underneath. A missing directory is not an error.
func LoadThemeDir(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.toml"))
	if err != nil {
		return nil, err
	}
	var loaded []string
	for _, p := range paths {
		f, err := LoadFile(p)
		if err != nil {
			return loaded, err
		}
		merged := map[string]any{}
		if f.Theme != "" {
			themesMu.RLock()
			base, ok := themes[f.Theme]
			themesMu.RUnlock()
			if !ok {
				return loaded, errors.ValidateTheme(f.Theme, Themes())
			}
			for k, v := range base {
				merged[k] = v
			}
		}
		for k, v := range f.Options {
			merged[k] = v
		}
		name := strings.TrimSuffix(filepath.Base(p), ".toml")
		if err := RegisterTheme(name, merged); err != nil {
			return loaded, err
		}
		loaded = append(loaded, name)
	}
	return loaded, nil
}

// ParseValue interprets a command-line value as TOML: 5 is an int, 0.5 a
// float, ["a", "b"] a list and {"1" = 3} a table. Anything that is not
// valid TOML is returned as the bare string.
func ParseValue(s string) any {
	var v struct {
		V any `toml:"v"`
	}
	if _, err := toml.Decode("v = "+s, &v); err != nil || v.V == nil {
		return s
	}
	return v.V
}

package theme

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/matzehuels/rangeplot/pkg/errors"
)

// Colormap assigns colors to color tags. Exactly one of Name, List or Map is
// set; the zero value means the default palette.
type Colormap struct {
	Name string            `json:"name,omitempty"`
	List []string          `json:"list,omitempty"`
	Map  map[string]string `json:"map,omitempty"`
}

// Named returns a colormap referring to a built-in palette.
func Named(name string) Colormap { return Colormap{Name: name} }

// ListOf returns a colormap cycling through colors.
func ListOf(colors ...string) Colormap { return Colormap{List: colors} }

// MapOf returns a colormap with explicit tag to color entries.
func MapOf(m map[string]string) Colormap { return Colormap{Map: m} }

// String renders the colormap the way the options table shows it.
func (c Colormap) String() string {
	switch {
	case c.Map != nil:
		keys := make([]string, 0, len(c.Map))
		for k := range c.Map {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s: %s", k, c.Map[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case c.List != nil:
		return "[" + strings.Join(c.List, ", ") + "]"
	case c.Name != "":
		return c.Name
	}
	return "popart"
}

// MarshalJSON keeps the compact forms: a name is a string, a list an array.
func (c Colormap) MarshalJSON() ([]byte, error) {
	switch {
	case c.Map != nil:
		return json.Marshal(c.Map)
	case c.List != nil:
		return json.Marshal(c.List)
	}
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts the forms MarshalJSON writes.
func (c *Colormap) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	cm, err := toColormap(v)
	if err != nil {
		return err
	}
	*c = cm
	return nil
}

// Assignment is the result of coloring a set of tags.
type Assignment struct {
	Colors map[string]string

	// Iterated is set when a list had fewer colors than tags and was cycled.
	Iterated bool

	// Missing is set when a map lacked some tags; those are colored black.
	Missing bool
}

// Assign gives every tag a color. Tags are expected in first-appearance
// order, which decides which list color each tag receives.
func (c Colormap) Assign(tags []string) (Assignment, error) {
	out := Assignment{Colors: make(map[string]string, len(tags))}

	if c.Map != nil {
		for _, t := range tags {
			col, ok := c.Map[t]
			if !ok {
				col = "black"
				out.Missing = true
			}
			out.Colors[t] = col
		}
		return out, nil
	}

	list := c.List
	if list == nil {
		name := c.Name
		if name == "" {
			name = "popart"
		}
		p, ok := Palette(name)
		if !ok {
			return Assignment{}, errors.New(errors.ErrCodeInvalidColormap,
				"unknown colormap %q (available: %s)", name, strings.Join(PaletteNames(), ", "))
		}
		list = p
	}
	if len(list) == 0 {
		return Assignment{}, errors.New(errors.ErrCodeInvalidColormap, "colormap list is empty")
	}

	out.Iterated = len(tags) > len(list)
	for i, t := range tags {
		out.Colors[t] = list[i%len(list)]
	}
	return out, nil
}

// Validate checks that every color in the colormap parses and that a named
// palette exists.
func (c Colormap) Validate() error {
	if c.Map == nil && c.List == nil {
		if c.Name == "" {
			return nil
		}
		if _, ok := Palette(c.Name); !ok {
			return errors.New(errors.ErrCodeInvalidColormap, "unknown colormap %q", c.Name)
		}
		return nil
	}
	colors := slices.Clone(c.List)
	for _, v := range c.Map {
		colors = append(colors, v)
	}
	for _, col := range colors {
		if _, err := parse(col); err != nil {
			return err
		}
	}
	return nil
}

func toColormap(v any) (Colormap, error) {
	switch x := v.(type) {
	case Colormap:
		return x, nil
	case string:
		return Named(x), nil
	case []string:
		return ListOf(x...), nil
	case map[string]string:
		return MapOf(x), nil
	case []any:
		list := make([]string, len(x))
		for i, e := range x {
			s, ok := e.(string)
			if !ok {
				return Colormap{}, errors.New(errors.ErrCodeInvalidColormap, "colormap list entries must be strings, got %T", e)
			}
			list[i] = s
		}
		return ListOf(list...), nil
	case map[string]any:
		m := make(map[string]string, len(x))
		for k, e := range x {
			s, ok := e.(string)
			if !ok {
				return Colormap{}, errors.New(errors.ErrCodeInvalidColormap, "colormap entry %q must be a string, got %T", k, e)
			}
			m[k] = s
		}
		return MapOf(m), nil
	}
	return Colormap{}, errors.New(errors.ErrCodeInvalidColormap, "unsupported colormap value %T", v)
}

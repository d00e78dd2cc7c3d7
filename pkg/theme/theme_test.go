package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/rangeplot/pkg/errors"
)

func TestDefault(t *testing.T) {
	o := Default()
	if o.ExonHeight != 0.6 || o.VSpacer != 0.5 || o.PlotlyPort != 8050 {
		t.Errorf("unexpected defaults: %+v", o)
	}
	if o.ArrowSize != Fraction(0.006) || o.ShrinkThreshold != Fraction(0.01) {
		t.Errorf("amount defaults wrong: %v %v", o.ArrowSize, o.ShrinkThreshold)
	}
	if o.Colormap.String() != "popart" {
		t.Errorf("colormap = %s", o.Colormap)
	}
}

func TestForTheme(t *testing.T) {
	tests := []struct {
		name  string
		check func(*Options) bool
	}{
		{"", func(o *Options) bool { return o.FigBkg == "white" }},
		{"light", func(o *Options) bool { return o.FigBkg == "white" }},
		{"dark", func(o *Options) bool { return o.FigBkg == "#1f1f1f" && o.Colormap.Name == "G10" }},
		{"Mariotti_lab", func(o *Options) bool { return len(o.Colormap.List) == 21 && o.TitleColor == "#590000" }},
		{"swimming_pool", func(o *Options) bool { return len(o.Colormap.List) == 3 && o.PlotBkg == "#71E2E8" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := ForTheme(tt.name)
			if err != nil {
				t.Fatalf("ForTheme(%q): %v", tt.name, err)
			}
			if !tt.check(o) {
				t.Errorf("ForTheme(%q) = %+v", tt.name, o)
			}
			// untouched keys keep the light default
			if o.ExonHeight != 0.6 {
				t.Errorf("exon_height = %g, want 0.6", o.ExonHeight)
			}
		})
	}

	if _, err := ForTheme("neon"); !errors.Is(err, errors.ErrCodeInvalidTheme) {
		t.Errorf("unknown theme: got %v", err)
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		key     string
		value   any
		want    string
		wantErr errors.Code
	}{
		{"exon_height", 0.8, "0.8", ""},
		{"exon_height", int64(1), "1", ""},
		{"exon_height", "tall", "", errors.ErrCodeInvalidOption},
		{"arrow_size", int64(20), "20", ""},
		{"arrow_size", 0.01, "0.01", ""},
		{"shrink_threshold", "50", "50", ""},
		{"exon_border", "red", "red", ""},
		{"exon_border", nil, "None", ""},
		{"fig_bkg", nil, "", errors.ErrCodeInvalidOption},
		{"fig_bkg", "notacolor", "", errors.ErrCodeInvalidColormap},
		{"colormap", "set2", "set2", ""},
		{"colormap", "nope", "", errors.ErrCodeInvalidColormap},
		{"colormap", []any{"#fff", "rgb(1, 2, 3)"}, "[#fff, rgb(1, 2, 3)]", ""},
		{"colormap", map[string]any{"a": "red"}, "{a: red}", ""},
		{"plotly_port", int64(9000), "9000", ""},
		{"plotly_port", int64(0), "", errors.ErrCodeInvalidOption},
		{"x_ticks", int64(5), "5", ""},
		{"x_ticks", []any{int64(0), int64(100)}, "[0 100]", ""},
		{"x_ticks", map[string]any{"1": int64(3), "2": []any{int64(10)}}, "{1: 3, 2: [10]}", ""},
		{"x_ticks", int64(1), "", errors.ErrCodeInvalidOption},
		{"bogus", 1, "", errors.ErrCodeInvalidOption},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			o := Default()
			err := o.Set(tt.key, tt.value)
			if tt.wantErr != "" {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Set(%s, %v) error = %v, want %s", tt.key, tt.value, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Set(%s, %v): %v", tt.key, tt.value, err)
			}
			if got, _ := o.Get(tt.key); got != tt.want {
				t.Errorf("Get(%s) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestAmount(t *testing.T) {
	if got := Fraction(0.01).Of(1000); got != 10 {
		t.Errorf("Fraction.Of = %g, want 10", got)
	}
	if got := BasePairs(7).Of(1000); got != 7 {
		t.Errorf("BasePairs.Of = %g, want 7", got)
	}
}

func TestXTicksFor(t *testing.T) {
	x := XTicks{ByChrom: map[string]XTicks{"1": {Count: 3}}}
	if x.For("1").Count != 3 {
		t.Error("per-chromosome entry not used")
	}
	if !x.For("2").IsZero() {
		t.Error("missing chromosome should have no override")
	}
	if (XTicks{Count: 4}).For("9").Count != 4 {
		t.Error("global setting should apply to any chromosome")
	}
}

func TestDescribe(t *testing.T) {
	o := Default()
	if err := o.Set("v_spacer", 1.0); err != nil {
		t.Fatal(err)
	}
	entries := o.Describe()
	if len(entries) != len(Keys()) {
		t.Fatalf("Describe returned %d entries, want %d", len(entries), len(Keys()))
	}
	for _, e := range entries {
		if e.Description == "" {
			t.Errorf("%s has no description", e.Key)
		}
		if e.Key == "v_spacer" && (e.Value != "1" || e.Default != "0.5") {
			t.Errorf("v_spacer entry = %+v", e)
		}
	}
}

func TestClone(t *testing.T) {
	o := Default()
	_ = o.Set("colormap", []any{"red", "blue"})
	_ = o.Set("x_ticks", []any{int64(1), int64(2)})
	c := o.Clone()
	c.Colormap.List[0] = "green"
	c.XTicks.Values[0] = 99
	if o.Colormap.List[0] != "red" || o.XTicks.Values[0] != 1 {
		t.Error("Clone should not share slices")
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"5", int64(5)},
		{"0.5", 0.5},
		{"grey", "grey"},
		{"#1f1f1f", "#1f1f1f"},
		{`"quoted"`, "quoted"},
		{`["a", "b"]`, []any{"a", "b"}},
		{`{chr1 = 3}`, map[string]any{"chr1": int64(3)}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ParseValue(tt.in)); diff != "" {
				t.Errorf("ParseValue(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.toml")
	writeFile(t, good, "theme = \"dark\"\n[options]\nexon_height = 0.8\ncolormap = [\"red\", \"blue\"]\n")

	f, err := LoadFile(good)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if f.Theme != "dark" || f.Options["exon_height"] != 0.8 {
		t.Errorf("LoadFile = %+v", f)
	}

	typo := filepath.Join(dir, "typo.toml")
	writeFile(t, typo, "themes = \"dark\"\n")
	if _, err := LoadFile(typo); !errors.Is(err, errors.ErrCodeInvalidOption) {
		t.Errorf("unknown top-level key: got %v", err)
	}

	badKey := filepath.Join(dir, "bad.toml")
	writeFile(t, badKey, "[options]\nexon_heigth = 1.0\n")
	if _, err := LoadFile(badKey); !errors.Is(err, errors.ErrCodeInvalidOption) {
		t.Errorf("unknown option: got %v", err)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: got %v", err)
	}
}

func TestLoadThemeDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "midnight.toml"), "theme = \"dark\"\n[options]\ntitle_color = \"white\"\n")

	loaded, err := LoadThemeDir(dir)
	if err != nil {
		t.Fatalf("LoadThemeDir: %v", err)
	}
	if diff := cmp.Diff([]string{"midnight"}, loaded); diff != "" {
		t.Errorf("loaded mismatch (-want +got):\n%s", diff)
	}
	o, err := ForTheme("midnight")
	if err != nil {
		t.Fatal(err)
	}
	if o.TitleColor != "white" || o.FigBkg != "#1f1f1f" {
		t.Errorf("midnight should inherit dark: %+v", o)
	}

	if loaded, err := LoadThemeDir(filepath.Join(dir, "absent")); err != nil || len(loaded) != 0 {
		t.Errorf("missing dir: %v, %v", loaded, err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

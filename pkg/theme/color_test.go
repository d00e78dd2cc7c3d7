package theme

import (
	"testing"

	"github.com/matzehuels/rangeplot/pkg/errors"
)

func TestHex(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"white", "#ffffff", false},
		{"LightGrey", "#d3d3d3", false},
		{"#F05F89", "#f05f89", false},
		{"#fff", "#ffffff", false},
		{"rgb(255, 0, 0)", "#ff0000", false},
		{"rgb(300,0,0)", "#ff0000", false},
		{"", "", true},
		{"#zzzzzz", "", true},
		{"rgb(a,b,c)", "", true},
		{"chartreusy", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Hex(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Hex(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidColormap) {
				t.Errorf("Hex(%q) error code = %s", tt.in, errors.GetCode(err))
			}
			if got != tt.want {
				t.Errorf("Hex(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLighten(t *testing.T) {
	if got := Lighten("black", 1); got != "#ffffff" {
		t.Errorf("Lighten(black, 1) = %s", got)
	}
	if got := Lighten("#336699", 0); got != "#336699" {
		t.Errorf("Lighten(x, 0) = %s", got)
	}
	if got := Lighten("bogus", 0.5); got != "bogus" {
		t.Errorf("Lighten should pass through unparseable input, got %s", got)
	}
}

func TestMustColor(t *testing.T) {
	r, g, b, _ := MustColor("nonsense").RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Error("MustColor should fall back to black")
	}
}

func TestColormapAssign(t *testing.T) {
	tags := []string{"a", "b", "c"}

	t.Run("list truncated", func(t *testing.T) {
		got, err := ListOf("red", "green", "blue", "pink").Assign(tags)
		if err != nil {
			t.Fatal(err)
		}
		if got.Iterated || got.Colors["c"] != "blue" {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("list cycled", func(t *testing.T) {
		got, err := ListOf("red", "green").Assign(tags)
		if err != nil {
			t.Fatal(err)
		}
		if !got.Iterated || got.Colors["c"] != "red" {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("map with missing tag", func(t *testing.T) {
		got, err := MapOf(map[string]string{"a": "red"}).Assign(tags)
		if err != nil {
			t.Fatal(err)
		}
		if !got.Missing || got.Colors["b"] != "black" || got.Colors["a"] != "red" {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("named palette case-insensitive", func(t *testing.T) {
		got, err := Named("Dark2").Assign(tags)
		if err != nil {
			t.Fatal(err)
		}
		if got.Colors["a"] != "#1B9E77" {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("zero value is popart", func(t *testing.T) {
		got, err := Colormap{}.Assign(tags)
		if err != nil {
			t.Fatal(err)
		}
		if got.Colors["a"] != "#f05f89" {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		if _, err := Named("rainbow").Assign(tags); !errors.Is(err, errors.ErrCodeInvalidColormap) {
			t.Errorf("got %v", err)
		}
	})
}

func TestColormapJSON(t *testing.T) {
	for _, cm := range []Colormap{Named("G10"), ListOf("red", "blue"), MapOf(map[string]string{"x": "red"})} {
		b, err := cm.MarshalJSON()
		if err != nil {
			t.Fatal(err)
		}
		var back Colormap
		if err := back.UnmarshalJSON(b); err != nil {
			t.Fatal(err)
		}
		if back.String() != cm.String() {
			t.Errorf("round trip %s -> %s", cm, back)
		}
	}
}

package catalog

import (
	"errors"
	"reflect"
	"testing"
)

func TestDefaultRatio(t *testing.T) {
	tests := []struct {
		width int
		want  Ratio
	}{
		{320, Ratio4x3},
		{1023, Ratio4x3},
		{1024, Ratio4x3},
		{1025, Ratio16x9},
		{1920, Ratio16x9},
	}

	for _, tt := range tests {
		if got := DefaultRatio(tt.width); got != tt.want {
			t.Errorf("DefaultRatio(%d) = %s, want %s", tt.width, got, tt.want)
		}
	}
}

func TestOptions(t *testing.T) {
	labels := func(opts []Option) []string {
		out := make([]string, len(opts))
		for i, o := range opts {
			out[i] = o.Label
		}
		return out
	}

	if got, want := labels(Options(Ratio16x9)), []string{"360P", "720P (HD)", "1080P"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Options(16:9) = %v, want %v", got, want)
	}
	if got, want := labels(Options(Ratio4x3)), []string{"480P", "960P"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Options(4:3) = %v, want %v", got, want)
	}

	opts := Options(Ratio16x9)
	if opts[1].Value != "720p" {
		t.Errorf("option value = %q, want raw label 720p", opts[1].Value)
	}
}

func TestParseRatio(t *testing.T) {
	for _, s := range []string{"16:9", "4:3"} {
		if _, err := ParseRatio(s); err != nil {
			t.Errorf("ParseRatio(%q) error = %v", s, err)
		}
	}

	for _, s := range []string{"", "21:9", "16x9"} {
		_, err := ParseRatio(s)
		if !errors.Is(err, ErrUnknownRatio) {
			t.Errorf("ParseRatio(%q) error = %v, want ErrUnknownRatio", s, err)
		}
	}
}

func TestRatioOther(t *testing.T) {
	if Ratio16x9.Other() != Ratio4x3 {
		t.Error("16:9 should toggle to 4:3")
	}
	if Ratio4x3.Other() != Ratio16x9 {
		t.Error("4:3 should toggle to 16:9")
	}
}

func TestResolutionsReturnsCopy(t *testing.T) {
	r := Resolutions(Ratio4x3)
	r[0] = "mutated"

	if Resolutions(Ratio4x3)[0] != "480p" {
		t.Error("catalog was mutated through returned slice")
	}
}

func TestDimensions(t *testing.T) {
	tests := []struct {
		name    string
		ratio   Ratio
		res     string
		wantRes string
		want    Size
	}{
		{"720p in 16:9", Ratio16x9, "720p", "720p", Size{1280, 720}},
		{"960p in 4:3", Ratio4x3, "960p", "960p", Size{1280, 960}},
		{"720p falls back in 4:3", Ratio4x3, "720p", "480p", Size{640, 480}},
		{"480p falls back in 16:9", Ratio16x9, "480p", "360p", Size{640, 360}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, size := Dimensions(tt.ratio, tt.res)
			if res != tt.wantRes || size != tt.want {
				t.Errorf("Dimensions(%s, %s) = %s %v, want %s %v", tt.ratio, tt.res, res, size, tt.wantRes, tt.want)
			}
		})
	}
}

func TestIsKnownResolution(t *testing.T) {
	for _, res := range AllResolutions() {
		if !IsKnownResolution(res) {
			t.Errorf("IsKnownResolution(%q) = false", res)
		}
	}
	if IsKnownResolution("4k") {
		t.Error("IsKnownResolution(4k) = true")
	}
}

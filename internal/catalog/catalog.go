// Package catalog defines the stream aspect ratios and the resolutions offered for each.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// Ratio is the stream's width:height class.
type Ratio string

const (
	Ratio16x9 Ratio = "16:9"
	Ratio4x3  Ratio = "4:3"
)

// CompactViewportWidth is the widest viewport that defaults to 4:3.
const CompactViewportWidth = 1024

// ErrUnknownRatio is returned when a ratio is not one of the supported values.
var ErrUnknownRatio = errors.New("unknown aspect ratio")

// Size is a capture size in pixels.
type Size struct {
	Width  int
	Height int
}

// Option is a resolution dropdown entry.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var resolutions = map[Ratio][]string{
	Ratio16x9: {"360p", "720p", "1080p"},
	Ratio4x3:  {"480p", "960p"},
}

var sizes = map[Ratio]map[string]Size{
	Ratio16x9: {
		"360p":  {640, 360},
		"720p":  {1280, 720},
		"1080p": {1920, 1080},
	},
	Ratio4x3: {
		"480p": {640, 480},
		"960p": {1280, 960},
	},
}

var (
	knownRatios = mapset.NewSet(Ratio16x9, Ratio4x3)
	knownLabels = mapset.NewSet("360p", "720p", "1080p", "480p", "960p")
)

// ParseRatio validates a ratio string.
func ParseRatio(s string) (Ratio, error) {
	r := Ratio(s)
	if !knownRatios.Contains(r) {
		return "", fmt.Errorf("%w: %q", ErrUnknownRatio, s)
	}
	return r, nil
}

// DefaultRatio picks the starting ratio for a viewport width.
func DefaultRatio(viewportWidth int) Ratio {
	if viewportWidth <= CompactViewportWidth {
		return Ratio4x3
	}
	return Ratio16x9
}

// Other returns the ratio a toggle switches to.
func (r Ratio) Other() Ratio {
	if r == Ratio4x3 {
		return Ratio16x9
	}
	return Ratio4x3
}

// Resolutions returns the ordered resolution labels for a ratio.
func Resolutions(r Ratio) []string {
	labels := resolutions[r]
	out := make([]string, len(labels))
	copy(out, labels)
	return out
}

// AllResolutions returns every label across all ratios, 16:9 first.
func AllResolutions() []string {
	return append(Resolutions(Ratio16x9), Resolutions(Ratio4x3)...)
}

// OptionLabel renders a resolution label for display. Only 720p carries the HD suffix.
func OptionLabel(res string) string {
	label := strings.ToUpper(res)
	if res == "720p" {
		label += " (HD)"
	}
	return label
}

// Options returns the dropdown entries for a ratio.
func Options(r Ratio) []Option {
	labels := resolutions[r]
	opts := make([]Option, 0, len(labels))
	for _, res := range labels {
		opts = append(opts, Option{Value: res, Label: OptionLabel(res)})
	}
	return opts
}

// IsKnownResolution reports whether the label exists under any ratio.
func IsKnownResolution(res string) bool {
	return knownLabels.Contains(res)
}

// Dimensions resolves the capture size for a ratio and label. When the label is
// not offered for the ratio, the ratio's first resolution is used and returned.
func Dimensions(r Ratio, res string) (string, Size) {
	set, ok := sizes[r]
	if !ok {
		r = Ratio16x9
		set = sizes[r]
	}
	if s, ok := set[res]; ok {
		return res, s
	}
	first := resolutions[r][0]
	return first, set[first]
}

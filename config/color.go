package config

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/mazznoer/csscolorparser"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// Color is an RGBA color with components in [0, 1].
//
// In YAML it is written as any CSS color ("#rrggbb", "#rrggbbaa", "rgb(255 0 0)", "gold")
// or as a sequence of three or four numbers.
type Color [4]float32

// ColorFrom converts a standard library color.
func ColorFrom(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{float32(n.R) / 255, float32(n.G) / 255, float32(n.B) / 255, float32(n.A) / 255}
}

// RGB returns the first three components.
func (c Color) RGB() [3]float32 {
	return [3]float32{c[0], c[1], c[2]}
}

// UnmarshalYAML decodes a color from a string or a number sequence.
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		parsed, err := ParseColor(value.Value)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	case yaml.SequenceNode:
		var parts []float32
		if err := value.Decode(&parts); err != nil {
			return fmt.Errorf("color: %w", err)
		}
		if len(parts) != 3 && len(parts) != 4 {
			return fmt.Errorf("color: expected 3 or 4 components, got %d", len(parts))
		}
		out := Color{0, 0, 0, 1}
		copy(out[:], parts)
		*c = out
		return nil
	}
	return fmt.Errorf("color must be a string or a sequence")
}

// MarshalYAML encodes the color as "#rrggbbaa".
func (c Color) MarshalYAML() (any, error) {
	b := func(f float32) uint8 {
		return uint8(min(max(f, 0), 1)*255 + 0.5)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", b(c[0]), b(c[1]), b(c[2]), b(c[3])), nil
}

// ParseColor parses CSS color syntax: "#rgb", "#rrggbb", "#rrggbbaa", "rgb(...)", "hsl(...)"
// or a color name such as "gold".
//
// Parameters:
//   - s: the color text
//
// Returns:
//   - Color: the parsed color
//   - error: error if the text is not a CSS color
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if named, ok := colornames.Map[strings.ToLower(s)]; ok {
		return ColorFrom(named), nil
	}

	parsed, err := csscolorparser.Parse(s)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color format: %q: %w", s, err)
	}
	r, g, b, alpha := parsed.RGBA255()
	return Color{float32(r) / 255, float32(g) / 255, float32(b) / 255, float32(alpha) / 255}, nil
}

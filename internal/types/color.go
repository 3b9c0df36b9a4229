package types

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Texture selects the border surface pattern.
type Texture string

const (
	TextureSmooth Texture = "smooth"
	TextureWood   Texture = "wood"
	TextureLinen  Texture = "linen"
	TextureMatte  Texture = "matte"
)

// Textures lists every supported border texture.
var Textures = []Texture{TextureSmooth, TextureWood, TextureLinen, TextureMatte}

// ParseTexture parses a texture name (case-insensitive).
func ParseTexture(s string) (Texture, error) {
	normalized := Texture(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range Textures {
		if t == normalized {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown frame texture %q", s)
}

// Palette maps the named frame colours offered in the storefront.
var Palette = map[string]color.NRGBA{
	"black":  {R: 0x1a, G: 0x1a, B: 0x1a, A: 0xff},
	"white":  {R: 0xf5, G: 0xf5, B: 0xf0, A: 0xff},
	"walnut": {R: 0x5c, G: 0x40, B: 0x33, A: 0xff},
	"gold":   {R: 0xc9, G: 0xa2, B: 0x27, A: 0xff},
	"silver": {R: 0xa8, G: 0xa9, B: 0xad, A: 0xff},
}

// DefaultFrameColor is the border colour of a fresh session.
const DefaultFrameColor = "black"

// ParseFrameColor resolves a palette name or a #rgb / #rrggbb hex string.
func ParseFrameColor(s string) (color.NRGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := Palette[s]; ok {
		return c, nil
	}
	if !strings.HasPrefix(s, "#") {
		return color.NRGBA{}, fmt.Errorf("invalid frame color %q", s)
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid frame color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid frame color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color parse errors.
var (
	// ErrUnknownColor is returned for a color name with no known mapping.
	ErrUnknownColor = errors.New("unknown color name")

	// ErrInvalidColor is returned for a malformed color specification.
	ErrInvalidColor = errors.New("invalid color specification")

	// ErrChannelRange is returned when an RGB channel is outside [0,255].
	ErrChannelRange = errors.New("color channel out of range")
)

// namedColors maps CSS-style color names to RGB values.
var namedColors = map[string]Color{
	"black":   {R: 0, G: 0, B: 0},
	"red":     {R: 255, G: 0, B: 0},
	"green":   {R: 0, G: 128, B: 0},
	"yellow":  {R: 255, G: 255, B: 0},
	"blue":    {R: 0, G: 0, B: 255},
	"magenta": {R: 255, G: 0, B: 255},
	"cyan":    {R: 0, G: 255, B: 255},
	"white":   {R: 255, G: 255, B: 255},
	"gray":    {R: 128, G: 128, B: 128},
	"grey":    {R: 128, G: 128, B: 128},
	"orange":  {R: 255, G: 165, B: 0},
	"purple":  {R: 128, G: 0, B: 128},
	"pink":    {R: 255, G: 192, B: 203},
	"brown":   {R: 165, G: 42, B: 42},
	"lime":    {R: 0, G: 255, B: 0},
	"navy":    {R: 0, G: 0, B: 128},
	"teal":    {R: 0, G: 128, B: 128},
	"silver":  {R: 192, G: 192, B: 192},
	"maroon":  {R: 128, G: 0, B: 0},
	"olive":   {R: 128, G: 128, B: 0},
}

// ParseColor resolves a color specification string into a Color.
//
// Supported forms:
//   - named colors: "red", "teal"
//   - hex: "#f0c" or "#ff00cc"
//   - functional RGB: "rgb(255, 0, 204)"
//   - functional HSL: "hsl(320, 100%, 50%)"
//
// An empty specification resolves to the terminal default color.
// Unknown names and out-of-range channels are rejected, not coerced.
func ParseColor(spec string) (Color, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return ColorDefault, nil
	}

	lower := strings.ToLower(spec)

	if c, ok := namedColors[lower]; ok {
		return c, nil
	}

	if strings.HasPrefix(lower, "#") {
		return parseHex(lower)
	}

	if strings.HasPrefix(lower, "rgb(") && strings.HasSuffix(lower, ")") {
		return parseRGB(lower[4 : len(lower)-1])
	}

	if strings.HasPrefix(lower, "hsl(") && strings.HasSuffix(lower, ")") {
		return parseHSL(lower[4 : len(lower)-1])
	}

	return Color{}, fmt.Errorf("%w: %q", ErrUnknownColor, spec)
}

// parseHex parses "#rgb" or "#rrggbb".
func parseHex(spec string) (Color, error) {
	hex := strings.TrimPrefix(spec, "#")

	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
		// Already full form.
	default:
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, spec)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, spec)
	}
	return Color{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}, nil
}

// parseRGB parses the argument list of "rgb(r, g, b)".
func parseRGB(args string) (Color, error) {
	parts := strings.Split(args, ",")
	if len(parts) != 3 {
		return Color{}, fmt.Errorf("%w: rgb(%s)", ErrInvalidColor, args)
	}

	var ch [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Color{}, fmt.Errorf("%w: rgb(%s)", ErrInvalidColor, args)
		}
		if n < 0 || n > 255 {
			return Color{}, fmt.Errorf("%w: %d", ErrChannelRange, n)
		}
		ch[i] = n
	}
	return Color{R: uint8(ch[0]), G: uint8(ch[1]), B: uint8(ch[2])}, nil
}

// parseHSL parses the argument list of "hsl(h, s%, l%)" and converts
// to RGB via go-colorful.
func parseHSL(args string) (Color, error) {
	parts := strings.Split(args, ",")
	if len(parts) != 3 {
		return Color{}, fmt.Errorf("%w: hsl(%s)", ErrInvalidColor, args)
	}

	h, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Color{}, fmt.Errorf("%w: hsl(%s)", ErrInvalidColor, args)
	}

	var sl [2]float64
	for i, p := range parts[1:] {
		p = strings.TrimSpace(p)
		p = strings.TrimSuffix(p, "%")
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return Color{}, fmt.Errorf("%w: hsl(%s)", ErrInvalidColor, args)
		}
		if v < 0 || v > 100 {
			return Color{}, fmt.Errorf("%w: hsl(%s)", ErrInvalidColor, args)
		}
		sl[i] = v / 100
	}

	// Normalize hue into [0, 360).
	h = h - 360*float64(int(h/360))
	if h < 0 {
		h += 360
	}

	r, g, b := colorful.Hsl(h, sl[0], sl[1]).Clamped().RGB255()
	return Color{R: r, G: g, B: b}, nil
}

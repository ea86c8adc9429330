package colour

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseColour parses "#rrggbb", "rrggbb", "#rgb", "r,g,b" or "rgb(r, g, b)".
func ParseColour(s string) (RGB, error) {
	v := strings.TrimSpace(strings.ToLower(s))
	if v == "" {
		return RGB{}, fmt.Errorf("%w: empty colour", ErrInvalidParameter)
	}

	if inner, ok := strings.CutPrefix(v, "rgb("); ok {
		inner, ok = strings.CutSuffix(inner, ")")
		if !ok {
			return RGB{}, fmt.Errorf("%w: unterminated rgb() colour %q", ErrInvalidParameter, s)
		}
		return parseTriple(inner, s)
	}
	if strings.Contains(v, ",") {
		return parseTriple(v, s)
	}
	return parseHex(strings.TrimPrefix(v, "#"), s)
}

func parseTriple(v, orig string) (RGB, error) {
	parts := strings.Split(v, ",")
	if len(parts) != 3 {
		return RGB{}, fmt.Errorf("%w: expected three channels in %q", ErrInvalidParameter, orig)
	}

	var ch [3]uint8
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return RGB{}, fmt.Errorf("%w: channel %q in %q: %w", ErrInvalidParameter, p, orig, err)
		}
		ch[i] = uint8(n)
	}
	return RGB{R: ch[0], G: ch[1], B: ch[2]}, nil
}

func parseHex(v, orig string) (RGB, error) {
	if len(v) == 3 {
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]})
	}
	if len(v) != 6 {
		return RGB{}, fmt.Errorf("%w: hex colour %q must have 3 or 6 digits", ErrInvalidParameter, orig)
	}

	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: hex colour %q: %w", ErrInvalidParameter, orig, err)
	}
	return RGB{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}, nil
}

// Package charts turns raw latency samples into plot-ready structures:
// compressed cumulative-distribution curves, axis scales, chart geometry, and
// ordered colored series. Drawing is delegated to a render.Renderer; nothing
// in this package touches pixels.
package charts

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidColorFormat reports a color string that is not exactly six hex
// digits.
var ErrInvalidColorFormat = errors.New("color must be six hex digits")

// BaseColors is the default palette cycled across distribution series, in
// legend order.
var BaseColors = []string{
	"ff9900", "1a00ff", "ff00e6", "80ff00", "00e6ff", "fae30a",
	"be81f7", "9f5734", "000000", "ff0000", "3090c0", "477248",
	"ababab", "7b9f34", "00ff00", "0000ff", "9900ff", "405090",
	"051290", "f3e000", "9030f0", "f03060", "e0a030", "4598cd",
}

// DarkenHexColor derives a darker variant of a six-hex-digit color: every RGB
// channel is reduced by 32 per shade step and floored at zero. The result is
// always six lowercase digits, so shade 0 returns the input value with its
// case normalized.
func DarkenHexColor(color string, shade int) (string, error) {
	if len(color) != 6 {
		return "", fmt.Errorf("%w: %q", ErrInvalidColorFormat, color)
	}
	if shade < 0 {
		shade = 0
	}
	out := make([]byte, 0, 6)
	for i := 0; i < 6; i += 2 {
		v, err := strconv.ParseUint(color[i:i+2], 16, 8)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidColorFormat, color)
		}
		n := int(v) - shade*32
		if n < 0 {
			n = 0
		}
		out = append(out, fmt.Sprintf("%02x", n)...)
	}
	return string(out), nil
}

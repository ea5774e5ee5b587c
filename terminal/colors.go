package terminal

import "github.com/nsf/termbox-go"

// Color ramps for the 256 color output mode, dimmest entry first. The
// values are xterm palette indices; in Output256 termbox maps color n
// to Attribute(n+1), index 0 being the terminal default.
var ramps256 = map[string][]termbox.Attribute{
	"lava":   ramp256(52, 88, 124, 160, 196, 202, 208, 214, 220, 226),
	"plasma": ramp256(17, 54, 91, 128, 165, 201, 207, 213, 219, 225),
	"gray":   ramp256(236, 239, 242, 245, 248, 251, 254, 231),
}

// rampNames fixes the order the c key cycles through.
var rampNames = []string{"lava", "plasma", "gray"}

// fallbackRamp covers terminals that stay in the 8 color mode.
var fallbackRamp = []termbox.Attribute{
	termbox.ColorRed,
	termbox.ColorYellow,
	termbox.ColorWhite,
}

func ramp256(xterm ...int) []termbox.Attribute {
	out := make([]termbox.Attribute, len(xterm))
	for i, n := range xterm {
		out[i] = termbox.Attribute(n + 1)
	}
	return out
}

// rampFor retrieve the ramp registered under name, falling back to the
// lava ramp for unknown names and to the 8 color ramp when the terminal
// rejected the 256 color mode.
func rampFor(name string, mode termbox.OutputMode) []termbox.Attribute {
	if mode != termbox.Output256 {
		return fallbackRamp
	}
	if ramp, ok := ramps256[name]; ok {
		return ramp
	}
	return ramps256["lava"]
}

// attrForAlpha picks the ramp entry for an opacity in (0,1].
func attrForAlpha(ramp []termbox.Attribute, alpha float64) termbox.Attribute {
	if len(ramp) == 0 {
		return termbox.ColorDefault
	}
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	return ramp[int(alpha*float64(len(ramp)-1)+0.5)]
}

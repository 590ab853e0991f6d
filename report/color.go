package report

import (
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/taigrr/colorhash"
)

var palette = []text.Colors{
	{text.FgCyan},
	{text.FgGreen},
	{text.FgYellow},
	{text.FgMagenta},
	{text.FgBlue},
	{text.FgHiCyan},
	{text.FgHiGreen},
	{text.FgHiYellow},
	{text.FgHiMagenta},
	{text.FgHiBlue},
}

// groupColor picks a stable color for a digest so a group keeps its color
// across runs.
func groupColor(digest string) text.Colors {
	idx := int(colorhash.HashString(digest)%1000) % len(palette)
	if idx < 0 {
		idx = -idx
	}
	return palette[idx]
}

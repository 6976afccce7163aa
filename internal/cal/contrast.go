package cal

import "github.com/lucasb-eyer/go-colorful"

// ForegroundFor picks a readable text color for the given background
// using the Rec. 601 luma weights: backgrounds brighter than the
// midpoint get black text, darker ones get white. Unparseable colors get
// the light foreground.
func ForegroundFor(hex string) string {
	if hex != "" && hex[0] != '#' {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return "#ffffff"
	}
	luminance := 0.299*c.R + 0.587*c.G + 0.114*c.B
	if luminance > 0.5 {
		return "#000000"
	}
	return "#ffffff"
}

// Package ui draws the optional diagnostic overlay on top of the effects.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg         rl.Color
	PanelBorder     rl.Color
	SectionHeader   rl.Color
	LabelColor      rl.Color
	ValueColor      rl.Color
	WarnColor       rl.Color
	BarBg           rl.Color
	BarFill         rl.Color
	BarFillNegative rl.Color
	BarFillPositive rl.Color
	Padding         int32
	LineHeight      int32
	LabelWidth      int32
	BarHeight       int32
	FontSize        int32
	HeaderFontSize  int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:         rl.Color{R: 12, G: 14, B: 24, A: 210},
		PanelBorder:     rl.Color{R: 70, G: 60, B: 110, A: 255},
		SectionHeader:   rl.Color{R: 210, G: 190, B: 255, A: 255},
		LabelColor:      rl.LightGray,
		ValueColor:      rl.RayWhite,
		WarnColor:       rl.Orange,
		BarBg:           rl.Color{R: 40, G: 40, B: 52, A: 255},
		BarFill:         rl.Color{R: 120, G: 170, B: 220, A: 255},
		BarFillNegative: rl.Color{R: 200, G: 100, B: 120, A: 255},
		BarFillPositive: rl.Color{R: 100, G: 200, B: 170, A: 255},
		Padding:         10,
		LineHeight:      16,
		LabelWidth:      70,
		BarHeight:       12,
		FontSize:        12,
		HeaderFontSize:  14,
	}
}

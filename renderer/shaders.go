// Package renderer draws the hero effects on a gpu.Host: the domain-warped
// background field and the pointer-displaced label surface with its shadow.
package renderer

import _ "embed"

var (
	//go:embed shaders/quad.vs
	quadVS string
	//go:embed shaders/background.fs
	backgroundFS string
	//go:embed shaders/blit.fs
	blitFS string
	//go:embed shaders/surface.vs
	surfaceVS string
	//go:embed shaders/surface.fs
	surfaceFS string
)

// ShadowDefine selects the shadow branch of the surface program.
const ShadowDefine = "SHADOW_VARIANT"

// Sources returns the GLSL sources by file name, for tools that compile them
// outside the renderer.
func Sources() map[string]string {
	return map[string]string{
		"quad.vs":       quadVS,
		"background.fs": backgroundFS,
		"blit.fs":       blitFS,
		"surface.vs":    surfaceVS,
		"surface.fs":    surfaceFS,
	}
}

package renderer

import "github.com/pthm-cable/sheen/gpu"

// Vertex layouts.
var (
	quadLayout    = []gpu.Attribute{{Location: 0, Size: 2}}
	surfaceLayout = []gpu.Attribute{
		{Location: 0, Size: 3}, // position
		{Location: 1, Size: 3}, // normal
		{Location: 2, Size: 2}, // uv
	}
)

// surfaceStride is the number of floats per surface vertex.
const surfaceStride = 8

// FullscreenQuad returns a clip-space quad as two triangles.
func FullscreenQuad() ([]float32, []uint32) {
	return []float32{
			-1, -1,
			1, -1,
			1, 1,
			-1, 1,
		}, []uint32{
			0, 1, 2,
			0, 2, 3,
		}
}

// GridPlane returns a width×height plane in z=0, centred on the origin and
// facing +Z, split into segX×segY quads. Texture row 0 maps to the top edge.
func GridPlane(width, height float32, segX, segY int) ([]float32, []uint32) {
	segX = max(segX, 1)
	segY = max(segY, 1)

	vertices := make([]float32, 0, (segX+1)*(segY+1)*surfaceStride)
	for j := 0; j <= segY; j++ {
		v := float32(j) / float32(segY)
		y := (v - 0.5) * height
		for i := 0; i <= segX; i++ {
			u := float32(i) / float32(segX)
			x := (u - 0.5) * width
			vertices = append(vertices,
				x, y, 0,
				0, 0, 1,
				u, 1-v,
			)
		}
	}

	row := uint32(segX + 1)
	indices := make([]uint32, 0, segX*segY*6)
	for j := 0; j < segY; j++ {
		for i := 0; i < segX; i++ {
			a := uint32(j)*row + uint32(i)
			b := a + 1
			c := a + row
			d := c + 1
			indices = append(indices, a, b, d, a, d, c)
		}
	}
	return vertices, indices
}

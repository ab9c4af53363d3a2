package gpu

import (
	"fmt"
	"math"
)

// RenderTarget is an offscreen color buffer sized relative to the viewport.
// Host.Resize reallocates it; the old framebuffer is released first.
type RenderTarget struct {
	fbo, tex uint32
	scale    float32
	w, h     int
}

// Size returns the current allocation in pixels.
func (rt *RenderTarget) Size() (w, h int) { return rt.w, rt.h }

// Texture returns the color attachment as a texture for sampling. The value is
// only valid until the next resize.
func (rt *RenderTarget) Texture() *Texture {
	return &Texture{id: rt.tex, w: rt.w, h: rt.h}
}

// NewRenderTarget allocates a target at scale times the viewport size.
// Scale is clamped to (0, 1].
func (h *Host) NewRenderTarget(scale float32) (*RenderTarget, error) {
	if h.disposed {
		return nil, ErrDisposed
	}
	if scale <= 0 || scale > 1 {
		scale = 1
	}
	rt := &RenderTarget{scale: scale}
	if h.width > 0 && h.height > 0 {
		if err := h.allocateTarget(rt, h.width, h.height); err != nil {
			return nil, err
		}
	}
	h.targets[rt] = struct{}{}
	return rt, nil
}

// BindTarget directs subsequent draws into rt, or into the window surface
// when rt is nil.
func (h *Host) BindTarget(rt *RenderTarget) error {
	if h.disposed {
		return ErrDisposed
	}
	if rt == nil {
		h.dev.BindFramebuffer(0)
		h.dev.Viewport(h.width, h.height)
		return nil
	}
	if _, ok := h.targets[rt]; !ok || rt.fbo == 0 {
		return fmt.Errorf("gpu: bind of unallocated render target")
	}
	h.dev.BindFramebuffer(rt.fbo)
	h.dev.Viewport(rt.w, rt.h)
	return nil
}

// allocateTarget sizes rt for a viewport of vw×vh.
func (h *Host) allocateTarget(rt *RenderTarget, vw, vh int) error {
	h.freeTarget(rt)
	w := max(1, int(math.Round(float64(vw)*float64(rt.scale))))
	ht := max(1, int(math.Round(float64(vh)*float64(rt.scale))))
	fbo, tex, err := h.dev.CreateFramebuffer(w, ht)
	if err != nil {
		return fmt.Errorf("gpu: allocating %dx%d render target: %w", w, ht, err)
	}
	rt.fbo, rt.tex, rt.w, rt.h = fbo, tex, w, ht
	return nil
}

func (h *Host) freeTarget(rt *RenderTarget) {
	if rt.fbo == 0 && rt.tex == 0 {
		return
	}
	h.dev.DeleteFramebuffer(rt.fbo, rt.tex)
	rt.fbo, rt.tex, rt.w, rt.h = 0, 0, 0, 0
}

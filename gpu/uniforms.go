package gpu

import (
	"fmt"
	"reflect"

	"github.com/go-gl/mathgl/mgl32"
)

// Sampler is a texture unit index bound to a sampler2D uniform.
type Sampler int32

var (
	floatType   = reflect.TypeFor[float32]()
	intType     = reflect.TypeFor[int32]()
	samplerType = reflect.TypeFor[Sampler]()
	vec2Type    = reflect.TypeFor[mgl32.Vec2]()
	vec3Type    = reflect.TypeFor[mgl32.Vec3]()
	mat4Type    = reflect.TypeFor[mgl32.Mat4]()
)

func kindOf(t reflect.Type) UniformKind {
	switch t {
	case floatType:
		return KindFloat
	case intType:
		return KindInt
	case samplerType:
		return KindSampler
	case vec2Type:
		return KindVec2
	case vec3Type:
		return KindVec3
	case mat4Type:
		return KindMat4
	}
	return KindUnsupported
}

type boundField struct {
	index    int
	kind     UniformKind
	location int32
}

// UniformBinding maps the fields of one uniform struct type onto the active
// uniforms of one program.
type UniformBinding struct {
	program *Program
	typ     reflect.Type
	fields  []boundField
}

// BindUniforms validates that the struct pointed to by u describes every
// active uniform of p. Fields are matched by their `uniform:"name"` tag.
// Tagged fields the program does not declare are skipped, since compilers
// strip unused uniforms.
func (h *Host) BindUniforms(p *Program, u any) (*UniformBinding, error) {
	if h.disposed {
		return nil, ErrDisposed
	}
	rv := reflect.ValueOf(u)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("gpu: BindUniforms needs a pointer to struct, got %T", u)
	}
	t := rv.Elem().Type()

	b := &UniformBinding{program: p, typ: t}
	covered := make(map[string]bool, len(p.uniforms))
	for i := range t.NumField() {
		f := t.Field(i)
		name, ok := f.Tag.Lookup("uniform")
		if !ok || name == "" || name == "-" {
			continue
		}
		kind := kindOf(f.Type)
		if kind == KindUnsupported {
			return nil, &UniformMismatchError{Uniform: name, Reason: fmt.Sprintf("unsupported Go type %s", f.Type)}
		}
		info, ok := p.uniforms[name]
		if !ok {
			continue
		}
		if info.Kind != kind {
			return nil, &UniformMismatchError{
				Uniform: name,
				Reason:  fmt.Sprintf("program declares %s, field %s is %s", info.Kind, f.Name, kind),
			}
		}
		covered[name] = true
		b.fields = append(b.fields, boundField{index: i, kind: kind, location: info.Location})
	}
	for name := range p.uniforms {
		if !covered[name] {
			return nil, &UniformMismatchError{Uniform: name, Reason: "no field in " + t.Name()}
		}
	}
	return b, nil
}

// Upload makes the bound program current and writes every bound field of u.
// u must be the same struct type the binding was created with.
func (h *Host) Upload(b *UniformBinding, u any) error {
	if h.disposed {
		return ErrDisposed
	}
	rv := reflect.ValueOf(u)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Type() != b.typ {
		return fmt.Errorf("gpu: upload of %s to binding for %s", rv.Type(), b.typ)
	}
	h.dev.UseProgram(b.program.id)
	for _, f := range b.fields {
		v := rv.Field(f.index)
		switch f.kind {
		case KindFloat:
			h.dev.SetFloat(f.location, float32(v.Float()))
		case KindInt, KindSampler:
			h.dev.SetInt(f.location, int32(v.Int()))
		case KindVec2:
			h.dev.SetVec2(f.location, v.Interface().(mgl32.Vec2))
		case KindVec3:
			h.dev.SetVec3(f.location, v.Interface().(mgl32.Vec3))
		case KindMat4:
			h.dev.SetMat4(f.location, v.Interface().(mgl32.Mat4))
		}
	}
	return nil
}

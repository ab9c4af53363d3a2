package gpu

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrContextUnavailable means the device or driver cannot render at all.
	ErrContextUnavailable = errors.New("gpu: rendering context unavailable")

	// ErrDisposed is returned by every host call made after Dispose.
	ErrDisposed = errors.New("gpu: host disposed")
)

// ShaderCompileError carries the compiler diagnostic for a failed stage.
type ShaderCompileError struct {
	Stage ShaderStage
	Log   string
}

func (e *ShaderCompileError) Error() string {
	return fmt.Sprintf("gpu: compiling %s shader: %s", e.Stage, strings.TrimSpace(e.Log))
}

// ProgramLinkError carries the linker diagnostic for a failed program.
type ProgramLinkError struct {
	Log string
}

func (e *ProgramLinkError) Error() string {
	return fmt.Sprintf("gpu: linking program: %s", strings.TrimSpace(e.Log))
}

// UniformMismatchError reports a uniform struct that does not describe the
// program it is bound to.
type UniformMismatchError struct {
	Uniform string
	Reason  string
}

func (e *UniformMismatchError) Error() string {
	return fmt.Sprintf("gpu: uniform %q: %s", e.Uniform, e.Reason)
}

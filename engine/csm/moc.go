package csm

/*
#include <string.h>
#include "Live2DCubismCore.h"
*/
import "C"

import (
	"fmt"
	"runtime"
	"sync"
	"unicode/utf8"
	"unsafe"

	"github.com/spaghettifunk/cubism/engine/cubism"
)

const invalidID = "NON_UTF8_ID"

// Moc is a revived moc3 file. It owns the ids and the parameter ranges
// shared by every Model created from it, and its memory stays allocated
// while any of those models is alive.
type Moc struct {
	mu       sync.Mutex
	mem      unsafe.Pointer
	ptr      *C.csmMoc
	size     int
	version  cubism.MocVersion
	refs     int
	released bool

	idsOnce     sync.Once
	paramIDs    []string
	paramMin    []float32
	paramMax    []float32
	paramDef    []float32
	partIDs     []string
	drawableIDs []string
}

// NewMoc copies data into aligned memory and revives it.
func NewMoc(data []byte) (*Moc, error) {
	if len(data) == 0 {
		return nil, ErrInvalidMocData
	}
	version := MocVersionOf(data)
	if latest := LatestMocVersion(); latest < version {
		return nil, fmt.Errorf("%w: file is %s, core reads up to %s", ErrMocVersion, version, latest)
	}

	mem := alignedAlloc(len(data), alignofMoc)
	if mem == nil {
		return nil, fmt.Errorf("allocating %d bytes for moc", len(data))
	}
	C.memcpy(mem, unsafe.Pointer(&data[0]), C.size_t(len(data)))

	ptr := C.csmReviveMocInPlace(mem, C.uint(len(data)))
	if ptr == nil {
		alignedFree(mem)
		return nil, ErrInvalidMocData
	}

	moc := &Moc{mem: mem, ptr: ptr, size: len(data), version: version}
	runtime.SetFinalizer(moc, (*Moc).Release)
	return moc, nil
}

func (m *Moc) Version() cubism.MocVersion {
	return m.version
}

// Release frees the moc memory once the last model created from it has
// been released. It is safe to call more than once.
func (m *Moc) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.released = true
	m.freeLocked()
}

func (m *Moc) acquire() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mem == nil {
		return ErrReleased
	}
	m.refs++
	return nil
}

func (m *Moc) release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refs--
	m.freeLocked()
}

func (m *Moc) freeLocked() {
	if m.released && m.refs <= 0 && m.mem != nil {
		alignedFree(m.mem)
		m.mem = nil
		m.ptr = nil
	}
}

// initIDs caches the ids and parameter ranges from the first model. The
// core keeps them in moc memory, they never change.
func (m *Moc) initIDs(model *C.csmModel) {
	m.idsOnce.Do(func() {
		paramCount := int(C.csmGetParameterCount(model))
		m.paramIDs = goIDs(C.csmGetParameterIds(model), paramCount)
		m.paramMin = copyFloats(C.csmGetParameterMinimumValues(model), paramCount)
		m.paramMax = copyFloats(C.csmGetParameterMaximumValues(model), paramCount)
		m.paramDef = copyFloats(C.csmGetParameterDefaultValues(model), paramCount)

		partCount := int(C.csmGetPartCount(model))
		m.partIDs = goIDs(C.csmGetPartIds(model), partCount)

		drawableCount := int(C.csmGetDrawableCount(model))
		m.drawableIDs = goIDs(C.csmGetDrawableIds(model), drawableCount)
	})
}

func goIDs(ptr **C.char, n int) []string {
	if n <= 0 || ptr == nil {
		return nil
	}
	out := make([]string, n)
	for i, p := range unsafe.Slice(ptr, n) {
		s := C.GoString(p)
		if !utf8.ValidString(s) {
			s = invalidID
		}
		out[i] = s
	}
	return out
}

func copyFloats(ptr *C.float, n int) []float32 {
	if n <= 0 || ptr == nil {
		return nil
	}
	out := make([]float32, n)
	copy(out, unsafe.Slice((*float32)(unsafe.Pointer(ptr)), n))
	return out
}

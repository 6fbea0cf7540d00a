package csm

/*
#include "Live2DCubismCore.h"
*/
import "C"

import (
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/spaghettifunk/cubism/engine/cubism"
	"github.com/spaghettifunk/cubism/engine/math"
)

// Model is a model instance backed by core memory. Value slices returned by
// its getters alias that memory and become invalid after Release.
type Model struct {
	moc  *Moc
	once sync.Once
	mem  unsafe.Pointer
	ptr  *C.csmModel

	drawableCount int
	vertexCounts  []int32
	indexCounts   []int32
	maskCounts    []int32
}

// Load revives moc3 bytes and creates the first model from them.
func Load(data []byte) (cubism.Model, error) {
	moc, err := NewMoc(data)
	if err != nil {
		return nil, err
	}
	model, err := NewModel(moc)
	if err != nil {
		moc.Release()
		return nil, err
	}
	// the moc lives as long as its models
	moc.Release()
	return model, nil
}

// NewModel creates a model from the moc. Prefer Clone for additional
// instances of the same model.
func NewModel(moc *Moc) (*Model, error) {
	if err := moc.acquire(); err != nil {
		return nil, err
	}

	size := int(C.csmGetSizeofModel(moc.ptr))
	mem := alignedAlloc(size, alignofModel)
	if mem == nil {
		moc.release()
		return nil, fmt.Errorf("allocating %d bytes for model", size)
	}
	ptr := C.csmInitializeModelInPlace(moc.ptr, mem, C.uint(size))
	if ptr == nil {
		alignedFree(mem)
		moc.release()
		return nil, ErrModelInit
	}
	moc.initIDs(ptr)

	m := &Model{moc: moc, mem: mem, ptr: ptr}
	m.drawableCount = int(C.csmGetDrawableCount(ptr))
	m.vertexCounts = intView(C.csmGetDrawableVertexCounts(ptr), m.drawableCount)
	m.indexCounts = intView(C.csmGetDrawableIndexCounts(ptr), m.drawableCount)
	m.maskCounts = intView(C.csmGetDrawableMaskCounts(ptr), m.drawableCount)

	runtime.SetFinalizer(m, (*Model).Release)
	return m, nil
}

// Clone creates a new model sharing the moc, with the same parameter values
// and part opacities.
func (m *Model) Clone() (*Model, error) {
	c, err := NewModel(m.moc)
	if err != nil {
		return nil, err
	}
	copy(c.ParameterValues(), m.ParameterValues())
	copy(c.PartOpacities(), m.PartOpacities())
	return c, nil
}

// Release frees the model memory. The model must not be used afterwards.
func (m *Model) Release() {
	m.once.Do(func() {
		runtime.SetFinalizer(m, nil)
		alignedFree(m.mem)
		m.mem = nil
		m.ptr = nil
		m.moc.release()
	})
}

func (m *Model) Moc() *Moc {
	return m.moc
}

func (m *Model) Update() {
	C.csmUpdateModel(m.ptr)
	C.csmResetDrawableDynamicFlags(m.ptr)
}

func (m *Model) CanvasInfo() cubism.CanvasInfo {
	var size, origin C.csmVector2
	var ppu C.float
	C.csmReadCanvasInfo(m.ptr, &size, &origin, &ppu)
	return cubism.CanvasInfo{
		Size:          math.Vec2{X: float32(size.X), Y: float32(size.Y)},
		Origin:        math.Vec2{X: float32(origin.X), Y: float32(origin.Y)},
		PixelsPerUnit: float32(ppu),
	}
}

// Parameter returns the first parameter with the given id.
func (m *Model) Parameter(id string) (cubism.Parameter, bool) {
	idx := cubism.ParameterIndex(m, id)
	if idx < 0 {
		return cubism.Parameter{}, false
	}
	return cubism.ParameterAt(m, idx), true
}

// Part returns the first part with the given id.
func (m *Model) Part(id string) (cubism.Part, bool) {
	idx := cubism.PartIndex(m, id)
	if idx < 0 {
		return cubism.Part{}, false
	}
	return cubism.PartAt(m, idx), true
}

func (m *Model) ParameterIDs() []string            { return m.moc.paramIDs }
func (m *Model) ParameterMinimumValues() []float32 { return m.moc.paramMin }
func (m *Model) ParameterMaximumValues() []float32 { return m.moc.paramMax }
func (m *Model) ParameterDefaultValues() []float32 { return m.moc.paramDef }

func (m *Model) ParameterValues() []float32 {
	return floatView(C.csmGetParameterValues(m.ptr), len(m.moc.paramIDs))
}

func (m *Model) PartIDs() []string { return m.moc.partIDs }

func (m *Model) PartOpacities() []float32 {
	return floatView(C.csmGetPartOpacities(m.ptr), len(m.moc.partIDs))
}

func (m *Model) PartParentIndices() []int32 {
	return intView(C.csmGetPartParentPartIndices(m.ptr), len(m.moc.partIDs))
}

func (m *Model) DrawableIDs() []string { return m.moc.drawableIDs }

func (m *Model) DrawableConstantFlags() []cubism.ConstantFlags {
	ptr := C.csmGetDrawableConstantFlags(m.ptr)
	if ptr == nil || m.drawableCount == 0 {
		return nil
	}
	return unsafe.Slice((*cubism.ConstantFlags)(unsafe.Pointer(ptr)), m.drawableCount)
}

func (m *Model) DrawableDynamicFlags() []cubism.DynamicFlags {
	ptr := C.csmGetDrawableDynamicFlags(m.ptr)
	if ptr == nil || m.drawableCount == 0 {
		return nil
	}
	return unsafe.Slice((*cubism.DynamicFlags)(unsafe.Pointer(ptr)), m.drawableCount)
}

func (m *Model) DrawableTextureIndices() []int32 {
	return intView(C.csmGetDrawableTextureIndices(m.ptr), m.drawableCount)
}

func (m *Model) DrawableDrawOrders() []int32 {
	return intView(C.csmGetDrawableDrawOrders(m.ptr), m.drawableCount)
}

func (m *Model) DrawableRenderOrders() []int32 {
	return intView(C.csmGetDrawableRenderOrders(m.ptr), m.drawableCount)
}

func (m *Model) DrawableOpacities() []float32 {
	return floatView(C.csmGetDrawableOpacities(m.ptr), m.drawableCount)
}

func (m *Model) DrawableMasks(idx int) []int32 {
	n := int(m.maskCounts[idx])
	if n == 0 {
		return nil
	}
	masks := unsafe.Slice(C.csmGetDrawableMasks(m.ptr), m.drawableCount)
	return intView(masks[idx], n)
}

func (m *Model) DrawableVertexPositions(idx int) []math.Vec2 {
	positions := unsafe.Slice(C.csmGetDrawableVertexPositions(m.ptr), m.drawableCount)
	return vecView(positions[idx], int(m.vertexCounts[idx]))
}

func (m *Model) DrawableVertexUVs(idx int) []math.Vec2 {
	uvs := unsafe.Slice(C.csmGetDrawableVertexUvs(m.ptr), m.drawableCount)
	return vecView(uvs[idx], int(m.vertexCounts[idx]))
}

func (m *Model) DrawableIndices(idx int) []uint16 {
	n := int(m.indexCounts[idx])
	if n == 0 {
		return nil
	}
	indices := unsafe.Slice(C.csmGetDrawableIndices(m.ptr), m.drawableCount)
	return unsafe.Slice((*uint16)(unsafe.Pointer(indices[idx])), n)
}

func floatView(ptr *C.float, n int) []float32 {
	if ptr == nil || n == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(ptr)), n)
}

func intView(ptr *C.int, n int) []int32 {
	if ptr == nil || n == 0 {
		return nil
	}
	return unsafe.Slice((*int32)(unsafe.Pointer(ptr)), n)
}

// csmVector2 is two floats, the same layout as math.Vec2.
func vecView(ptr *C.csmVector2, n int) []math.Vec2 {
	if ptr == nil || n == 0 {
		return nil
	}
	return unsafe.Slice((*math.Vec2)(unsafe.Pointer(ptr)), n)
}

var _ cubism.Model = (*Model)(nil)

// Package csm binds the Live2D Cubism Core native library.
//
// The library is not shipped with this module. Point CUBISM_CORE at the SDK
// and build through the magefile, or set CGO_CFLAGS and CGO_LDFLAGS to the
// include and library directories yourself.
package csm

/*
#cgo !windows LDFLAGS: -lLive2DCubismCore -lm
#cgo windows LDFLAGS: -lLive2DCubismCore_MT

#include <stdlib.h>
#include "Live2DCubismCore.h"

void* cubismAlignedAlloc(size_t size, size_t align);
void cubismAlignedFree(void* ptr);
*/
import "C"

import (
	"errors"
	"unsafe"

	"github.com/spaghettifunk/cubism/engine/cubism"
)

const (
	alignofMoc   = 64
	alignofModel = 16
)

var (
	ErrMocVersion     = errors.New("moc version is not supported by the linked core")
	ErrInvalidMocData = errors.New("invalid moc data")
	ErrModelInit      = errors.New("model could not be initialized")
	ErrReleased       = errors.New("moc already released")
)

// Version returns the version of the linked core.
func Version() cubism.Version {
	return cubism.Version(C.csmGetVersion())
}

// LatestMocVersion returns the newest moc file version the linked core reads.
func LatestMocVersion() cubism.MocVersion {
	return cubism.MocVersion(C.csmGetLatestMocVersion())
}

// MocVersionOf reads the file version from moc3 bytes without reviving them.
func MocVersionOf(data []byte) cubism.MocVersion {
	if len(data) == 0 {
		return cubism.MocVersionUnknown
	}
	return cubism.MocVersion(C.csmGetMocVersion(unsafe.Pointer(&data[0]), C.uint(len(data))))
}

func alignedAlloc(size, align int) unsafe.Pointer {
	return C.cubismAlignedAlloc(C.size_t(size), C.size_t(align))
}

func alignedFree(ptr unsafe.Pointer) {
	C.cubismAlignedFree(ptr)
}

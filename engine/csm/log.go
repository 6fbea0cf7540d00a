package csm

/*
#include "Live2DCubismCore.h"

void cubismInstallLogger(void);
*/
import "C"

import (
	"strings"
	"sync"
)

var (
	loggerOnce sync.Once
	coreLogger func(string)
)

// SetLogger installs the function the core calls for its diagnostics. Only
// the first call has an effect.
func SetLogger(fn func(msg string)) {
	loggerOnce.Do(func() {
		coreLogger = fn
		C.cubismInstallLogger()
	})
}

//export goCubismLog
func goCubismLog(message *C.char) {
	if coreLogger == nil || message == nil {
		return
	}
	coreLogger(strings.TrimRight(C.GoString(message), " \r\n\t"))
}

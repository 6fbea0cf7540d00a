package core

import (
	"errors"
)

var (
	ErrSwapchainBooting = errors.New("swapchain resized or recreated, booting")
	ErrNotInitialized   = errors.New("subsystem not initialized")
	ErrUnknown          = errors.New("unknown")
)

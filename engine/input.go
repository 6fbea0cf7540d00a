package engine

import (
	stdmath "math"
	"strings"

	"github.com/spaghettifunk/cubism/engine/controllers"
	"github.com/spaghettifunk/cubism/engine/core"
	"github.com/spaghettifunk/cubism/engine/ids"
	"github.com/spaghettifunk/cubism/engine/resources"
)

type action uint8

const (
	actionNone action = iota
	actionQuit
	actionTogglePause
	actionNextExpression
	actionRandomExpression
	actionTapMotion
	actionReset
	actionTogglePhysics
	actionToggleHUD
	actionZoomIn
	actionZoomOut
)

var keyBindings = map[core.KeyCode]action{
	core.KEY_ESCAPE: actionQuit,
	core.KEY_SPACE:  actionTogglePause,
	core.KEY_E:      actionNextExpression,
	core.KEY_M:      actionTapMotion,
	core.KEY_R:      actionReset,
	core.KEY_P:      actionTogglePhysics,
	core.KEY_H:      actionToggleHUD,
	core.KEY_PLUS:   actionZoomIn,
	core.KEY_MINUS:  actionZoomOut,
}

const (
	zoomStep = 1.1
	// clickSlop is how far in pixels a press may travel and still be a click.
	clickSlop = 4
)

type dragState struct {
	active bool
	moved  bool
	startX uint16
	startY uint16
}

// hitAction maps a hit area name onto what a click on it does.
func hitAction(area string) action {
	switch {
	case strings.EqualFold(area, ids.HitAreaHead):
		return actionRandomExpression
	case strings.EqualFold(area, ids.HitAreaBody):
		return actionTapMotion
	}
	return actionNone
}

func zoomFactor(scroll int8) float32 {
	return float32(stdmath.Pow(zoomStep, float64(scroll)))
}

func beyondSlop(ax, ay, bx, by uint16) bool {
	dx := int(ax) - int(bx)
	dy := int(ay) - int(by)
	return dx*dx+dy*dy > clickSlop*clickSlop
}

func (e *Engine) onKey(ctx core.EventContext, listener interface{}) bool {
	ev, ok := ctx.Data.(*core.KeyEvent)
	if !ok {
		return false
	}
	a, ok := keyBindings[ev.KeyCode]
	if !ok {
		return false
	}
	e.apply(a)
	return true
}

func (e *Engine) apply(a action) {
	if e.model == nil && a != actionQuit && a != actionToggleHUD {
		return
	}
	switch a {
	case actionQuit:
		core.EventFire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
	case actionTogglePause:
		e.paused = !e.paused
		e.model.SetPaused(e.paused)
	case actionNextExpression:
		if name := e.model.NextExpression(); name != "" {
			core.LogInfo("expression %s", name)
		}
	case actionRandomExpression:
		if name := e.model.SetRandomExpression(); name != "" {
			core.LogInfo("expression %s", name)
		}
	case actionTapMotion:
		if _, err := e.model.StartRandomMotion(resources.MotionGroupTapBody, controllers.MotionPriorityNormal); err != nil {
			core.LogDebug("tap motion not started: %s", err)
		}
	case actionReset:
		e.model.Reset()
		e.renderer.Camera().Reset()
	case actionTogglePhysics:
		e.physics = !e.physics
		e.model.Controllers().SetEnabled(controllers.NamePhysics, e.physics)
		if rig := e.model.Physics(); rig != nil && e.physics {
			rig.Reset()
		}
	case actionToggleHUD:
		e.hudEnabled = !e.hudEnabled
		if e.renderer == nil || e.model == nil {
			return
		}
		if !e.hudEnabled {
			_ = e.renderer.SetOverlay(nil)
		} else if img, _ := e.hud.Render(e.stats()); img != nil {
			if err := e.renderer.SetOverlay(img); err != nil {
				core.LogError("HUD upload failed: %s", err)
			}
		}
	case actionZoomIn:
		e.renderer.Camera().ZoomBy(zoomStep)
	case actionZoomOut:
		e.renderer.Camera().ZoomBy(1 / zoomStep)
	}
}

func (e *Engine) onButton(ctx core.EventContext, listener interface{}) bool {
	ev, ok := ctx.Data.(*core.MouseEvent)
	if !ok || ev.Button != core.BUTTON_LEFT || e.model == nil {
		return false
	}
	if ctx.Type == core.EVENT_CODE_BUTTON_PRESSED {
		e.drag = dragState{active: true, startX: ev.PosX, startY: ev.PosY}
		return true
	}

	if e.drag.active && !e.drag.moved {
		e.tap(ev.PosX, ev.PosY)
	}
	e.drag = dragState{}
	e.model.SetDragging(0, 0)
	return true
}

func (e *Engine) onMouseMove(ctx core.EventContext, listener interface{}) bool {
	ev, ok := ctx.Data.(*core.MouseEvent)
	if !ok || !e.drag.active || e.model == nil {
		return false
	}
	if !e.drag.moved && beyondSlop(ev.PosX, ev.PosY, e.drag.startX, e.drag.startY) {
		e.drag.moved = true
	}
	if e.drag.moved {
		v := e.renderer.ScreenToView(float32(ev.PosX), float32(ev.PosY))
		e.model.SetDragging(v.X, v.Y)
	}
	return true
}

func (e *Engine) onMouseWheel(ctx core.EventContext, listener interface{}) bool {
	ev, ok := ctx.Data.(*core.MouseEvent)
	if !ok || ev.Scroll == 0 || e.renderer == nil {
		return false
	}
	e.renderer.Camera().ZoomBy(zoomFactor(ev.Scroll))
	return true
}

// tap runs the hit tests for a click at window pixel (x, y).
func (e *Engine) tap(x, y uint16) {
	p := e.renderer.ScreenToModel(float32(x), float32(y))
	area, ok := e.model.HitAreaAt(p.X, p.Y)
	if !ok {
		return
	}
	core.LogDebug("hit area %s at (%.3f, %.3f)", area, p.X, p.Y)
	e.apply(hitAction(area))
}

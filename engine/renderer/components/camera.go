package components

import (
	"github.com/spaghettifunk/cubism/engine/math"
)

const (
	MinZoom float32 = 0.1
	MaxZoom float32 = 10
)

/**
 * @brief A 2D camera over the model canvas. Position pans the view in model
 * units and Zoom scales it around the canvas centre.
 */
type Camera struct {
	/**
	 * @brief The pan of this camera.
	 * NOTE: Do not set this directly, use SetPosition() instead
	 * so the projection is rebuilt when needed.
	 */
	Position math.Vec2
	/** @brief Zoom factor, 1 fits the canvas into the viewport. */
	Zoom float32
	/** @brief Internal flag used to determine when the projection needs to be rebuilt. */
	IsDirty bool
}

func NewCamera() *Camera {
	camera := &Camera{}
	camera.Reset()
	return camera
}

func (c *Camera) Reset() {
	c.Position = math.Vec2{}
	c.Zoom = 1
	c.IsDirty = true
}

func (c *Camera) GetPosition() math.Vec2 {
	return c.Position
}

func (c *Camera) SetPosition(position math.Vec2) {
	c.Position = position
	c.IsDirty = true
}

// Move pans by delta model units.
func (c *Camera) Move(delta math.Vec2) {
	c.Position = c.Position.Add(delta)
	c.IsDirty = true
}

func (c *Camera) GetZoom() float32 {
	return c.Zoom
}

func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = math.Clamp(zoom, MinZoom, MaxZoom)
	c.IsDirty = true
}

// ZoomBy multiplies the zoom, used by the scroll wheel.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

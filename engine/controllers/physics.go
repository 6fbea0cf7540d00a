package controllers

import (
	"github.com/spaghettifunk/cubism/engine/cubism"
	"github.com/spaghettifunk/cubism/engine/physics"
	"github.com/spaghettifunk/cubism/engine/pose"
)

// PhysicsController runs a physics rig.
type PhysicsController struct {
	Rig *physics.Rig
}

func NewPhysicsController(rig *physics.Rig) *PhysicsController {
	return &PhysicsController{Rig: rig}
}

func (pc *PhysicsController) UpdateParameters(model cubism.Model, delta float32) {
	pc.Rig.Evaluate(model, delta)
}

func (pc *PhysicsController) Priority() int {
	return PriorityPhysics
}

// PoseController runs the part switching of a pose.
type PoseController struct {
	Pose *pose.Pose
}

func NewPoseController(p *pose.Pose) *PoseController {
	return &PoseController{Pose: p}
}

func (pc *PoseController) UpdateParameters(model cubism.Model, delta float32) {
	pc.Pose.Update(model, delta)
}

func (pc *PoseController) Priority() int {
	return PriorityPose
}

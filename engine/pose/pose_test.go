package pose

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spaghettifunk/cubism/engine/cubism/cubismtest"
	"github.com/spaghettifunk/cubism/engine/resources"
)

func armsModel() *cubismtest.Model {
	return cubismtest.New(
		cubismtest.Params(0, 1, "PartArmA", "PartArmB"),
		[]cubismtest.Part{
			{ID: "PartArmA", Parent: -1},
			{ID: "PartArmB", Parent: -1},
			{ID: "PartArmBLink", Parent: -1},
		},
		nil,
	)
}

func armsPose(fade *float32) *Pose {
	return New(&resources.Pose3{
		FadeInTime: fade,
		Groups: [][]resources.PoseItem{{
			{ID: "PartArmA"},
			{ID: "PartArmB", Link: []string{"PartArmBLink"}},
		}},
	})
}

func TestReset(t *testing.T) {
	m := armsModel()
	p := armsPose(nil)
	assert.Equal(t, resources.DefaultPoseFadeTime, p.FadeTime())
	assert.Equal(t, [][]string{{"PartArmA", "PartArmB"}}, p.Groups())

	p.Reset(m)
	assert.Equal(t, float32(1), m.Opacity("PartArmA"))
	assert.Equal(t, float32(0), m.Opacity("PartArmB"))
	assert.Equal(t, float32(0), m.Opacity("PartArmBLink"))
	assert.Equal(t, float32(1), m.Value("PartArmA"))
	assert.Equal(t, float32(0), m.Value("PartArmB"))
}

func TestSwitchFades(t *testing.T) {
	m := armsModel()
	p := armsPose(nil)
	p.Update(m, 0)

	// select arm B
	m.ParameterValues()[0] = 0
	m.ParameterValues()[1] = 1

	p.Update(m, 0.25)
	b := m.Opacity("PartArmB")
	assert.InDelta(t, 0.5, b, 1e-6)
	assert.Equal(t, b, m.Opacity("PartArmBLink"))
	a := m.Opacity("PartArmA")
	assert.Less(t, a, float32(1))
	// the back part never keeps more than the threshold of combined see through
	assert.LessOrEqual(t, (1-a)*(1-b), backOpacityThreshold+1e-6)

	p.Update(m, 0.5)
	assert.Equal(t, float32(1), m.Opacity("PartArmB"))
	assert.Equal(t, float32(0), m.Opacity("PartArmA"))
	assert.Equal(t, float32(1), m.Opacity("PartArmBLink"))
}

func TestNoSelectionShowsFirst(t *testing.T) {
	m := armsModel()
	p := armsPose(nil)
	p.Reset(m)
	m.ParameterValues()[0] = 0

	p.Update(m, 0.1)
	assert.Equal(t, float32(1), m.Opacity("PartArmA"))
	assert.Equal(t, float32(0), m.Opacity("PartArmB"))
}

func TestZeroFadeSwitchesImmediately(t *testing.T) {
	zero := float32(0)
	m := armsModel()
	p := armsPose(&zero)
	p.Reset(m)
	m.ParameterValues()[0] = 0
	m.ParameterValues()[1] = 1

	p.Update(m, 0.01)
	assert.Equal(t, float32(1), m.Opacity("PartArmB"))
	assert.Equal(t, float32(0), m.Opacity("PartArmA"))
}

// Package pose switches between mutually exclusive parts, like the arm
// variants of a model, with a short cross fade.
package pose

import (
	"github.com/spaghettifunk/cubism/engine/cubism"
	"github.com/spaghettifunk/cubism/engine/resources"
)

const (
	epsilon              float32 = 0.001
	phi                  float32 = 0.5
	backOpacityThreshold float32 = 0.15
)

type partData struct {
	id        string
	partIndex int
	paramIdx  int
	links     []partData
}

func (p *partData) resolve(model cubism.Model) {
	p.partIndex = cubism.PartIndex(model, p.id)
	p.paramIdx = cubism.ParameterIndex(model, p.id)
	for i := range p.links {
		p.links[i].resolve(model)
	}
}

// Pose holds the part groups of a pose3 file.
type Pose struct {
	groups    [][]partData
	fadeTime  float32
	lastModel cubism.Model
}

func New(p3 *resources.Pose3) *Pose {
	p := &Pose{fadeTime: resources.FadeTime(p3.FadeInTime, resources.DefaultPoseFadeTime)}
	for _, g := range p3.Groups {
		group := make([]partData, 0, len(g))
		for _, item := range g {
			pd := partData{id: item.ID, partIndex: -1, paramIdx: -1}
			for _, link := range item.Link {
				pd.links = append(pd.links, partData{id: link, partIndex: -1, paramIdx: -1})
			}
			group = append(group, pd)
		}
		p.groups = append(p.groups, group)
	}
	return p
}

func (p *Pose) FadeTime() float32 {
	return p.fadeTime
}

// Groups returns the part ids of every group.
func (p *Pose) Groups() [][]string {
	out := make([][]string, len(p.groups))
	for i, g := range p.groups {
		for _, pd := range g {
			out[i] = append(out[i], pd.id)
		}
	}
	return out
}

/**
 * @brief Shows the first part of each group and hides the others, both the
 * part opacity and the parameter with the same id.
 */
func (p *Pose) Reset(model cubism.Model) {
	opacities := model.PartOpacities()
	values := model.ParameterValues()
	for gi := range p.groups {
		for i := range p.groups[gi] {
			pd := &p.groups[gi][i]
			pd.resolve(model)
			v := float32(0)
			if i == 0 {
				v = 1
			}
			if pd.partIndex >= 0 {
				opacities[pd.partIndex] = v
			}
			if pd.paramIdx >= 0 {
				values[pd.paramIdx] = v
			}
			for _, l := range pd.links {
				if l.partIndex >= 0 {
					opacities[l.partIndex] = v
				}
			}
		}
	}
	p.lastModel = model
}

// Update fades the selected part of each group in and the others out, then
// copies the opacities to linked parts. A new model is reset first.
func (p *Pose) Update(model cubism.Model, delta float32) {
	if model != p.lastModel {
		p.Reset(model)
	}
	if delta < 0 {
		delta = 0
	}
	for _, g := range p.groups {
		p.fade(model, g, delta)
	}
	p.copyLinks(model)
}

func (p *Pose) fade(model cubism.Model, group []partData, delta float32) {
	opacities := model.PartOpacities()
	values := model.ParameterValues()

	visible := -1
	newOpacity := float32(1)
	for i, pd := range group {
		if pd.paramIdx < 0 || values[pd.paramIdx] <= epsilon {
			continue
		}
		if visible >= 0 {
			break
		}
		visible = i
		if p.fadeTime == 0 || pd.partIndex < 0 {
			newOpacity = 1
			continue
		}
		newOpacity = opacities[pd.partIndex] + delta/p.fadeTime
		if newOpacity > 1 {
			newOpacity = 1
		}
	}
	if visible < 0 {
		visible = 0
		newOpacity = 1
	}

	for i, pd := range group {
		if pd.partIndex < 0 {
			continue
		}
		if i == visible {
			opacities[pd.partIndex] = newOpacity
			continue
		}
		var a1 float32
		if newOpacity < phi {
			a1 = newOpacity*(phi-1)/phi + 1
		} else {
			a1 = (1 - newOpacity) * phi / (1 - phi)
		}
		if back := (1 - a1) * (1 - newOpacity); back > backOpacityThreshold {
			a1 = 1 - backOpacityThreshold/(1-newOpacity)
		}
		if opacities[pd.partIndex] > a1 {
			opacities[pd.partIndex] = a1
		}
	}
}

func (p *Pose) copyLinks(model cubism.Model) {
	opacities := model.PartOpacities()
	for _, g := range p.groups {
		for _, pd := range g {
			if pd.partIndex < 0 {
				continue
			}
			for _, l := range pd.links {
				if l.partIndex >= 0 {
					opacities[l.partIndex] = opacities[pd.partIndex]
				}
			}
		}
	}
}

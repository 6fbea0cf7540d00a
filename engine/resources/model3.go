package resources

import (
	"path/filepath"
	"sort"
)

// Well known motion groups.
const (
	MotionGroupIdle      = "Idle"
	MotionGroupTapBody   = "TapBody"
	MotionGroupPinchIn   = "PinchIn"
	MotionGroupPinchOut  = "PinchOut"
	MotionGroupShake     = "Shake"
	MotionGroupFlickHead = "FlickHead"
)

type GroupTarget string

const (
	GroupTargetParameter GroupTarget = "Parameter"
	GroupTargetPart      GroupTarget = "Part"
)

// Model3 is the model settings file (*.model3.json). File paths are
// relative to the directory of the file.
type Model3 struct {
	Version        int            `json:"Version"`
	FileReferences FileReferences `json:"FileReferences"`
	Groups         []Group        `json:"Groups,omitempty"`
	HitAreas       []HitArea      `json:"HitAreas,omitempty"`
	Layout         *Layout        `json:"Layout,omitempty"`
}

type FileReferences struct {
	Moc         string                 `json:"Moc,omitempty"`
	Textures    []string               `json:"Textures,omitempty"`
	Pose        string                 `json:"Pose,omitempty"`
	Physics     string                 `json:"Physics,omitempty"`
	DisplayInfo string                 `json:"DisplayInfo,omitempty"`
	UserData    string                 `json:"UserData,omitempty"`
	Expressions []ExpressionRef        `json:"Expressions,omitempty"`
	Motions     map[string][]MotionRef `json:"Motions,omitempty"`
}

type Group struct {
	Target GroupTarget `json:"Target"`
	Name   string      `json:"Name"`
	IDs    []string    `json:"Ids"`
}

type HitArea struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

type ExpressionRef struct {
	Name string `json:"Name"`
	File string `json:"File"`
}

type MotionRef struct {
	File        string   `json:"File"`
	Sound       string   `json:"Sound,omitempty"`
	FadeInTime  *float32 `json:"FadeInTime,omitempty"`
	FadeOutTime *float32 `json:"FadeOutTime,omitempty"`
}

// Layout places the model inside the view. Missing keys stay nil.
type Layout struct {
	CenterX *float32 `json:"CenterX,omitempty"`
	CenterY *float32 `json:"CenterY,omitempty"`
	X       *float32 `json:"X,omitempty"`
	Y       *float32 `json:"Y,omitempty"`
	Width   *float32 `json:"Width,omitempty"`
	Height  *float32 `json:"Height,omitempty"`
}

// GroupIDs returns the ids of the first group with the given name and target.
func (m *Model3) GroupIDs(name string, target GroupTarget) []string {
	for _, g := range m.Groups {
		if g.Name == name && g.Target == target {
			return g.IDs
		}
	}
	return nil
}

// HitAreaID returns the drawable id of the named hit area.
func (m *Model3) HitAreaID(name string) (string, bool) {
	for _, h := range m.HitAreas {
		if h.Name == name {
			return h.ID, true
		}
	}
	return "", false
}

// MotionGroups returns the motion group names in a stable order.
func (m *Model3) MotionGroups() []string {
	out := make([]string, 0, len(m.FileReferences.Motions))
	for name := range m.FileReferences.Motions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Resolve joins a referenced file with the model3 directory.
func Resolve(dir, file string) string {
	if file == "" || filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(dir, filepath.FromSlash(file))
}

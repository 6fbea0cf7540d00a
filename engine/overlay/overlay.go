package overlay

import (
	"fmt"
	"image"
	"image/color"
	"slices"

	"golang.org/x/image/draw"
)

const defaultPadding = 6

var (
	// premultiplied
	backgroundColor = color.RGBA{A: 160}
	textColor       = color.RGBA{R: 235, G: 235, B: 235, A: 255}
	pausedColor     = color.RGBA{R: 250, G: 190, B: 60, A: 255}
)

var helpLines = []string{
	"Esc quit  Space pause  R reset",
	"E expression  M motion  P physics  H hud",
	"drag look  click hit areas  wheel zoom",
}

/** @brief What the HUD shows for one frame. */
type Stats struct {
	FPS float64
	/** @brief Average frame time in milliseconds. */
	FrameTime  float64
	Model      string
	Expression string
	Motion     string
	Paused     bool
	Physics    bool
	Backend    string
}

type HUD struct {
	face     Face
	padding  int
	ShowHelp bool

	lines []string
	image *image.RGBA
}

// New returns a HUD drawing with face, or the built-in font when face is nil.
func New(face Face) *HUD {
	if face == nil {
		face = NewBasicFace()
	}
	return &HUD{face: face, padding: defaultPadding, ShowHelp: true}
}

func (h *HUD) Lines(s Stats) []string {
	lines := []string{
		fmt.Sprintf("%.0f fps  %.2f ms", s.FPS, s.FrameTime),
	}
	if s.Model != "" {
		model := s.Model
		if s.Backend != "" {
			model += "  [" + s.Backend + "]"
		}
		lines = append(lines, model)
	}
	expression := s.Expression
	if expression == "" {
		expression = "-"
	}
	motion := s.Motion
	if motion == "" {
		motion = "-"
	}
	lines = append(lines, "expression "+expression, "motion "+motion)

	physics := "off"
	if s.Physics {
		physics = "on"
	}
	status := "physics " + physics
	if s.Paused {
		status += "  PAUSED"
	}
	lines = append(lines, status)

	if h.ShowHelp {
		lines = append(lines, "")
		lines = append(lines, helpLines...)
	}
	return lines
}

// Render lays out the stats. The returned flag is false when the text did
// not change since the last call and the previous image is returned.
func (h *HUD) Render(s Stats) (*image.RGBA, bool) {
	lines := h.Lines(s)
	if h.image != nil && slices.Equal(lines, h.lines) {
		return h.image, false
	}
	h.lines = lines
	h.image = Layout(h.face, lines, h.padding, s.Paused)
	return h.image, true
}

// Layout draws lines top to bottom on a translucent panel sized to fit them.
func Layout(face Face, lines []string, padding int, highlightLast bool) *image.RGBA {
	width := 0
	for _, l := range lines {
		width = max(width, face.Measure(l))
	}
	height := face.LineHeight() * len(lines)
	img := image.NewRGBA(image.Rect(0, 0, max(width+2*padding, 1), max(height+2*padding, 1)))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	y := padding + face.Ascent()
	for i, l := range lines {
		c := color.Color(textColor)
		if highlightLast && i == statusLine(lines) {
			c = pausedColor
		}
		face.DrawString(img, padding, y, l, c)
		y += face.LineHeight()
	}
	return img
}

// statusLine is the physics/paused line, the last one before the help block.
func statusLine(lines []string) int {
	for i, l := range lines {
		if l == "" {
			return i - 1
		}
	}
	return len(lines) - 1
}

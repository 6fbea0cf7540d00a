package resources

// DefaultPoseFadeTime is the part switch fade when the file has none.
const DefaultPoseFadeTime float32 = 0.5

// Pose3 is a pose file (*.pose3.json). Each group lists mutually exclusive
// parts; the first one is shown by default.
type Pose3 struct {
	Type       string       `json:"Type"`
	FadeInTime *float32     `json:"FadeInTime,omitempty"`
	Groups     [][]PoseItem `json:"Groups"`
}

type PoseItem struct {
	ID   string   `json:"Id"`
	Link []string `json:"Link"`
}

package resources

// Motion3 is a motion file (*.motion3.json).
type Motion3 struct {
	Version  int           `json:"Version"`
	Meta     MotionMeta    `json:"Meta"`
	Curves   []MotionCurve `json:"Curves"`
	UserData []MotionEvent `json:"UserData,omitempty"`
}

type MotionMeta struct {
	Duration             float32  `json:"Duration"`
	Fps                  float32  `json:"Fps"`
	Loop                 bool     `json:"Loop"`
	AreBeziersRestricted bool     `json:"AreBeziersRestricted"`
	FadeInTime           *float32 `json:"FadeInTime,omitempty"`
	FadeOutTime          *float32 `json:"FadeOutTime,omitempty"`
	CurveCount           int      `json:"CurveCount"`
	TotalSegmentCount    int      `json:"TotalSegmentCount"`
	TotalPointCount      int      `json:"TotalPointCount"`
	UserDataCount        int      `json:"UserDataCount"`
	TotalUserDataSize    int      `json:"TotalUserDataSize"`
}

// Curve targets.
const (
	CurveTargetModel       = "Model"
	CurveTargetParameter   = "Parameter"
	CurveTargetPartOpacity = "PartOpacity"
)

// MotionCurve holds the flat segment list: the first point as (time, value)
// followed by repeated (segment type, points...).
type MotionCurve struct {
	Target      string    `json:"Target"`
	ID          string    `json:"Id"`
	FadeInTime  *float32  `json:"FadeInTime,omitempty"`
	FadeOutTime *float32  `json:"FadeOutTime,omitempty"`
	Segments    []float32 `json:"Segments"`
}

type MotionEvent struct {
	Time  float32 `json:"Time"`
	Value string  `json:"Value"`
}

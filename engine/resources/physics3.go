package resources

// Physics input and output types.
const (
	PhysicsTypeX     = "X"
	PhysicsTypeY     = "Y"
	PhysicsTypeAngle = "Angle"
)

// Physics3 is a physics rig file (*.physics3.json).
type Physics3 struct {
	Version         int              `json:"Version"`
	Meta            PhysicsMeta      `json:"Meta"`
	PhysicsSettings []PhysicsSetting `json:"PhysicsSettings"`
}

type PhysicsMeta struct {
	PhysicsSettingCount int             `json:"PhysicsSettingCount"`
	TotalInputCount     int             `json:"TotalInputCount"`
	TotalOutputCount    int             `json:"TotalOutputCount"`
	VertexCount         int             `json:"VertexCount"`
	Fps                 float32         `json:"Fps,omitempty"`
	EffectiveForces     EffectiveForces `json:"EffectiveForces"`
	PhysicsDictionary   []PhysicsIDName `json:"PhysicsDictionary,omitempty"`
}

type EffectiveForces struct {
	Gravity Vec2 `json:"Gravity"`
	Wind    Vec2 `json:"Wind"`
}

type PhysicsIDName struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

type PhysicsSetting struct {
	ID            string               `json:"Id"`
	Input         []PhysicsInput       `json:"Input"`
	Output        []PhysicsOutput      `json:"Output"`
	Vertices      []PhysicsVertex      `json:"Vertices"`
	Normalization PhysicsNormalization `json:"Normalization"`
}

type PhysicsTarget struct {
	Target string `json:"Target"`
	ID     string `json:"Id"`
}

type PhysicsInput struct {
	Source  PhysicsTarget `json:"Source"`
	Weight  float32       `json:"Weight"`
	Type    string        `json:"Type"`
	Reflect bool          `json:"Reflect"`
}

type PhysicsOutput struct {
	Destination PhysicsTarget `json:"Destination"`
	VertexIndex int           `json:"VertexIndex"`
	Scale       float32       `json:"Scale"`
	Weight      float32       `json:"Weight"`
	Type        string        `json:"Type"`
	Reflect     bool          `json:"Reflect"`
}

type PhysicsVertex struct {
	Position     Vec2    `json:"Position"`
	Mobility     float32 `json:"Mobility"`
	Delay        float32 `json:"Delay"`
	Acceleration float32 `json:"Acceleration"`
	Radius       float32 `json:"Radius"`
}

type PhysicsNormalization struct {
	Position PhysicsRange `json:"Position"`
	Angle    PhysicsRange `json:"Angle"`
}

type PhysicsRange struct {
	Minimum float32 `json:"Minimum"`
	Default float32 `json:"Default"`
	Maximum float32 `json:"Maximum"`
}

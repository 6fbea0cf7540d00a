package resources

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DefaultFadeTime is used when neither the model3 entry nor the file
// itself carries a fade time.
const DefaultFadeTime float32 = 1.0

// LoadJSON decodes the json file at path into a new T.
func LoadJSON[T any](path string) (*T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseJSON[T](data, filepath.Base(path))
}

// ParseJSON decodes data into a new T. name is only used in errors.
func ParseJSON[T any](data []byte, name string) (*T, error) {
	out := new(T)
	if err := json.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return out, nil
}

// ReadJSON decodes a single json document from r.
func ReadJSON[T any](r io.Reader, name string) (*T, error) {
	out := new(T)
	if err := json.NewDecoder(r).Decode(out); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return out, nil
}

func LoadModel3(path string) (*Model3, error)           { return LoadJSON[Model3](path) }
func LoadMotion3(path string) (*Motion3, error)         { return LoadJSON[Motion3](path) }
func LoadExpression3(path string) (*Expression3, error) { return LoadJSON[Expression3](path) }
func LoadPhysics3(path string) (*Physics3, error)       { return LoadJSON[Physics3](path) }
func LoadPose3(path string) (*Pose3, error)             { return LoadJSON[Pose3](path) }
func LoadCdi3(path string) (*Cdi3, error)               { return LoadJSON[Cdi3](path) }
func LoadUserData3(path string) (*UserData3, error)     { return LoadJSON[UserData3](path) }

func ReadModel3(r io.Reader) (*Model3, error)   { return ReadJSON[Model3](r, "model3") }
func ReadMotion3(r io.Reader) (*Motion3, error) { return ReadJSON[Motion3](r, "motion3") }

// FadeTime resolves an optional fade time: negative or missing values fall
// back to def.
func FadeTime(v *float32, def float32) float32 {
	if v == nil || *v < 0 {
		return def
	}
	return *v
}

type Vec2 struct {
	X float32 `json:"X"`
	Y float32 `json:"Y"`
}

package loaders

import (
	"os"
	"path/filepath"

	"github.com/spaghettifunk/cubism/engine/resources"
)

// JSONLoader decodes one of the Cubism json settings files into T.
type JSONLoader[T any] struct {
	Type resources.ResourceType
}

func (jl *JSONLoader[T]) Load(path string, assetType resources.ResourceType, params interface{}) (*resources.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	v, err := resources.ParseJSON[T](data, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	return &resources.Resource{
		Type:     jl.Type,
		Name:     resourceName(path, params),
		FullPath: path,
		DataSize: uint64(len(data)),
		Data:     v,
	}, nil
}

func (jl *JSONLoader[T]) Unload(res *resources.Resource) error {
	res.Data = nil
	res.DataSize = 0
	return nil
}

func NewModel3Loader() *JSONLoader[resources.Model3] {
	return &JSONLoader[resources.Model3]{Type: resources.ResourceTypeModel}
}

func NewMotionLoader() *JSONLoader[resources.Motion3] {
	return &JSONLoader[resources.Motion3]{Type: resources.ResourceTypeMotion}
}

func NewExpressionLoader() *JSONLoader[resources.Expression3] {
	return &JSONLoader[resources.Expression3]{Type: resources.ResourceTypeExpression}
}

func NewPhysicsLoader() *JSONLoader[resources.Physics3] {
	return &JSONLoader[resources.Physics3]{Type: resources.ResourceTypePhysics}
}

func NewPoseLoader() *JSONLoader[resources.Pose3] {
	return &JSONLoader[resources.Pose3]{Type: resources.ResourceTypePose}
}

func NewCdiLoader() *JSONLoader[resources.Cdi3] {
	return &JSONLoader[resources.Cdi3]{Type: resources.ResourceTypeDisplayInfo}
}

func NewUserDataLoader() *JSONLoader[resources.UserData3] {
	return &JSONLoader[resources.UserData3]{Type: resources.ResourceTypeUserData}
}

// resourceName takes the "name" param when given, the file name otherwise.
func resourceName(path string, params interface{}) string {
	if p, ok := params.(map[string]string); ok && p["name"] != "" {
		return p["name"]
	}
	return filepath.Base(path)
}

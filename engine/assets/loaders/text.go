package loaders

import (
	"os"

	"github.com/spaghettifunk/cubism/engine/resources"
)

// TextLoader reads a file as a string. Used for GLSL sources.
type TextLoader struct{}

func (tl *TextLoader) Load(path string, assetType resources.ResourceType, params interface{}) (*resources.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &resources.Resource{
		Type:     resources.ResourceTypeText,
		Name:     resourceName(path, params),
		FullPath: path,
		DataSize: uint64(len(data)),
		Data:     string(data),
	}, nil
}

func (tl *TextLoader) Unload(res *resources.Resource) error {
	res.Data = nil
	return nil
}

package assets

import "github.com/spaghettifunk/cubism/engine/resources"

type Loader interface {
	Load(path string, assetType resources.ResourceType, params interface{}) (*resources.Resource, error) // `interface{}` here allows loaders to take type specific params
	Unload(*resources.Resource) error
}

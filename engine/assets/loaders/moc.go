package loaders

import (
	"fmt"
	"os"

	"github.com/spaghettifunk/cubism/engine/resources"
)

// MocLoader reads a moc3 file as raw bytes. Consistency checks are left to
// the core, which needs the bytes in aligned memory anyway.
type MocLoader struct{}

func (ml *MocLoader) Load(path string, assetType resources.ResourceType, params interface{}) (*resources.Resource, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(buf) < 4 || string(buf[:4]) != "MOC3" {
		return nil, fmt.Errorf("%s is not a moc3 file", path)
	}
	return &resources.Resource{
		Type:     resources.ResourceTypeMoc,
		Name:     resourceName(path, params),
		FullPath: path,
		DataSize: uint64(len(buf)),
		Data:     buf,
	}, nil
}

func (ml *MocLoader) Unload(res *resources.Resource) error {
	res.Data = nil
	res.DataSize = 0
	return nil
}

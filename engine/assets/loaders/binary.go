package loaders

import (
	"fmt"
	"io"
	"os"

	"github.com/spaghettifunk/cubism/engine/resources"
)

const spirvMagic = 0x07230203

// BinaryLoader reads SPIR-V modules into little endian words.
type BinaryLoader struct{}

func (bl *BinaryLoader) Load(path string, assetType resources.ResourceType, params interface{}) (*resources.Resource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	if len(buf)%4 != 0 {
		return nil, fmt.Errorf("%s: size %d is not a multiple of 4", path, len(buf))
	}

	res := bytesToBytecode(buf)
	if len(res) == 0 || res[0] != spirvMagic {
		return nil, fmt.Errorf("%s: missing SPIR-V magic number", path)
	}

	return &resources.Resource{
		Type:     resources.ResourceTypeBinary,
		Name:     resourceName(path, params),
		FullPath: path,
		DataSize: uint64(len(buf)),
		Data:     res,
	}, nil
}

func (bl *BinaryLoader) Unload(res *resources.Resource) error {
	res.Data = nil
	return nil
}

func bytesToBytecode(b []byte) []uint32 {
	byteCode := make([]uint32, len(b)/4)
	for i := 0; i < len(byteCode); i++ {
		byteIndex := i * 4
		byteCode[i] = 0
		byteCode[i] |= uint32(b[byteIndex])
		byteCode[i] |= uint32(b[byteIndex+1]) << 8
		byteCode[i] |= uint32(b[byteIndex+2]) << 16
		byteCode[i] |= uint32(b[byteIndex+3]) << 24
	}

	return byteCode
}

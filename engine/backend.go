package engine

import (
	"fmt"
	"path/filepath"

	"github.com/spaghettifunk/cubism/engine/assets"
	"github.com/spaghettifunk/cubism/engine/platform"
	"github.com/spaghettifunk/cubism/engine/renderer"
	"github.com/spaghettifunk/cubism/engine/renderer/opengl"
	"github.com/spaghettifunk/cubism/engine/renderer/vulkan"
	"github.com/spaghettifunk/cubism/engine/resources"
)

// ShaderDir holds the SPIR-V modules built by `mage build:shaders`.
const ShaderDir = "assets/shaders"

func clientAPI(t renderer.RendererType) platform.ClientAPI {
	if t == renderer.Vulkan {
		return platform.ClientAPIVulkan
	}
	return platform.ClientAPIOpenGL
}

func newBackend(t renderer.RendererType, p *platform.Platform) (renderer.RendererBackend, error) {
	switch t {
	case renderer.OpenGL:
		return opengl.New(p), nil
	case renderer.Vulkan:
		return vulkan.New(p), nil
	}
	return nil, fmt.Errorf("%w: %s", renderer.ErrUnknownBackend, t)
}

// shaderLoader resolves a shader name such as "model.vert" to dir/model.vert.spv.
func shaderLoader(am *assets.AssetManager, dir string) func(name string) ([]uint32, error) {
	return func(name string) ([]uint32, error) {
		path, err := filepath.Abs(filepath.Join(dir, name+".spv"))
		if err != nil {
			return nil, err
		}
		res, err := am.LoadAsset(path, resources.ResourceTypeBinary, nil)
		if err != nil {
			return nil, err
		}
		return res.Data.([]uint32), nil
	}
}

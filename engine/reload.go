package engine

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/cubism/engine/assets"
	"github.com/spaghettifunk/cubism/engine/core"
	"github.com/spaghettifunk/cubism/engine/resources"
	"github.com/spaghettifunk/cubism/engine/systems"
	"github.com/spaghettifunk/cubism/engine/usermodel"
)

type textureReload struct {
	index int
	path  string
}

type reloadedTexture struct {
	textureReload
	image *resources.ImageResourceData
}

// pollReload drains the pending change events without blocking.
func (e *Engine) pollReload() {
	for e.reloadEvents != nil {
		select {
		case ev, ok := <-e.reloadEvents:
			if !ok {
				e.reloadEvents = nil
				return
			}
			e.scheduleReload(ev)
		default:
			return
		}
	}
}

// textureIndex finds the model texture a changed file belongs to, or -1.
func textureIndex(dir string, textures []string, path string) int {
	path = filepath.Clean(path)
	for i, t := range textures {
		if filepath.Clean(resources.Resolve(dir, t)) == path {
			return i
		}
	}
	return -1
}

// reloadsModel reports the files whose change rebuilds the whole model.
func reloadsModel(t resources.ResourceType) bool {
	switch t {
	case resources.ResourceTypeModel, resources.ResourceTypeMoc, resources.ResourceTypeMotion,
		resources.ResourceTypeExpression, resources.ResourceTypePhysics, resources.ResourceTypePose,
		resources.ResourceTypeDisplayInfo, resources.ResourceTypeUserData:
		return true
	}
	return false
}

/**
 * @brief Decodes the changed asset on a worker. The result is applied by
 * the job system on the render thread.
 */
func (e *Engine) scheduleReload(ev assets.ChangeEvent) {
	if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 || e.model == nil {
		return
	}

	switch {
	case ev.Type == resources.ResourceTypeImage:
		idx := textureIndex(e.model.Dir(), e.model.Settings().FileReferences.Textures, ev.Path)
		if idx < 0 {
			return
		}
		e.submit(systems.JobTask{
			Name:        "reload " + filepath.Base(ev.Path),
			InputParams: textureReload{index: idx, path: ev.Path},
			OnStart:     e.loadTexture,
			OnComplete:  e.applyTexture,
		})

	case reloadsModel(ev.Type):
		// the rebuilt model already picks up every change made meanwhile
		if e.reloading {
			return
		}
		e.reloading = true
		e.submit(systems.JobTask{
			Name:        "reload " + e.model.Name,
			InputParams: e.modelPath,
			OnStart:     e.loadModel,
			OnComplete:  e.applyModel,
			OnFailure:   func(error) { e.reloading = false },
		})
	}
}

func (e *Engine) submit(job systems.JobTask) {
	if err := e.jobSystem.Submit(job); err != nil {
		core.LogWarn("%s: %s", job.Name, err)
	}
}

func (e *Engine) loadTexture(params interface{}) (interface{}, error) {
	req := params.(textureReload)
	res, err := e.assetManager.LoadAsset(req.path, resources.ResourceTypeImage, resources.ImageResourceParams{Premultiply: true})
	if err != nil {
		return nil, err
	}
	return reloadedTexture{textureReload: req, image: res.Data.(*resources.ImageResourceData)}, nil
}

func (e *Engine) applyTexture(result interface{}) {
	t := result.(reloadedTexture)
	if err := e.renderer.ReplaceTexture(t.index, t.image); err != nil {
		core.LogError("texture %d not replaced: %s", t.index, err)
		return
	}
	core.LogInfo("reloaded texture %s", filepath.Base(t.path))
	core.EventFire(core.EventContext{Type: core.EVENT_CODE_ASSET_RELOADED, Data: &core.AssetEvent{Path: t.path}})
}

func (e *Engine) loadModel(params interface{}) (interface{}, error) {
	return usermodel.Load(params.(string), e.factory, e.modelOptions())
}

func (e *Engine) applyModel(result interface{}) {
	e.reloading = false
	um := result.(*usermodel.UserModel)
	if err := e.renderer.Prepare(um.Model(), um.Textures()); err != nil {
		core.LogError("reloaded model not used: %s", err)
		releaseModel(um)
		// the old textures are gone, put them back
		if err := e.renderer.Prepare(e.model.Model(), e.model.Textures()); err != nil {
			core.LogError("restoring %s: %s", e.model.Name, err)
		}
		return
	}
	old := e.model
	e.setModel(um)
	releaseModel(old)
	core.LogInfo("reloaded %s", um.Name)
	core.EventFire(core.EventContext{Type: core.EVENT_CODE_ASSET_RELOADED, Data: &core.AssetEvent{Path: um.Dir()}})
}

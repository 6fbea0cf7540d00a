package engine

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/spaghettifunk/cubism/engine/assets"
	"github.com/spaghettifunk/cubism/engine/config"
	"github.com/spaghettifunk/cubism/engine/controllers"
	"github.com/spaghettifunk/cubism/engine/core"
	"github.com/spaghettifunk/cubism/engine/math"
	"github.com/spaghettifunk/cubism/engine/overlay"
	"github.com/spaghettifunk/cubism/engine/platform"
	"github.com/spaghettifunk/cubism/engine/renderer"
	"github.com/spaghettifunk/cubism/engine/renderer/metadata"
	"github.com/spaghettifunk/cubism/engine/resources"
	"github.com/spaghettifunk/cubism/engine/systems"
	"github.com/spaghettifunk/cubism/engine/usermodel"
)

var (
	ErrNoModel       = errors.New("no model3.json to view")
	ErrNoFactory     = errors.New("no model factory")
	ErrInvalidStage  = errors.New("operation not allowed in the current engine stage")
	ErrEventsRunning = errors.New("the event system is already initialized")
)

// jobQueueSize bounds the reload jobs waiting for a worker.
const jobQueueSize = 16

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently booting up
	EngineStageBooting
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

func (s Stage) String() string {
	switch s {
	case EngineStageUninitialized:
		return "uninitialized"
	case EngineStageBooting:
		return "booting"
	case EngineStageInitialized:
		return "initialized"
	case EngineStageRunning:
		return "running"
	case EngineStageShuttingDown:
		return "shutting down"
	}
	return fmt.Sprintf("Stage(%d)", uint8(s))
}

type Engine struct {
	currentStage Stage
	config       *config.Config
	factory      usermodel.Factory
	backendType  renderer.RendererType

	isRunning   atomic.Bool
	isSuspended bool

	platform     *platform.Platform
	assetManager *assets.AssetManager
	jobSystem    *systems.JobSystem
	renderer     *renderer.Renderer
	model        *usermodel.UserModel
	modelPath    string
	hud          *overlay.HUD

	hudEnabled bool
	paused     bool
	physics    bool

	drag dragState

	reloadEvents <-chan assets.ChangeEvent
	cancelReload func()
	reloading    bool

	width    uint32
	height   uint32
	clock    *core.Clock
	lastTime float64
}

/**
 * @brief Creates the viewer engine for cfg. Nothing is opened until
 * Initialize.
 * @param factory Creates the core model from moc3 bytes.
 */
func New(cfg *config.Config, factory usermodel.Factory) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Model.Path == "" {
		return nil, ErrNoModel
	}
	if factory == nil {
		return nil, ErrNoFactory
	}
	bt, err := renderer.ParseRendererType(cfg.Renderer.Backend)
	if err != nil {
		return nil, err
	}

	return &Engine{
		currentStage: EngineStageUninitialized,
		config:       cfg,
		factory:      factory,
		backendType:  bt,
		platform:     platform.New(),
		assetManager: assets.NewAssetManager(),
		clock:        core.NewClock(),
		hudEnabled:   cfg.HUD.Enabled,
		physics:      cfg.Animation.Physics,
		width:        cfg.Window.Width,
		height:       cfg.Window.Height,
	}, nil
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageUninitialized {
		return fmt.Errorf("%w: initialize while %s", ErrInvalidStage, e.currentStage)
	}
	e.currentStage = EngineStageBooting

	if err := core.InputInitialize(); err != nil {
		return err
	}
	if !core.EventInitialize() {
		return ErrEventsRunning
	}
	if err := core.MetricsInitialize(); err != nil {
		return err
	}

	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	core.EventRegister(core.EVENT_CODE_KEY_PRESSED, e, e.onKey)
	core.EventRegister(core.EVENT_CODE_BUTTON_PRESSED, e, e.onButton)
	core.EventRegister(core.EVENT_CODE_BUTTON_RELEASED, e, e.onButton)
	core.EventRegister(core.EVENT_CODE_MOUSE_MOVED, e, e.onMouseMove)
	core.EventRegister(core.EVENT_CODE_MOUSE_WHEEL, e, e.onMouseWheel)
	core.EventRegister(core.EVENT_CODE_RESIZED, e, e.onResized)
	core.EventRegister(core.EVENT_CODE_MOTION_EVENT, e, e.onMotionEvent)

	w := e.config.Window
	if err := e.platform.Startup(platform.WindowConfig{
		Title:  w.Title,
		X:      int(w.X),
		Y:      int(w.Y),
		Width:  w.Width,
		Height: w.Height,
		API:    clientAPI(e.backendType),
		VSync:  w.VSync,
	}); err != nil {
		return err
	}
	e.width, e.height = e.platform.FramebufferSize()

	modelPath, err := filepath.Abs(e.config.Model.Path)
	if err != nil {
		return err
	}
	e.modelPath = modelPath
	root := e.config.Assets.Root
	if root == "" {
		root = filepath.Dir(modelPath)
	}
	if err := e.assetManager.Initialize(root, e.config.Assets.HotReload); err != nil {
		return err
	}

	js, err := systems.NewJobSystem(e.config.Assets.Workers, jobQueueSize)
	if err != nil {
		return err
	}
	e.jobSystem = js

	backend, err := newBackend(e.backendType, e.platform)
	if err != nil {
		return err
	}
	r := e.config.Renderer
	e.renderer = renderer.New(backend, metadata.RendererBackendConfig{
		ApplicationName: w.Title,
		Width:           e.width,
		Height:          e.height,
		VSync:           w.VSync,
		Validation:      r.Validation,
		MaskAtlasSize:   r.MaskAtlasSize,
		ShaderLoader:    shaderLoader(e.assetManager, ShaderDir),
	})
	if err := e.renderer.Initialize(); err != nil {
		return err
	}
	e.renderer.SetClearColor(math.Vec4{X: r.ClearColor[0], Y: r.ClearColor[1], Z: r.ClearColor[2], W: r.ClearColor[3]})
	e.renderer.SetFitCanvas(true)

	um, err := usermodel.Load(modelPath, e.factory, e.modelOptions())
	if err != nil {
		return err
	}
	if err := e.renderer.Prepare(um.Model(), um.Textures()); err != nil {
		releaseModel(um)
		return err
	}
	e.setModel(um)

	e.hud = overlay.New(e.loadFace())

	if e.config.Assets.HotReload {
		e.reloadEvents, e.cancelReload = e.assetManager.Subscribe(um.Dir())
	}

	e.currentStage = EngineStageInitialized
	core.LogInfo("viewer initialized with %s (%d drawables)", um.Name, len(um.Model().DrawableIDs()))
	return nil
}

func (e *Engine) modelOptions() usermodel.Options {
	opts := usermodel.OptionsFromConfig(e.config)
	opts.Assets = e.assetManager
	return opts
}

// setModel makes um the current model and carries the toggles over to it.
func (e *Engine) setModel(um *usermodel.UserModel) {
	e.model = um
	um.Controllers().SetEnabled(controllers.NamePhysics, e.physics)
	um.SetPaused(e.paused)
	e.platform.SetTitle(fmt.Sprintf("%s - %s", e.config.Window.Title, um.Name))
}

func (e *Engine) loadFace() overlay.Face {
	path := e.config.HUD.FontPath
	if path == "" {
		return nil
	}
	rt := resources.ResourceTypeBitmapFont
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttf", ".otf", ".ttc":
		rt = resources.ResourceTypeSystemFont
	}
	res, err := e.assetManager.LoadAsset(path, rt, nil)
	if err != nil {
		core.LogWarn("HUD font not loaded, using the built-in font: %s", err)
		return nil
	}

	var face overlay.Face
	switch data := res.Data.(type) {
	case *resources.BitmapFontResourceData:
		face, err = overlay.NewBitmapFace(data)
	case *resources.SystemFontResourceData:
		face, err = overlay.NewSystemFace(data.Collection, 0, e.config.HUD.FontSize)
	default:
		err = fmt.Errorf("unexpected font data %T", res.Data)
	}
	if err != nil {
		core.LogWarn("HUD font %s: %s", path, err)
		return nil
	}
	return face
}

func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("%w: run while %s", ErrInvalidStage, e.currentStage)
	}
	e.currentStage = EngineStageRunning
	e.isRunning.Store(true)

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	for e.isRunning.Load() {
		if !e.platform.PumpMessages() {
			e.isRunning.Store(false)
			break
		}

		e.pollReload()
		e.jobSystem.Update()

		if e.isSuspended {
			continue
		}

		// Update clock and get delta time.
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		frameStartTime := e.platform.GetAbsoluteTime()

		if err := e.frame(delta); err != nil {
			core.LogError("frame failed, shutting down: %s", err)
			e.isRunning.Store(false)
			return err
		}

		core.MetricsUpdate(e.platform.GetAbsoluteTime() - frameStartTime)

		// NOTE: Input update/state copying should always be handled
		// after any input should be recorded; I.E. before this line.
		core.InputUpdate()

		e.lastTime = currentTime
	}
	return nil
}

func (e *Engine) frame(delta float64) error {
	e.model.Update(float32(delta))
	if err := e.renderer.DrawModel(e.model.Model(), e.model.Opacity()); err != nil {
		return err
	}

	if e.hudEnabled {
		if img, changed := e.hud.Render(e.stats()); changed {
			if err := e.renderer.SetOverlay(img); err != nil {
				return err
			}
		}
	}
	return e.renderer.DrawFrame(delta)
}

func (e *Engine) stats() overlay.Stats {
	fps, frameTime := core.MetricsFrame()
	return overlay.Stats{
		FPS:        fps,
		FrameTime:  frameTime,
		Model:      e.model.Name,
		Expression: e.model.Expressions().Current(),
		Motion:     e.model.CurrentMotion(),
		Paused:     e.paused,
		Physics:    e.model.Controllers().IsEnabled(controllers.NamePhysics),
		Backend:    e.backendType.String(),
	}
}

// Stop makes Run return after the current frame. Safe to call from any goroutine.
func (e *Engine) Stop() {
	e.isRunning.Store(false)
}

/**
 * @brief Releases everything Initialize created, in reverse order. Must run
 * on the thread that called Run.
 */
func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageUninitialized || e.currentStage == EngineStageShuttingDown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown
	e.isRunning.Store(false)

	var errs []error
	if e.cancelReload != nil {
		e.cancelReload()
		e.cancelReload = nil
	}
	if e.jobSystem != nil {
		errs = append(errs, e.jobSystem.Shutdown())
	}
	if e.renderer != nil {
		errs = append(errs, e.renderer.Shutdown())
	}
	if e.model != nil {
		releaseModel(e.model)
		e.model = nil
	}
	errs = append(errs, e.assetManager.Shutdown())
	errs = append(errs, e.platform.Shutdown())
	errs = append(errs, core.EventShutdown())
	errs = append(errs, core.InputShutdown())

	e.currentStage = EngineStageUninitialized
	core.LogInfo("viewer shut down")
	return errors.Join(errs...)
}

func (e *Engine) onEvent(ctx core.EventContext, listener interface{}) bool {
	switch ctx.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.Stop()
		return true
	}
	return false
}

func (e *Engine) onResized(ctx core.EventContext, listener interface{}) bool {
	ev, ok := ctx.Data.(*core.ResizeEvent)
	if !ok || (ev.Width == e.width && ev.Height == e.height) {
		return false
	}
	e.width, e.height = ev.Width, ev.Height

	if ev.Width == 0 || ev.Height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return true
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	if e.renderer != nil {
		if err := e.renderer.OnResize(ev.Width, ev.Height); err != nil {
			core.LogError("resize failed: %s", err)
		}
	}
	return false
}

func (e *Engine) onMotionEvent(ctx core.EventContext, listener interface{}) bool {
	if ev, ok := ctx.Data.(*core.MotionEvent); ok {
		core.LogInfo("motion event %q at %.2fs", ev.Value, ev.Time)
	}
	return false
}

func releaseModel(um *usermodel.UserModel) {
	if r, ok := um.Model().(interface{ Release() }); ok {
		r.Release()
	}
}

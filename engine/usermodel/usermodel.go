// Package usermodel turns a model3.json and the files it references into an
// animated model: a core model plus the controllers that drive it.
package usermodel

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/spaghettifunk/cubism/engine/animation"
	"github.com/spaghettifunk/cubism/engine/assets"
	"github.com/spaghettifunk/cubism/engine/config"
	"github.com/spaghettifunk/cubism/engine/controllers"
	"github.com/spaghettifunk/cubism/engine/core"
	"github.com/spaghettifunk/cubism/engine/cubism"
	"github.com/spaghettifunk/cubism/engine/ids"
	"github.com/spaghettifunk/cubism/engine/math"
	"github.com/spaghettifunk/cubism/engine/physics"
	"github.com/spaghettifunk/cubism/engine/pose"
	"github.com/spaghettifunk/cubism/engine/resources"
)

var (
	ErrNoMoc             = errors.New("no moc file has been specified")
	ErrUnknownMotion     = errors.New("unknown motion")
	ErrMotionPriority    = errors.New("a motion with the same or a higher priority is playing")
	ErrUnknownHitArea    = errors.New("unknown hit area")
	ErrUnknownExpression = errors.New("unknown expression")
)

// Factory creates a core model from moc3 bytes.
type Factory func(moc []byte) (cubism.Model, error)

type Options struct {
	// Assets loads every file. A manager without a root is used when nil.
	Assets *assets.AssetManager
	// Textures are decoded premultiplied unless SkipTextures is set.
	SkipTextures bool
	TextureMax   uint32
	Workers      int

	IdleGroup     string
	EyeBlink      bool
	RandomBlink   bool
	BlinkInterval float32
	Breath        bool
	Physics       bool
	LookAt        bool
	LipSync       bool
}

func DefaultOptions() Options {
	return OptionsFromConfig(config.Default())
}

func OptionsFromConfig(cfg *config.Config) Options {
	a := cfg.Animation
	return Options{
		Workers:       cfg.Assets.Workers,
		IdleGroup:     a.IdleGroup,
		EyeBlink:      a.EyeBlink,
		RandomBlink:   a.RandomBlink,
		BlinkInterval: a.BlinkInterval,
		Breath:        a.Breath,
		Physics:       a.Physics,
		LookAt:        a.LookAt,
		LipSync:       a.LipSync,
	}
}

type motionData struct {
	m3  *resources.Motion3
	ref resources.MotionRef
}

type UserModel struct {
	Name     string
	dir      string
	settings *resources.Model3
	model    cubism.Model
	textures []*resources.ImageResourceData

	motions  map[string][]motionData
	cdi      *resources.Cdi3
	userData *resources.UserData3

	controllers *controllers.ControllerMap
	snapshot    *controllers.Snapshot
	motion      *controllers.MotionController
	expressions *controllers.ExpressionController
	eyeBlink    *controllers.EyeBlink
	lipSync     *controllers.LipSync
	lookAt      *controllers.LookAt
	rig         *physics.Rig
	pose        *pose.Pose

	eyeBlinkIDs []string
	lipSyncIDs  []string
	idleGroup   string
	current     string
	opacity     float32
	// opacity of the playing motion, from its Model Opacity curve
	motionOpacity float32
}

/**
 * @brief Loads a model3.json and every file it references. The moc and the
 * referenced files load concurrently. A broken motion or expression is
 * logged and skipped, anything else fails the load.
 * @param path The model3.json path.
 * @param factory Creates the core model from the moc bytes.
 */
func Load(path string, factory Factory, opts Options) (*UserModel, error) {
	am := opts.Assets
	if am == nil {
		am = assets.NewAssetManager()
	}

	res, err := am.LoadAsset(path, resources.ResourceTypeModel, nil)
	if err != nil {
		return nil, err
	}
	settings := res.Data.(*resources.Model3)
	if settings.FileReferences.Moc == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrNoMoc)
	}

	dir, err := filepath.Abs(filepath.Dir(am.Resolve(path)))
	if err != nil {
		return nil, err
	}
	refs := settings.FileReferences
	um := &UserModel{
		Name:          modelName(path),
		dir:           dir,
		settings:      settings,
		motions:       make(map[string][]motionData, len(refs.Motions)),
		opacity:       1,
		motionOpacity: 1,
	}

	expressions := make([]*animation.Expression, len(refs.Expressions))
	motions := make(map[string][]motionData, len(refs.Motions))
	for group, list := range refs.Motions {
		motions[group] = make([]motionData, len(list))
	}
	um.textures = make([]*resources.ImageResourceData, len(refs.Textures))
	var physics3 *resources.Physics3
	var pose3 *resources.Pose3

	g, ctx := errgroup.WithContext(context.Background())
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers + 1)
	}
	load := func(file string, t resources.ResourceType, params interface{}) (*resources.Resource, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return am.LoadAsset(resources.Resolve(dir, file), t, params)
	}

	g.Go(func() error {
		r, err := load(refs.Moc, resources.ResourceTypeMoc, nil)
		if err != nil {
			return err
		}
		model, err := factory(r.Data.([]byte))
		if err != nil {
			return fmt.Errorf("creating model from %s: %w", refs.Moc, err)
		}
		um.model = model
		return nil
	})

	if !opts.SkipTextures {
		params := resources.ImageResourceParams{Premultiply: true, MaxSize: opts.TextureMax}
		for i, file := range refs.Textures {
			i, file := i, file
			g.Go(func() error {
				r, err := load(file, resources.ResourceTypeImage, params)
				if err != nil {
					return err
				}
				um.textures[i] = r.Data.(*resources.ImageResourceData)
				return nil
			})
		}
	}

	for group, list := range refs.Motions {
		for i, ref := range list {
			group, i, ref := group, i, ref
			g.Go(func() error {
				r, err := load(ref.File, resources.ResourceTypeMotion, nil)
				if err == nil {
					m3 := r.Data.(*resources.Motion3)
					if _, err = animation.NewMotion(m3, &ref); err == nil {
						motions[group][i] = motionData{m3: m3, ref: ref}
						return nil
					}
				}
				core.LogWarn("skipping motion %s[%d]: %s", group, i, err)
				return nil
			})
		}
	}

	for i, ref := range refs.Expressions {
		i, ref := i, ref
		g.Go(func() error {
			r, err := load(ref.File, resources.ResourceTypeExpression, nil)
			if err != nil {
				core.LogWarn("skipping expression %s: %s", ref.Name, err)
				return nil
			}
			expressions[i] = animation.NewExpression(ref.Name, r.Data.(*resources.Expression3))
			return nil
		})
	}

	if refs.Physics != "" {
		g.Go(func() error {
			r, err := load(refs.Physics, resources.ResourceTypePhysics, nil)
			if err != nil {
				return err
			}
			physics3 = r.Data.(*resources.Physics3)
			return nil
		})
	}
	if refs.Pose != "" {
		g.Go(func() error {
			r, err := load(refs.Pose, resources.ResourceTypePose, nil)
			if err != nil {
				return err
			}
			pose3 = r.Data.(*resources.Pose3)
			return nil
		})
	}
	if refs.DisplayInfo != "" {
		g.Go(func() error {
			r, err := load(refs.DisplayInfo, resources.ResourceTypeDisplayInfo, nil)
			if err != nil {
				return err
			}
			um.cdi = r.Data.(*resources.Cdi3)
			return nil
		})
	}
	if refs.UserData != "" {
		g.Go(func() error {
			r, err := load(refs.UserData, resources.ResourceTypeUserData, nil)
			if err != nil {
				return err
			}
			um.userData = r.Data.(*resources.UserData3)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for group, list := range motions {
		for _, m := range list {
			if m.m3 != nil {
				um.motions[group] = append(um.motions[group], m)
			}
		}
	}

	um.setupControllers(opts, expressions, physics3, pose3)
	return um, nil
}

func modelName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, ".model3.json")
}

func (um *UserModel) setupControllers(opts Options, expressions []*animation.Expression, physics3 *resources.Physics3, pose3 *resources.Pose3) {
	um.controllers = controllers.NewControllerMap()
	um.idleGroup = opts.IdleGroup

	um.motion = controllers.NewMotionController()
	um.motion.Queue().SetEventHandler(func(value string, time float32) {
		core.EventFire(core.EventContext{
			Type: core.EVENT_CODE_MOTION_EVENT,
			Data: &core.MotionEvent{Value: value, Time: time},
		})
	})
	um.controllers.Insert(controllers.NameMotion, um.motion)

	um.snapshot = controllers.NewSnapshot()
	um.controllers.Insert(controllers.NameSnapshot, um.snapshot)

	um.eyeBlinkIDs = um.settings.GroupIDs(ids.GroupEyeBlink, resources.GroupTargetParameter)
	if um.eyeBlinkIDs != nil {
		um.eyeBlink = controllers.NewEyeBlinkFromIDs(um.model, um.eyeBlinkIDs)
		if opts.BlinkInterval > 0 {
			um.eyeBlink.SetTimings(opts.BlinkInterval, controllers.DefaultClosedTime, controllers.DefaultOpeningTime, controllers.DefaultClosingTime)
		}
		if opts.RandomBlink {
			um.eyeBlink.SetRandomJitter(um.eyeBlinkJitter(opts.BlinkInterval))
		}
		// a playing motion owns the eyes, its EyeBlink curve included
		um.eyeBlink.SetSuppress(um.motion.Updated)
		um.controllers.Insert(controllers.NameEyeBlink, um.eyeBlink)
		um.controllers.SetEnabled(controllers.NameEyeBlink, opts.EyeBlink)
	}

	um.expressions = controllers.NewExpressionController()
	for _, e := range expressions {
		if e != nil {
			um.expressions.Register(e.Name, e)
		}
	}
	um.controllers.Insert(controllers.NameExpression, um.expressions)

	um.lookAt = controllers.NewLookAt(um.model)
	um.controllers.Insert(controllers.NameLookAt, um.lookAt)
	um.controllers.SetEnabled(controllers.NameLookAt, opts.LookAt)

	um.controllers.Insert(controllers.NameBreath, controllers.NewBreath(controllers.DefaultBreathParameters))
	um.controllers.SetEnabled(controllers.NameBreath, opts.Breath)

	if physics3 != nil {
		um.rig = physics.NewRig(physics3)
		um.controllers.Insert(controllers.NamePhysics, controllers.NewPhysicsController(um.rig))
		um.controllers.SetEnabled(controllers.NamePhysics, opts.Physics)
	}

	um.lipSyncIDs = um.settings.GroupIDs(ids.GroupLipSync, resources.GroupTargetParameter)
	if um.lipSyncIDs != nil {
		um.lipSync = controllers.NewLipSyncFromIDs(um.model, um.lipSyncIDs)
		um.controllers.Insert(controllers.NameLipSync, um.lipSync)
		um.controllers.SetEnabled(controllers.NameLipSync, opts.LipSync)
	}

	if pose3 != nil {
		um.pose = pose.New(pose3)
		um.pose.Reset(um.model)
		um.controllers.Insert(controllers.NamePose, controllers.NewPoseController(um.pose))
	}
}

// eyeBlinkJitter spreads the open interval by a quarter either way.
func (um *UserModel) eyeBlinkJitter(interval float32) float32 {
	if interval <= 0 {
		interval = controllers.DefaultBlinkInterval
	}
	return interval * 0.25
}

func (um *UserModel) Model() cubism.Model                             { return um.model }
func (um *UserModel) Settings() *resources.Model3                     { return um.settings }
func (um *UserModel) Dir() string                                     { return um.dir }
func (um *UserModel) Textures() []*resources.ImageResourceData        { return um.textures }
func (um *UserModel) DisplayInfo() *resources.Cdi3                    { return um.cdi }
func (um *UserModel) UserData() *resources.UserData3                  { return um.userData }
func (um *UserModel) Controllers() *controllers.ControllerMap         { return um.controllers }
func (um *UserModel) Expressions() *controllers.ExpressionController  { return um.expressions }
func (um *UserModel) MotionController() *controllers.MotionController { return um.motion }
func (um *UserModel) Physics() *physics.Rig                           { return um.rig }
func (um *UserModel) Pose() *pose.Pose                                { return um.pose }

/**
 * @brief Advances the model by delta seconds: restores the saved parameters,
 * restarts the idle motion when nothing plays, runs the enabled controllers
 * and updates the core model.
 */
func (um *UserModel) Update(delta float32) {
	um.LoadParameters()
	if um.motion.IsFinished() && um.idleGroup != "" && len(um.motions[um.idleGroup]) > 0 {
		if _, err := um.StartRandomMotion(um.idleGroup, controllers.MotionPriorityIdle); err != nil {
			core.LogDebug("idle motion not started: %s", err)
		}
	}
	um.controllers.UpdateEnabled(um.model, delta)
	um.motionOpacity = 1
	if cur := um.motion.Queue().Current(); cur != nil {
		um.motionOpacity = 1 + (cur.Motion.Opacity()-1)*cur.Motion.Weight()
	}
	um.model.Update()
}

func (um *UserModel) LoadParameters() {
	um.snapshot.Load(um.model)
}

func (um *UserModel) SaveParameters() {
	um.snapshot.Save(um.model)
}

// MotionGroups returns the loaded motion groups, sorted.
func (um *UserModel) MotionGroups() []string {
	out := make([]string, 0, len(um.motions))
	for g := range um.motions {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

func (um *UserModel) MotionCount(group string) int {
	return len(um.motions[group])
}

// CurrentMotion names the last started motion as "Group[index]".
func (um *UserModel) CurrentMotion() string {
	if um.motion.IsFinished() {
		return ""
	}
	return um.current
}

/**
 * @brief Starts a motion of a group.
 * @returns The queue handle of the motion.
 */
func (um *UserModel) StartMotion(group string, index int, priority int) (uuid.UUID, error) {
	list := um.motions[group]
	if index < 0 || index >= len(list) {
		return uuid.Nil, fmt.Errorf("%w: %s[%d]", ErrUnknownMotion, group, index)
	}
	if priority != controllers.MotionPriorityForce && !um.motion.Reserve(priority) {
		return uuid.Nil, ErrMotionPriority
	}

	d := list[index]
	m, err := animation.NewMotion(d.m3, &d.ref)
	if err != nil {
		um.motion.SetReservePriority(controllers.MotionPriorityNone)
		return uuid.Nil, err
	}
	m.SetEffectIDs(um.eyeBlinkIDs, um.lipSyncIDs)

	id, ok := um.motion.Start(m, priority)
	if !ok {
		return uuid.Nil, ErrMotionPriority
	}
	um.current = fmt.Sprintf("%s[%d]", group, index)
	core.LogDebug("started motion %s with priority %d", um.current, priority)
	return id, nil
}

func (um *UserModel) StartRandomMotion(group string, priority int) (uuid.UUID, error) {
	n := len(um.motions[group])
	if n == 0 {
		return uuid.Nil, fmt.Errorf("%w: group %s", ErrUnknownMotion, group)
	}
	return um.StartMotion(group, math.RandomIndex(n), priority)
}

// SetPaused pauses or resumes every playing motion.
func (um *UserModel) SetPaused(paused bool) {
	um.motion.SetPaused(paused)
}

func (um *UserModel) SetExpression(name string) error {
	for _, n := range um.expressions.Names() {
		if n == name {
			um.expressions.SetExpression(name)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownExpression, name)
}

// SetRandomExpression picks any registered expression and returns its name.
func (um *UserModel) SetRandomExpression() string {
	names := um.expressions.Names()
	if len(names) == 0 {
		return ""
	}
	name := names[math.RandomIndex(len(names))]
	um.expressions.SetExpression(name)
	return name
}

// NextExpression cycles through the expressions in name order.
func (um *UserModel) NextExpression() string {
	names := um.expressions.Names()
	if len(names) == 0 {
		return ""
	}
	next := names[0]
	for i, n := range names {
		if n == um.expressions.Current() {
			next = names[(i+1)%len(names)]
			break
		}
	}
	um.expressions.SetExpression(next)
	return next
}

// SetDragging sets the look at target in view coordinates, [-1, 1] on both axes.
func (um *UserModel) SetDragging(x, y float32) {
	um.lookAt.SetTarget(x, y)
}

func (um *UserModel) SetLipSyncLevel(v float32) {
	if um.lipSync != nil {
		um.lipSync.SetLevel(v)
	}
}

/**
 * @brief Tests a point in model units against the bounds of a hit area
 * drawable.
 */
func (um *UserModel) HitTest(areaName string, x, y float32) (bool, error) {
	id, ok := um.settings.HitAreaID(areaName)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownHitArea, areaName)
	}
	idx := cubism.DrawableIndex(um.model, id)
	if idx < 0 {
		return false, fmt.Errorf("%w: drawable %s of %s", ErrUnknownHitArea, id, areaName)
	}
	return cubism.DrawableBounds(um.model, idx).Contains(math.Vec2{X: x, Y: y}), nil
}

// HitAreaAt returns the first hit area containing the point.
func (um *UserModel) HitAreaAt(x, y float32) (string, bool) {
	for _, h := range um.settings.HitAreas {
		if hit, err := um.HitTest(h.Name, x, y); err == nil && hit {
			return h.Name, true
		}
	}
	return "", false
}

// Opacity is the opacity set with SetOpacity times the one of the playing motion.
func (um *UserModel) Opacity() float32 {
	return um.opacity * um.motionOpacity
}

func (um *UserModel) SetOpacity(v float32) {
	um.opacity = math.Clamp(v, 0, 1)
}

// Reset stops every motion and restores the default pose.
func (um *UserModel) Reset() {
	um.motion.StopAll()
	um.motionOpacity = 1
	um.expressions.SetExpression("")
	cubism.ResetParameters(um.model)
	for i := range um.model.PartOpacities() {
		um.model.PartOpacities()[i] = 1
	}
	if um.pose != nil {
		um.pose.Reset(um.model)
	}
	if um.rig != nil {
		um.rig.Reset()
	}
	um.SaveParameters()
	um.model.Update()
}

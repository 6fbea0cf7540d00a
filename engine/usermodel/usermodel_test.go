package usermodel

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/cubism/engine/controllers"
	"github.com/spaghettifunk/cubism/engine/core"
	"github.com/spaghettifunk/cubism/engine/cubism"
	"github.com/spaghettifunk/cubism/engine/cubism/cubismtest"
)

const haruDir = "../resources/testdata/haru"

const model3 = `{
  "Version": 3,
  "FileReferences": {
    "Moc": "haru.moc3",
    "Textures": ["tex.png"],
    "Physics": "haru.physics3.json",
    "Pose": "haru.pose3.json",
    "Expressions": [
      {"Name": "F01", "File": "expressions/F01.exp3.json"},
      {"Name": "F02", "File": "expressions/missing.exp3.json"}
    ],
    "Motions": {
      "Idle": [{"File": "motions/idle.motion3.json", "FadeInTime": 0}],
      "TapBody": [
        {"File": "motions/idle.motion3.json"},
        {"File": "motions/missing.motion3.json"}
      ]
    }
  },
  "Groups": [
    {"Target": "Parameter", "Name": "EyeBlink", "Ids": ["ParamEyeLOpen", "ParamEyeROpen"]},
    {"Target": "Parameter", "Name": "LipSync", "Ids": ["ParamMouthOpenY"]}
  ],
  "HitAreas": [
    {"Id": "HitAreaHead", "Name": "Head"},
    {"Id": "HitAreaBody", "Name": "Body"}
  ]
}`

func copyFile(t *testing.T, src, dst string) {
	t.Helper()
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0o755))
	require.NoError(t, os.WriteFile(dst, data, 0o644))
}

// modelDir lays out a model directory from the haru test data plus a
// generated texture and returns the model3.json path.
func modelDir(t *testing.T, settings string) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range []string{
		"haru.moc3",
		"haru.physics3.json",
		"haru.pose3.json",
		"expressions/F01.exp3.json",
		"motions/idle.motion3.json",
	} {
		copyFile(t, filepath.Join(haruDir, f), filepath.Join(dir, f))
	}

	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 128})
	f, err := os.Create(filepath.Join(dir, "tex.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	path := filepath.Join(dir, "haru.model3.json")
	require.NoError(t, os.WriteFile(path, []byte(settings), 0o644))
	return path
}

func fakeModel() *cubismtest.Model {
	params := cubismtest.Params(-30, 30, "ParamAngleX", "ParamAngleY", "ParamAngleZ")
	params = append(params, cubismtest.Params(-10, 10, "ParamBodyAngleX", "ParamHairFront")...)
	params = append(params, cubismtest.Params(-1, 1, "ParamEyeBallX", "ParamEyeBallY", "ParamMouthForm")...)
	params = append(params, cubismtest.Params(0, 1, "ParamEyeLSmile", "ParamCheek", "ParamMouthOpenY", "ParamBreath")...)
	params = append(params,
		cubismtest.Parameter{ID: "ParamEyeLOpen", Min: 0, Max: 1, Default: 1},
		cubismtest.Parameter{ID: "ParamEyeROpen", Min: 0, Max: 1, Default: 1},
	)
	parts := []cubismtest.Part{
		{ID: "PartArmA", Parent: -1},
		{ID: "PartArmB", Parent: -1},
		{ID: "PartArmBLink", Parent: -1},
	}
	drawables := []cubismtest.Drawable{
		cubismtest.Quad("HitAreaHead", -0.5, 0.5, 1, 0.5),
		cubismtest.Quad("HitAreaBody", -0.5, -1, 1, 1.5),
	}
	return cubismtest.New(params, parts, drawables)
}

func load(t *testing.T, opts Options) (*UserModel, *cubismtest.Model) {
	t.Helper()
	fake := fakeModel()
	um, err := Load(modelDir(t, model3), func(moc []byte) (cubism.Model, error) {
		require.Equal(t, "MOC3", string(moc[:4]))
		return fake, nil
	}, opts)
	require.NoError(t, err)
	return um, fake
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.RandomBlink = false
	return opts
}

func TestLoad(t *testing.T) {
	um, _ := load(t, testOptions())

	assert.Equal(t, "haru", um.Name)
	require.Len(t, um.Textures(), 1)
	assert.True(t, um.Textures()[0].Premultiplied)
	assert.Equal(t, uint32(2), um.Textures()[0].Width)

	assert.Equal(t, []string{"Idle", "TapBody"}, um.MotionGroups())
	assert.Equal(t, 1, um.MotionCount("TapBody"), "the missing motion is skipped")
	assert.Equal(t, []string{"F01"}, um.Expressions().Names())
	assert.NotNil(t, um.Physics())
	assert.NotNil(t, um.Pose())

	names := um.Controllers().Names()
	for _, n := range []string{
		controllers.NameMotion, controllers.NameSnapshot, controllers.NameEyeBlink,
		controllers.NameExpression, controllers.NameLookAt, controllers.NameBreath,
		controllers.NamePhysics, controllers.NameLipSync, controllers.NamePose,
	} {
		assert.Contains(t, names, n)
	}
}

func TestLoadSkipTexturesAndDisabledControllers(t *testing.T) {
	opts := testOptions()
	opts.SkipTextures = true
	opts.Physics = false
	opts.Breath = false
	um, _ := load(t, opts)

	assert.Nil(t, um.Textures()[0])
	assert.False(t, um.Controllers().IsEnabled(controllers.NamePhysics))
	assert.False(t, um.Controllers().IsEnabled(controllers.NameBreath))
	assert.True(t, um.Controllers().IsEnabled(controllers.NameEyeBlink))
}

func TestLoadErrors(t *testing.T) {
	noMoc := modelDir(t, `{"Version": 3, "FileReferences": {}}`)
	_, err := Load(noMoc, func([]byte) (cubism.Model, error) { return fakeModel(), nil }, testOptions())
	assert.ErrorIs(t, err, ErrNoMoc)

	boom := errors.New("boom")
	_, err = Load(modelDir(t, model3), func([]byte) (cubism.Model, error) { return nil, boom }, testOptions())
	assert.ErrorIs(t, err, boom)

	missingTex := modelDir(t, `{"Version": 3, "FileReferences": {"Moc": "haru.moc3", "Textures": ["nope.png"]}}`)
	_, err = Load(missingTex, func([]byte) (cubism.Model, error) { return fakeModel(), nil }, testOptions())
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "none.model3.json"), nil, testOptions())
	assert.Error(t, err)
}

func TestUpdateStartsIdle(t *testing.T) {
	um, fake := load(t, testOptions())

	assert.Equal(t, "", um.CurrentMotion())
	um.Update(0.1)
	assert.Equal(t, "Idle[0]", um.CurrentMotion())
	assert.Equal(t, 1, fake.Updates)
	assert.Equal(t, controllers.MotionPriorityIdle, um.MotionController().CurrentPriority())
}

func TestStartMotionPriorities(t *testing.T) {
	um, _ := load(t, testOptions())
	um.Update(0.1)

	_, err := um.StartMotion("TapBody", 0, controllers.MotionPriorityNormal)
	require.NoError(t, err)
	assert.Equal(t, "TapBody[0]", um.CurrentMotion())

	_, err = um.StartMotion("TapBody", 0, controllers.MotionPriorityNormal)
	assert.ErrorIs(t, err, ErrMotionPriority)

	_, err = um.StartMotion("TapBody", 0, controllers.MotionPriorityForce)
	assert.NoError(t, err)

	_, err = um.StartMotion("TapBody", 5, controllers.MotionPriorityForce)
	assert.ErrorIs(t, err, ErrUnknownMotion)
	_, err = um.StartRandomMotion("Shake", controllers.MotionPriorityForce)
	assert.ErrorIs(t, err, ErrUnknownMotion)
}

func TestMotionEventsReachTheEventSystem(t *testing.T) {
	require.True(t, core.EventInitialize())
	t.Cleanup(func() { _ = core.EventShutdown() })

	var got []string
	core.EventRegister(core.EVENT_CODE_MOTION_EVENT, t, func(ctx core.EventContext, _ interface{}) bool {
		got = append(got, ctx.Data.(*core.MotionEvent).Value)
		return true
	})

	um, _ := load(t, testOptions())
	um.Update(0)
	um.Update(0.6)
	assert.Empty(t, got)
	um.Update(0.6)
	assert.Equal(t, []string{"blink"}, got)
}

func TestHitTest(t *testing.T) {
	um, _ := load(t, testOptions())

	hit, err := um.HitTest("Head", 0, 0.75)
	require.NoError(t, err)
	assert.True(t, hit)

	hit, err = um.HitTest("Body", 0, 0.75)
	require.NoError(t, err)
	assert.False(t, hit)

	name, ok := um.HitAreaAt(0, -0.5)
	assert.True(t, ok)
	assert.Equal(t, "Body", name)

	_, ok = um.HitAreaAt(3, 3)
	assert.False(t, ok)

	_, err = um.HitTest("Tail", 0, 0)
	assert.ErrorIs(t, err, ErrUnknownHitArea)
}

func TestExpressions(t *testing.T) {
	um, _ := load(t, testOptions())

	assert.NoError(t, um.SetExpression("F01"))
	assert.Equal(t, "F01", um.Expressions().Current())
	assert.ErrorIs(t, um.SetExpression("F09"), ErrUnknownExpression)
	assert.Equal(t, "F01", um.NextExpression())
	assert.Equal(t, "F01", um.SetRandomExpression())
}

func TestLipSyncStartsFromTheSnapshot(t *testing.T) {
	opts := testOptions()
	opts.IdleGroup = ""
	um, fake := load(t, opts)

	um.SetLipSyncLevel(1)
	um.Update(0.016)
	assert.InDelta(t, controllers.LipSyncWeight, fake.Value("ParamMouthOpenY"), 1e-6)
	um.Update(0.016)
	assert.InDelta(t, controllers.LipSyncWeight, fake.Value("ParamMouthOpenY"), 1e-6)
}

func TestReset(t *testing.T) {
	um, fake := load(t, testOptions())
	require.NoError(t, um.SetExpression("F01"))
	for i := 0; i < 25; i++ {
		um.Update(0.05)
	}
	require.NotZero(t, fake.Value("ParamAngleX"))

	um.Reset()
	assert.Zero(t, fake.Value("ParamAngleX"))
	assert.Equal(t, "", um.CurrentMotion())
	assert.Equal(t, "", um.Expressions().Current())
	assert.Equal(t, float32(1), fake.Opacity("PartArmA"))
	assert.Zero(t, fake.Opacity("PartArmB"))

	um.SetOpacity(2)
	assert.Equal(t, float32(1), um.Opacity())
}

const fadeMotion = `{
  "Version": 3,
  "Meta": {"Duration": 2, "Fps": 30, "Loop": true, "CurveCount": 1},
  "Curves": [
    {"Target": "Model", "Id": "Opacity", "Segments": [0, 0.25, 0, 2, 0.25]}
  ]
}`

func TestMotionOpacityCurve(t *testing.T) {
	path := modelDir(t, `{
  "Version": 3,
  "FileReferences": {
    "Moc": "haru.moc3",
    "Motions": {"Idle": [{"File": "motions/fade.motion3.json", "FadeInTime": 0}]}
  }
}`)
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "motions", "fade.motion3.json"), []byte(fadeMotion), 0o644))
	um, err := Load(path, func([]byte) (cubism.Model, error) { return fakeModel(), nil }, testOptions())
	require.NoError(t, err)

	assert.Equal(t, float32(1), um.Opacity())
	for i := 0; i < 5; i++ {
		um.Update(0.1)
	}
	assert.InDelta(t, 0.25, um.Opacity(), 1e-5)

	um.SetOpacity(0.5)
	assert.InDelta(t, 0.125, um.Opacity(), 1e-5)

	um.Reset()
	assert.Equal(t, float32(0.5), um.Opacity())
}

func TestMotionEyeBlinkCurveWinsOverEyeBlink(t *testing.T) {
	um, fake := load(t, testOptions())
	require.True(t, um.Controllers().IsEnabled(controllers.NameEyeBlink))

	// the idle motion steps its EyeBlink curve to 0 at one second
	um.Update(0.5)
	assert.Equal(t, float32(1), fake.Value("ParamEyeLOpen"))
	um.Update(0.5)
	um.Update(0.5)
	assert.InDelta(t, 0, fake.Value("ParamEyeLOpen"), 1e-6)
	assert.InDelta(t, 0, fake.Value("ParamEyeROpen"), 1e-6)
}

func TestEyeBlinkRunsWithoutMotion(t *testing.T) {
	opts := testOptions()
	opts.IdleGroup = ""
	opts.BlinkInterval = 0.5
	um, fake := load(t, opts)

	um.Update(0.55)
	assert.False(t, um.MotionController().Updated())
	assert.Equal(t, controllers.EyeStateClosing, um.eyeBlink.State())
	um.Update(0.025)
	assert.InDelta(t, 0.25, fake.Value("ParamEyeLOpen"), 1e-5)
}

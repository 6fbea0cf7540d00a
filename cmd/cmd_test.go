package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/cubism/engine/config"
	"github.com/spaghettifunk/cubism/engine/cubism"
	"github.com/spaghettifunk/cubism/engine/cubism/cubismtest"
	"github.com/spaghettifunk/cubism/engine/resources"
)

const testModel3 = `{
	"Version": 3,
	"FileReferences": {"Moc": "m.moc3"},
	"Groups": [
		{"Target": "Parameter", "Name": "EyeBlink", "Ids": ["ParamEyeLOpen", "ParamEyeROpen"]},
		{"Target": "Parameter", "Name": "LipSync", "Ids": ["ParamMouthOpenY"]}
	]
}`

func writeModelDir(t *testing.T, withMoc bool) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.model3.json")
	require.NoError(t, os.WriteFile(path, []byte(testModel3), 0o644))
	if withMoc {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "m.moc3"), []byte("MOC3"), 0o644))
	}
	return path
}

func fakeModel() *cubismtest.Model {
	masked := cubismtest.Quad("ArtMesh1", 0, 0, 1, 1)
	masked.Masks = []int32{0}
	masked.ConstantFlags = cubism.IsDoubleSided | cubism.IsInvertedMask
	return cubismtest.New(
		cubismtest.Params(0, 1, "ParamEyeLOpen", "ParamMouthOpenY"),
		[]cubismtest.Part{{ID: "PartHead", Parent: -1}, {ID: "PartEye", Parent: 0}},
		[]cubismtest.Drawable{cubismtest.Quad("ArtMesh0", -1, -1, 1, 1), masked},
	)
}

func fakeCore(loaded *[]byte) Core {
	return Core{
		Load: func(moc []byte) (cubism.Model, error) {
			if loaded != nil {
				*loaded = moc
			}
			return fakeModel(), nil
		},
		Version:          func() cubism.Version { return cubism.Version(0x05000001) },
		LatestMocVersion: func() cubism.MocVersion { return cubism.MocVersion42 },
		MocVersionOf:     func([]byte) cubism.MocVersion { return cubism.MocVersion40 },
	}
}

func execute(t *testing.T, c Core, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand(c)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestWriteVersion(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, writeVersion(&b, Core{}))
	assert.Equal(t, "cubism dev\nCubism Core not linked\n", b.String())

	b.Reset()
	require.NoError(t, writeVersion(&b, fakeCore(nil)))
	assert.Equal(t, "cubism dev\nCubism Core 5.0.1 (moc3 up to 4.2)\n", b.String())
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, fakeCore(nil), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Cubism Core 5.0.1")
}

func TestRootRejectsLogLevel(t *testing.T) {
	_, err := execute(t, Core{}, "--log-level", "chatty", "version")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestRootLoadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644))

	opts := &rootOptions{configPath: path}
	require.NoError(t, opts.load())
	assert.Equal(t, "debug", opts.config.Log.Level)

	opts = &rootOptions{configPath: path, logLevel: "warn"}
	require.NoError(t, opts.load())
	assert.Equal(t, "warn", opts.config.Log.Level)

	require.NoError(t, (&rootOptions{logLevel: "info"}).load())
}

func TestInspect(t *testing.T) {
	path := writeModelDir(t, true)
	var moc []byte
	out, err := execute(t, fakeCore(&moc), "inspect", path)
	require.NoError(t, err)
	assert.Equal(t, []byte("MOC3"), moc)

	for _, want := range []string{
		"test.model3.json canvas",
		"ParamEyeLOpen", "EyeBlink", "ParamMouthOpenY", "LipSync",
		"PartHead", "PartEye",
		"ArtMesh0", "ArtMesh1", "double-sided,inverted",
	} {
		assert.Contains(t, out, want)
	}
}

func TestInspectSections(t *testing.T) {
	path := writeModelDir(t, true)
	out, err := execute(t, fakeCore(nil), "inspect", "-s", "parts", path)
	require.NoError(t, err)
	assert.Contains(t, out, "PartEye")
	assert.NotContains(t, out, "ArtMesh0")

	_, err = execute(t, fakeCore(nil), "inspect", "-s", "textures", path)
	assert.ErrorContains(t, err, "unknown section")
}

func TestInspectErrors(t *testing.T) {
	_, err := execute(t, Core{}, "inspect", writeModelDir(t, true))
	assert.ErrorIs(t, err, ErrNoCore)

	_, err = execute(t, fakeCore(nil), "inspect", writeModelDir(t, false))
	assert.ErrorIs(t, err, os.ErrNotExist)

	boom := errors.New("csmReviveMocInPlace failed")
	c := fakeCore(nil)
	c.Load = func([]byte) (cubism.Model, error) { return nil, boom }
	_, err = execute(t, c, "inspect", writeModelDir(t, true))
	assert.ErrorIs(t, err, boom)
}

func TestValidateModel(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, validateModel(&b, writeModelDir(t, true)))
	assert.Contains(t, b.String(), "test.model3.json: ok")

	b.Reset()
	err := validateModel(&b, writeModelDir(t, false))
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, b.String(), "m.moc3")
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, Core{}, "validate", writeModelDir(t, true))
	require.NoError(t, err)
	assert.Contains(t, out, "ok")

	_, err = execute(t, Core{}, "validate", filepath.Join(t.TempDir(), "missing.model3.json"))
	assert.Error(t, err)
}

func TestViewFlagsApply(t *testing.T) {
	f := &viewFlags{}
	cmd := newViewCommand(Core{}, &rootOptions{})
	require.NoError(t, cmd.ParseFlags([]string{"-b", "vulkan", "--width", "640", "--vsync=false", "--no-hud", "--no-reload"}))

	// the command binds its own flag struct, copy the parsed values over
	f.backend, _ = cmd.Flags().GetString("backend")
	f.width, _ = cmd.Flags().GetUint32("width")
	f.vsync, _ = cmd.Flags().GetBool("vsync")
	f.noHUD, _ = cmd.Flags().GetBool("no-hud")
	f.noReload, _ = cmd.Flags().GetBool("no-reload")

	cfg := config.Default()
	f.apply(cmd, cfg)
	assert.Equal(t, "vulkan", cfg.Renderer.Backend)
	assert.Equal(t, uint32(640), cfg.Window.Width)
	assert.Equal(t, uint32(720), cfg.Window.Height)
	assert.False(t, cfg.Window.VSync)
	assert.False(t, cfg.HUD.Enabled)
	assert.False(t, cfg.Assets.HotReload)
	assert.True(t, cfg.Animation.Physics)
}

func TestViewFlagsKeepConfig(t *testing.T) {
	f := &viewFlags{vsync: true}
	cmd := newViewCommand(Core{}, &rootOptions{})
	cfg := config.Default()
	cfg.Window.VSync = false
	f.apply(cmd, cfg)
	assert.False(t, cfg.Window.VSync)
	assert.Equal(t, config.Default().Renderer.Backend, cfg.Renderer.Backend)
}

func TestGroupsOf(t *testing.T) {
	settings := &resources.Model3{Groups: []resources.Group{
		{Target: "Parameter", Name: "EyeBlink", IDs: []string{"A", "B"}},
		{Target: "Parameter", Name: "LipSync", IDs: []string{"B"}},
	}}
	assert.Equal(t, "EyeBlink", groupsOf(settings, "A"))
	assert.Equal(t, "EyeBlink,LipSync", groupsOf(settings, "B"))
	assert.Empty(t, groupsOf(settings, "C"))
	assert.Empty(t, groupsOf(nil, "A"))
}

func TestFlagNames(t *testing.T) {
	assert.Empty(t, flagNames(0))
	assert.Equal(t, "additive", flagNames(cubism.BlendAdditive))
	assert.Equal(t, "multiplicative,double-sided", flagNames(cubism.BlendMultiplicative|cubism.IsDoubleSided))
}

func TestDrawableTable(t *testing.T) {
	out := drawableTable(fakeModel()).Render()
	assert.Contains(t, out, "ArtMesh1")
	assert.Contains(t, out, "inverted")
	assert.Contains(t, out, "masks")
}

package assets

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/spaghettifunk/cubism/engine/resources"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDetermineAssetType(t *testing.T) {
	tests := []struct {
		path string
		want resources.ResourceType
		ok   bool
	}{
		{"haru.model3.json", resources.ResourceTypeModel, true},
		{"motions/Idle.MOTION3.json", resources.ResourceTypeMotion, true},
		{"F01.exp3.json", resources.ResourceTypeExpression, true},
		{"haru.physics3.json", resources.ResourceTypePhysics, true},
		{"haru.pose3.json", resources.ResourceTypePose, true},
		{"haru.cdi3.json", resources.ResourceTypeDisplayInfo, true},
		{"haru.userdata3.json", resources.ResourceTypeUserData, true},
		{"haru.moc3", resources.ResourceTypeMoc, true},
		{"texture_00.png", resources.ResourceTypeImage, true},
		{"texture_00.webp", resources.ResourceTypeImage, true},
		{"hud.fnt", resources.ResourceTypeBitmapFont, true},
		{"hud.ttf", resources.ResourceTypeSystemFont, true},
		{"mask.frag.spv", resources.ResourceTypeBinary, true},
		{"mask.frag", resources.ResourceTypeText, true},
		{"settings.json", 0, false},
		{"README", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := determineAssetType(tt.path)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestIndexAndLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.model3.json"), `{"Version":3,"FileReferences":{"Moc":"a.moc3"}}`)
	writeFile(t, filepath.Join(dir, "motions", "idle.motion3.json"), `{"Version":3,"Meta":{"Duration":1,"Fps":30,"CurveCount":0,"TotalSegmentCount":0,"TotalPointCount":0},"Curves":[]}`)
	writeFile(t, filepath.Join(dir, "notes.md"), "ignored")

	am := NewAssetManager()
	require.NoError(t, am.Initialize(dir, false))
	defer am.Shutdown()

	assert.Equal(t, []string{filepath.Join(dir, "a.model3.json")}, am.Assets(resources.ResourceTypeModel))
	assert.Len(t, am.Assets(resources.ResourceTypeMotion), 1)

	res, err := am.LoadAsset("a.model3.json", resources.ResourceTypeModel, nil)
	require.NoError(t, err)
	assert.Equal(t, resources.ResourceTypeModel, res.Type)
	assert.Equal(t, "a.model3.json", res.Name)
	m3 := res.Data.(*resources.Model3)
	assert.Equal(t, "a.moc3", m3.FileReferences.Moc)

	info, ok := am.Info("a.model3.json")
	require.True(t, ok)
	assert.False(t, info.LastLoaded.IsZero())

	require.NoError(t, am.UnloadAsset(res))
	assert.Nil(t, res.Data)

	_, err = am.LoadAsset("missing.model3.json", resources.ResourceTypeModel, nil)
	assert.Error(t, err)

	_, err = am.LoadAsset("a.model3.json", resources.ResourceTypeCustom, nil)
	assert.ErrorIs(t, err, ErrNoLoader)
}

func TestSubscribeDeliversDebouncedChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exp", "F01.exp3.json")
	writeFile(t, path, `{"Type":"Live2D Expression","Parameters":[]}`)

	am := NewAssetManager()
	am.SetDebounce(20 * time.Millisecond)
	require.NoError(t, am.Initialize(dir, true))

	all, cancelAll := am.Subscribe("")
	one, _ := am.Subscribe(filepath.Join("exp", "F01.exp3.json"))
	other, _ := am.Subscribe("elsewhere")

	for i := 0; i < 3; i++ {
		writeFile(t, path, `{"Type":"Live2D Expression","Parameters":[]} `)
	}

	select {
	case e := <-one:
		assert.Equal(t, path, e.Path)
		assert.Equal(t, resources.ResourceTypeExpression, e.Type)
		assert.NotZero(t, e.Op&fsnotify.Write)
	case <-time.After(5 * time.Second):
		t.Fatal("no change event")
	}
	select {
	case e := <-all:
		assert.Equal(t, path, e.Path)
	case <-time.After(5 * time.Second):
		t.Fatal("no change event for the catch all subscriber")
	}
	select {
	case e := <-other:
		t.Fatalf("unexpected event %+v", e)
	default:
	}

	cancelAll()
	_, open := <-all
	assert.False(t, open)
	cancelAll()

	require.NoError(t, am.Shutdown())
	require.NoError(t, am.Shutdown())
	_, open = <-one
	for open {
		_, open = <-one
	}
	assert.ErrorIs(t, am.Initialize(dir, true), ErrManagerClosed)
}

func TestWatchNewDirectory(t *testing.T) {
	dir := t.TempDir()
	am := NewAssetManager()
	am.SetDebounce(10 * time.Millisecond)
	require.NoError(t, am.Initialize(dir, true))
	defer am.Shutdown()

	ch, _ := am.Subscribe("")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "textures"), 0o755))
	// give the watcher a moment to add the new directory
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(dir, "textures", "t.png"), []byte("x"), 0o644)
		select {
		case e := <-ch:
			return e.Type == resources.ResourceTypeImage
		case <-time.After(100 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	assert.Len(t, am.Assets(resources.ResourceTypeImage), 1)
}

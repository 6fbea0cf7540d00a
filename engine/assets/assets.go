package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/cubism/engine/assets/loaders"
	"github.com/spaghettifunk/cubism/engine/core"
	"github.com/spaghettifunk/cubism/engine/resources"
)

var (
	ErrManagerClosed = errors.New("asset manager already closed")
	ErrNoLoader      = errors.New("no loader registered for asset type")
)

// DefaultDebounce is how long a file has to stay quiet before subscribers
// hear about a change. Editors usually write a file in several chunks.
const DefaultDebounce = 100 * time.Millisecond

const subscriberBuffer = 16

type AssetInfo struct {
	Path       string
	Type       resources.ResourceType
	LastLoaded time.Time
}

// ChangeEvent reports a created, written or removed asset.
type ChangeEvent struct {
	Path string
	Type resources.ResourceType
	Op   fsnotify.Op
}

type subscriber struct {
	path string
	ch   chan ChangeEvent
}

type AssetManager struct {
	root    string
	assets  map[string]AssetInfo
	loaders map[resources.ResourceType]Loader

	mutex sync.RWMutex

	debounce    time.Duration
	subscribers map[int]*subscriber
	nextSub     int

	done     chan struct{}
	wg       sync.WaitGroup
	fsnotify *fsnotify.Watcher
	watching bool
	isClosed bool
}

func NewAssetManager() *AssetManager {
	am := &AssetManager{
		assets:      make(map[string]AssetInfo),
		loaders:     make(map[resources.ResourceType]Loader),
		subscribers: make(map[int]*subscriber),
		debounce:    DefaultDebounce,
		done:        make(chan struct{}),
	}

	// Register loaders
	am.RegisterLoader(resources.ResourceTypeText, &loaders.TextLoader{})
	am.RegisterLoader(resources.ResourceTypeBinary, &loaders.BinaryLoader{})
	am.RegisterLoader(resources.ResourceTypeImage, &loaders.TextureLoader{})
	am.RegisterLoader(resources.ResourceTypeBitmapFont, &loaders.BitmapFontLoader{})
	am.RegisterLoader(resources.ResourceTypeSystemFont, &loaders.SystemFontLoader{})
	am.RegisterLoader(resources.ResourceTypeMoc, &loaders.MocLoader{})
	am.RegisterLoader(resources.ResourceTypeModel, loaders.NewModel3Loader())
	am.RegisterLoader(resources.ResourceTypeMotion, loaders.NewMotionLoader())
	am.RegisterLoader(resources.ResourceTypeExpression, loaders.NewExpressionLoader())
	am.RegisterLoader(resources.ResourceTypePhysics, loaders.NewPhysicsLoader())
	am.RegisterLoader(resources.ResourceTypePose, loaders.NewPoseLoader())
	am.RegisterLoader(resources.ResourceTypeDisplayInfo, loaders.NewCdiLoader())
	am.RegisterLoader(resources.ResourceTypeUserData, loaders.NewUserDataLoader())
	return am
}

/**
 * @brief Indexes the asset root and, when watch is set, starts watching it
 * and every sub directory for changes.
 * @param assetsDir The asset root. Relative asset paths are resolved against it.
 * @param watch Whether to watch for changes.
 */
func (am *AssetManager) Initialize(assetsDir string, watch bool) error {
	if am.isClosed {
		return ErrManagerClosed
	}
	am.root = filepath.Clean(assetsDir)
	if watch {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		am.fsnotify = w
		am.watching = true
		am.wg.Add(1)
		go am.start()
	}
	return am.watchRecursive(am.root, false)
}

// SetDebounce changes the quiet period before change events are delivered.
func (am *AssetManager) SetDebounce(d time.Duration) {
	am.mutex.Lock()
	am.debounce = d
	am.mutex.Unlock()
}

func (am *AssetManager) Root() string {
	return am.root
}

// RegisterLoader sets the loader of an asset type, replacing any previous one.
func (am *AssetManager) RegisterLoader(assetType resources.ResourceType, loader Loader) {
	am.mutex.Lock()
	am.loaders[assetType] = loader
	am.mutex.Unlock()
}

// Resolve returns path joined to the asset root unless it is absolute.
func (am *AssetManager) Resolve(path string) string {
	if filepath.IsAbs(path) || am.root == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(am.root, path)
}

// LoadAsset loads an asset with the loader registered for its type.
func (am *AssetManager) LoadAsset(path string, resourceType resources.ResourceType, params interface{}) (*resources.Resource, error) {
	full := am.Resolve(path)

	am.mutex.Lock()
	loader, ok := am.loaders[resourceType]
	if ok {
		// Load or reload asset from disk, update the loaded time
		am.assets[full] = AssetInfo{Path: full, Type: resourceType, LastLoaded: time.Now()}
	}
	am.mutex.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoLoader, resourceType)
	}

	res, err := loader.Load(full, resourceType, params)
	if err != nil {
		return nil, fmt.Errorf("loading %s %s: %w", resourceType, path, err)
	}
	return res, nil
}

func (am *AssetManager) UnloadAsset(res *resources.Resource) error {
	if res == nil {
		return nil
	}
	am.mutex.RLock()
	loader, ok := am.loaders[res.Type]
	am.mutex.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoLoader, res.Type)
	}
	return loader.Unload(res)
}

// Assets returns the indexed paths of the given type, sorted.
func (am *AssetManager) Assets(t resources.ResourceType) []string {
	am.mutex.RLock()
	defer am.mutex.RUnlock()

	var out []string
	for p, info := range am.assets {
		if info.Type == t {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

func (am *AssetManager) Info(path string) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	info, ok := am.assets[am.Resolve(path)]
	return info, ok
}

/**
 * @brief Subscribes to change events of a path. An empty path receives every
 * event, a directory receives the events of the files below it.
 * @returns The event channel and a function that cancels the subscription.
 */
func (am *AssetManager) Subscribe(path string) (<-chan ChangeEvent, func()) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	s := &subscriber{ch: make(chan ChangeEvent, subscriberBuffer)}
	if path != "" {
		s.path = am.Resolve(path)
	}
	id := am.nextSub
	am.nextSub++
	am.subscribers[id] = s

	var once sync.Once
	return s.ch, func() {
		once.Do(func() {
			am.mutex.Lock()
			defer am.mutex.Unlock()
			if _, ok := am.subscribers[id]; ok {
				delete(am.subscribers, id)
				close(s.ch)
			}
		})
	}
}

// Shutdown stops the watcher goroutine and closes every subscription.
func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	am.mutex.Unlock()

	close(am.done)
	am.wg.Wait()

	am.mutex.Lock()
	for id, s := range am.subscribers {
		close(s.ch)
		delete(am.subscribers, id)
	}
	am.mutex.Unlock()
	return nil
}

func (am *AssetManager) start() {
	defer am.wg.Done()

	flush := time.NewTimer(time.Hour)
	flush.Stop()
	pending := make(map[string]fsnotify.Op)

	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := am.watchRecursive(e.Name, false); err != nil {
						core.LogWarn("failed to watch %s: %s", e.Name, err)
					}
				}
				continue
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				am.handleFileEvent(e.Name)
			}
			// Can't stat a deleted path, drop it from the index and the watch list
			if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				am.removeAsset(e.Name)
				_ = am.fsnotify.Remove(e.Name)
			}
			pending[e.Name] |= e.Op
			am.mutex.RLock()
			flush.Reset(am.debounce)
			am.mutex.RUnlock()

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(err.Error())

		case <-flush.C:
			for p, op := range pending {
				am.notify(p, op)
				delete(pending, p)
			}

		case <-am.done:
			flush.Stop()
			am.fsnotify.Close()
			return
		}
	}
}

func (am *AssetManager) notify(path string, op fsnotify.Op) {
	t, ok := determineAssetType(path)
	if !ok {
		return
	}
	e := ChangeEvent{Path: path, Type: t, Op: op}

	am.mutex.RLock()
	defer am.mutex.RUnlock()
	for _, s := range am.subscribers {
		if s.path != "" && s.path != path && !strings.HasPrefix(path, s.path+string(filepath.Separator)) {
			continue
		}
		select {
		case s.ch <- e:
		default:
			core.LogWarn("asset subscriber is full, dropping change of %s", path)
		}
	}
}

// watchRecursive indexes every file under path and adds its directories to
// the watch list, or removes them when unWatch is set.
func (am *AssetManager) watchRecursive(path string, unWatch bool) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fi.IsDir() {
			am.handleFileEvent(walkPath)
			return nil
		}
		if !am.watching {
			return nil
		}
		if unWatch {
			return am.fsnotify.Remove(walkPath)
		}
		return am.fsnotify.Add(walkPath)
	})
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(path string) {
	assetType, ok := determineAssetType(path)
	if !ok {
		return
	}
	am.mutex.Lock()
	defer am.mutex.Unlock()

	info := am.assets[path]
	info.Path = path
	info.Type = assetType
	am.assets[path] = info
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	delete(am.assets, path)
}

var suffixTypes = []struct {
	suffix string
	t      resources.ResourceType
}{
	{".model3.json", resources.ResourceTypeModel},
	{".motion3.json", resources.ResourceTypeMotion},
	{".exp3.json", resources.ResourceTypeExpression},
	{".physics3.json", resources.ResourceTypePhysics},
	{".pose3.json", resources.ResourceTypePose},
	{".cdi3.json", resources.ResourceTypeDisplayInfo},
	{".userdata3.json", resources.ResourceTypeUserData},
}

func determineAssetType(path string) (resources.ResourceType, bool) {
	lower := strings.ToLower(path)
	for _, s := range suffixTypes {
		if strings.HasSuffix(lower, s.suffix) {
			return s.t, true
		}
	}
	switch filepath.Ext(lower) {
	case ".moc3":
		return resources.ResourceTypeMoc, true
	case ".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp":
		return resources.ResourceTypeImage, true
	case ".fnt":
		return resources.ResourceTypeBitmapFont, true
	case ".ttf", ".otf", ".ttc":
		return resources.ResourceTypeSystemFont, true
	case ".spv":
		return resources.ResourceTypeBinary, true
	case ".txt", ".vert", ".frag", ".glsl":
		return resources.ResourceTypeText, true
	default:
		return 0, false
	}
}

package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

type FileKind int

const (
	KindOther FileKind = iota
	KindPrefab
	KindScript
	KindScene
)

func (k FileKind) String() string {
	switch k {
	case KindPrefab:
		return "prefab"
	case KindScript:
		return "script"
	case KindScene:
		return "scene"
	default:
		return "other"
	}
}

// Change is one debounced edit to a watched file.
type Change struct {
	Path string
	Kind FileKind
}

// Watcher reports edits to prefab specs, scripts and scene documents under
// the watched directories.
type Watcher struct {
	watcher  *fsnotify.Watcher
	Events   chan Change
	Errors   chan error
	closeCh  chan struct{}
	done     chan struct{}
	once     sync.Once
	debounce time.Duration
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher:  w,
		Events:   make(chan Change, 16),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
		debounce: 100 * time.Millisecond,
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the pump and closes Events and Errors.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

// Drain returns the changes queued so far without blocking. The frame loop
// calls it once per frame.
func (w *Watcher) Drain() []Change {
	var out []Change
	for {
		select {
		case c, ok := <-w.Events:
			if !ok {
				return out
			}
			out = append(out, c)
		default:
			return out
		}
	}
}

// run forwards a change once its path has been quiet for the debounce
// period, so a save that lands as several writes is reported once and after
// the last of them.
func (w *Watcher) run() {
	defer close(w.done)
	pending := make(map[string]time.Time)
	tick := time.NewTicker(w.debounce / 4)
	defer tick.Stop()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if Classify(event.Name) == KindOther {
				continue
			}
			pending[event.Name] = time.Now()
		case now := <-tick.C:
			for path, at := range pending {
				if now.Sub(at) < w.debounce {
					continue
				}
				delete(pending, path)
				select {
				case w.Events <- Change{Path: path, Kind: Classify(path)}:
				case <-w.closeCh:
					return
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

// Classify maps a path to the kind of file it holds by extension.
func Classify(path string) FileKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return KindPrefab
	case ".tengo":
		return KindScript
	case ".json":
		return KindScene
	default:
		return KindOther
	}
}

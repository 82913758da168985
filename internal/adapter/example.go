package adapter

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"verity/internal/codec"
	"verity/internal/domain"
)

// ExampleAdapter loads sample records from a local file. It exists so
// a fresh install has data to explore; production configs hide it.
// The file is watched and edits trigger a re-sync.
type ExampleAdapter struct {
	path    string
	watcher *fsnotify.Watcher

	// onChange is invoked when the data file changes on disk
	onChange func()
}

// NewExampleAdapter creates a file-backed adapter for the given path
func NewExampleAdapter(path string) *ExampleAdapter {
	return &ExampleAdapter{path: path}
}

// OnChange sets the callback fired when the data file changes.
// Must be called before Start.
func (a *ExampleAdapter) OnChange(fn func()) {
	a.onChange = fn
}

func (a *ExampleAdapter) Name() string { return "example" }
func (a *ExampleAdapter) Type() Type   { return TypeOneShot }

// Start begins watching the data file's directory for changes.
// Watching the directory rather than the file survives editors that
// replace the file on save.
func (a *ExampleAdapter) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(a.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(a.path), err)
	}
	a.watcher = watcher

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != a.path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				log.Printf("Example data file changed: %s", event.Name)
				if a.onChange != nil {
					a.onChange()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("Example data watcher error: %v", err)
			}
		}
	}()

	log.Printf("Example adapter watching %s", a.path)
	return nil
}

func (a *ExampleAdapter) Stop() error {
	if a.watcher != nil {
		return a.watcher.Close()
	}
	return nil
}

// Sync loads the data file. A missing file is an empty snapshot, not
// an error, so deletes flow once the file is removed.
func (a *ExampleAdapter) Sync(ctx context.Context) (*domain.RecordSet, error) {
	data, err := os.ReadFile(a.path)
	if os.IsNotExist(err) {
		return domain.NewRecordSet(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", a.path, err)
	}

	c, err := codec.ForPath(a.path)
	if err != nil {
		return nil, err
	}
	set, err := c.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", a.path, err)
	}
	for i := range set.Records {
		set.Records[i].Source = a.Name()
	}
	return set, nil
}

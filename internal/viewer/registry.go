package viewer

import (
	"errors"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/brepview/internal/display"
	"github.com/Faultbox/brepview/internal/logger"
)

// ErrExitCancelled is returned by Shutdown when the confirmation declines.
var ErrExitCancelled = errors.New("viewer: exit cancelled while windows are open")

// Factory builds a viewer for one display.
type Factory func(data *display.Data) (*Viewer, error)

// Registry tracks viewers running on their own goroutines.
type Registry struct {
	factory Factory

	mu      sync.Mutex
	viewers map[int]*Viewer
	next    int
	errs    []error

	wg sync.WaitGroup
}

// NewRegistry creates a registry that builds viewers with factory.
func NewRegistry(factory Factory) *Registry {
	return &Registry{
		factory: factory,
		viewers: make(map[int]*Viewer),
	}
}

// Launch takes ownership of data and displays it on a new goroutine locked
// to its own OS thread. It returns the viewer id.
func (r *Registry) Launch(data *display.Data) (int, error) {
	v, err := r.factory(data)
	if err != nil {
		return 0, err
	}

	r.mu.Lock()
	id := r.next
	r.next++
	r.viewers[id] = v
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		err := v.Display()

		r.mu.Lock()
		delete(r.viewers, id)
		if err != nil {
			r.errs = append(r.errs, err)
		}
		r.mu.Unlock()

		if err != nil {
			logger.Error("viewer failed", zap.Int("viewer", id), zap.Error(err))
		}
	}()
	return id, nil
}

// Open returns the number of viewers still running.
func (r *Registry) Open() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.viewers)
}

// CloseAll asks every running viewer to close. It does not wait.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	viewers := make([]*Viewer, 0, len(r.viewers))
	for _, v := range r.viewers {
		viewers = append(viewers, v)
	}
	r.mu.Unlock()

	for _, v := range viewers {
		v.RequestClose()
	}
}

// Wait blocks until every launched viewer has closed and returns their
// errors joined.
func (r *Registry) Wait() error {
	r.wg.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()
	err := errors.Join(r.errs...)
	r.errs = nil
	return err
}

// Shutdown applies the exit policy. With viewers open, confirm decides
// whether to close them; a nil confirm closes without asking. Shutdown
// returns ErrExitCancelled when declined and otherwise waits for all
// viewers.
func (r *Registry) Shutdown(confirm func(open int) bool) error {
	if n := r.Open(); n > 0 && confirm != nil && !confirm(n) {
		return ErrExitCancelled
	}
	r.CloseAll()
	return r.Wait()
}

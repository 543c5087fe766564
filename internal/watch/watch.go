// Package watch reports changes to a single fixture file.
package watch

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Op is a set of file operations.
type Op uint8

const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

func (op Op) String() string {
	var parts []string
	for _, n := range []struct {
		op   Op
		name string
	}{{OpCreate, "create"}, {OpWrite, "write"}, {OpRemove, "remove"}, {OpRename, "rename"}, {OpChmod, "chmod"}} {
		if op&n.op != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Event is one settled change of the watched file. Op accumulates every
// operation seen during the debounce window.
type Event struct {
	Path string
	Op   Op
}

func translate(op fsnotify.Op) Op {
	var out Op
	if op.Has(fsnotify.Create) {
		out |= OpCreate
	}
	if op.Has(fsnotify.Write) {
		out |= OpWrite
	}
	if op.Has(fsnotify.Remove) {
		out |= OpRemove
	}
	if op.Has(fsnotify.Rename) {
		out |= OpRename
	}
	if op.Has(fsnotify.Chmod) {
		out |= OpChmod
	}
	return out
}

// Watcher watches the directory of one file so that editors which save by
// rename are still seen.
type Watcher struct {
	w        *fsnotify.Watcher
	path     string
	debounce time.Duration
	evC      chan Event
	erC      chan error
	done     chan struct{}
	stopped  chan struct{}

	closeOnce sync.Once
}

// New starts watching path. Changes closer together than debounce are
// reported as one event.
func New(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}
	fw := &Watcher{
		w:        w,
		path:     abs,
		debounce: debounce,
		evC:      make(chan Event, 16),
		erC:      make(chan error, 1),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go fw.loop()
	return fw, nil
}

func (fw *Watcher) loop() {
	defer close(fw.stopped)
	defer close(fw.evC)

	var (
		pending Op
		timer   *time.Timer
		fire    <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-fw.done:
			return
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != fw.path {
				continue
			}
			op := translate(ev.Op)
			if op == OpChmod {
				continue
			}
			pending |= op
			if fw.debounce <= 0 {
				if !fw.emit(Event{Path: fw.path, Op: pending}) {
					return
				}
				pending = 0
				continue
			}
			if timer == nil {
				timer = time.NewTimer(fw.debounce)
			} else {
				timer.Reset(fw.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if !fw.emit(Event{Path: fw.path, Op: pending}) {
				return
			}
			pending = 0
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			select {
			case fw.erC <- err:
			default:
			}
		}
	}
}

func (fw *Watcher) emit(ev Event) bool {
	select {
	case fw.evC <- ev:
		return true
	case <-fw.done:
		return false
	}
}

func (fw *Watcher) Path() string         { return fw.path }
func (fw *Watcher) Events() <-chan Event { return fw.evC }
func (fw *Watcher) Errors() <-chan error { return fw.erC }

// Close stops the watcher and waits for its goroutine to exit.
// Only the first call reports the fsnotify close error.
func (fw *Watcher) Close() error {
	var err error
	fw.closeOnce.Do(func() {
		close(fw.done)
		err = fw.w.Close()
	})
	<-fw.stopped
	return err
}

// Run calls fn once, then again after every change of path, until ctx is
// done. Errors from fn are logged and do not stop the loop.
func Run(ctx context.Context, path string, debounce time.Duration, logger *zap.Logger, fn func(Event) error) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := New(path, debounce)
	if err != nil {
		return err
	}
	defer fw.Close()

	call := func(ev Event) {
		if err := fn(ev); err != nil {
			logger.Warn("run failed", zap.String("path", ev.Path), zap.Stringer("op", ev.Op), zap.Error(err))
		}
	}
	call(Event{Path: fw.path})
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.Events():
			if !ok {
				return nil
			}
			logger.Info("fixture changed", zap.String("path", ev.Path), zap.Stringer("op", ev.Op))
			call(ev)
		case err := <-fw.Errors():
			logger.Warn("watch error", zap.Error(err))
		}
	}
}

package game

import (
	"context"
	"errors"
	"sync"
)

// Driver runs a Battle on its own goroutine and serialises begin/stop requests
// coming from other goroutines (UI handlers, HTTP requests). Only the loop
// goroutine touches the battle while it runs; everyone else reads the latest
// snapshot.
type Driver struct {
	battle *Battle

	ctl    sync.Mutex // serialises Begin and Stop
	mu     sync.Mutex // guards the fields below
	cancel context.CancelFunc
	done   chan struct{}
	err    error // result of the last finished loop

	snapMu sync.RWMutex
	snap   Snapshot
}

// NewDriver wraps b. The driver registers itself as an observer of b to keep
// the latest snapshot.
func NewDriver(b *Battle) *Driver {
	d := &Driver{battle: b, snap: b.Snapshot()}
	b.AddObserver(ObserverFuncs{Tick: d.storeSnapshot})
	return d
}

func (d *Driver) storeSnapshot(s Snapshot) {
	d.snapMu.Lock()
	d.snap = s
	d.snapMu.Unlock()
}

// Snapshot returns the most recent published snapshot.
func (d *Driver) Snapshot() Snapshot {
	d.snapMu.RLock()
	defer d.snapMu.RUnlock()
	return d.snap
}

// Begin tears down any running loop, starts a new battle and runs it until it
// is over, Stop is called, or ctx is done.
func (d *Driver) Begin(ctx context.Context) error {
	d.ctl.Lock()
	defer d.ctl.Unlock()
	d.stop()

	if err := d.battle.Begin(); err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	d.mu.Lock()
	d.cancel = cancel
	d.done = done
	d.err = nil
	d.mu.Unlock()

	go func() {
		defer close(done)
		err := d.battle.Run(ctx)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		d.mu.Lock()
		if d.done == done {
			d.err = err
		}
		d.mu.Unlock()
	}()
	return nil
}

// Stop cancels the running loop, if any, and waits for it to exit.
func (d *Driver) Stop() {
	d.ctl.Lock()
	defer d.ctl.Unlock()
	d.stop()
}

// stop must be called with ctl held.
func (d *Driver) stop() {
	d.mu.Lock()
	cancel, done := d.cancel, d.done
	d.cancel, d.done = nil, nil
	d.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Wait blocks until the current loop exits and returns its error. Deadline
// errors from the parent context are returned; Stop and Begin cancellations
// are not.
func (d *Driver) Wait() error {
	d.mu.Lock()
	done := d.done
	d.mu.Unlock()
	if done != nil {
		<-done
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// Running reports whether a loop goroutine is active.
func (d *Driver) Running() bool {
	d.mu.Lock()
	done := d.done
	d.mu.Unlock()
	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

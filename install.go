package tracinginit

import (
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// ErrAlreadySet is returned by TryInit if a global default Dispatch has
// already been installed.
var ErrAlreadySet = errors.New("a global default dispatch has already been set")

//nolint:gochecknoglobals
var (
	nopDispatch = newDispatch(zap.NewNop(), noop.NewTracerProvider())

	defaultsMu = &sync.Mutex{}
	global     *Dispatch
	scoped     []*DefaultGuard
	// baseline holds the zap globals from before anything was installed,
	// restored when the last default is removed.
	baseline *zap.Logger
)

// Current returns the active default Dispatch: the innermost Dispatch set
// using SetDefault that is not yet reverted, otherwise the global default
// from Init or TryInit, otherwise a Dispatch discarding everything.
func Current() *Dispatch {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()

	return currentLocked()
}

func currentLocked() *Dispatch {
	if n := len(scoped); n != 0 {
		return scoped[n-1].d
	}
	if global != nil {
		return global
	}
	return nopDispatch
}

// applyLocked points the zap globals (zap.L and zap.S) at the current
// default.
func applyLocked() {
	if baseline == nil {
		baseline = zap.L()
	}
	if cur := currentLocked(); cur != nopDispatch {
		zap.ReplaceGlobals(cur.logger)
		return
	}
	zap.ReplaceGlobals(baseline)
}

// DefaultGuard reverts a default set using SetDefault when closed.
type DefaultGuard struct {
	d    *Dispatch
	once sync.Once
}

// Dispatch returns the Dispatch guarded by g.
func (g *DefaultGuard) Dispatch() *Dispatch { return g.d }

// Close reverts the default to what it was before g was created. Nested
// guards shall be closed innermost first, which is what deferring Close
// right after SetDefault does. Closing a guard out of order removes only
// that guard's Dispatch. Further calls are no-ops.
func (g *DefaultGuard) Close() {
	g.once.Do(func() {
		defaultsMu.Lock()
		defer defaultsMu.Unlock()

		for i := len(scoped) - 1; i >= 0; i-- {
			if scoped[i] == g {
				scoped = append(scoped[:i], scoped[i+1:]...)
				break
			}
		}
		applyLocked()
	})
}

// SetDefault makes d the default Dispatch until the returned guard is
// closed. It always succeeds, and takes precedence over the global
// default. zap.L() and zap.S() log to d meanwhile.
//
// The default is process-wide, so every goroutine sees d until the guard
// is closed. Use NewContext to scope a Dispatch to a single call tree.
//
//	guard := d.SetDefault()
//	defer guard.Close()
func (d *Dispatch) SetDefault() *DefaultGuard {
	g := &DefaultGuard{d: d}

	defaultsMu.Lock()
	defer defaultsMu.Unlock()

	scoped = append(scoped, g)
	applyLocked()
	return g
}

// TryInit installs d as the global default Dispatch, or returns
// ErrAlreadySet if there already is one. d's TracerProvider is also
// registered as the OpenTelemetry global TracerProvider.
func (d *Dispatch) TryInit() error {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()

	if global != nil {
		return ErrAlreadySet
	}
	global = d
	otel.SetTracerProvider(d.TracerProvider())
	applyLocked()
	return nil
}

// Init is TryInit, but panics if a global default is already set.
func (d *Dispatch) Init() {
	if err := d.TryInit(); err != nil {
		panic(fmt.Errorf("tracinginit: failed to set global default dispatch: %w", err))
	}
}

// SetDefault is a shorthand for New(layers...).SetDefault().
func SetDefault(layers ...Layer) *DefaultGuard { return New(layers...).SetDefault() }

// Init is a shorthand for New(layers...).Init().
func Init(layers ...Layer) { New(layers...).Init() }

// TryInit is a shorthand for New(layers...).TryInit().
func TryInit(layers ...Layer) error { return New(layers...).TryInit() }

package jsdump

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/GriffinCanCode/roomdata/internal/logging"
	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// ErrTimeout is returned when a script runs past Config.Timeout.
var ErrTimeout = errors.New("script execution timed out")

// Config defines sandbox limits.
type Config struct {
	Timeout          time.Duration // Execution timeout
	MaxCallStackSize int           // Maximum JS call depth
}

// DefaultConfig returns the default sandbox limits.
func DefaultConfig() Config {
	return Config{
		Timeout:          5 * time.Second,
		MaxCallStackSize: 1024,
	}
}

// Runtime wraps a goja VM with removed host globals and a timeout.
type Runtime struct {
	vm     *goja.Runtime
	config Config
	log    *logging.Logger
	mu     sync.Mutex
}

// NewRuntime creates a sandboxed runtime. A nil logger discards console output.
func NewRuntime(config Config, log *logging.Logger) *Runtime {
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	if config.MaxCallStackSize <= 0 {
		config.MaxCallStackSize = DefaultConfig().MaxCallStackSize
	}
	if log == nil {
		log = logging.NewNop()
	}

	r := &Runtime{vm: goja.New(), config: config, log: log}
	r.vm.SetMaxCallStackSize(config.MaxCallStackSize)
	r.setupGlobals()
	return r
}

// Run executes script and returns its completion value. Execution stops when
// the timeout elapses or ctx is cancelled.
func (r *Runtime) Run(ctx context.Context, name, script string) (goja.Value, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// A timer that fired after the previous script finished leaves a
	// pending interrupt behind.
	r.vm.ClearInterrupt()

	timer := time.NewTimer(r.config.Timeout)
	defer timer.Stop()

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-timer.C:
			r.vm.Interrupt(ErrTimeout)
		case <-ctx.Done():
			r.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	start := time.Now()
	val, err := r.vm.RunScript(name, script)
	r.log.Debug("Script finished", zap.String("script", name), zap.Duration("duration", time.Since(start)))
	if err != nil {
		r.vm.ClearInterrupt()
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			if cause, ok := interrupted.Value().(error); ok {
				return nil, fmt.Errorf("%s: %w", name, cause)
			}
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return val, nil
}

// Global returns a global variable, or nil when it is not defined.
func (r *Runtime) Global(name string) goja.Value {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.vm.Get(name)
}

// setupGlobals removes host access and routes console output to the logger.
func (r *Runtime) setupGlobals() {
	for _, name := range []string{"require", "process", "module", "exports"} {
		r.vm.Set(name, goja.Undefined())
	}

	console := r.vm.NewObject()
	for _, level := range []string{"log", "info", "warn", "error"} {
		console.Set(level, r.consoleFunc(level))
	}
	r.vm.Set("console", console)

	noop := func(goja.FunctionCall) goja.Value { return goja.Undefined() }
	r.vm.Set("setTimeout", noop)
	r.vm.Set("setInterval", noop)
}

func (r *Runtime) consoleFunc(level string) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		r.log.Debug("Script console", zap.String("level", level), zap.String("message", strings.Join(parts, " ")))
		return goja.Undefined()
	}
}

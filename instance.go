package bamboo

import (
	"context"
	"log/slog"
	"sync"

	"github.com/bamboo-dev/bamboo/internal/errors"
	"github.com/bamboo-dev/bamboo/pkg/compile"
	"github.com/bamboo-dev/bamboo/pkg/dom"
	"github.com/bamboo-dev/bamboo/pkg/reactive"
	"github.com/bamboo-dev/bamboo/pkg/telemetry"
)

// Instance owns reactive data and the view it is bound to.
type Instance struct {
	opts     Options
	data     *reactive.Map
	compiler *compile.Compiler

	mu    sync.Mutex
	host  *dom.Node
	stats compile.Stats
}

var _ compile.Instance = (*Instance)(nil)

// New observes opts.Data and, when a host can be resolved, compiles it.
// Without El or Document the instance stays unmounted until Mount.
// A Selector that matches nothing in Document is an E001 error.
func New(opts Options) (*Instance, error) {
	vm := newInstance(opts)

	host, err := resolveHost(opts)
	if err != nil {
		return nil, err
	}
	if host == nil {
		vm.opts.Logger.Debug("mount deferred", "keys", vm.data.Keys())
		return vm, nil
	}
	if err := vm.Mount(host); err != nil {
		return nil, err
	}
	return vm, nil
}

func newInstance(opts Options) *Instance {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	var ropts []reactive.Option
	if opts.Dedupe {
		ropts = append(ropts, reactive.WithDedupe())
	}
	if opts.Telemetry != nil {
		ropts = append(ropts, reactive.WithNotifyHook(opts.Telemetry.Notified))
	}

	copts := []compile.Option{compile.WithLogger(opts.Logger)}
	if opts.Prefix != "" {
		copts = append(copts, compile.WithPrefix(opts.Prefix))
	}
	if opts.Telemetry != nil {
		copts = append(copts, compile.WithObserver(opts.Telemetry))
	}
	if opts.Bind != nil {
		copts = append(copts, compile.WithBindHandler(opts.Bind))
	}
	c := compile.New(copts...)
	for name, d := range opts.Directives {
		c.RegisterDirective(name, d)
	}

	return &Instance{
		opts:     opts,
		data:     reactive.Observe(opts.Data, ropts...),
		compiler: c,
	}
}

func resolveHost(opts Options) (*dom.Node, error) {
	if opts.El != nil {
		return opts.El, nil
	}
	if opts.Selector == "" || opts.Document == nil {
		return nil, nil
	}
	host := dom.Find(opts.Document, opts.Selector)
	if host == nil {
		return nil, errors.New("E001").WithDetailf("selector %q", opts.Selector)
	}
	return host, nil
}

// Mount compiles host against the instance and then runs the Created hook.
// An instance mounts once; a second Mount is an E006 error.
func (vm *Instance) Mount(host *dom.Node) error {
	return vm.MountContext(context.Background(), host)
}

// MountContext is Mount with a parent context for tracing.
func (vm *Instance) MountContext(ctx context.Context, host *dom.Node) error {
	if host == nil {
		return errors.New("E001").WithDetail("nil host")
	}

	vm.mu.Lock()
	if vm.host != nil {
		vm.mu.Unlock()
		return errors.New("E006")
	}
	vm.host = host
	vm.mu.Unlock()

	_, span := telemetry.Start(ctx, "mount", telemetry.KeyHost.String(host.Tag))
	stats := vm.compiler.Compile(host, vm)
	span.SetAttributes(telemetry.KeyStats.Int(stats.Interpolations + stats.Directives + stats.Binds))
	telemetry.End(span, nil)

	vm.mu.Lock()
	vm.stats = stats
	vm.mu.Unlock()

	vm.opts.Logger.Debug("mounted",
		"host", host.Tag,
		"interpolations", stats.Interpolations,
		"directives", stats.Directives,
		"events", stats.Events)

	if vm.opts.Created != nil {
		vm.opts.Created(vm)
	}
	return nil
}

// Mounted reports whether the instance has a host.
func (vm *Instance) Mounted() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.host != nil
}

// Host returns the mounted host, or nil.
func (vm *Instance) Host() *dom.Node {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.host
}

// Stats returns what the mount compiled.
func (vm *Instance) Stats() compile.Stats {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.stats
}

// Data returns the reactive data. Data().Get(k) and Get(k) read the same
// cell.
func (vm *Instance) Data() *reactive.Map {
	return vm.data
}

// Get is a tracked read of key.
func (vm *Instance) Get(key string) any {
	return vm.data.Get(key)
}

// Peek reads key without registering a subscriber.
func (vm *Instance) Peek(key string) any {
	return vm.data.Peek(key)
}

// Set writes key and notifies its subscribers when the value changed.
func (vm *Instance) Set(key string, value any) {
	vm.data.Set(key, value)
}

// Method returns the named method as a listener bound to vm.
func (vm *Instance) Method(name string) (dom.Listener, bool) {
	m, ok := vm.opts.Methods[name]
	if !ok || m == nil {
		return nil, false
	}
	return func(e *dom.Event) { m(vm, e) }, true
}

// Compiler returns the compiler used for Mount.
func (vm *Instance) Compiler() *compile.Compiler {
	return vm.compiler
}

// Logger returns the instance logger.
func (vm *Instance) Logger() *slog.Logger {
	return vm.opts.Logger
}

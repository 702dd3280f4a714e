package compile

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/bamboo-dev/bamboo/pkg/dom"
	"github.com/bamboo-dev/bamboo/pkg/reactive"
)

// DefaultPrefix is the directive attribute prefix.
const DefaultPrefix = "b-"

// interpolation matches the first {{ key }} in a text node.
var interpolation = regexp.MustCompile(`\{\{\s*(.+?)\s*\}\}`)

// Instance is what the compiler binds a tree to.
type Instance interface {
	reactive.Source

	// Set writes a key, notifying its subscribers.
	Set(key string, value any)

	// Method returns the named method bound to the instance.
	Method(name string) (dom.Listener, bool)
}

// Directive handles one directive attribute.
type Directive func(c *Compiler, node *dom.Node, vm Instance, expression string)

// Updater applies a value to a node.
type Updater func(node *dom.Node, value any)

// BindHandler handles :attr and b-bind:attr attributes.
type BindHandler func(c *Compiler, node *dom.Node, vm Instance, expression, attr string)

// Observer is told about what the compiler wires. Used for metrics.
type Observer interface {
	BindingCreated(kind string)
	EventBound(event string)
	DirectiveSkipped(name string)
}

// Stats summarizes one Compile call.
type Stats struct {
	Interpolations int
	Directives     int
	Events         int
	Binds          int
	Skipped        int
}

// Compiler discovers bindings in dom trees. A Compiler may be reused for
// several trees; registrations must happen before the first Compile.
type Compiler struct {
	prefix     string
	directives map[string]Directive
	updaters   map[string]Updater
	bind       BindHandler
	observer   Observer
	logger     *slog.Logger
}

// New creates a compiler with the text, html and model directives.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		prefix:     DefaultPrefix,
		directives: make(map[string]Directive),
		updaters:   make(map[string]Updater),
		bind:       stubBind,
		observer:   noopObserver{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.RegisterDirective("text", textDirective)
	c.RegisterDirective("html", htmlDirective)
	c.RegisterDirective("model", modelDirective)

	c.RegisterUpdater("text", TextUpdater)
	c.RegisterUpdater("html", NewHTMLUpdater(c.logger))
	c.RegisterUpdater("model", ModelUpdater)

	return c
}

// RegisterDirective adds or replaces the directive handled by <prefix><name>.
func (c *Compiler) RegisterDirective(name string, d Directive) {
	c.directives[name] = d
}

// RegisterUpdater adds or replaces the updater used by Update for kind.
func (c *Compiler) RegisterUpdater(kind string, u Updater) {
	c.updaters[kind] = u
}

// Prefix returns the directive prefix.
func (c *Compiler) Prefix() string {
	return c.prefix
}

// Logger returns the compiler's logger.
func (c *Compiler) Logger() *slog.Logger {
	return c.logger
}

// Compile binds every node below host to vm. The host's children are moved
// into a fragment, compiled there and appended back in one step.
func (c *Compiler) Compile(host *dom.Node, vm Instance) Stats {
	p := &pass{c: c, vm: vm}
	if host == nil {
		return p.stats
	}

	frag := dom.NewFragment()
	for child := host.FirstChild(); child != nil; child = host.FirstChild() {
		frag.AppendChild(child)
	}

	p.compile(frag)

	host.AppendChild(frag)

	c.logger.Debug("compiled view",
		"interpolations", p.stats.Interpolations,
		"directives", p.stats.Directives,
		"events", p.stats.Events,
		"binds", p.stats.Binds,
		"skipped", p.stats.Skipped)
	return p.stats
}

// Update renders the current value of expression into node with the updater
// registered for kind, then keeps it rendered with one watcher. Update does
// nothing when kind has no updater.
func (c *Compiler) Update(node *dom.Node, vm Instance, expression, kind string) {
	updater, ok := c.updaters[kind]
	if !ok {
		c.logger.Debug("no updater", "kind", kind)
		return
	}
	c.watch(node, vm, expression, updater)
	c.observer.BindingCreated(kind)
}

func (c *Compiler) watch(node *dom.Node, vm Instance, expression string, updater Updater) {
	// Initial render
	updater(node, vm.Get(expression))

	reactive.NewWatcher(vm, expression, func(_ reactive.Source, value any) {
		updater(node, value)
	})
}

// pass holds the state of one Compile call.
type pass struct {
	c     *Compiler
	vm    Instance
	stats Stats
}

func (p *pass) compile(parent *dom.Node) {
	for _, node := range parent.ChildNodes() {
		switch {
		case node.IsElement():
			p.compileElement(node)
		case node.IsText():
			p.compileText(node)
		}

		// Children are read after the node is compiled, so markup inserted
		// by a directive is compiled as well.
		if len(node.Children) > 0 {
			p.compile(node)
		}
	}
}

func (p *pass) compileElement(node *dom.Node) {
	attrs := make([]dom.Attr, len(node.Attrs))
	copy(attrs, node.Attrs)

	for _, attr := range attrs {
		name, expression := attr.Name, attr.Value

		if event, ok := p.c.eventName(name); ok {
			p.eventHandler(node, expression, event)
			continue
		}
		if target, ok := p.c.bindName(name); ok {
			p.stats.Binds++
			p.c.bind(p.c, node, p.vm, expression, target)
			continue
		}
		if directive, ok := strings.CutPrefix(name, p.c.prefix); ok {
			d, found := p.c.directives[directive]
			if !found {
				p.stats.Skipped++
				p.c.observer.DirectiveSkipped(directive)
				p.c.logger.Debug("unknown directive", "directive", directive, "tag", node.Tag)
				continue
			}
			p.stats.Directives++
			d(p.c, node, p.vm, expression)
		}
	}
}

func (p *pass) compileText(node *dom.Node) {
	m := interpolation.FindStringSubmatch(node.Data)
	if m == nil {
		return
	}
	// Only the first interpolation of a text node is bound.
	p.stats.Interpolations++
	p.c.Update(node, p.vm, m[1], "text")
}

func (p *pass) eventHandler(node *dom.Node, method, event string) {
	if event == "" {
		return
	}
	fn, ok := p.vm.Method(method)
	if !ok {
		p.c.logger.Debug("unknown method", "method", method, "event", event)
		return
	}
	node.AddEventListener(event, fn)
	p.stats.Events++
	p.c.observer.EventBound(event)
}

// eventName recognizes @event and <prefix>on:event.
func (c *Compiler) eventName(attr string) (string, bool) {
	if rest, ok := strings.CutPrefix(attr, "@"); ok {
		return rest, true
	}
	return strings.CutPrefix(attr, c.prefix+"on:")
}

// bindName recognizes :attr and <prefix>bind:attr.
func (c *Compiler) bindName(attr string) (string, bool) {
	if rest, ok := strings.CutPrefix(attr, ":"); ok {
		return rest, true
	}
	return strings.CutPrefix(attr, c.prefix+"bind:")
}

type noopObserver struct{}

func (noopObserver) BindingCreated(string)   {}
func (noopObserver) EventBound(string)       {}
func (noopObserver) DirectiveSkipped(string) {}

// Package interp is the embedding API of nscript.
//
// An Interpreter owns one environment and one output sink. Successive calls to
// Run share the environment, so a host can feed a program in pieces:
//
//	it := interp.New(interp.WithSink(interp.NewBufferSink()))
//	if _, err := it.Run("var x 41 var one 1"); err != nil { ... }
//	sink, err := it.Run("add x one print x") // sink holds "42"
//
// Interpreters are not safe for concurrent use. Separate interpreters share
// nothing.
package interp

import (
	"io"
	"os"

	"github.com/agenthands/nscript/pkg/compiler/ast"
	"github.com/agenthands/nscript/pkg/compiler/parser"
	"github.com/agenthands/nscript/pkg/core/env"
	"github.com/agenthands/nscript/pkg/core/fault"
	"github.com/agenthands/nscript/pkg/core/value"
	"github.com/agenthands/nscript/pkg/vm"
)

type Interpreter struct {
	env     *env.Env
	sink    Sink
	machine *vm.Machine
	cache   *ParseCache
}

type Option func(*Interpreter)

// WithSink sends printed lines to s.
func WithSink(s Sink) Option {
	return func(it *Interpreter) { it.sink = s }
}

// WithOutput sends printed lines to w, one per line.
func WithOutput(w io.Writer) Option {
	return func(it *Interpreter) { it.sink = NewWriterSink(w) }
}

// WithGas bounds the statements one run may execute. Zero means unlimited.
func WithGas(n int) Option {
	return func(it *Interpreter) { it.machine.GasLimit = n }
}

// WithMaxFrames bounds call nesting. Zero means unlimited.
func WithMaxFrames(n int) Option {
	return func(it *Interpreter) { it.machine.MaxFrames = n }
}

// WithParseCache reuses programs parsed by c.
func WithParseCache(c *ParseCache) Option {
	return func(it *Interpreter) { it.cache = c }
}

// New returns an interpreter with an empty environment. Output goes to
// os.Stdout unless a sink is configured.
func New(opts ...Option) *Interpreter {
	it := &Interpreter{env: env.New()}
	it.machine = vm.New(it.env, nil)
	for _, opt := range opts {
		opt(it)
	}
	if it.sink == nil {
		it.sink = NewWriterSink(os.Stdout)
	}
	it.machine.Out = it.sink
	return it
}

// Parse lexes and parses src without running it.
func Parse(src string) (*ast.Program, error) {
	return parser.ParseString(src)
}

func (it *Interpreter) parse(src string) (*ast.Program, error) {
	if it.cache != nil {
		return it.cache.Parse(src)
	}
	return parser.ParseString(src)
}

// Run parses src completely and then executes it. Syntax errors are reported
// before anything runs. The sink is returned, and flushed, on success and on
// failure.
func (it *Interpreter) Run(src string) (Sink, error) {
	prog, err := it.parse(src)
	if err != nil {
		return it.sink, err
	}
	return it.sink, it.finish(it.machine.Run(prog))
}

// RunProgram executes an already parsed program.
func (it *Interpreter) RunProgram(prog *ast.Program) (Sink, error) {
	return it.sink, it.finish(it.machine.Run(prog))
}

// CallFunction invokes a declared function with integer arguments, as if
// "call name args..." ran at top level.
func (it *Interpreter) CallFunction(name string, args ...int32) error {
	return it.finish(it.machine.Call(name, args...))
}

func (it *Interpreter) finish(err error) error {
	f, ok := it.sink.(Flusher)
	if !ok {
		return err
	}
	if ferr := f.Flush(); ferr != nil && err == nil {
		return fault.IO(ferr)
	}
	return err
}

// Globals returns the global bindings by name. When a name is bound in
// several namespaces the one print would show wins.
func (it *Interpreter) Globals() map[string]value.Value {
	snap := it.env.Snapshot()
	out := make(map[string]value.Value)
	for i := len(env.ResolveOrder) - 1; i >= 0; i-- {
		for name, v := range snap[env.ResolveOrder[i]] {
			out[name] = v
		}
	}
	return out
}

// Bindings returns a copy of every global binding, keyed by namespace.
func (it *Interpreter) Bindings() map[value.Type]map[string]value.Value {
	return it.env.Snapshot()
}

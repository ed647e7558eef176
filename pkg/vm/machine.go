// Package vm walks a parsed program against an environment.
package vm

import (
	"fortio.org/log"

	"github.com/agenthands/nscript/pkg/compiler/ast"
	"github.com/agenthands/nscript/pkg/compiler/lexer"
	"github.com/agenthands/nscript/pkg/core/env"
	"github.com/agenthands/nscript/pkg/core/fault"
	"github.com/agenthands/nscript/pkg/core/value"
)

// DefaultMaxFrames bounds call nesting when no limit is configured.
const DefaultMaxFrames = 256

// Output receives the lines produced by print.
type Output interface {
	WriteLine(line string) error
}

// Machine executes statements. It keeps no state between runs besides its
// environment, which the owner may share across runs.
type Machine struct {
	Env *env.Env
	Out Output

	// GasLimit bounds the number of executed statements and loop checks per
	// run. Zero means unlimited.
	GasLimit  int
	MaxFrames int

	gas   int
	depth int
}

// New returns a machine bound to e that prints to out.
func New(e *env.Env, out Output) *Machine {
	return &Machine{Env: e, Out: out, MaxFrames: DefaultMaxFrames}
}

// Reset clears per-run counters.
func (m *Machine) Reset() {
	m.gas = 0
	m.depth = 0
}

// Run executes prog in the global scope. The first error aborts the run;
// mutations and output made before it stay in place.
func (m *Machine) Run(prog *ast.Program) error {
	m.Reset()
	log.LogVf("run %d statements", len(prog.Statements))
	return m.execBlock(m.Env, prog.Statements)
}

// Call invokes a declared function with the global scope as the caller.
func (m *Machine) Call(name string, args ...int32) error {
	m.Reset()
	return m.call(m.Env, lexer.Token{Kind: lexer.KindWord, Text: name}, name, args)
}

func (m *Machine) execBlock(scope *env.Env, stmts []ast.Statement) error {
	for _, stmt := range stmts {
		if err := m.exec(scope, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (m *Machine) charge(tok lexer.Token) error {
	if m.GasLimit <= 0 {
		return nil
	}
	m.gas++
	if m.gas > m.GasLimit {
		return fault.New(fault.ErrGasExhausted, tok.Text, tok.Line, "limit of %d steps reached", m.GasLimit)
	}
	return nil
}

func (m *Machine) exec(scope *env.Env, stmt ast.Statement) error {
	tok := stmt.Pos()
	if err := m.charge(tok); err != nil {
		return err
	}

	switch s := stmt.(type) {
	case *ast.VarDecl:
		scope.Declare(s.Name, value.OfInt(s.Value))
	case *ast.FloatDecl:
		scope.Declare(s.Name, value.OfFloat(s.Value))
	case *ast.StringDecl:
		scope.Declare(s.Name, value.OfString(s.Value))
	case *ast.ArrayDecl:
		scope.Declare(s.Name, value.OfArray(value.NewArray(s.Elems)))
	case *ast.StructDecl:
		scope.Declare(s.Name, value.OfStruct(value.NewStruct(s.Fields)))
	case *ast.Print:
		return m.print(scope, s)
	case *ast.Arith:
		return m.arith(scope, s)
	case *ast.Unary:
		return m.unary(scope, s)
	case *ast.Function:
		log.LogVf("define function %s(%v)", s.Name, s.Params)
		scope.DefineFunc(s)
	case *ast.Call:
		args := make([]int32, len(s.Args))
		for i, a := range s.Args {
			if a.Literal {
				args[i] = a.Value
				continue
			}
			v, err := lookupInt(scope, a.Token)
			if err != nil {
				return err
			}
			args[i] = v
		}
		return m.call(scope, s.Token, s.Name, args)
	case *ast.IfStmt:
		ok, err := m.test(scope, s.Token, s.Cond)
		if err != nil {
			return err
		}
		if ok {
			log.LogVf("if %s %s %d is true at line %d", s.Cond.Name, s.Cond.Op, s.Cond.Value, tok.Line)
			return m.execBlock(scope, s.ThenBranch)
		}
		log.LogVf("if %s %s %d is false at line %d", s.Cond.Name, s.Cond.Op, s.Cond.Value, tok.Line)
		return m.execBlock(scope, s.ElseBranch)
	case *ast.LoopStmt:
		return m.loop(scope, s)
	default:
		return fault.New(fault.ErrUnknownCommand, tok.Text, tok.Line, "cannot execute %T", stmt)
	}
	return nil
}

func (m *Machine) print(scope *env.Env, s *ast.Print) error {
	v, ok := scope.Resolve(s.Name)
	if !ok {
		return fault.New(fault.ErrUndefinedName, s.Name, s.Token.Line, "%s is not declared", s.Name)
	}
	for _, line := range v.Lines(s.Name) {
		if err := m.Out.WriteLine(line); err != nil {
			return fault.IO(err)
		}
	}
	return nil
}

func (m *Machine) arith(scope *env.Env, s *ast.Arith) error {
	target := lexer.Token{Kind: lexer.KindWord, Text: s.Target, Line: s.Token.Line}
	operand := lexer.Token{Kind: lexer.KindWord, Text: s.Operand, Line: s.Token.Line}

	switch s.Token.Kind {
	case lexer.KindAddF, lexer.KindSubF, lexer.KindMulF, lexer.KindDivF:
		a, err := lookupFloat(scope, target)
		if err != nil {
			return err
		}
		b, err := lookupFloat(scope, operand)
		if err != nil {
			return err
		}
		if s.Token.Kind == lexer.KindDivF && b == 0 {
			return fault.New(fault.ErrDivisionByZero, s.Operand, s.Token.Line, "%s %s %s", s.Token.Text, s.Target, s.Operand)
		}
		r, _ := binary(s.Token.Kind, a, b)
		scope.Assign(s.Target, value.OfFloat(r))
		return nil
	}

	a, err := lookupInt(scope, target)
	if err != nil {
		return err
	}
	b, err := lookupInt(scope, operand)
	if err != nil {
		return err
	}

	var r int32
	switch s.Token.Kind {
	case lexer.KindPow:
		if b < 0 {
			return fault.New(fault.ErrInvalidOperand, s.Operand, s.Token.Line, "negative exponent %d", b)
		}
		r = ipow(a, b)
	case lexer.KindDiv:
		if b == 0 {
			return fault.New(fault.ErrDivisionByZero, s.Operand, s.Token.Line, "%s %s %s", s.Token.Text, s.Target, s.Operand)
		}
		fallthrough
	default:
		var ok bool
		if r, ok = binary(s.Token.Kind, a, b); !ok {
			return fault.New(fault.ErrUnknownCommand, s.Token.Text, s.Token.Line, "%q is not arithmetic", s.Token.Text)
		}
	}
	scope.Assign(s.Target, value.OfInt(r))
	return nil
}

func (m *Machine) unary(scope *env.Env, s *ast.Unary) error {
	x, err := lookupInt(scope, lexer.Token{Kind: lexer.KindWord, Text: s.Target, Line: s.Token.Line})
	if err != nil {
		return err
	}
	if s.Token.Kind == lexer.KindSqrt {
		if x < 0 {
			return fault.New(fault.ErrInvalidOperand, s.Target, s.Token.Line, "square root of negative %d", x)
		}
		x = isqrt(x)
	} else {
		x = abs(x)
	}
	scope.Assign(s.Target, value.OfInt(x))
	return nil
}

func (m *Machine) loop(scope *env.Env, s *ast.LoopStmt) error {
	for iter := 0; ; iter++ {
		ok, err := m.test(scope, s.Token, s.Cond)
		if err != nil {
			return err
		}
		if !ok {
			log.LogVf("loop at line %d done after %d iterations", s.Token.Line, iter)
			return nil
		}
		if err := m.execBlock(scope, s.Body); err != nil {
			return err
		}
		if err := m.charge(s.Token); err != nil {
			return err
		}
	}
}

func (m *Machine) test(scope *env.Env, tok lexer.Token, c ast.Condition) (bool, error) {
	v, err := lookupInt(scope, lexer.Token{Kind: lexer.KindWord, Text: c.Name, Line: tok.Line})
	if err != nil {
		return false, err
	}
	return c.Op.Eval(v, c.Value), nil
}

// call runs the named function in a fresh scope enclosing caller. The scope
// and anything declared in it are dropped on return.
func (m *Machine) call(caller *env.Env, tok lexer.Token, name string, args []int32) error {
	fn, ok := caller.Func(name)
	if !ok {
		return fault.New(fault.ErrUndefinedName, name, tok.Line, "function %s is not declared", name)
	}
	if len(args) != len(fn.Params) {
		return fault.New(fault.ErrArityMismatch, name, tok.Line,
			"%s takes %d arguments, got %d", name, len(fn.Params), len(args))
	}
	if m.MaxFrames > 0 && m.depth >= m.MaxFrames {
		return fault.New(fault.ErrStackOverflow, name, tok.Line, "more than %d nested calls", m.MaxFrames)
	}

	m.depth++
	defer func() { m.depth-- }()

	local := env.NewEnclosed(caller)
	for i, p := range fn.Params {
		local.Declare(p, value.OfInt(args[i]))
	}
	log.LogVf("call %s%v depth %d", name, args, m.depth)
	return m.execBlock(local, fn.Body)
}

func lookupInt(scope *env.Env, tok lexer.Token) (int32, error) {
	v, ok := scope.Lookup(value.TypeInt, tok.Text)
	if !ok {
		return 0, fault.New(fault.ErrUndefinedName, tok.Text, tok.Line, "integer %s is not declared", tok.Text)
	}
	return v.Int, nil
}

func lookupFloat(scope *env.Env, tok lexer.Token) (float32, error) {
	v, ok := scope.Lookup(value.TypeFloat, tok.Text)
	if !ok {
		return 0, fault.New(fault.ErrUndefinedName, tok.Text, tok.Line, "float %s is not declared", tok.Text)
	}
	return v.Float, nil
}

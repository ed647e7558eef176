// Package emitter writes a parsed program back out as canonical source: one
// statement per line, blocks indented by two spaces.
package emitter

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/agenthands/nscript/pkg/compiler/ast"
	"github.com/agenthands/nscript/pkg/core/value"
)

const indentUnit = "  "

type Emitter struct {
	buf   bytes.Buffer
	depth int
}

func NewEmitter() *Emitter {
	return &Emitter{}
}

// Emit formats prog. Parsing the result yields an equivalent program.
func (e *Emitter) Emit(prog *ast.Program) ([]byte, error) {
	e.buf.Reset()
	e.depth = 0
	if err := e.emitBlock(prog.Statements); err != nil {
		return nil, err
	}
	return bytes.Clone(e.buf.Bytes()), nil
}

// Format is a shorthand for NewEmitter().Emit(prog).
func Format(prog *ast.Program) ([]byte, error) {
	return NewEmitter().Emit(prog)
}

func (e *Emitter) emitBlock(stmts []ast.Statement) error {
	for _, stmt := range stmts {
		if err := e.emitNode(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emitter) emitNode(node ast.Statement) error {
	switch n := node.(type) {
	case *ast.VarDecl:
		e.line("var", n.Name, itoa(n.Value))
	case *ast.FloatDecl:
		e.line("float", n.Name, value.FormatFloat(n.Value))
	case *ast.StringDecl:
		if n.Value == "" {
			e.line("string", n.Name, "endstring")
		} else {
			e.line("string", n.Name, n.Value, "endstring")
		}
	case *ast.ArrayDecl:
		words := []string{"array", n.Name, strconv.Itoa(len(n.Elems))}
		for _, el := range n.Elems {
			words = append(words, itoa(el))
		}
		e.line(words...)
	case *ast.StructDecl:
		words := []string{"struct", n.Name}
		for _, f := range n.Fields {
			words = append(words, f.Name, itoa(f.Value))
		}
		e.line(append(words, "endstruct")...)
	case *ast.Print:
		e.line("print", n.Name)
	case *ast.Arith:
		e.line(n.Token.Text, n.Target, n.Operand)
	case *ast.Unary:
		e.line(n.Token.Text, n.Target)
	case *ast.Function:
		words := append([]string{"function", n.Name}, n.Params...)
		e.line(append(words, "with")...)
		if err := e.indented(n.Body); err != nil {
			return err
		}
		e.line("end")
	case *ast.Call:
		words := []string{"call", n.Name}
		for _, a := range n.Args {
			if a.Literal {
				words = append(words, itoa(a.Value))
			} else {
				words = append(words, a.Token.Text)
			}
		}
		e.line(words...)
	case *ast.IfStmt:
		e.line("if", n.Cond.Name, n.Cond.Op.String(), itoa(n.Cond.Value))
		if err := e.indented(n.ThenBranch); err != nil {
			return err
		}
		if n.HasElse {
			e.line("else")
			if err := e.indented(n.ElseBranch); err != nil {
				return err
			}
		}
		e.line("end")
	case *ast.LoopStmt:
		e.line("loop", n.Cond.Name, n.Cond.Op.String(), itoa(n.Cond.Value))
		if err := e.indented(n.Body); err != nil {
			return err
		}
		e.line("end")
	default:
		return fmt.Errorf("emitter: unsupported statement %T", node)
	}
	return nil
}

func (e *Emitter) indented(stmts []ast.Statement) error {
	e.depth++
	defer func() { e.depth-- }()
	return e.emitBlock(stmts)
}

func (e *Emitter) line(words ...string) {
	for i := 0; i < e.depth; i++ {
		e.buf.WriteString(indentUnit)
	}
	for i, w := range words {
		if i > 0 {
			e.buf.WriteByte(' ')
		}
		e.buf.WriteString(w)
	}
	e.buf.WriteByte('\n')
}

func itoa(v int32) string {
	return strconv.FormatInt(int64(v), 10)
}

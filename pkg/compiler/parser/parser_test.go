package parser_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/agenthands/nscript/pkg/compiler/ast"
	"github.com/agenthands/nscript/pkg/compiler/parser"
	"github.com/agenthands/nscript/pkg/core/fault"
	"github.com/agenthands/nscript/pkg/core/value"
)

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		wantErr    error
		incomplete bool
	}{
		{"unknown command", "frobnicate", fault.ErrUnknownCommand, false},
		{"stray else", "var x 1 else", fault.ErrUnknownCommand, false},
		{"stray endstruct", "endstruct", fault.ErrUnknownCommand, false},
		{"var without value", "var x", fault.ErrMissingOperand, true},
		{"keyword as operand", "print end", fault.ErrMissingOperand, false},
		{"bad integer", "var x ten", fault.ErrParseLiteral, false},
		{"integer overflow", "var x 2147483648", fault.ErrParseLiteral, false},
		{"bad float", "float f 1.2.3", fault.ErrParseLiteral, false},
		{"negative array size", "array a -1", fault.ErrParseLiteral, false},
		{"short array", "array a 3 1 2", fault.ErrMissingOperand, true},
		{"open string", "string s hello", fault.ErrMissingOperand, true},
		{"open struct", "struct s a 1", fault.ErrMissingOperand, true},
		{"struct field without value", "struct s a endstruct", fault.ErrMissingOperand, false},
		{"bad comparison", "var x 1 if x ~ 1 end", fault.ErrParseLiteral, false},
		{"open if", "var x 1 if x == 1 print x", fault.ErrMissingOperand, true},
		{"open loop", "loop x < 3", fault.ErrMissingOperand, true},
		{"function without with", "function f a b", fault.ErrMissingOperand, true},
		{"function with keyword param", "function f print with end", fault.ErrMissingOperand, false},
		{"float call argument", "call f 1.5", fault.ErrParseLiteral, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ParseString(tt.src)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseString() error = %v, want %v", err, tt.wantErr)
			}
			if got := fault.IsIncomplete(err); got != tt.incomplete {
				t.Errorf("IsIncomplete() = %v, want %v (%v)", got, tt.incomplete, err)
			}
		})
	}
}

func TestParseDeclarations(t *testing.T) {
	prog, err := parser.ParseString(`
		var i -7
		float f 6.83
		string s I am   a string endstring
		array a 3 1 2 3
		struct p x 2 y 3 endstruct
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Statements) != 5 {
		t.Fatalf("expected 5 statements, got %d", len(prog.Statements))
	}

	if v := prog.Statements[0].(*ast.VarDecl); v.Name != "i" || v.Value != -7 {
		t.Errorf("unexpected var: %+v", v)
	}
	if f := prog.Statements[1].(*ast.FloatDecl); f.Name != "f" || f.Value != float32(6.83) {
		t.Errorf("unexpected float: %+v", f)
	}
	if s := prog.Statements[2].(*ast.StringDecl); s.Value != "I am a string" {
		t.Errorf("expected words joined by single spaces, got %q", s.Value)
	}
	if a := prog.Statements[3].(*ast.ArrayDecl); !reflect.DeepEqual(a.Elems, []int32{1, 2, 3}) {
		t.Errorf("unexpected array: %v", a.Elems)
	}
	wantFields := []value.Field{{Name: "x", Value: 2}, {Name: "y", Value: 3}}
	if s := prog.Statements[4].(*ast.StructDecl); !reflect.DeepEqual(s.Fields, wantFields) {
		t.Errorf("unexpected struct fields: %v", s.Fields)
	}
}

func TestParseNestedBlocks(t *testing.T) {
	prog, err := parser.ParseString(`
		var x 0
		loop x < 3
			if x == 1
				print x
			else
				loop y > 0 sub y one end
			end
			add x one
		end
		end
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Statements) != 2 {
		t.Fatalf("expected var and loop at top level, got %d statements", len(prog.Statements))
	}

	loop := prog.Statements[1].(*ast.LoopStmt)
	if loop.Cond != (ast.Condition{Name: "x", Op: ast.OpLt, Value: 3}) {
		t.Errorf("unexpected loop condition: %+v", loop.Cond)
	}
	if len(loop.Body) != 2 {
		t.Fatalf("expected if and add in loop body, got %d", len(loop.Body))
	}

	ifStmt := loop.Body[0].(*ast.IfStmt)
	if !ifStmt.HasElse || len(ifStmt.ThenBranch) != 1 || len(ifStmt.ElseBranch) != 1 {
		t.Errorf("unexpected if shape: %+v", ifStmt)
	}
	if _, ok := ifStmt.ElseBranch[0].(*ast.LoopStmt); !ok {
		t.Errorf("expected nested loop in else branch, got %T", ifStmt.ElseBranch[0])
	}
}

func TestParseFunctionHeaders(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		wantParams []string
		wantBody   int
	}{
		{"params before with", "function f a b with print a end", []string{"a", "b"}, 1},
		{"params after with", "function f with x var a 10 print a end", []string{"x"}, 2},
		{"no params", "function f with var a 5 var b 6 add a b print a end", nil, 4},
		{"both sides", "function f a with b print b end", []string{"a", "b"}, 1},
		{"empty body", "function f with end", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := parser.ParseString(tt.src)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			fn := prog.Statements[0].(*ast.Function)
			if !reflect.DeepEqual(fn.Params, tt.wantParams) {
				t.Errorf("expected params %v, got %v", tt.wantParams, fn.Params)
			}
			if len(fn.Body) != tt.wantBody {
				t.Errorf("expected %d body statements, got %d", tt.wantBody, len(fn.Body))
			}
		})
	}
}

func TestParseCallArguments(t *testing.T) {
	prog, err := parser.ParseString("call f 10 -3 n print n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Statements) != 2 {
		t.Fatalf("expected call and print, got %d statements", len(prog.Statements))
	}

	call := prog.Statements[0].(*ast.Call)
	if len(call.Args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(call.Args))
	}
	if !call.Args[0].Literal || call.Args[0].Value != 10 {
		t.Errorf("unexpected first arg: %+v", call.Args[0])
	}
	if !call.Args[1].Literal || call.Args[1].Value != -3 {
		t.Errorf("unexpected second arg: %+v", call.Args[1])
	}
	if call.Args[2].Literal || call.Args[2].Token.Text != "n" {
		t.Errorf("unexpected third arg: %+v", call.Args[2])
	}
}

func TestStrayEndIsNoop(t *testing.T) {
	prog, err := parser.ParseString("end var x 1 end end print x end")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Statements) != 2 {
		t.Errorf("expected 2 statements, got %d", len(prog.Statements))
	}
}

func FuzzParse(f *testing.F) {
	f.Add("var x 0 var y 1 loop x < 5 add x y end end print x")
	f.Add("function f a with print a end call f 1")
	f.Add("struct s a 1 endstruct if s == 1 else end")
	f.Add("string s endstring array a 2 1")

	f.Fuzz(func(t *testing.T, src string) {
		prog, err := parser.ParseString(src)
		if err == nil && prog == nil {
			t.Fatalf("nil program without error")
		}
		var fe *fault.Error
		if err != nil && !errors.As(err, &fe) {
			t.Fatalf("untyped parse error: %v", err)
		}
	})
}

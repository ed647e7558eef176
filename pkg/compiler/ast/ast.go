package ast

import (
	"github.com/agenthands/nscript/pkg/compiler/lexer"
	"github.com/agenthands/nscript/pkg/core/value"
)

// Node represents any node in the Abstract Syntax Tree.
type Node interface {
	Pos() lexer.Token
}

// Statement represents a standalone unit of execution.
type Statement interface {
	Node
	stmtNode()
}

// Program is the root node.
type Program struct {
	Statements []Statement
}

// VarDecl: var NAME INT
type VarDecl struct {
	Token lexer.Token
	Name  string
	Value int32
}

func (d *VarDecl) Pos() lexer.Token { return d.Token }
func (d *VarDecl) stmtNode()        {}

// FloatDecl: float NAME FLOAT
type FloatDecl struct {
	Token lexer.Token
	Name  string
	Value float32
}

func (d *FloatDecl) Pos() lexer.Token { return d.Token }
func (d *FloatDecl) stmtNode()        {}

// StringDecl: string NAME WORDS... endstring
type StringDecl struct {
	Token lexer.Token
	Name  string
	Value string
}

func (d *StringDecl) Pos() lexer.Token { return d.Token }
func (d *StringDecl) stmtNode()        {}

// ArrayDecl: array NAME SIZE INT...
type ArrayDecl struct {
	Token lexer.Token
	Name  string
	Elems []int32
}

func (d *ArrayDecl) Pos() lexer.Token { return d.Token }
func (d *ArrayDecl) stmtNode()        {}

// StructDecl: struct NAME (FIELD INT)... endstruct
type StructDecl struct {
	Token  lexer.Token
	Name   string
	Fields []value.Field
}

func (d *StructDecl) Pos() lexer.Token { return d.Token }
func (d *StructDecl) stmtNode()        {}

// Print: print NAME
type Print struct {
	Token lexer.Token
	Name  string
}

func (p *Print) Pos() lexer.Token { return p.Token }
func (p *Print) stmtNode()        {}

// Arith: OP TARGET OPERAND, where Token.Kind is one of add, sub, mul, div,
// pow or their _f float variants.
type Arith struct {
	Token   lexer.Token
	Target  string
	Operand string
}

func (a *Arith) Pos() lexer.Token { return a.Token }
func (a *Arith) stmtNode()        {}

// Unary: sqrt NAME | abs NAME
type Unary struct {
	Token  lexer.Token
	Target string
}

func (u *Unary) Pos() lexer.Token { return u.Token }
func (u *Unary) stmtNode()        {}

// Function: function NAME PARAMS... with BODY end
type Function struct {
	Token  lexer.Token
	Name   string
	Params []string
	Body   []Statement
}

func (f *Function) Pos() lexer.Token { return f.Token }
func (f *Function) stmtNode()        {}

// Arg is one call argument: an integer literal or the name of an integer.
type Arg struct {
	Token   lexer.Token
	Literal bool
	Value   int32
}

// Call: call NAME ARGS...
type Call struct {
	Token lexer.Token
	Name  string
	Args  []Arg
}

func (c *Call) Pos() lexer.Token { return c.Token }
func (c *Call) stmtNode()        {}

// Condition compares a named integer with a literal.
type Condition struct {
	Name  string
	Op    CmpOp
	Value int32
}

// IfStmt: if COND THEN [else ELSE] end
type IfStmt struct {
	Token      lexer.Token
	Cond       Condition
	ThenBranch []Statement
	ElseBranch []Statement
	HasElse    bool
}

func (i *IfStmt) Pos() lexer.Token { return i.Token }
func (i *IfStmt) stmtNode()        {}

// LoopStmt: loop COND BODY end
type LoopStmt struct {
	Token lexer.Token
	Cond  Condition
	Body  []Statement
}

func (l *LoopStmt) Pos() lexer.Token { return l.Token }
func (l *LoopStmt) stmtNode()        {}

package parser

import (
	"strconv"

	"github.com/agenthands/nscript/pkg/compiler/ast"
	"github.com/agenthands/nscript/pkg/compiler/lexer"
	"github.com/agenthands/nscript/pkg/core/fault"
	"github.com/agenthands/nscript/pkg/core/value"
)

// Parser builds a statement tree from the scanner's tokens. Blocks are
// captured once here and never re-scanned.
type Parser struct {
	scanner *lexer.Scanner
	curTok  lexer.Token
}

func NewParser(s *lexer.Scanner) *Parser {
	p := &Parser{scanner: s}
	p.nextToken()
	return p
}

// ParseString lexes and parses a complete program.
func ParseString(src string) (*ast.Program, error) {
	return NewParser(lexer.NewScanner(src)).Parse()
}

func (p *Parser) nextToken() {
	p.curTok = p.scanner.Next()
}

func (p *Parser) Parse() (*ast.Program, error) {
	program := &ast.Program{}

	for p.curTok.Kind != lexer.KindEOF {
		if p.curTok.Kind == lexer.KindEnd {
			// a stray end is a no-op
			p.nextToken()
			continue
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		program.Statements = append(program.Statements, stmt)
	}

	return program, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.curTok.Kind {
	case lexer.KindVar:
		return p.parseVar()
	case lexer.KindFloat:
		return p.parseFloat()
	case lexer.KindString:
		return p.parseString()
	case lexer.KindArray:
		return p.parseArray()
	case lexer.KindStruct:
		return p.parseStruct()
	case lexer.KindPrint:
		tok := p.curTok
		p.nextToken()
		name, err := p.expectName(tok)
		if err != nil {
			return nil, err
		}
		return &ast.Print{Token: tok, Name: name}, nil
	case lexer.KindAdd, lexer.KindSub, lexer.KindMul, lexer.KindDiv, lexer.KindPow,
		lexer.KindAddF, lexer.KindSubF, lexer.KindMulF, lexer.KindDivF:
		return p.parseArith()
	case lexer.KindSqrt, lexer.KindAbs:
		tok := p.curTok
		p.nextToken()
		name, err := p.expectName(tok)
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Token: tok, Target: name}, nil
	case lexer.KindFunction:
		return p.parseFunction()
	case lexer.KindCall:
		return p.parseCall()
	case lexer.KindIf:
		return p.parseIfStmt()
	case lexer.KindLoop:
		return p.parseLoopStmt()
	default:
		return nil, fault.New(fault.ErrUnknownCommand, p.curTok.Text, p.curTok.Line, "%q", p.curTok.Text)
	}
}

func (p *Parser) parseVar() (ast.Statement, error) {
	tok := p.curTok
	p.nextToken()
	name, err := p.expectName(tok)
	if err != nil {
		return nil, err
	}
	v, err := p.expectInt(tok)
	if err != nil {
		return nil, err
	}
	return &ast.VarDecl{Token: tok, Name: name, Value: v}, nil
}

func (p *Parser) parseFloat() (ast.Statement, error) {
	tok := p.curTok
	p.nextToken()
	name, err := p.expectName(tok)
	if err != nil {
		return nil, err
	}
	lit, err := p.expectOperand(tok, "float")
	if err != nil {
		return nil, err
	}
	f, perr := strconv.ParseFloat(lit.Text, 32)
	if perr != nil {
		return nil, fault.New(fault.ErrParseLiteral, lit.Text, lit.Line, "%q is not a float", lit.Text)
	}
	return &ast.FloatDecl{Token: tok, Name: name, Value: float32(f)}, nil
}

func (p *Parser) parseString() (ast.Statement, error) {
	tok := p.curTok
	p.nextToken()
	name, err := p.expectName(tok)
	if err != nil {
		return nil, err
	}

	var text []byte
	for p.curTok.Kind != lexer.KindEndString {
		if p.curTok.Kind == lexer.KindEOF {
			return nil, p.incomplete(tok, "endstring")
		}
		if len(text) > 0 {
			text = append(text, ' ')
		}
		text = append(text, p.curTok.Text...)
		p.nextToken()
	}
	p.nextToken() // skip endstring

	return &ast.StringDecl{Token: tok, Name: name, Value: string(text)}, nil
}

func (p *Parser) parseArray() (ast.Statement, error) {
	tok := p.curTok
	p.nextToken()
	name, err := p.expectName(tok)
	if err != nil {
		return nil, err
	}

	sizeTok := p.curTok
	size, err := p.expectInt(tok)
	if err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, fault.New(fault.ErrParseLiteral, sizeTok.Text, sizeTok.Line, "array size %d is negative", size)
	}

	elems := make([]int32, 0, min(size, 1024))
	for i := int32(0); i < size; i++ {
		v, err := p.expectInt(tok)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	return &ast.ArrayDecl{Token: tok, Name: name, Elems: elems}, nil
}

func (p *Parser) parseStruct() (ast.Statement, error) {
	tok := p.curTok
	p.nextToken()
	name, err := p.expectName(tok)
	if err != nil {
		return nil, err
	}

	var fields []value.Field
	for p.curTok.Kind != lexer.KindEndStruct {
		field, err := p.expectName(tok)
		if err != nil {
			if fault.IsIncomplete(err) {
				return nil, p.incomplete(tok, "endstruct")
			}
			return nil, err
		}
		v, err := p.expectInt(tok)
		if err != nil {
			return nil, err
		}
		fields = append(fields, value.Field{Name: field, Value: v})
	}
	p.nextToken() // skip endstruct

	return &ast.StructDecl{Token: tok, Name: name, Fields: fields}, nil
}

func (p *Parser) parseArith() (ast.Statement, error) {
	tok := p.curTok
	p.nextToken()
	target, err := p.expectName(tok)
	if err != nil {
		return nil, err
	}
	operand, err := p.expectName(tok)
	if err != nil {
		return nil, err
	}
	return &ast.Arith{Token: tok, Target: target, Operand: operand}, nil
}

func (p *Parser) parseCall() (ast.Statement, error) {
	tok := p.curTok
	p.nextToken()
	name, err := p.expectName(tok)
	if err != nil {
		return nil, err
	}

	call := &ast.Call{Token: tok, Name: name}
	for p.curTok.Kind == lexer.KindWord {
		arg := ast.Arg{Token: p.curTok}
		if looksNumeric(p.curTok.Text) {
			v, err := parseInt(p.curTok)
			if err != nil {
				return nil, err
			}
			arg.Literal = true
			arg.Value = v
		}
		call.Args = append(call.Args, arg)
		p.nextToken()
	}
	return call, nil
}

// parseFunction reads "function NAME P... with P... BODY end". Parameters may
// appear before with, or right after it up to the first keyword.
func (p *Parser) parseFunction() (ast.Statement, error) {
	tok := p.curTok
	p.nextToken()
	name, err := p.expectName(tok)
	if err != nil {
		return nil, err
	}

	fn := &ast.Function{Token: tok, Name: name}
	for p.curTok.Kind == lexer.KindWord {
		fn.Params = append(fn.Params, p.curTok.Text)
		p.nextToken()
	}
	if p.curTok.Kind != lexer.KindWith {
		if p.curTok.Kind == lexer.KindEOF {
			return nil, p.incomplete(tok, "with")
		}
		return nil, fault.New(fault.ErrMissingOperand, p.curTok.Text, p.curTok.Line,
			"expected with in function %s, found %s", name, p.curTok.Text)
	}
	p.nextToken() // skip with

	for p.curTok.Kind == lexer.KindWord {
		fn.Params = append(fn.Params, p.curTok.Text)
		p.nextToken()
	}

	fn.Body, err = p.parseBlock(tok, lexer.KindEnd)
	if err != nil {
		return nil, err
	}
	p.nextToken() // skip end

	return fn, nil
}

func (p *Parser) parseIfStmt() (ast.Statement, error) {
	ifTok := p.curTok
	p.nextToken() // skip if

	cond, err := p.parseCondition(ifTok)
	if err != nil {
		return nil, err
	}

	thenBranch, err := p.parseBlock(ifTok, lexer.KindElse, lexer.KindEnd)
	if err != nil {
		return nil, err
	}

	stmt := &ast.IfStmt{Token: ifTok, Cond: cond, ThenBranch: thenBranch}
	if p.curTok.Kind == lexer.KindElse {
		p.nextToken() // skip else
		stmt.HasElse = true
		stmt.ElseBranch, err = p.parseBlock(ifTok, lexer.KindEnd)
		if err != nil {
			return nil, err
		}
	}
	p.nextToken() // skip end

	return stmt, nil
}

func (p *Parser) parseLoopStmt() (ast.Statement, error) {
	loopTok := p.curTok
	p.nextToken() // skip loop

	cond, err := p.parseCondition(loopTok)
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock(loopTok, lexer.KindEnd)
	if err != nil {
		return nil, err
	}
	p.nextToken() // skip end

	return &ast.LoopStmt{Token: loopTok, Cond: cond, Body: body}, nil
}

func (p *Parser) parseCondition(owner lexer.Token) (ast.Condition, error) {
	name, err := p.expectName(owner)
	if err != nil {
		return ast.Condition{}, err
	}
	opTok, err := p.expectOperand(owner, "comparison")
	if err != nil {
		return ast.Condition{}, err
	}
	op, ok := ast.ParseCmpOp(opTok.Text)
	if !ok {
		return ast.Condition{}, fault.New(fault.ErrParseLiteral, opTok.Text, opTok.Line, "%q is not a comparison operator", opTok.Text)
	}
	v, err := p.expectInt(owner)
	if err != nil {
		return ast.Condition{}, err
	}
	return ast.Condition{Name: name, Op: op, Value: v}, nil
}

// parseBlock reads statements until one of the terminators and leaves the
// terminator as the current token.
func (p *Parser) parseBlock(owner lexer.Token, terminators ...lexer.Kind) ([]ast.Statement, error) {
	var stmts []ast.Statement
	for !p.isTerminator(p.curTok.Kind, terminators) {
		if p.curTok.Kind == lexer.KindEOF {
			return nil, p.incomplete(owner, "end")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (p *Parser) isTerminator(k lexer.Kind, terminators []lexer.Kind) bool {
	for _, t := range terminators {
		if k == t {
			return true
		}
	}
	return false
}

// expectOperand consumes the next token as an operand of owner.
func (p *Parser) expectOperand(owner lexer.Token, what string) (lexer.Token, error) {
	tok := p.curTok
	switch tok.Kind {
	case lexer.KindEOF:
		return tok, p.incomplete(owner, what)
	case lexer.KindWord:
		p.nextToken()
		return tok, nil
	default:
		return tok, fault.New(fault.ErrMissingOperand, tok.Text, tok.Line,
			"expected %s after %s, found keyword %s", what, owner.Text, tok.Text)
	}
}

func (p *Parser) expectName(owner lexer.Token) (string, error) {
	tok, err := p.expectOperand(owner, "name")
	return tok.Text, err
}

func (p *Parser) expectInt(owner lexer.Token) (int32, error) {
	tok, err := p.expectOperand(owner, "integer")
	if err != nil {
		return 0, err
	}
	return parseInt(tok)
}

func (p *Parser) incomplete(owner lexer.Token, what string) error {
	return &fault.Error{
		Kind:   fault.ErrMissingOperand,
		Line:   p.curTok.Line,
		Detail: "expected " + what + " for " + owner.Text + " at line " + strconv.Itoa(int(owner.Line)),
	}
}

func parseInt(tok lexer.Token) (int32, error) {
	v, err := strconv.ParseInt(tok.Text, 10, 32)
	if err != nil {
		return 0, fault.New(fault.ErrParseLiteral, tok.Text, tok.Line, "%q is not a 32-bit integer", tok.Text)
	}
	return int32(v), nil
}

func looksNumeric(text string) bool {
	if text == "" {
		return false
	}
	c := text[0]
	if (c == '-' || c == '+' || c == '.') && len(text) > 1 {
		c = text[1]
	}
	return c >= '0' && c <= '9'
}

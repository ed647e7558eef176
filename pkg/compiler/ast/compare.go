package ast

// CmpOp is a comparison operator of an if or loop condition.
type CmpOp uint8

const (
	OpEq CmpOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

var cmpOps = map[string]CmpOp{
	"==": OpEq,
	"!=": OpNe,
	"<":  OpLt,
	"<=": OpLe,
	">":  OpGt,
	">=": OpGe,
}

// ParseCmpOp maps operator text to its CmpOp.
func ParseCmpOp(text string) (CmpOp, bool) {
	op, ok := cmpOps[text]
	return op, ok
}

func (op CmpOp) String() string {
	for text, o := range cmpOps {
		if o == op {
			return text
		}
	}
	return "?"
}

// Eval applies the operator to a and b.
func (op CmpOp) Eval(a, b int32) bool {
	switch op {
	case OpEq:
		return a == b
	case OpNe:
		return a != b
	case OpLt:
		return a < b
	case OpLe:
		return a <= b
	case OpGt:
		return a > b
	case OpGe:
		return a >= b
	}
	return false
}

package lang

// OperatorKind is the closed set of 13 binary operators (MSOperator).
type OperatorKind int

const (
	Add OperatorKind = iota
	Subtract
	Multiply
	Divide
	Modulo
	And
	Or
	Equality
	Inequality
	Greater
	Lesser
	GreaterEqual
	LesserEqual
)

// Operator describes one entry of the fixed operator table: its surface
// symbol and its precedence level. Multi-character symbols must be tried
// before their single-character prefixes, so Operators is ordered longest
// symbol first within each precedence tier.
type Operator struct {
	Symbol     string
	Kind       OperatorKind
	Precedence int
}

// Operators is the fixed operator table, in lexer match order: longer
// symbols are listed before any symbol they prefix (">=" before ">", etc.)
// so a longest-match scan never mis-tokenizes a two-character operator as
// two single-character ones.
var Operators = []Operator{
	{"==", Equality, 20},
	{"!=", Inequality, 20},
	{">=", GreaterEqual, 30},
	{"<=", LesserEqual, 30},
	{">", Greater, 30},
	{"<", Lesser, 30},
	{"+", Add, 40},
	{"-", Subtract, 40},
	{"*", Multiply, 50},
	{"/", Divide, 50},
	{"%", Modulo, 50},
	{"and", And, 10},
	{"or", Or, 10},
}

// String returns the operator's surface symbol.
func (k OperatorKind) String() string {
	for _, op := range Operators {
		if op.Kind == k {
			return op.Symbol
		}
	}
	return "<unknown operator>"
}

// Lookup finds the Operator table entry for a surface symbol, trying
// multi-character operators before any single-character prefix they share,
// per the fixed table order above.
func Lookup(symbol string) (Operator, bool) {
	for _, op := range Operators {
		if op.Symbol == symbol {
			return op, true
		}
	}
	return Operator{}, false
}

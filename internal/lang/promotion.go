package lang

// Promote returns the wider of two numeric types per the symmetric
// promotion ranking Bool < Int < Float. Both operands must satisfy
// IsNumeric; callers are expected to have already rejected String and
// Void operands of binary arithmetic.
func Promote(lhs, rhs Type) Type {
	rank := func(t Type) int {
		switch t {
		case Bool:
			return 0
		case Int:
			return 1
		case Float:
			return 2
		default:
			return -1
		}
	}
	if rank(rhs) > rank(lhs) {
		return rhs
	}
	return lhs
}

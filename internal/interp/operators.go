package interp

import (
	"math"

	"vex/internal/token"
	"vex/internal/value"
)

// maxRangeCount bounds what the ':' operator will materialize.
const maxRangeCount = 100000000

// recycledCount applies the recycling rule: equal sizes, or one operand of
// size one.
func recycledCount(op string, a, b value.Value, pos, end int) (int, error) {
	na, nb := a.Count(), b.Count()
	if na == nb {
		return na, nil
	}
	if na == 1 {
		return nb, nil
	}
	if nb == 1 {
		return na, nil
	}
	return 0, value.Scriptf(pos, end, "operator '%s' requires that both operands have the same size(), or that one operand has size() 1", op)
}

// pick maps a result index onto an operand index under recycling.
func pick(i, n int) int {
	if n == 1 {
		return 0
	}
	return i
}

func isNumericKind(k value.Kind) bool {
	return k == value.KindInteger || k == value.KindFloat
}

func isLogicalEquivKind(k value.Kind) bool {
	return k == value.KindLogical || k == value.KindInteger || k == value.KindFloat
}

func operandError(op string, k value.Kind, pos, end int) error {
	return value.Scriptf(pos, end, "operand of type %s is not supported by operator '%s'", k, op)
}

func evalBinaryOp(op token.TokenType, a, b value.Value, pos, end int) (value.Value, error) {
	lit := string(op)
	switch op {
	case token.PLUS:
		if a.Kind() == value.KindString || b.Kind() == value.KindString {
			return concatOp(a, b, pos, end)
		}
		return arithmeticOp(lit, a, b, pos, end, addInt64, func(x, y float64) float64 { return x + y })
	case token.MINUS:
		return arithmeticOp(lit, a, b, pos, end, subInt64, func(x, y float64) float64 { return x - y })
	case token.ASTERISK:
		return arithmeticOp(lit, a, b, pos, end, mulInt64, func(x, y float64) float64 { return x * y })
	case token.SLASH:
		return floatOp(lit, a, b, pos, end, func(x, y float64) float64 { return x / y })
	case token.CARET:
		return floatOp(lit, a, b, pos, end, math.Pow)
	case token.PERCENT:
		return moduloOp(a, b, pos, end)
	case token.EQ, token.NOT_EQ, token.LT, token.LT_EQ, token.GT, token.GT_EQ:
		return comparisonOp(op, a, b, pos, end)
	case token.AND, token.OR:
		return logicalOp(op, a, b, pos, end)
	case token.COLON:
		return rangeOp(a, b, pos, end)
	}
	return nil, value.Internalf("unhandled binary operator '%s'", lit)
}

func evalUnaryOp(op token.TokenType, v value.Value, pos, end int) (value.Value, error) {
	switch op {
	case token.MINUS:
		switch t := v.(type) {
		case *value.Integer:
			out := make([]int64, t.Count())
			for i, n := range t.Values {
				if n == math.MinInt64 {
					return nil, value.Scriptf(pos, end, "integer overflow with the unary '-' operator")
				}
				out[i] = -n
			}
			return value.NewInteger(out...), nil
		case *value.Float:
			out := make([]float64, t.Count())
			for i, f := range t.Values {
				out[i] = -f
			}
			return value.NewFloat(out...), nil
		}
		return nil, operandError("-", v.Kind(), pos, end)
	case token.PLUS:
		if !isNumericKind(v.Kind()) {
			return nil, operandError("+", v.Kind(), pos, end)
		}
		return v.Borrow(), nil
	case token.BANG:
		if !isLogicalEquivKind(v.Kind()) {
			return nil, operandError("!", v.Kind(), pos, end)
		}
		out := make([]bool, v.Count())
		for i := range out {
			b, err := value.LogicalAt(v, i)
			if err != nil {
				return nil, positioned(err, pos, end)
			}
			out[i] = !b
		}
		return value.NewLogical(out...), nil
	}
	return nil, value.Internalf("unhandled unary operator '%s'", op)
}

// arithmeticOp runs + - * with the integer path kept exact and overflow
// checked; the result is float if either operand is float.
func arithmeticOp(op string, a, b value.Value, pos, end int, intFn func(int64, int64) (int64, bool), floatFn func(float64, float64) float64) (value.Value, error) {
	if !isNumericKind(a.Kind()) {
		return nil, operandError(op, a.Kind(), pos, end)
	}
	if !isNumericKind(b.Kind()) {
		return nil, operandError(op, b.Kind(), pos, end)
	}
	n, err := recycledCount(op, a, b, pos, end)
	if err != nil {
		return nil, err
	}
	na, nb := a.Count(), b.Count()
	if a.Kind() == value.KindFloat || b.Kind() == value.KindFloat {
		out := make([]float64, n)
		for i := range out {
			x, _ := value.FloatAt(a, pick(i, na))
			y, _ := value.FloatAt(b, pick(i, nb))
			out[i] = floatFn(x, y)
		}
		return value.NewFloat(out...), nil
	}
	ai := a.(*value.Integer)
	bi := b.(*value.Integer)
	out := make([]int64, n)
	for i := range out {
		r, ok := intFn(ai.Values[pick(i, na)], bi.Values[pick(i, nb)])
		if !ok {
			return nil, value.Scriptf(pos, end, "integer overflow with the '%s' operator", op)
		}
		out[i] = r
	}
	return value.NewInteger(out...), nil
}

// floatOp runs / and ^, which always produce float.
func floatOp(op string, a, b value.Value, pos, end int, fn func(float64, float64) float64) (value.Value, error) {
	if !isNumericKind(a.Kind()) {
		return nil, operandError(op, a.Kind(), pos, end)
	}
	if !isNumericKind(b.Kind()) {
		return nil, operandError(op, b.Kind(), pos, end)
	}
	n, err := recycledCount(op, a, b, pos, end)
	if err != nil {
		return nil, err
	}
	na, nb := a.Count(), b.Count()
	out := make([]float64, n)
	for i := range out {
		x, _ := value.FloatAt(a, pick(i, na))
		y, _ := value.FloatAt(b, pick(i, nb))
		out[i] = fn(x, y)
	}
	return value.NewFloat(out...), nil
}

// moduloOp keeps integer modulo exact for integer operands and uses fmod
// otherwise.
func moduloOp(a, b value.Value, pos, end int) (value.Value, error) {
	if !isNumericKind(a.Kind()) {
		return nil, operandError("%", a.Kind(), pos, end)
	}
	if !isNumericKind(b.Kind()) {
		return nil, operandError("%", b.Kind(), pos, end)
	}
	n, err := recycledCount("%", a, b, pos, end)
	if err != nil {
		return nil, err
	}
	na, nb := a.Count(), b.Count()
	if a.Kind() == value.KindInteger && b.Kind() == value.KindInteger {
		ai := a.(*value.Integer)
		bi := b.(*value.Integer)
		out := make([]int64, n)
		for i := range out {
			y := bi.Values[pick(i, nb)]
			if y == 0 {
				return nil, value.Scriptf(pos, end, "integer modulo by zero with the '%%' operator")
			}
			out[i] = ai.Values[pick(i, na)] % y
		}
		return value.NewInteger(out...), nil
	}
	out := make([]float64, n)
	for i := range out {
		x, _ := value.FloatAt(a, pick(i, na))
		y, _ := value.FloatAt(b, pick(i, nb))
		out[i] = math.Mod(x, y)
	}
	return value.NewFloat(out...), nil
}

// concatOp is '+' with at least one string operand.
func concatOp(a, b value.Value, pos, end int) (value.Value, error) {
	for _, v := range []value.Value{a, b} {
		switch v.Kind() {
		case value.KindNull, value.KindObject:
			return nil, operandError("+", v.Kind(), pos, end)
		}
	}
	n, err := recycledCount("+", a, b, pos, end)
	if err != nil {
		return nil, err
	}
	na, nb := a.Count(), b.Count()
	out := make([]string, n)
	for i := range out {
		x, err := value.StringAt(a, pick(i, na))
		if err != nil {
			return nil, positioned(err, pos, end)
		}
		y, err := value.StringAt(b, pick(i, nb))
		if err != nil {
			return nil, positioned(err, pos, end)
		}
		out[i] = x + y
	}
	return value.NewString(out...), nil
}

func comparisonOp(op token.TokenType, a, b value.Value, pos, end int) (value.Value, error) {
	lit := string(op)
	if a.Kind() == value.KindNull || b.Kind() == value.KindNull {
		return nil, operandError(lit, value.KindNull, pos, end)
	}
	isObj := a.Kind() == value.KindObject || b.Kind() == value.KindObject
	if isObj {
		if a.Kind() != b.Kind() {
			return nil, operandError(lit, value.KindObject, pos, end)
		}
		if op != token.EQ && op != token.NOT_EQ {
			return nil, operandError(lit, value.KindObject, pos, end)
		}
	}
	n, err := recycledCount(lit, a, b, pos, end)
	if err != nil {
		return nil, err
	}
	na, nb := a.Count(), b.Count()
	out := make([]bool, n)
	for i := range out {
		c, err := value.Compare(a, pick(i, na), b, pick(i, nb))
		if err != nil {
			return nil, positioned(err, pos, end)
		}
		switch op {
		case token.EQ:
			out[i] = c == 0
		case token.NOT_EQ:
			out[i] = c != 0
		case token.LT:
			out[i] = c < 0
		case token.LT_EQ:
			out[i] = c <= 0
		case token.GT:
			out[i] = c > 0
		case token.GT_EQ:
			out[i] = c >= 0
		}
	}
	return value.NewLogical(out...), nil
}

// logicalOp runs & and | element-wise. Both operands are always evaluated;
// there is no short circuit over vectors.
func logicalOp(op token.TokenType, a, b value.Value, pos, end int) (value.Value, error) {
	lit := string(op)
	if !isLogicalEquivKind(a.Kind()) {
		return nil, operandError(lit, a.Kind(), pos, end)
	}
	if !isLogicalEquivKind(b.Kind()) {
		return nil, operandError(lit, b.Kind(), pos, end)
	}
	n, err := recycledCount(lit, a, b, pos, end)
	if err != nil {
		return nil, err
	}
	na, nb := a.Count(), b.Count()
	out := make([]bool, n)
	for i := range out {
		x, err := value.LogicalAt(a, pick(i, na))
		if err != nil {
			return nil, positioned(err, pos, end)
		}
		y, err := value.LogicalAt(b, pick(i, nb))
		if err != nil {
			return nil, positioned(err, pos, end)
		}
		if op == token.AND {
			out[i] = x && y
		} else {
			out[i] = x || y
		}
	}
	return value.NewLogical(out...), nil
}

// rangeOp is ':' over numeric singletons. Either direction works; a float
// operand makes the whole sequence float.
func rangeOp(a, b value.Value, pos, end int) (value.Value, error) {
	for _, v := range []value.Value{a, b} {
		if !isNumericKind(v.Kind()) {
			return nil, operandError(":", v.Kind(), pos, end)
		}
		if v.Count() != 1 {
			return nil, value.Scriptf(pos, end, "operator ':' requires singleton operands")
		}
	}
	if a.Kind() == value.KindInteger && b.Kind() == value.KindInteger {
		from := a.(*value.Integer).Values[0]
		to := b.(*value.Integer).Values[0]
		// The span itself can exceed int64; a wrapped subtraction must
		// count as over the cap, not as a small range.
		span, ok := subInt64(to, from)
		if !ok || span == math.MinInt64 {
			return nil, value.Scriptf(pos, end, "operator ':' cannot construct a range with more than %d entries", maxRangeCount)
		}
		if span < 0 {
			span = -span
		}
		if span >= maxRangeCount {
			return nil, value.Scriptf(pos, end, "operator ':' cannot construct a range with more than %d entries", maxRangeCount)
		}
		step := int64(1)
		if from > to {
			step = -1
		}
		out := make([]int64, span+1)
		for i := range out {
			out[i] = from + int64(i)*step
		}
		return value.NewInteger(out...), nil
	}
	from, _ := value.FloatAt(a, 0)
	to, _ := value.FloatAt(b, 0)
	if math.IsNaN(from) || math.IsNaN(to) {
		return nil, value.Scriptf(pos, end, "operator ':' does not accept NAN operands")
	}
	// Beyond 2^53 a float cannot step by 1, so such endpoints are rejected
	// rather than silently producing a stuck sequence.
	if math.Abs(from) >= 1<<53 || math.Abs(to) >= 1<<53 {
		return nil, value.Scriptf(pos, end, "operator ':' cannot step by 1 at a magnitude of 2^53 or more")
	}
	span := math.Abs(to - from)
	if span >= maxRangeCount {
		return nil, value.Scriptf(pos, end, "operator ':' cannot construct a range with more than %d entries", maxRangeCount)
	}
	out := make([]float64, int(span)+1)
	for i := range out {
		if from <= to {
			out[i] = from + float64(i)
		} else {
			out[i] = from - float64(i)
		}
	}
	return value.NewFloat(out...), nil
}

func addInt64(a, b int64) (int64, bool) {
	c := a + b
	if (a > 0 && b > 0 && c < 0) || (a < 0 && b < 0 && c >= 0) {
		return 0, false
	}
	return c, true
}

func subInt64(a, b int64) (int64, bool) {
	c := a - b
	if (a >= 0 && b < 0 && c < 0) || (a < 0 && b > 0 && c >= 0) {
		return 0, false
	}
	return c, true
}

func mulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == math.MinInt64 && b == -1) || (b == math.MinInt64 && a == -1) {
		return 0, false
	}
	c := a * b
	if c/b != a {
		return 0, false
	}
	return c, true
}

// positioned fills in a source range on script errors raised without one.
func positioned(err error, pos, end int) error {
	if se, ok := err.(*value.ScriptError); ok && se.Pos < 0 {
		se.Pos = pos
		se.End = end
	}
	return err
}

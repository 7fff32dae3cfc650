package interp

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"vex/internal/ast"
	"vex/internal/parser"
	"vex/internal/token"
	"vex/internal/value"
)

// flowKind tags how a statement finished. It travels in the evaluation
// result; there is no interpreter-wide flag to reset.
type flowKind int

const (
	flowNormal flowKind = iota
	flowNext
	flowBreak
	flowReturn
)

type result struct {
	val  value.Value
	flow flowKind
}

func normal(v value.Value) result {
	return result{val: v}
}

// Interpreter walks one optimized tree at a time against a symbol table and
// a registry. Not safe for concurrent use.
type Interpreter struct {
	registry *Registry
	symbols  *value.SymbolTable
	out      io.Writer
	workDir  string
	log      *slog.Logger

	traceOn bool
	trace   strings.Builder
	depth   int
}

func New(reg *Registry, symbols *value.SymbolTable) *Interpreter {
	return &Interpreter{
		registry: reg,
		symbols:  symbols,
		out:      os.Stdout,
		log:      slog.Default(),
	}
}

func (in *Interpreter) SetOutput(w io.Writer)     { in.out = w }
func (in *Interpreter) SetWorkDir(dir string)     { in.workDir = dir }
func (in *Interpreter) SetLogger(l *slog.Logger)  { in.log = l }
func (in *Interpreter) SetTrace(on bool)          { in.traceOn = on }
func (in *Interpreter) Symbols() *value.SymbolTable { return in.symbols }
func (in *Interpreter) Registry() *Registry       { return in.registry }

// Trace returns the execution trace accumulated since the last evaluation
// started. Empty unless tracing is on.
func (in *Interpreter) Trace() string {
	return in.trace.String()
}

// EvaluateScript parses, optimizes and evaluates src, returning the value of
// the last statement executed.
func (in *Interpreter) EvaluateScript(src string) (value.Value, error) {
	root, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	if err := Optimize(root, in.registry); err != nil {
		return nil, err
	}
	return in.EvaluateTree(root)
}

// EvaluateTree evaluates an already-optimized tree. A return statement at
// any depth supplies the result; next and break must not escape all loops.
func (in *Interpreter) EvaluateTree(root *ast.Node) (value.Value, error) {
	in.trace.Reset()
	in.depth = 0
	in.log.Debug("evaluating tree", "statements", len(root.Children))
	res, err := in.eval(root)
	if err != nil {
		return nil, err
	}
	switch res.flow {
	case flowNext:
		return nil, value.Scriptf(root.Pos(), root.End(), "encountered 'next' outside of a loop")
	case flowBreak:
		return nil, value.Scriptf(root.Pos(), root.End(), "encountered 'break' outside of a loop")
	}
	return res.val, nil
}

func (in *Interpreter) eval(n *ast.Node) (result, error) {
	in.traceEnter(n)
	defer in.traceLeave()

	switch n.Token.Type {
	case token.LBRACE:
		return in.evalBlock(n)
	case token.SEMICOLON:
		return normal(value.NullInvisible), nil
	case token.IF:
		return in.evalIf(n)
	case token.WHILE:
		return in.evalWhile(n)
	case token.DO:
		return in.evalDoWhile(n)
	case token.FOR:
		return in.evalFor(n)
	case token.NEXT:
		return result{val: value.NullInvisible, flow: flowNext}, nil
	case token.BREAK:
		return result{val: value.NullInvisible, flow: flowBreak}, nil
	case token.RETURN:
		if len(n.Children) == 0 {
			return result{val: value.NullInvisible, flow: flowReturn}, nil
		}
		res, err := in.eval(n.Children[0])
		if err != nil {
			return result{}, err
		}
		return result{val: res.val, flow: flowReturn}, nil
	case token.ASSIGN:
		return in.evalAssign(n)
	case token.IDENT:
		v, err := in.symbols.Get(identName(n))
		if err != nil {
			return result{}, positioned(err, n.Pos(), n.End())
		}
		return normal(v), nil
	case token.NUMBER:
		if n.CachedValue != nil {
			return normal(n.CachedValue), nil
		}
		v, err := parseNumber(n.Token.Literal)
		if err != nil {
			return result{}, positioned(err, n.Pos(), n.End())
		}
		return normal(v), nil
	case token.STRING:
		if n.CachedValue != nil {
			return normal(n.CachedValue), nil
		}
		return normal(value.StringConst(n.Token.Literal)), nil
	case token.LPAREN:
		return in.evalCall(n)
	case token.LBRACKET:
		return in.evalSubscript(n)
	case token.DOT:
		return in.evalMemberRead(n)
	case token.MINUS, token.PLUS:
		if n.CachedValue != nil {
			return normal(n.CachedValue), nil
		}
		if len(n.Children) == 1 {
			return in.evalUnary(n)
		}
		return in.evalBinary(n)
	case token.BANG:
		return in.evalUnary(n)
	case token.ASTERISK, token.SLASH, token.PERCENT, token.CARET,
		token.EQ, token.NOT_EQ, token.LT, token.LT_EQ, token.GT, token.GT_EQ,
		token.AND, token.OR, token.COLON:
		return in.evalBinary(n)
	}
	return result{}, value.Internalf("unhandled node type %s", n.Token.Type)
}

func identName(n *ast.Node) string {
	if n.CachedName != "" {
		return n.CachedName
	}
	return n.Token.Literal
}

func (in *Interpreter) evalBlock(n *ast.Node) (result, error) {
	last := normal(value.NullInvisible)
	for _, stmt := range n.Children {
		res, err := in.eval(stmt)
		if err != nil {
			return result{}, err
		}
		if res.flow != flowNormal {
			return res, nil
		}
		last = res
	}
	return last, nil
}

// evalCondition enforces the condition contract: not NULL, not object, and
// exactly one element.
func (in *Interpreter) evalCondition(n *ast.Node) (bool, error) {
	res, err := in.eval(n)
	if err != nil {
		return false, err
	}
	v := res.val
	switch v.Kind() {
	case value.KindNull, value.KindObject:
		return false, value.Scriptf(n.Pos(), n.End(), "condition cannot be type %s", v.Kind())
	}
	if v.Count() != 1 {
		return false, value.Scriptf(n.Pos(), n.End(), "condition has size() %d; a singleton is required", v.Count())
	}
	b, err := value.LogicalAt(v, 0)
	if err != nil {
		return false, positioned(err, n.Pos(), n.End())
	}
	return b, nil
}

func (in *Interpreter) evalIf(n *ast.Node) (result, error) {
	b, err := in.evalCondition(n.Children[0])
	if err != nil {
		return result{}, err
	}
	if b {
		return in.eval(n.Children[1])
	}
	if len(n.Children) == 3 {
		return in.eval(n.Children[2])
	}
	return normal(value.NullInvisible), nil
}

func (in *Interpreter) evalWhile(n *ast.Node) (result, error) {
	for {
		b, err := in.evalCondition(n.Children[0])
		if err != nil {
			return result{}, err
		}
		if !b {
			break
		}
		res, err := in.eval(n.Children[1])
		if err != nil {
			return result{}, err
		}
		if res.flow == flowBreak {
			break
		}
		if res.flow == flowReturn {
			return res, nil
		}
	}
	return normal(value.NullInvisible), nil
}

func (in *Interpreter) evalDoWhile(n *ast.Node) (result, error) {
	for {
		res, err := in.eval(n.Children[0])
		if err != nil {
			return result{}, err
		}
		if res.flow == flowBreak {
			break
		}
		if res.flow == flowReturn {
			return res, nil
		}
		b, err := in.evalCondition(n.Children[1])
		if err != nil {
			return result{}, err
		}
		if !b {
			break
		}
	}
	return normal(value.NullInvisible), nil
}

// evalFor iterates the loop variable over the elements of the iterable.
// NULL iterates once, with NULL bound, matching its length-one treatment in
// control contexts.
func (in *Interpreter) evalFor(n *ast.Node) (result, error) {
	name := identName(n.Children[0])
	iterRes, err := in.eval(n.Children[1])
	if err != nil {
		return result{}, err
	}
	iterable := iterRes.val

	count := iterable.Count()
	if iterable.Kind() == value.KindNull {
		count = 1
	}
	for i := 0; i < count; i++ {
		var element value.Value
		if iterable.Kind() == value.KindNull {
			element = value.NullValue
		} else {
			element = iterable.ValueAt(i)
		}
		if err := in.symbols.Set(name, element); err != nil {
			return result{}, positioned(err, n.Children[0].Pos(), n.Children[0].End())
		}
		res, err := in.eval(n.Children[2])
		if err != nil {
			return result{}, err
		}
		if res.flow == flowBreak {
			break
		}
		if res.flow == flowReturn {
			return res, nil
		}
	}
	return normal(value.NullInvisible), nil
}

func (in *Interpreter) evalUnary(n *ast.Node) (result, error) {
	res, err := in.eval(n.Children[0])
	if err != nil {
		return result{}, err
	}
	v, err := evalUnaryOp(n.Token.Type, res.val, n.Pos(), n.End())
	if err != nil {
		return result{}, err
	}
	return normal(v), nil
}

func (in *Interpreter) evalBinary(n *ast.Node) (result, error) {
	left, err := in.eval(n.Children[0])
	if err != nil {
		return result{}, err
	}
	right, err := in.eval(n.Children[1])
	if err != nil {
		return result{}, err
	}
	v, err := evalBinaryOp(n.Token.Type, left.val, right.val, n.Pos(), n.End())
	if err != nil {
		return result{}, err
	}
	return normal(v), nil
}

func (in *Interpreter) evalAssign(n *ast.Node) (result, error) {
	rhs, err := in.eval(n.Children[1])
	if err != nil {
		return result{}, err
	}
	if err := in.assignInto(n.Children[0], rhs.val); err != nil {
		return result{}, err
	}
	// The assigned value is the expression's result so chains like
	// x = y = 2 bind both names; the invisible flag keeps the console quiet.
	return normal(value.MarkInvisible(rhs.val)), nil
}

func (in *Interpreter) assignInto(lhs *ast.Node, v value.Value) error {
	switch lhs.Token.Type {
	case token.IDENT:
		if err := in.symbols.Set(identName(lhs), v); err != nil {
			return positioned(err, lhs.Pos(), lhs.End())
		}
		return nil
	case token.LBRACKET:
		return in.assignSubset(lhs, v)
	case token.DOT:
		return in.assignMember(lhs, v)
	}
	return value.Scriptf(lhs.Pos(), lhs.End(), "cannot assign into this expression")
}

// assignSubset writes into elements of a bound variable in place.
func (in *Interpreter) assignSubset(lhs *ast.Node, rhs value.Value) error {
	operand := lhs.Children[0]
	if operand.Token.Type != token.IDENT {
		return value.Scriptf(lhs.Pos(), lhs.End(), "cannot assign into this expression")
	}
	target, err := in.symbols.Mutable(identName(operand))
	if err != nil {
		return positioned(err, operand.Pos(), operand.End())
	}
	idxRes, err := in.eval(lhs.Children[1])
	if err != nil {
		return err
	}
	indices, err := resolveIndices(target, idxRes.val, lhs.Pos(), lhs.End())
	if err != nil {
		return err
	}
	if rhs.Count() != len(indices) && rhs.Count() != 1 {
		return value.Scriptf(lhs.Pos(), lhs.End(), "assignment into a subset requires the value to have size() 1 or match the subset size()")
	}
	if to, ok := target.(*value.Object); ok {
		// Objects never promote; same element class is the only
		// compatibility that matters here.
		ro, ok := rhs.(*value.Object)
		if !ok {
			return value.Scriptf(lhs.Pos(), lhs.End(), "a value of type %s cannot be assigned into a vector of type %s", rhs.Kind(), target.Kind())
		}
		if ro.ElementName != to.ElementName {
			return value.Scriptf(lhs.Pos(), lhs.End(), "object element types %s and %s cannot be mixed", to.ElementName, ro.ElementName)
		}
	} else if k, err := value.PromotedKind(target.Kind(), rhs.Kind()); err != nil || k != target.Kind() {
		return value.Scriptf(lhs.Pos(), lhs.End(), "a value of type %s cannot be assigned into a vector of type %s", rhs.Kind(), target.Kind())
	}
	for pos, idx := range indices {
		src := pick(pos, rhs.Count())
		switch t := target.(type) {
		case *value.Logical:
			b, cerr := value.LogicalAt(rhs, src)
			if cerr != nil {
				return positioned(cerr, lhs.Pos(), lhs.End())
			}
			err = t.SetAt(idx, b)
		case *value.Integer:
			x, cerr := value.IntegerAt(rhs, src)
			if cerr != nil {
				return positioned(cerr, lhs.Pos(), lhs.End())
			}
			err = t.SetAt(idx, x)
		case *value.Float:
			f, cerr := value.FloatAt(rhs, src)
			if cerr != nil {
				return positioned(cerr, lhs.Pos(), lhs.End())
			}
			err = t.SetAt(idx, f)
		case *value.String:
			s, cerr := value.StringAt(rhs, src)
			if cerr != nil {
				return positioned(cerr, lhs.Pos(), lhs.End())
			}
			err = t.SetAt(idx, s)
		case *value.Object:
			ro := rhs.(*value.Object)
			e := ro.Elements[src]
			old := t.Elements[idx]
			if err = t.SetAt(idx, e); err == nil && e != old {
				// The table owns the stored vector's elements, so the
				// swap moves one reference each way.
				value.Retain(e)
				value.Release(old)
			}
		default:
			return value.Scriptf(lhs.Pos(), lhs.End(), "cannot assign into a value of type %s", target.Kind())
		}
		if err != nil {
			return positioned(err, lhs.Pos(), lhs.End())
		}
	}
	return nil
}

// assignMember writes a member across every element of an object vector.
func (in *Interpreter) assignMember(lhs *ast.Node, rhs value.Value) error {
	operandRes, err := in.eval(lhs.Children[0])
	if err != nil {
		return err
	}
	obj, ok := operandRes.val.(*value.Object)
	if !ok {
		return value.Scriptf(lhs.Pos(), lhs.End(), "operand of type %s is not supported by operator '.'", operandRes.val.Kind())
	}
	name := lhs.Children[1].Token.Literal
	if obj.Count() == 1 {
		return positioned(obj.Elements[0].SetMemberValue(name, rhs), lhs.Pos(), lhs.End())
	}
	if rhs.Count() != 1 && rhs.Count() != obj.Count() {
		return value.Scriptf(lhs.Pos(), lhs.End(), "member assignment requires the value to have size() 1 or match the object size()")
	}
	for i, e := range obj.Elements {
		if err := e.SetMemberValue(name, rhs.ValueAt(pick(i, rhs.Count()))); err != nil {
			return positioned(err, lhs.Pos(), lhs.End())
		}
	}
	return nil
}

// resolveIndices turns an index value into zero-based element positions
// within target, bounds checked.
func resolveIndices(target, idx value.Value, pos, end int) ([]int, error) {
	switch t := idx.(type) {
	case *value.Logical:
		if t.Count() != target.Count() {
			return nil, value.Scriptf(pos, end, "a logical index must have the same size() as the operand")
		}
		var out []int
		for i, b := range t.Values {
			if b {
				out = append(out, i)
			}
		}
		return out, nil
	case *value.Integer, *value.Float:
		out := make([]int, idx.Count())
		for i := range out {
			x, err := value.IntegerAt(idx, i)
			if err != nil {
				return nil, positioned(err, pos, end)
			}
			if x < 0 || x >= int64(target.Count()) {
				return nil, value.Scriptf(pos, end, "index %d is out of range", x)
			}
			out[i] = int(x)
		}
		return out, nil
	}
	return nil, value.Scriptf(pos, end, "index operand of type %s is not supported", idx.Kind())
}

func (in *Interpreter) evalSubscript(n *ast.Node) (result, error) {
	operandRes, err := in.eval(n.Children[0])
	if err != nil {
		return result{}, err
	}
	operand := operandRes.val
	if operand.Kind() == value.KindNull {
		return normal(value.NullValue), nil
	}
	idxRes, err := in.eval(n.Children[1])
	if err != nil {
		return result{}, err
	}
	indices, err := resolveIndices(operand, idxRes.val, n.Pos(), n.End())
	if err != nil {
		return result{}, err
	}
	out := operand.NewMatching()
	for _, idx := range indices {
		if err := out.PushFromIndex(operand, idx); err != nil {
			return result{}, positioned(err, n.Pos(), n.End())
		}
	}
	return normal(out), nil
}

// evalMemberRead reads one member across an object vector and concatenates
// the per-element results.
func (in *Interpreter) evalMemberRead(n *ast.Node) (result, error) {
	operandRes, err := in.eval(n.Children[0])
	if err != nil {
		return result{}, err
	}
	obj, ok := operandRes.val.(*value.Object)
	if !ok {
		return result{}, value.Scriptf(n.Pos(), n.End(), "operand of type %s is not supported by operator '.'", operandRes.val.Kind())
	}
	name := n.Children[1].Token.Literal
	if obj.Count() == 0 {
		return normal(value.NullValue), nil
	}
	if obj.Count() == 1 {
		v, err := obj.Elements[0].MemberValue(name)
		if err != nil {
			return result{}, positioned(err, n.Pos(), n.End())
		}
		return normal(v), nil
	}
	var out value.Value
	for _, e := range obj.Elements {
		v, err := e.MemberValue(name)
		if err != nil {
			return result{}, positioned(err, n.Pos(), n.End())
		}
		if out == nil {
			out = v.NewMatching()
		}
		for i := 0; i < v.Count(); i++ {
			if err := out.PushFromIndex(v, i); err != nil {
				return result{}, positioned(err, n.Pos(), n.End())
			}
		}
	}
	return normal(out), nil
}

func (in *Interpreter) callContext() *CallContext {
	return &CallContext{
		Out:      in.out,
		WorkDir:  in.workDir,
		Symbols:  in.symbols,
		Registry: in.registry,
		Log:      in.log,
	}
}

func (in *Interpreter) evalCall(n *ast.Node) (result, error) {
	head := n.Children[0]
	args := make([]value.Value, 0, len(n.Children)-1)
	for _, argNode := range n.Children[1:] {
		res, err := in.eval(argNode)
		if err != nil {
			return result{}, err
		}
		args = append(args, res.val)
	}
	if head.Token.Type == token.DOT {
		return in.evalMethodCall(n, head, args)
	}
	name := identName(head)
	sig := head.CachedSignature
	var fn BuiltinFunc
	if sig != nil {
		_, fn, _ = in.registry.Lookup(name)
	} else {
		var ok bool
		sig, fn, ok = in.registry.Lookup(name)
		if !ok {
			return result{}, value.Scriptf(head.Pos(), head.End(), "unrecognized function name '%s'", name)
		}
	}
	if err := sig.CheckArguments(args, n.Pos(), n.End()); err != nil {
		return result{}, err
	}
	in.log.Debug("calling function", "name", name, "args", len(args))
	v, err := fn(in.callContext(), args)
	if err != nil {
		return result{}, positioned(err, n.Pos(), n.End())
	}
	if err := sig.CheckReturn(v); err != nil {
		return result{}, err
	}
	return normal(v), nil
}

// evalMethodCall resolves the signature through the receiving elements,
// executes per element and concatenates the non-NULL results.
func (in *Interpreter) evalMethodCall(n, head *ast.Node, args []value.Value) (result, error) {
	operandRes, err := in.eval(head.Children[0])
	if err != nil {
		return result{}, err
	}
	obj, ok := operandRes.val.(*value.Object)
	if !ok {
		return result{}, value.Scriptf(head.Pos(), head.End(), "operand of type %s is not supported by operator '.'", operandRes.val.Kind())
	}
	name := head.Children[1].Token.Literal
	if obj.Count() == 0 {
		return normal(value.NullInvisible), nil
	}
	sig, ok := obj.Elements[0].MethodSignature(name)
	if !ok {
		return result{}, value.Scriptf(head.Pos(), head.End(), "method '%s' is not defined for element type %s", name, obj.Elements[0].ElementType())
	}
	if err := sig.CheckArguments(args, n.Pos(), n.End()); err != nil {
		return result{}, err
	}
	hc := in.callContext().HostContext()
	in.log.Debug("calling method", "element", obj.ElementName, "name", name, "receivers", obj.Count())

	var out value.Value
	for _, e := range obj.Elements {
		v, err := e.ExecuteMethod(name, args, hc)
		if err != nil {
			return result{}, positioned(err, n.Pos(), n.End())
		}
		if err := sig.CheckReturn(v); err != nil {
			return result{}, err
		}
		if obj.Count() == 1 {
			return normal(v), nil
		}
		if v.Kind() == value.KindNull {
			continue
		}
		if out == nil {
			out = v.NewMatching()
		}
		for i := 0; i < v.Count(); i++ {
			if err := out.PushFromIndex(v, i); err != nil {
				return result{}, positioned(err, n.Pos(), n.End())
			}
		}
	}
	if out == nil {
		return normal(value.NullInvisible), nil
	}
	return normal(out), nil
}

func (in *Interpreter) traceEnter(n *ast.Node) {
	if !in.traceOn {
		return
	}
	fmt.Fprintf(&in.trace, "%s%s", strings.Repeat("  ", in.depth), n.Token.Type)
	if n.Token.Type == token.IDENT || n.Token.Type == token.NUMBER || n.Token.Type == token.STRING {
		fmt.Fprintf(&in.trace, " %q", n.Token.Literal)
	}
	in.trace.WriteByte('\n')
	in.depth++
}

func (in *Interpreter) traceLeave() {
	if !in.traceOn {
		return
	}
	in.depth--
}

package interp

import (
	"fmt"
	"math"
	"sort"
	"time"

	"vex/internal/value"
)

// Version is what the version() builtin reports.
const Version = "1.0"

func registerStandardFunctions(r *Registry) {
	// vector construction
	r.mustRegister(value.NewSignature("c", value.MaskAnyBase).AddEllipsis(), fnC)
	r.mustRegister(value.NewSignature("rep", value.MaskAnyBase).
		AddArg(value.MaskAnyBase, "x").
		AddArg(value.MaskInteger|value.MaskSingleton, "count"), fnRep)
	r.mustRegister(value.NewSignature("repEach", value.MaskAnyBase).
		AddArg(value.MaskAnyBase, "x").
		AddArg(value.MaskInteger, "count"), fnRepEach)
	r.mustRegister(value.NewSignature("seq", value.MaskNumeric).
		AddArg(value.MaskNumeric|value.MaskSingleton, "from").
		AddArg(value.MaskNumeric|value.MaskSingleton, "to").
		AddArg(value.MaskNumeric|value.MaskSingleton|value.MaskOptional, "by"), fnSeq)
	r.mustRegister(value.NewSignature("seqAlong", value.MaskInteger).
		AddArg(value.MaskAnyBase, "x"), fnSeqAlong)

	// vector inspection and rearrangement
	r.mustRegister(value.NewSignature("size", value.MaskInteger|value.MaskSingleton).
		AddArg(value.MaskAnyBase, "x"), fnSize)
	r.mustRegister(value.NewSignature("rev", value.MaskAnyBase).
		AddArg(value.MaskAnyBase, "x"), fnRev)
	r.mustRegister(value.NewSignature("sort", value.MaskLogical|value.MaskInteger|value.MaskFloat|value.MaskString).
		AddArg(value.MaskLogical|value.MaskInteger|value.MaskFloat|value.MaskString, "x").
		AddArg(value.MaskLogical|value.MaskSingleton|value.MaskOptional, "ascending"), fnSort)

	// type inspection and coercion
	r.mustRegister(value.NewSignature("class", value.MaskString|value.MaskSingleton).
		AddArg(value.MaskAnyBase, "x"), fnClass)
	for kind, name := range map[value.Kind]string{
		value.KindNull:    "isNULL",
		value.KindLogical: "isLogical",
		value.KindInteger: "isInteger",
		value.KindFloat:   "isFloat",
		value.KindString:  "isString",
		value.KindObject:  "isObject",
	} {
		k := kind
		r.mustRegister(value.NewSignature(name, value.MaskLogical|value.MaskSingleton).
			AddArg(value.MaskAnyBase, "x"),
			func(ctx *CallContext, args []value.Value) (value.Value, error) {
				return value.FromBool(args[0].Kind() == k), nil
			})
	}
	coercible := value.MaskLogical | value.MaskInteger | value.MaskFloat | value.MaskString
	r.mustRegister(value.NewSignature("asLogical", value.MaskLogical).
		AddArg(coercible, "x"), fnAsLogical)
	r.mustRegister(value.NewSignature("asInteger", value.MaskInteger).
		AddArg(coercible, "x"), fnAsInteger)
	r.mustRegister(value.NewSignature("asFloat", value.MaskFloat).
		AddArg(coercible, "x"), fnAsFloat)
	r.mustRegister(value.NewSignature("asString", value.MaskString).
		AddArg(coercible, "x"), fnAsString)

	// statistics
	r.mustRegister(value.NewSignature("sum", value.MaskNumeric|value.MaskSingleton).
		AddArg(value.MaskLogicalEquiv, "x"), fnSum)
	r.mustRegister(value.NewSignature("prod", value.MaskNumeric|value.MaskSingleton).
		AddArg(value.MaskLogicalEquiv, "x"), fnProd)
	r.mustRegister(value.NewSignature("mean", value.MaskFloat|value.MaskSingleton).
		AddArg(value.MaskLogicalEquiv, "x"), fnMean)
	r.mustRegister(value.NewSignature("abs", value.MaskNumeric).
		AddArg(value.MaskNumeric, "x"), fnAbs)

	// float math
	for name, fn := range map[string]func(float64) float64{
		"sqrt":  math.Sqrt,
		"exp":   math.Exp,
		"log":   math.Log,
		"log2":  math.Log2,
		"log10": math.Log10,
		"sin":   math.Sin,
		"cos":   math.Cos,
		"tan":   math.Tan,
		"floor": math.Floor,
		"ceil":  math.Ceil,
		"round": math.Round,
		"trunc": math.Trunc,
	} {
		f := fn
		r.mustRegister(value.NewSignature(name, value.MaskFloat).
			AddArg(value.MaskNumeric, "x"),
			func(ctx *CallContext, args []value.Value) (value.Value, error) {
				out := make([]float64, args[0].Count())
				for i := range out {
					x, err := value.FloatAt(args[0], i)
					if err != nil {
						return nil, err
					}
					out[i] = f(x)
				}
				return value.NewFloat(out...), nil
			})
	}

	// output
	r.mustRegister(value.NewSignature("print", value.MaskNull).
		AddArg(value.MaskAnyBase, "x"), fnPrint)
	r.mustRegister(value.NewSignature("cat", value.MaskNull).AddEllipsis(), fnCat)

	// console and control
	r.mustRegister(value.NewSignature("stop", value.MaskNull).
		AddArg(value.MaskString|value.MaskSingleton|value.MaskOptional, "message"), fnStop)
	r.mustRegister(value.NewSignature("version", value.MaskString|value.MaskSingleton), fnVersion)
	r.mustRegister(value.NewSignature("ls", value.MaskNull), fnLs)
	r.mustRegister(value.NewSignature("function", value.MaskNull).
		AddArg(value.MaskString|value.MaskSingleton|value.MaskOptional, "functionName"), fnFunction)
	r.mustRegister(value.NewSignature("date", value.MaskString|value.MaskSingleton), fnDate)
	r.mustRegister(value.NewSignature("time", value.MaskString|value.MaskSingleton), fnTime)
	r.mustRegister(value.NewSignature("rm", value.MaskNull).
		AddArg(value.MaskString|value.MaskOptional, "variableNames"), fnRm)
}

// fnC concatenates its arguments, dropping NULLs and promoting the rest to
// their common kind. Object arguments require every argument be object.
func fnC(ctx *CallContext, args []value.Value) (value.Value, error) {
	var kept []value.Value
	objects := 0
	for _, a := range args {
		if a.Kind() == value.KindNull {
			continue
		}
		if a.Kind() == value.KindObject {
			objects++
		}
		kept = append(kept, a)
	}
	if len(kept) == 0 {
		return value.NullValue, nil
	}
	if objects > 0 {
		if objects != len(kept) {
			return nil, value.Scriptf(-1, -1, "c() cannot mix object and non-object arguments")
		}
		out := kept[0].NewMatching()
		for _, a := range kept {
			for i := 0; i < a.Count(); i++ {
				if err := out.PushFromIndex(a, i); err != nil {
					return nil, err
				}
			}
		}
		return out, nil
	}
	kind := kept[0].Kind()
	for _, a := range kept[1:] {
		k, err := value.PromotedKind(kind, a.Kind())
		if err != nil {
			return nil, err
		}
		kind = k
	}
	return coerceConcat(kind, kept)
}

func coerceConcat(kind value.Kind, args []value.Value) (value.Value, error) {
	n := 0
	for _, a := range args {
		n += a.Count()
	}
	switch kind {
	case value.KindLogical:
		out := make([]bool, 0, n)
		for _, a := range args {
			for i := 0; i < a.Count(); i++ {
				b, err := value.LogicalAt(a, i)
				if err != nil {
					return nil, err
				}
				out = append(out, b)
			}
		}
		return value.NewLogical(out...), nil
	case value.KindInteger:
		out := make([]int64, 0, n)
		for _, a := range args {
			for i := 0; i < a.Count(); i++ {
				x, err := value.IntegerAt(a, i)
				if err != nil {
					return nil, err
				}
				out = append(out, x)
			}
		}
		return value.NewInteger(out...), nil
	case value.KindFloat:
		out := make([]float64, 0, n)
		for _, a := range args {
			for i := 0; i < a.Count(); i++ {
				f, err := value.FloatAt(a, i)
				if err != nil {
					return nil, err
				}
				out = append(out, f)
			}
		}
		return value.NewFloat(out...), nil
	default:
		out := make([]string, 0, n)
		for _, a := range args {
			for i := 0; i < a.Count(); i++ {
				s, err := value.StringAt(a, i)
				if err != nil {
					return nil, err
				}
				out = append(out, s)
			}
		}
		return value.NewString(out...), nil
	}
}

func fnRep(ctx *CallContext, args []value.Value) (value.Value, error) {
	x := args[0]
	count := args[1].(*value.Integer).Values[0]
	if count < 0 {
		return nil, value.Scriptf(-1, -1, "rep(): count must be >= 0")
	}
	out := x.NewMatching()
	for r := int64(0); r < count; r++ {
		for i := 0; i < x.Count(); i++ {
			if err := out.PushFromIndex(x, i); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func fnRepEach(ctx *CallContext, args []value.Value) (value.Value, error) {
	x := args[0]
	counts := args[1].(*value.Integer)
	if counts.Count() != 1 && counts.Count() != x.Count() {
		return nil, value.Scriptf(-1, -1, "repEach(): count must have size() 1 or match the size() of x")
	}
	out := x.NewMatching()
	for i := 0; i < x.Count(); i++ {
		count := counts.Values[pick(i, counts.Count())]
		if count < 0 {
			return nil, value.Scriptf(-1, -1, "repEach(): count must be >= 0")
		}
		for r := int64(0); r < count; r++ {
			if err := out.PushFromIndex(x, i); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func fnSeq(ctx *CallContext, args []value.Value) (value.Value, error) {
	allInt := args[0].Kind() == value.KindInteger && args[1].Kind() == value.KindInteger
	var byVal value.Value
	if len(args) == 3 && args[2].Kind() != value.KindNull {
		byVal = args[2]
		allInt = allInt && byVal.Kind() == value.KindInteger
	}
	if allInt {
		from := args[0].(*value.Integer).Values[0]
		to := args[1].(*value.Integer).Values[0]
		by := int64(1)
		if to < from {
			by = -1
		}
		if byVal != nil {
			by = byVal.(*value.Integer).Values[0]
		}
		if by == 0 {
			return nil, value.Scriptf(-1, -1, "seq(): by must not be 0")
		}
		// Sign comparison instead of (to-from)*by, which can overflow for
		// extreme endpoints.
		if to != from && (to > from) != (by > 0) {
			return nil, value.Scriptf(-1, -1, "seq(): by has the wrong sign for the requested sequence")
		}
		if (float64(to)-float64(from))/float64(by) >= maxRangeCount {
			return nil, value.Scriptf(-1, -1, "seq(): sequence is too long")
		}
		var out []int64
		if by > 0 {
			for v := from; v <= to; {
				out = append(out, v)
				if len(out) > maxRangeCount {
					return nil, value.Scriptf(-1, -1, "seq(): sequence is too long")
				}
				next, ok := addInt64(v, by)
				if !ok {
					break
				}
				v = next
			}
		} else {
			for v := from; v >= to; {
				out = append(out, v)
				if len(out) > maxRangeCount {
					return nil, value.Scriptf(-1, -1, "seq(): sequence is too long")
				}
				next, ok := addInt64(v, by)
				if !ok {
					break
				}
				v = next
			}
		}
		return value.NewInteger(out...), nil
	}
	from, _ := value.FloatAt(args[0], 0)
	to, _ := value.FloatAt(args[1], 0)
	by := 1.0
	if to < from {
		by = -1.0
	}
	if byVal != nil {
		by, _ = value.FloatAt(byVal, 0)
	}
	if by == 0 || math.IsNaN(by) {
		return nil, value.Scriptf(-1, -1, "seq(): by must not be 0")
	}
	if to != from && (to > from) != (by > 0) {
		return nil, value.Scriptf(-1, -1, "seq(): by has the wrong sign for the requested sequence")
	}
	if (to-from)/by >= maxRangeCount {
		return nil, value.Scriptf(-1, -1, "seq(): sequence is too long")
	}
	var out []float64
	if by > 0 {
		for v := from; v <= to; v += by {
			out = append(out, v)
			if len(out) > maxRangeCount {
				return nil, value.Scriptf(-1, -1, "seq(): sequence is too long")
			}
		}
	} else {
		for v := from; v >= to; v += by {
			out = append(out, v)
			if len(out) > maxRangeCount {
				return nil, value.Scriptf(-1, -1, "seq(): sequence is too long")
			}
		}
	}
	return value.NewFloat(out...), nil
}

func fnSeqAlong(ctx *CallContext, args []value.Value) (value.Value, error) {
	out := make([]int64, args[0].Count())
	for i := range out {
		out[i] = int64(i)
	}
	return value.NewInteger(out...), nil
}

func fnSize(ctx *CallContext, args []value.Value) (value.Value, error) {
	return value.NewInteger(int64(args[0].Count())), nil
}

func fnRev(ctx *CallContext, args []value.Value) (value.Value, error) {
	x := args[0]
	out := x.NewMatching()
	for i := x.Count() - 1; i >= 0; i-- {
		if err := out.PushFromIndex(x, i); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func fnSort(ctx *CallContext, args []value.Value) (value.Value, error) {
	x := args[0]
	ascending := true
	if len(args) == 2 {
		ascending = args[1].(*value.Logical).Values[0]
	}
	perm := make([]int, x.Count())
	for i := range perm {
		perm[i] = i
	}
	var sortErr error
	sort.SliceStable(perm, func(i, j int) bool {
		c, err := value.Compare(x, perm[i], x, perm[j])
		if err != nil && sortErr == nil {
			sortErr = err
		}
		if ascending {
			return c < 0
		}
		return c > 0
	})
	if sortErr != nil {
		return nil, sortErr
	}
	out := x.NewMatching()
	for _, idx := range perm {
		if err := out.PushFromIndex(x, idx); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func fnClass(ctx *CallContext, args []value.Value) (value.Value, error) {
	return value.NewString(args[0].Kind().String()), nil
}

func fnAsLogical(ctx *CallContext, args []value.Value) (value.Value, error) {
	x := args[0]
	out := make([]bool, x.Count())
	for i := range out {
		if s, ok := x.(*value.String); ok {
			switch s.Values[i] {
			case "T", "TRUE", "true":
				out[i] = true
			case "F", "FALSE", "false":
				out[i] = false
			default:
				return nil, value.Scriptf(-1, -1, "string %q cannot be converted to logical", s.Values[i])
			}
			continue
		}
		b, err := value.LogicalAt(x, i)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return value.NewLogical(out...), nil
}

func fnAsInteger(ctx *CallContext, args []value.Value) (value.Value, error) {
	x := args[0]
	out := make([]int64, x.Count())
	for i := range out {
		n, err := value.IntegerAt(x, i)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return value.NewInteger(out...), nil
}

func fnAsFloat(ctx *CallContext, args []value.Value) (value.Value, error) {
	x := args[0]
	out := make([]float64, x.Count())
	for i := range out {
		f, err := value.FloatAt(x, i)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return value.NewFloat(out...), nil
}

func fnAsString(ctx *CallContext, args []value.Value) (value.Value, error) {
	x := args[0]
	out := make([]string, x.Count())
	for i := range out {
		s, err := value.StringAt(x, i)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return value.NewString(out...), nil
}

func fnSum(ctx *CallContext, args []value.Value) (value.Value, error) {
	x := args[0]
	if x.Kind() == value.KindFloat {
		total := 0.0
		for _, f := range x.(*value.Float).Values {
			total += f
		}
		return value.NewFloat(total), nil
	}
	var total int64
	for i := 0; i < x.Count(); i++ {
		n, err := value.IntegerAt(x, i)
		if err != nil {
			return nil, err
		}
		next, ok := addInt64(total, n)
		if !ok {
			return nil, value.Scriptf(-1, -1, "sum(): integer overflow")
		}
		total = next
	}
	return value.NewInteger(total), nil
}

func fnProd(ctx *CallContext, args []value.Value) (value.Value, error) {
	x := args[0]
	if x.Kind() == value.KindFloat {
		total := 1.0
		for _, f := range x.(*value.Float).Values {
			total *= f
		}
		return value.NewFloat(total), nil
	}
	total := int64(1)
	for i := 0; i < x.Count(); i++ {
		n, err := value.IntegerAt(x, i)
		if err != nil {
			return nil, err
		}
		next, ok := mulInt64(total, n)
		if !ok {
			return nil, value.Scriptf(-1, -1, "prod(): integer overflow")
		}
		total = next
	}
	return value.NewInteger(total), nil
}

func fnMean(ctx *CallContext, args []value.Value) (value.Value, error) {
	x := args[0]
	if x.Count() == 0 {
		return nil, value.Scriptf(-1, -1, "mean(): x must not be zero-length")
	}
	total := 0.0
	for i := 0; i < x.Count(); i++ {
		f, err := value.FloatAt(x, i)
		if err != nil {
			return nil, err
		}
		total += f
	}
	return value.NewFloat(total / float64(x.Count())), nil
}

func fnAbs(ctx *CallContext, args []value.Value) (value.Value, error) {
	switch t := args[0].(type) {
	case *value.Integer:
		out := make([]int64, t.Count())
		for i, n := range t.Values {
			if n == math.MinInt64 {
				return nil, value.Scriptf(-1, -1, "abs(): integer overflow")
			}
			if n < 0 {
				n = -n
			}
			out[i] = n
		}
		return value.NewInteger(out...), nil
	case *value.Float:
		out := make([]float64, t.Count())
		for i, f := range t.Values {
			out[i] = math.Abs(f)
		}
		return value.NewFloat(out...), nil
	}
	return nil, value.Scriptf(-1, -1, "abs(): unsupported operand")
}

func fnPrint(ctx *CallContext, args []value.Value) (value.Value, error) {
	fmt.Fprintln(ctx.Out, args[0].String())
	return value.NullInvisible, nil
}

// fnCat writes the unquoted string forms of all argument elements, space
// separated, without a trailing newline.
func fnCat(ctx *CallContext, args []value.Value) (value.Value, error) {
	first := true
	for _, a := range args {
		if a.Kind() == value.KindNull {
			if !first {
				fmt.Fprint(ctx.Out, " ")
			}
			fmt.Fprint(ctx.Out, "NULL")
			first = false
			continue
		}
		for i := 0; i < a.Count(); i++ {
			s, err := value.StringAt(a, i)
			if err != nil {
				return nil, err
			}
			if !first {
				fmt.Fprint(ctx.Out, " ")
			}
			fmt.Fprint(ctx.Out, s)
			first = false
		}
	}
	return value.NullInvisible, nil
}

func fnStop(ctx *CallContext, args []value.Value) (value.Value, error) {
	if len(args) == 1 && args[0].Kind() == value.KindString {
		return nil, value.Scriptf(-1, -1, "%s", args[0].(*value.String).Values[0])
	}
	return nil, value.Scriptf(-1, -1, "stop() called")
}

func fnVersion(ctx *CallContext, args []value.Value) (value.Value, error) {
	return value.NewString(Version), nil
}

func fnLs(ctx *CallContext, args []value.Value) (value.Value, error) {
	constants, variables := ctx.Symbols.Names()
	for _, name := range constants {
		v, err := ctx.Symbols.Get(name)
		if err == nil {
			fmt.Fprintf(ctx.Out, "%s => %s\n", name, v)
		}
	}
	for _, name := range variables {
		v, err := ctx.Symbols.Get(name)
		if err == nil {
			fmt.Fprintf(ctx.Out, "%s = %s\n", name, v)
		}
	}
	return value.NullInvisible, nil
}

func fnFunction(ctx *CallContext, args []value.Value) (value.Value, error) {
	if len(args) == 1 && args[0].Kind() == value.KindString {
		name := args[0].(*value.String).Values[0]
		sig, _, ok := ctx.Registry.Lookup(name)
		if !ok {
			fmt.Fprintf(ctx.Out, "no function named '%s'\n", name)
			return value.NullInvisible, nil
		}
		fmt.Fprintln(ctx.Out, sig)
		return value.NullInvisible, nil
	}
	for _, sig := range ctx.Registry.Signatures() {
		fmt.Fprintln(ctx.Out, sig)
	}
	return value.NullInvisible, nil
}

func fnDate(ctx *CallContext, args []value.Value) (value.Value, error) {
	return value.NewString(time.Now().Format("02-01-2006")), nil
}

func fnTime(ctx *CallContext, args []value.Value) (value.Value, error) {
	return value.NewString(time.Now().Format("15:04:05")), nil
}

// fnRm removes the named variables, or every variable when called bare.
func fnRm(ctx *CallContext, args []value.Value) (value.Value, error) {
	if len(args) == 0 || args[0].Kind() == value.KindNull {
		_, variables := ctx.Symbols.Names()
		for _, name := range variables {
			if err := ctx.Symbols.Remove(name); err != nil {
				return nil, err
			}
		}
		return value.NullInvisible, nil
	}
	for _, name := range args[0].(*value.String).Values {
		if err := ctx.Symbols.Remove(name); err != nil {
			return nil, err
		}
	}
	return value.NullInvisible, nil
}

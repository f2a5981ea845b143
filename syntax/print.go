package syntax

import (
	"fmt"
	"strconv"
	"strings"
)

// Dump returns a prettified line-per-node representation of the tree rooted
// at n, suitable for use in line-by-line comparisons of tree structure. Two
// trees are considered structurally identical if they produce identical Dump
// output; source positions do not participate.
func Dump(n Node) string {
	d := &dumper{}
	d.node(n)
	return strings.TrimRight(d.sb.String(), "\n")
}

// DumpProgram is Dump for a whole Program.
func DumpProgram(p Program) string {
	d := &dumper{}
	d.line("PROGRAM")
	d.depth++
	for i := range p.Statements {
		d.node(p.Statements[i])
	}
	d.depth--
	return strings.TrimRight(d.sb.String(), "\n")
}

// DumpTop is Dump for a parse result.
func DumpTop(t Top) string {
	switch t.Kind {
	case TopProgram:
		return DumpProgram(t.Program)
	case TopStatement:
		d := &dumper{}
		d.line("STATEMENT-LINE")
		d.depth++
		for i := range t.Statements {
			d.node(t.Statements[i])
		}
		d.depth--
		return strings.TrimRight(d.sb.String(), "\n")
	case TopExpression:
		return Dump(t.Expression)
	default:
		return "UNKNOWN"
	}
}

// Equal returns whether two trees are structurally identical, ignoring source
// positions.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Dump(a) == Dump(b)
}

type dumper struct {
	sb    strings.Builder
	depth int
}

func (d *dumper) line(format string, args ...interface{}) {
	d.sb.WriteString(strings.Repeat("  ", d.depth))
	fmt.Fprintf(&d.sb, format, args...)
	d.sb.WriteRune('\n')
}

func (d *dumper) section(label string, fn func()) {
	d.line("%s:", label)
	d.depth++
	fn()
	d.depth--
}

func (d *dumper) stmts(label string, body []Stmt) {
	if body == nil {
		return
	}
	d.section(label, func() {
		for i := range body {
			d.node(body[i])
		}
	})
}

func (d *dumper) exprs(label string, elts []Expr) {
	d.section(label, func() {
		for i := range elts {
			d.node(elts[i])
		}
	})
}

func (d *dumper) child(label string, n Node) {
	d.section(label, func() {
		d.node(n)
	})
}

func (d *dumper) node(n Node) {
	if n == nil {
		d.line("<none>")
		return
	}

	switch v := n.(type) {
	case PassStmt:
		d.line("PASS")
	case BreakStmt:
		d.line("BREAK")
	case ContinueStmt:
		d.line("CONTINUE")
	case DeleteStmt:
		d.line("DELETE")
		d.depth++
		d.exprs("targets", v.Targets)
		d.depth--
	case ExprStmt:
		d.line("EXPR-STMT")
		d.depth++
		d.node(v.Value)
		d.depth--
	case AssignStmt:
		d.line("ASSIGN")
		d.depth++
		d.exprs("targets", v.Targets)
		d.child("value", v.Value)
		d.depth--
	case AugAssignStmt:
		d.line("AUG-ASSIGN %s", v.Op.String())
		d.depth++
		d.child("target", v.Target)
		d.child("value", v.Value)
		d.depth--
	case ReturnStmt:
		d.line("RETURN")
		if v.Value != nil {
			d.depth++
			d.node(v.Value)
			d.depth--
		}
	case RaiseStmt:
		d.line("RAISE")
		d.depth++
		if v.Exc != nil {
			d.child("exc", v.Exc)
		}
		if v.Cause != nil {
			d.child("cause", v.Cause)
		}
		d.depth--
	case ImportStmt:
		d.line("IMPORT")
		d.depth++
		for _, part := range v.Parts {
			d.line("part: module=%q symbol=%q alias=%q", part.Module, part.Symbol, part.Alias)
		}
		d.depth--
	case GlobalStmt:
		d.line("GLOBAL %s", strings.Join(v.Names, ", "))
	case NonlocalStmt:
		d.line("NONLOCAL %s", strings.Join(v.Names, ", "))
	case AssertStmt:
		d.line("ASSERT")
		d.depth++
		d.child("test", v.Test)
		if v.Msg != nil {
			d.child("msg", v.Msg)
		}
		d.depth--
	case IfStmt:
		d.line("IF")
		d.depth++
		d.child("test", v.Test)
		d.stmts("body", v.Body)
		d.stmts("orelse", v.Orelse)
		d.depth--
	case WhileStmt:
		d.line("WHILE")
		d.depth++
		d.child("test", v.Test)
		d.stmts("body", v.Body)
		d.stmts("orelse", v.Orelse)
		d.depth--
	case ForStmt:
		d.line("FOR")
		d.depth++
		d.child("target", v.Target)
		d.child("iter", v.Iter)
		d.stmts("body", v.Body)
		d.stmts("orelse", v.Orelse)
		d.depth--
	case TryStmt:
		d.line("TRY")
		d.depth++
		d.stmts("body", v.Body)
		for i := range v.Handlers {
			h := v.Handlers[i]
			d.section(fmt.Sprintf("handler name=%q", h.Name), func() {
				if h.Type != nil {
					d.child("type", h.Type)
				}
				d.stmts("body", h.Body)
			})
		}
		d.stmts("orelse", v.Orelse)
		d.stmts("finally", v.Finally)
		d.depth--
	case WithStmt:
		d.line("WITH")
		d.depth++
		for i := range v.Items {
			item := v.Items[i]
			d.section("item", func() {
				d.child("context", item.ContextExpr)
				if item.Target != nil {
					d.child("target", item.Target)
				}
			})
		}
		d.stmts("body", v.Body)
		d.depth--
	case FunctionDef:
		d.line("FUNCTION-DEF %q", v.Name)
		d.depth++
		if len(v.Decorators) > 0 {
			d.exprs("decorators", v.Decorators)
		}
		d.params(v.Args)
		if v.Returns != nil {
			d.child("returns", v.Returns)
		}
		d.stmts("body", v.Body)
		d.depth--
	case ClassDef:
		d.line("CLASS-DEF %q", v.Name)
		d.depth++
		if len(v.Decorators) > 0 {
			d.exprs("decorators", v.Decorators)
		}
		if len(v.Bases) > 0 {
			d.exprs("bases", v.Bases)
		}
		d.keywords(v.Keywords)
		d.stmts("body", v.Body)
		d.depth--

	case Ident:
		d.line("IDENT %q", v.Name)
	case IntLit:
		d.line("INT %s", v.Value.Text(10))
	case FloatLit:
		d.line("FLOAT %s", formatFloat(v.Value))
	case ComplexLit:
		d.line("COMPLEX %s+%sj", formatFloat(v.Real), formatFloat(v.Imag))
	case StringLit:
		d.line("STRING")
		d.depth++
		d.strGroup(v.Group)
		d.depth--
	case BytesLit:
		d.line("BYTES %q", string(v.Value))
	case TrueLit:
		d.line("TRUE")
	case FalseLit:
		d.line("FALSE")
	case NoneLit:
		d.line("NONE")
	case EllipsisLit:
		d.line("ELLIPSIS")
	case TupleExpr:
		d.line("TUPLE")
		d.depth++
		for i := range v.Elts {
			d.node(v.Elts[i])
		}
		d.depth--
	case ListExpr:
		d.line("LIST")
		d.depth++
		for i := range v.Elts {
			d.node(v.Elts[i])
		}
		d.depth--
	case SetExpr:
		d.line("SET")
		d.depth++
		for i := range v.Elts {
			d.node(v.Elts[i])
		}
		d.depth--
	case DictExpr:
		d.line("DICT")
		d.depth++
		for i := range v.Keys {
			if v.Keys[i] == nil {
				d.child("unpack", v.Values[i])
				continue
			}
			d.child("key", v.Keys[i])
			d.child("value", v.Values[i])
		}
		d.depth--
	case BoolOp:
		d.line("BOOL-OP %s", v.Op.String())
		d.depth++
		d.node(v.Left)
		d.node(v.Right)
		d.depth--
	case BinOp:
		d.line("BIN-OP %s", v.Op.String())
		d.depth++
		d.node(v.Left)
		d.node(v.Right)
		d.depth--
	case UnaryOp:
		d.line("UNARY-OP %s", v.Op.String())
		d.depth++
		d.node(v.Operand)
		d.depth--
	case Compare:
		ops := make([]string, len(v.Ops))
		for i := range v.Ops {
			ops[i] = v.Ops[i].String()
		}
		d.line("COMPARE %s", strings.Join(ops, " "))
		d.depth++
		for i := range v.Vals {
			d.node(v.Vals[i])
		}
		d.depth--
	case Call:
		d.line("CALL")
		d.depth++
		d.child("func", v.Func)
		if len(v.Args) > 0 {
			d.exprs("args", v.Args)
		}
		d.keywords(v.Keywords)
		d.depth--
	case Subscript:
		d.line("SUBSCRIPT")
		d.depth++
		d.child("value", v.Value)
		d.child("index", v.Index)
		d.depth--
	case Attribute:
		d.line("ATTRIBUTE %q", v.Name)
		d.depth++
		d.node(v.Value)
		d.depth--
	case Slice:
		d.line("SLICE")
		d.depth++
		for i := range v.Elements {
			d.node(v.Elements[i])
		}
		d.depth--
	case Starred:
		d.line("STARRED")
		d.depth++
		d.node(v.Value)
		d.depth--
	case Yield:
		d.line("YIELD")
		if v.Value != nil {
			d.depth++
			d.node(v.Value)
			d.depth--
		}
	case YieldFrom:
		d.line("YIELD-FROM")
		d.depth++
		d.node(v.Value)
		d.depth--
	case IfExpr:
		d.line("IF-EXPR")
		d.depth++
		d.child("body", v.Body)
		d.child("test", v.Test)
		d.child("orelse", v.Orelse)
		d.depth--
	case Lambda:
		d.line("LAMBDA")
		d.depth++
		d.params(v.Args)
		d.child("body", v.Body)
		d.depth--
	case Comp:
		d.line("COMPREHENSION %s", v.Kind.String())
		d.depth++
		if v.Kind == CompDict {
			d.child("key", v.Key)
			d.child("value", v.Value)
		} else {
			d.child("element", v.Elt)
		}
		for i := range v.Generators {
			gen := v.Generators[i]
			d.section("generator", func() {
				d.child("target", gen.Target)
				d.child("iter", gen.Iter)
				if len(gen.Ifs) > 0 {
					d.exprs("ifs", gen.Ifs)
				}
			})
		}
		d.depth--

	default:
		d.line("UNKNOWN-NODE %T", n)
	}
}

func (d *dumper) keywords(kws []Keyword) {
	for i := range kws {
		kw := kws[i]
		label := fmt.Sprintf("keyword %q", kw.Name)
		if kw.Name == "" {
			label = "keyword-spread"
		}
		d.child(label, kw.Value)
	}
}

func (d *dumper) params(p Parameters) {
	d.section("params", func() {
		for i := range p.Args {
			d.param(p.Args[i])
		}
		d.exprs("defaults", p.Defaults)
		d.line("vararg: %s", p.Vararg.Kind.String())
		if p.Vararg.Kind == VarargsNamed {
			d.depth++
			d.param(*p.Vararg.Param)
			d.depth--
		}
		for i := range p.KwonlyArgs {
			d.param(p.KwonlyArgs[i])
		}
		d.exprs("kw-defaults", p.KwDefaults)
		d.line("kwarg: %s", p.Kwarg.Kind.String())
		if p.Kwarg.Kind == KwargNamed {
			d.depth++
			d.param(*p.Kwarg.Param)
			d.depth--
		}
	})
}

func (d *dumper) param(p Param) {
	d.line("param %q", p.Name)
	if p.Annotation != nil {
		d.depth++
		d.child("annotation", p.Annotation)
		d.depth--
	}
}

func (d *dumper) strGroup(sg StringGroup) {
	switch v := sg.(type) {
	case StrConstant:
		d.line("CONSTANT %q", v.Value)
	case StrFormattedValue:
		d.line("FORMATTED-VALUE conv=%s", v.Conversion.String())
		d.depth++
		d.child("value", v.Value)
		if v.FormatSpec != nil {
			d.section("spec", func() {
				d.strGroup(v.FormatSpec)
			})
		}
		d.depth--
	case StrJoined:
		d.line("JOINED")
		d.depth++
		for i := range v.Parts {
			d.strGroup(v.Parts[i])
		}
		d.depth--
	default:
		d.line("UNKNOWN-STRING-GROUP %T", sg)
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

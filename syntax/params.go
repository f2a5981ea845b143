package syntax

import "github.com/dekarrin/moray/lex"

// Param is a single named parameter of a def or lambda. Annotation is nil for
// lambda parameters and unannotated def parameters.
type Param struct {
	Src        lex.Token
	Name       string
	Annotation Expr
}

// VarargsKind is the three-state disposition of the * slot of a parameter
// list.
type VarargsKind int

const (
	// VarargsNone means no * appeared at all.
	VarargsNone VarargsKind = iota

	// VarargsAnonymous is a bare * with no name, marking the start of the
	// keyword-only block.
	VarargsAnonymous

	// VarargsNamed is *args with a name.
	VarargsNamed
)

func (vk VarargsKind) String() string {
	switch vk {
	case VarargsNone:
		return "NONE"
	case VarargsAnonymous:
		return "ANONYMOUS"
	case VarargsNamed:
		return "NAMED"
	default:
		return "UNKNOWN"
	}
}

// Varargs is the * slot of a parameter list. Param is only set for
// VarargsNamed.
type Varargs struct {
	Kind  VarargsKind
	Param *Param
}

// KwargKind is the two-state disposition of the ** slot of a parameter list.
type KwargKind int

const (
	KwargNone KwargKind = iota
	KwargNamed
)

func (kk KwargKind) String() string {
	switch kk {
	case KwargNone:
		return "NONE"
	case KwargNamed:
		return "NAMED"
	default:
		return "UNKNOWN"
	}
}

// Kwarg is the ** slot of a parameter list. Param is only set for KwargNamed.
type Kwarg struct {
	Kind  KwargKind
	Param *Param
}

// Parameters is the full parameter list of a def or lambda.
//
// Defaults is right-aligned against Args: a default at index i belongs to the
// positional parameter at index len(Args)-len(Defaults)+i. KwDefaults is
// index-aligned with KwonlyArgs, using nil entries for keyword-only
// parameters with no default.
type Parameters struct {
	Args       []Param
	Defaults   []Expr
	Vararg     Varargs
	KwonlyArgs []Param
	KwDefaults []Expr
	Kwarg      Kwarg
}

// Empty returns whether the parameter list has no parameters of any kind.
func (p Parameters) Empty() bool {
	return len(p.Args) == 0 && len(p.KwonlyArgs) == 0 &&
		p.Vararg.Kind == VarargsNone && p.Kwarg.Kind == KwargNone
}

package expr

import (
	"math"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/visibility"
)

type node interface {
	eval(ctx visibility.Context) any
}

type literalNode struct {
	value any
}

func (n literalNode) eval(visibility.Context) any { return n.value }

type refNode struct {
	path string
}

func (n refNode) eval(ctx visibility.Context) any {
	value, ok := lookup(ctx, n.path)
	if !ok {
		return visibility.Undefined
	}
	return value
}

type notNode struct {
	inner node
}

func (n notNode) eval(ctx visibility.Context) any { return !Truthy(n.inner.eval(ctx)) }

type negateNode struct {
	inner node
}

func (n negateNode) eval(ctx visibility.Context) any { return -visibility.ToNumber(n.inner.eval(ctx)) }

type numberNode struct {
	inner node
}

func (n numberNode) eval(ctx visibility.Context) any { return visibility.ToNumber(n.inner.eval(ctx)) }

type andNode struct {
	left, right node
}

func (n andNode) eval(ctx visibility.Context) any {
	return Truthy(n.left.eval(ctx)) && Truthy(n.right.eval(ctx))
}

type orNode struct {
	left, right node
}

func (n orNode) eval(ctx visibility.Context) any {
	return Truthy(n.left.eval(ctx)) || Truthy(n.right.eval(ctx))
}

type binaryNode struct {
	op          tokenKind
	left, right node
}

func (n binaryNode) eval(ctx visibility.Context) any {
	left := n.left.eval(ctx)
	right := n.right.eval(ctx)

	switch n.op {
	case tokenEq:
		return looseEqual(left, right)
	case tokenNeq:
		return !looseEqual(left, right)
	case tokenStrictEq:
		return visibility.StrictEqual(left, right)
	case tokenStrictNeq:
		return !visibility.StrictEqual(left, right)
	case tokenLt, tokenLte, tokenGt, tokenGte:
		return compare(n.op, left, right)
	case tokenPlus:
		ls, lok := left.(string)
		rs, rok := right.(string)
		if lok || rok {
			if !lok {
				ls = visibility.JSString(left)
			}
			if !rok {
				rs = visibility.JSString(right)
			}
			return ls + rs
		}
		return visibility.ToNumber(left) + visibility.ToNumber(right)
	case tokenMinus:
		return visibility.ToNumber(left) - visibility.ToNumber(right)
	case tokenStar:
		return visibility.ToNumber(left) * visibility.ToNumber(right)
	case tokenSlash:
		return visibility.ToNumber(left) / visibility.ToNumber(right)
	case tokenPercent:
		return math.Mod(visibility.ToNumber(left), visibility.ToNumber(right))
	default:
		return nil
	}
}

// looseEqual treats null and undefined as equal to each other and to
// nothing else.
func looseEqual(left, right any) bool {
	lnull, rnull := nullish(left), nullish(right)
	if lnull || rnull {
		return lnull && rnull
	}
	return visibility.LooseEqual(left, right)
}

func nullish(v any) bool {
	return v == nil || visibility.IsUndefined(v)
}

func compare(op tokenKind, left, right any) bool {
	ls, lok := left.(string)
	rs, rok := right.(string)
	var c int
	if lok && rok {
		c = strings.Compare(ls, rs)
	} else {
		l, r := visibility.ToNumber(left), visibility.ToNumber(right)
		if math.IsNaN(l) || math.IsNaN(r) {
			return false
		}
		switch {
		case l < r:
			c = -1
		case l > r:
			c = 1
		}
	}
	switch op {
	case tokenLt:
		return c < 0
	case tokenLte:
		return c <= 0
	case tokenGt:
		return c > 0
	default:
		return c >= 0
	}
}

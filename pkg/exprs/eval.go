package exprs

import "math"

// Eval evaluates the curve at x, binding x to the curve's formal variable.
// It returns a domain error for division by zero, log10 of a non-positive
// value, or any non-finite intermediate or final result. Errors are
// reported, never clamped: a silently clamped curve would corrupt the
// likelihood surface built on top of it.
func (c *Compiled) Eval(x float64) (float64, error) {
	v, err := c.eval(c.root, x)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, domainErrf(c.src, "non-finite result at x=%g", x)
	}
	return v, nil
}

// Eval compiles src and evaluates it at x in one step. Callers evaluating a
// curve repeatedly should Compile once and reuse the result.
func Eval(src string, x float64) (float64, error) {
	c, err := Compile(src)
	if err != nil {
		return 0, err
	}
	return c.Eval(x)
}

func (c *Compiled) eval(n node, x float64) (float64, error) {
	switch n := n.(type) {
	case *numberNode:
		return n.value, nil

	case *variableNode:
		return x, nil

	case *negateNode:
		v, err := c.eval(n.operand, x)
		if err != nil {
			return 0, err
		}
		return -v, nil

	case *binaryNode:
		lhs, err := c.eval(n.left, x)
		if err != nil {
			return 0, err
		}
		rhs, err := c.eval(n.right, x)
		if err != nil {
			return 0, err
		}
		switch n.op {
		case opAdd:
			return lhs + rhs, nil
		case opSub:
			return lhs - rhs, nil
		case opMul:
			return lhs * rhs, nil
		case opDiv:
			if rhs == 0 {
				return 0, domainErrf(c.src, "division by zero at x=%g", x)
			}
			return lhs / rhs, nil
		case opPow:
			v := math.Pow(lhs, rhs)
			if math.IsNaN(v) {
				return 0, domainErrf(c.src, "%g ** %g is undefined", lhs, rhs)
			}
			return v, nil
		}
		// Unreachable: the parser emits no other operators.
		return 0, parseErrf(c.src, "unsupported operator %q", n.op)

	case *callNode:
		arg, err := c.eval(n.arg, x)
		if err != nil {
			return 0, err
		}
		switch n.fn {
		case "abs":
			return math.Abs(arg), nil
		case "exp":
			return math.Exp(arg), nil
		case "log10":
			if arg <= 0 {
				return 0, domainErrf(c.src, "log10 of non-positive value %g", arg)
			}
			return math.Log10(arg), nil
		}
		return 0, parseErrf(c.src, "unknown function %q", n.fn)

	default:
		return 0, parseErrf(c.src, "unsupported construct")
	}
}

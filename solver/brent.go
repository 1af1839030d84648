// Package solver finds roots of scalar functions.
package solver

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNotBracketed is returned when no sign change can be found.
	ErrNotBracketed = errors.New("root not bracketed")
	// ErrNoConvergence is returned when the evaluation budget is exhausted.
	ErrNoConvergence = errors.New("root finder did not converge")
)

// Func is a scalar objective. Errors abort the search and are returned as is.
type Func func(x float64) (float64, error)

// Options bounds a search.
type Options struct {
	// Accuracy is the target |f(x)|.
	Accuracy float64
	// XAccuracy stops the search once the bracket is this narrow.
	XAccuracy float64
	// MaxEvaluations caps calls to f, bracketing included.
	MaxEvaluations int
}

// DefaultOptions suit discount-factor searches.
var DefaultOptions = Options{
	Accuracy:       1e-12,
	XAccuracy:      1e-15,
	MaxEvaluations: 100,
}

// Result describes a located root.
type Result struct {
	Root        float64
	Residual    float64
	Evaluations int
}

// Solve brackets a root starting from guess, expanding by step but never leaving [lo, hi],
// then refines it with Brent's method.
func Solve(f Func, guess, step, lo, hi float64, opts Options) (Result, error) {
	evals := 0
	eval := func(x float64) (float64, error) {
		evals++
		return f(x)
	}

	guess = math.Min(math.Max(guess, lo), hi)
	fg, err := eval(guess)
	if err != nil {
		return Result{}, err
	}
	if math.Abs(fg) <= opts.Accuracy {
		return Result{Root: guess, Residual: fg, Evaluations: evals}, nil
	}

	a, b := guess, guess
	fa, fb := fg, fg
	growth := 1.6
	for fa*fb > 0 {
		if evals >= opts.MaxEvaluations {
			return Result{}, fmt.Errorf("Solve: [%g, %g] after %d evaluations: %w", a, b, evals, ErrNotBracketed)
		}
		if a <= lo && b >= hi {
			return Result{}, fmt.Errorf("Solve: no sign change in [%g, %g]: %w", lo, hi, ErrNotBracketed)
		}
		// Expand on the side whose value is smaller in magnitude, or the side still inside.
		if (math.Abs(fa) < math.Abs(fb) && a > lo) || b >= hi {
			a = math.Max(lo, a-step)
			if fa, err = eval(a); err != nil {
				return Result{}, err
			}
		} else {
			b = math.Min(hi, b+step)
			if fb, err = eval(b); err != nil {
				return Result{}, err
			}
		}
		step *= growth
	}

	opts.MaxEvaluations -= evals
	res, err := Brent(f, a, b, fa, fb, opts)
	res.Evaluations += evals
	return res, err
}

// Brent refines a root inside [a, b] where fa and fb have opposite signs.
func Brent(f Func, a, b, fa, fb float64, opts Options) (Result, error) {
	if fa*fb > 0 {
		return Result{}, fmt.Errorf("Brent: f(%g)=%g, f(%g)=%g: %w", a, fa, b, fb, ErrNotBracketed)
	}
	if fa == 0 {
		return Result{Root: a}, nil
	}
	if fb == 0 {
		return Result{Root: b}, nil
	}

	c, fc := b, fb
	var d, e float64
	evals := 0
	for evals < opts.MaxEvaluations {
		if (fb > 0 && fc > 0) || (fb < 0 && fc < 0) {
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}
		tol := 2*math.SmallestNonzeroFloat64 + 2*epsilon*math.Abs(b) + 0.5*opts.XAccuracy
		xm := 0.5 * (c - b)
		if math.Abs(fb) <= opts.Accuracy || math.Abs(xm) <= tol || fb == 0 {
			return Result{Root: b, Residual: fb, Evaluations: evals}, nil
		}
		if math.Abs(e) >= tol && math.Abs(fa) > math.Abs(fb) {
			// Inverse quadratic interpolation, or secant when only two points differ.
			var p, q float64
			s := fb / fa
			if a == c {
				p = 2 * xm * s
				q = 1 - s
			} else {
				qq := fa / fc
				r := fb / fc
				p = s * (2*xm*qq*(qq-r) - (b-a)*(r-1))
				q = (qq - 1) * (r - 1) * (s - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)
			min1 := 3*xm*q - math.Abs(tol*q)
			min2 := math.Abs(e * q)
			if 2*p < math.Min(min1, min2) {
				e = d
				d = p / q
			} else {
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}
		a, fa = b, fb
		if math.Abs(d) > tol {
			b += d
		} else {
			b += math.Copysign(tol, xm)
		}
		var err error
		fb, err = f(b)
		evals++
		if err != nil {
			return Result{Evaluations: evals}, err
		}
	}
	return Result{Root: b, Residual: fb, Evaluations: evals}, fmt.Errorf("Brent: |f(%g)|=%g after %d evaluations: %w", b, math.Abs(fb), evals, ErrNoConvergence)
}

const epsilon = 2.220446049250313e-16

// Package interpolation fits piecewise cubics through node values.
package interpolation

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Scheme selects how node first derivatives are chosen.
type Scheme string

const (
	// Natural is the C2 spline with zero second derivative at both ends. Every coefficient
	// depends on every node.
	Natural Scheme = "spline"
	// Kruger uses Kruger's harmonic-mean slopes; each segment depends only on nearby nodes.
	Kruger Scheme = "kruger"
)

// ParseScheme accepts "spline"/"natural" and "kruger".
func ParseScheme(s string) (Scheme, error) {
	switch s {
	case "spline", "natural", "":
		return Natural, nil
	case "kruger":
		return Kruger, nil
	default:
		return "", fmt.Errorf("ParseScheme: unknown cubic scheme %q", s)
	}
}

var (
	// ErrTooFewPoints is returned for fewer than two nodes.
	ErrTooFewPoints = errors.New("at least two points required")
	// ErrUnsortedAbscissas is returned when x values are not strictly increasing.
	ErrUnsortedAbscissas = errors.New("abscissas must be strictly increasing")
)

// Cubic is a piecewise cubic through (xs[i], ys[i]). On segment i,
// y(x) = a[i] + b[i]·dx + c[i]·dx² + d[i]·dx³ with dx = x − xs[i].
type Cubic struct {
	xs, ys     []float64
	a, b, c, d []float64
}

// NewCubic fits the nodes with the given scheme. The slices are copied.
func NewCubic(xs, ys []float64, scheme Scheme) (*Cubic, error) {
	n := len(xs)
	if n != len(ys) {
		return nil, fmt.Errorf("NewCubic: %d abscissas vs %d ordinates", n, len(ys))
	}
	if n < 2 {
		return nil, fmt.Errorf("NewCubic: %w", ErrTooFewPoints)
	}
	for i := 1; i < n; i++ {
		if !(xs[i] > xs[i-1]) {
			return nil, fmt.Errorf("NewCubic: x[%d]=%g after x[%d]=%g: %w", i, xs[i], i-1, xs[i-1], ErrUnsortedAbscissas)
		}
	}

	c := &Cubic{
		xs: append([]float64(nil), xs...),
		ys: append([]float64(nil), ys...),
	}

	h := make([]float64, n-1)
	slope := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		h[i] = xs[i+1] - xs[i]
		slope[i] = (ys[i+1] - ys[i]) / h[i]
	}

	var s []float64
	switch scheme {
	case Kruger:
		s = krugerSlopes(h, slope)
	default:
		s = naturalSlopes(h, slope)
	}

	c.a = make([]float64, n-1)
	c.b = make([]float64, n-1)
	c.c = make([]float64, n-1)
	c.d = make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		c.a[i] = ys[i]
		c.b[i] = s[i]
		c.c[i] = (3*slope[i] - 2*s[i] - s[i+1]) / h[i]
		c.d[i] = (s[i] + s[i+1] - 2*slope[i]) / (h[i] * h[i])
	}
	return c, nil
}

// naturalSlopes solves the tridiagonal system for second derivatives M with M[0] = M[n-1] = 0
// and converts them to node first derivatives.
func naturalSlopes(h, slope []float64) []float64 {
	n := len(h) + 1
	m := make([]float64, n)
	if n > 2 {
		// Thomas algorithm on the interior unknowns M[1..n-2].
		k := n - 2
		diag := make([]float64, k)
		rhs := make([]float64, k)
		for j := 0; j < k; j++ {
			i := j + 1
			diag[j] = 2 * (h[i-1] + h[i])
			rhs[j] = 6 * (slope[i] - slope[i-1])
		}
		for j := 1; j < k; j++ {
			w := h[j] / diag[j-1]
			diag[j] -= w * h[j]
			rhs[j] -= w * rhs[j-1]
		}
		m[k] = rhs[k-1] / diag[k-1]
		for j := k - 2; j >= 0; j-- {
			m[j+1] = (rhs[j] - h[j+1]*m[j+2]) / diag[j]
		}
	}

	s := make([]float64, n)
	for i := 0; i < n-1; i++ {
		s[i] = slope[i] - h[i]*(2*m[i]+m[i+1])/6
	}
	last := n - 2
	s[n-1] = slope[last] + h[last]*(m[last]+2*m[last+1])/6
	return s
}

func krugerSlopes(h, slope []float64) []float64 {
	n := len(h) + 1
	s := make([]float64, n)
	if n == 2 {
		s[0], s[1] = slope[0], slope[0]
		return s
	}
	for i := 1; i < n-1; i++ {
		if slope[i-1]*slope[i] <= 0 {
			s[i] = 0
			continue
		}
		s[i] = 2 / (1/slope[i-1] + 1/slope[i])
	}
	s[0] = (3*slope[0] - s[1]) / 2
	s[n-1] = (3*slope[n-2] - s[n-2]) / 2
	return s
}

// segment returns the index of the piece used for x; outside the node range the first or
// last piece is extended.
func (c *Cubic) segment(x float64) int {
	i := sort.SearchFloat64s(c.xs, x) - 1
	return max(0, min(i, len(c.xs)-2))
}

// Value evaluates the cubic at x. Node abscissas return the node ordinate exactly.
func (c *Cubic) Value(x float64) float64 {
	if i := sort.SearchFloat64s(c.xs, x); i < len(c.xs) && c.xs[i] == x {
		return c.ys[i]
	}
	i := c.segment(x)
	dx := x - c.xs[i]
	return c.a[i] + dx*(c.b[i]+dx*(c.c[i]+dx*c.d[i]))
}

// Derivative returns dy/dx at x.
func (c *Cubic) Derivative(x float64) float64 {
	i := c.segment(x)
	if x == c.xs[len(c.xs)-1] {
		i = len(c.xs) - 2
	}
	dx := x - c.xs[i]
	return c.b[i] + dx*(2*c.c[i]+3*dx*c.d[i])
}

// SecondDerivative returns d²y/dx² at x.
func (c *Cubic) SecondDerivative(x float64) float64 {
	i := c.segment(x)
	dx := x - c.xs[i]
	return 2*c.c[i] + 6*c.d[i]*dx
}

// XMin returns the first abscissa.
func (c *Cubic) XMin() float64 { return c.xs[0] }

// XMax returns the last abscissa.
func (c *Cubic) XMax() float64 { return c.xs[len(c.xs)-1] }

// Nodes returns copies of the fitted abscissas and ordinates.
func (c *Cubic) Nodes() ([]float64, []float64) {
	return append([]float64(nil), c.xs...), append([]float64(nil), c.ys...)
}

// LogCubic interpolates positive values through a cubic on their logarithm, so the result is
// always positive.
type LogCubic struct {
	spline *Cubic
	xs, ys []float64
}

// NewLogCubic fits ln(ys) with the given scheme. All ys must be positive.
func NewLogCubic(xs, ys []float64, scheme Scheme) (*LogCubic, error) {
	logs := make([]float64, len(ys))
	for i, y := range ys {
		if !(y > 0) {
			return nil, fmt.Errorf("NewLogCubic: non-positive value %g at node %d", y, i)
		}
		logs[i] = math.Log(y)
	}
	s, err := NewCubic(xs, logs, scheme)
	if err != nil {
		return nil, fmt.Errorf("NewLogCubic: %w", err)
	}
	return &LogCubic{
		spline: s,
		xs:     append([]float64(nil), xs...),
		ys:     append([]float64(nil), ys...),
	}, nil
}

// Value returns exp(spline(x)); node abscissas return the node value unchanged.
func (l *LogCubic) Value(x float64) float64 {
	if i := sort.SearchFloat64s(l.xs, x); i < len(l.xs) && l.xs[i] == x {
		return l.ys[i]
	}
	return math.Exp(l.spline.Value(x))
}

// LogValue returns spline(x).
func (l *LogCubic) LogValue(x float64) float64 {
	return l.spline.Value(x)
}

// LogDerivative returns d ln y / dx at x.
func (l *LogCubic) LogDerivative(x float64) float64 {
	return l.spline.Derivative(x)
}

// XMax returns the last abscissa.
func (l *LogCubic) XMax() float64 { return l.spline.XMax() }

// XMin returns the first abscissa.
func (l *LogCubic) XMin() float64 { return l.spline.XMin() }

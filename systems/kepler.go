// Package systems provides worked ODE right-hand sides built with the
// expr package, standing in for the source's make_nbody_sys helper.
package systems

import (
	"math"
	"strconv"

	"github.com/adriftlabs/taylorint/expr"
)

// Body is one point mass's initial state: position and velocity in an
// inertial frame, plus its gravitational parameter (G*mass).
type Body struct {
	X, Y, Z    float64
	VX, VY, VZ float64
	Mu         float64
}

// bodyVars names a body's six state variables with a numeric suffix so
// an N-body system never collides across bodies.
func bodyVars(i int) (x, y, z, vx, vy, vz string) {
	suf := strconv.Itoa(i)
	return "x" + suf, "y" + suf, "z" + suf, "vx" + suf, "vy" + suf, "vz" + suf
}

// NBody builds the Newtonian N-body right-hand side: for every body i,
// position derivatives are its own velocity, and velocity derivatives
// are the sum over every other body j of -mu_j*(r_i-r_j)/|r_i-r_j|^3.
// Mirrors the structure of original_source's two-body long-term
// integration benchmark, generalized from 2 bodies to N.
func NBody(bodies []Body) (*expr.Decomposition, []float64, error) {
	n := len(bodies)
	if n < 2 {
		return nil, nil, errNotEnoughBodies(n)
	}

	eqs := make([]expr.Equation, 0, 6*n)
	state := make([]float64, 0, 6*n)

	for i, b := range bodies {
		xn, yn, zn, vxn, vyn, vzn := bodyVars(i)
		x, y, z := expr.Var(xn), expr.Var(yn), expr.Var(zn)
		vx, vy, vz := expr.Var(vxn), expr.Var(vyn), expr.Var(vzn)

		eqs = append(eqs,
			expr.Equation{Lhs: x, Rhs: vx},
			expr.Equation{Lhs: y, Rhs: vy},
			expr.Equation{Lhs: z, Rhs: vz},
		)

		var ax, ay, az expr.Expr
		for j, other := range bodies {
			if j == i {
				continue
			}
			xjn, yjn, zjn, _, _, _ := bodyVars(j)
			dx := expr.SubOf(x, expr.Var(xjn))
			dy := expr.SubOf(y, expr.Var(yjn))
			dz := expr.SubOf(z, expr.Var(zjn))
			r2 := expr.AddOf(expr.AddOf(expr.Square(dx), expr.Square(dy)), expr.Square(dz))
			invR3 := expr.Pow(r2, expr.Num(-1.5))
			coeff := expr.MulOf(expr.Num(-other.Mu), invR3)

			termX := expr.MulOf(coeff, dx)
			termY := expr.MulOf(coeff, dy)
			termZ := expr.MulOf(coeff, dz)
			if ax == nil {
				ax, ay, az = termX, termY, termZ
			} else {
				ax = expr.AddOf(ax, termX)
				ay = expr.AddOf(ay, termY)
				az = expr.AddOf(az, termZ)
			}
		}

		eqs = append(eqs,
			expr.Equation{Lhs: vx, Rhs: ax},
			expr.Equation{Lhs: vy, Rhs: ay},
			expr.Equation{Lhs: vz, Rhs: az},
		)

		state = append(state, b.X, b.Y, b.Z, b.VX, b.VY, b.VZ)
	}

	d, err := expr.DecomposeEquations(eqs)
	if err != nil {
		return nil, nil, err
	}
	return d, state, nil
}

// TwoBody is the original_source two-body long-term benchmark's initial
// condition: two unit-mass bodies (G=1) on a bound orbit, given in the
// benchmark's own barycentric coordinates.
func TwoBody() ([]Body, error) {
	const (
		x0  = 0.12753732455163191
		y0  = 1.38595818266122
		z0  = 0.35732917545977527
		vx0 = -0.41861303824199964
		vy0 = 0.032224544954305295
		vz0 = 0.070829797576461351
	)
	return []Body{
		{X: x0, Y: y0, Z: z0, VX: vx0, VY: vy0, VZ: vz0, Mu: 1},
		{X: -x0, Y: -y0, Z: -z0, VX: -vx0, VY: -vy0, VZ: -vz0, Mu: 1},
	}, nil
}

// TwoBodyEnergy computes the two-body system's total specific energy
// (kinetic + potential) from a 12-element state vector laid out
// [x0,y0,z0,vx0,vy0,vz0, x1,y1,z1,vx1,vy1,vz1], matching
// original_source/benchmark/two_body_long_term.cpp's tbp_energy. Used
// to check conservation across a long propagation, not part of the
// decomposed right-hand side itself.
func TwoBodyEnergy(state []float64) float64 {
	dx := state[0] - state[6]
	dy := state[1] - state[7]
	dz := state[2] - state[8]
	dist2 := dx*dx + dy*dy + dz*dz
	dist := math.Sqrt(dist2)
	u := -1 / dist

	v2a := state[3]*state[3] + state[4]*state[4] + state[5]*state[5]
	v2b := state[9]*state[9] + state[10]*state[10] + state[11]*state[11]

	return 0.5*(v2a+v2b) + u
}

type errNotEnoughBodies int

func (e errNotEnoughBodies) Error() string {
	return "systems: NBody requires at least 2 bodies, got " + strconv.Itoa(int(e))
}

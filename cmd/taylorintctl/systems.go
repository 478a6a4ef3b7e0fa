package main

import (
	"github.com/pkg/errors"

	"github.com/adriftlabs/taylorint/expr"
	"github.com/adriftlabs/taylorint/systems"
)

// namedSystem is one of the CLI's built-in systems: a decomposition plus
// its natural initial state, keyed by a short name a caller passes on
// the command line.
type namedSystem struct {
	decompose func() (*expr.Decomposition, []float64, error)
}

var namedSystems = map[string]namedSystem{
	"exponential": {
		decompose: func() (*expr.Decomposition, []float64, error) {
			d, err := expr.Decompose([]expr.Expr{expr.Var("x")})
			if err != nil {
				return nil, nil, err
			}
			return d, []float64{1}, nil
		},
	},
	"kepler2": {
		decompose: func() (*expr.Decomposition, []float64, error) {
			bodies, err := systems.TwoBody()
			if err != nil {
				return nil, nil, err
			}
			return systems.NBody(bodies)
		},
	},
}

func lookupSystem(name string) (*expr.Decomposition, []float64, error) {
	ns, ok := namedSystems[name]
	if !ok {
		return nil, nil, errors.Errorf("unknown system %q (known: exponential, kepler2)", name)
	}
	return ns.decompose()
}

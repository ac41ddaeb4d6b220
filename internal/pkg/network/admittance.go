package network

import (
	"fmt"
	"math/cmplx"
)

// AdmittanceMatrix builds the per-unit bus admittance matrix on an sBase MVA
// base. Rows and columns follow bus order. Line impedances are converted with
// the nominal voltage of Bus0 in kV.
func (n *Network) AdmittanceMatrix(sBase float64) ([][]complex128, error) {
	if sBase <= 0 {
		return nil, fmt.Errorf("base power must be positive, got %v", sBase)
	}
	index := make(map[string]int, len(n.Buses))
	for i, b := range n.Buses {
		index[b.Name] = i
	}

	y := make([][]complex128, len(n.Buses))
	for i := range y {
		y[i] = make([]complex128, len(n.Buses))
	}

	for _, l := range n.Lines {
		i, ok := index[l.Bus0]
		if !ok {
			return nil, fmt.Errorf("line %q references unknown bus %q", l.Name, l.Bus0)
		}
		j, ok := index[l.Bus1]
		if !ok {
			return nil, fmt.Errorf("line %q references unknown bus %q", l.Name, l.Bus1)
		}
		vNom := n.Buses[i].VNom
		if vNom <= 0 {
			return nil, fmt.Errorf("bus %q has no nominal voltage", l.Bus0)
		}
		zBase := vNom * vNom / sBase
		z := complex(l.R/zBase, l.X/zBase)
		if z == 0 {
			return nil, fmt.Errorf("line %q has zero impedance", l.Name)
		}
		series := 1 / z
		y[i][i] += series
		y[j][j] += series
		y[i][j] -= series
		y[j][i] -= series
	}
	return y, nil
}

// Injections evaluates S = V·conj(Y·V) for voltage magnitudes vm (pu) and
// angles va (rad), returning per-bus active and reactive injections in pu.
func Injections(y [][]complex128, vm, va []float64) ([]float64, []float64, error) {
	if len(vm) != len(y) || len(va) != len(y) {
		return nil, nil, fmt.Errorf("need %d voltages, got %d magnitudes and %d angles", len(y), len(vm), len(va))
	}
	v := make([]complex128, len(y))
	for i := range v {
		v[i] = cmplx.Rect(vm[i], va[i])
	}

	p := make([]float64, len(y))
	q := make([]float64, len(y))
	for i, row := range y {
		if len(row) != len(y) {
			return nil, nil, fmt.Errorf("admittance row %d has %d entries, want %d", i, len(row), len(y))
		}
		var current complex128
		for j, yij := range row {
			current += yij * v[j]
		}
		s := v[i] * cmplx.Conj(current)
		p[i] = real(s)
		q[i] = imag(s)
	}
	return p, q, nil
}

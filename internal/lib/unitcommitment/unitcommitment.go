// Package unitcommitment builds the three-bus hydro network used by the unit
// commitment lab.
package unitcommitment

import (
	"errors"

	"github.com/ohowland/digilab/internal/pkg/network"
)

const (
	// VBase is the nominal voltage of every bus in kV.
	VBase = 22.0
	// SBase is the system base power in MVA.
	SBase = 100.0
)

// GetNetwork returns the lab network with one snapshot per load value.
func GetNetwork(pSetLoad []float64, costG1, costG2 float64) (*network.Network, error) {
	if len(pSetLoad) == 0 {
		return nil, errors.New("unitcommitment: load series is empty")
	}
	n := network.New("unit commitment", len(pSetLoad))

	for _, name := range []string{"Bus 1", "Bus 2", "Bus 3"} {
		if err := n.AddBus(network.Bus{Name: name, VNom: VBase}); err != nil {
			return nil, err
		}
	}

	lines := []network.Line{
		{Name: "Line 12", Bus0: "Bus 1", Bus1: "Bus 2", R: 3.0, X: 8.0, SNom: 100},
		{Name: "Line 23", Bus0: "Bus 2", Bus1: "Bus 3", R: 1.0, X: 4.0, SNom: 100},
		{Name: "Line 13", Bus0: "Bus 1", Bus1: "Bus 3", R: 10.0, X: 35.0, SNom: 100},
	}
	for _, l := range lines {
		if err := n.AddLine(l); err != nil {
			return nil, err
		}
	}

	generators := []network.Generator{
		{Name: "Hydro 1", Bus: "Bus 1", Committable: true, PMinPu: 0.1, PNom: 6, MarginalCost: costG1},
		{Name: "Hydro 2", Bus: "Bus 3", Committable: true, PMinPu: 0.1, PNom: 3, MarginalCost: costG2},
	}
	for _, g := range generators {
		if err := n.AddGenerator(g); err != nil {
			return nil, err
		}
	}

	series := make([]float64, len(pSetLoad))
	copy(series, pSetLoad)
	if err := n.AddLoadSeries(network.Load{Name: "Load 1", Bus: "Bus 2"}, series); err != nil {
		return nil, err
	}
	return n, nil
}

package network

import (
	"errors"
	"fmt"
)

// ErrNoSolver is returned by PF when no solver is supplied.
var ErrNoSolver = errors.New("network: no power flow solver")

// Generator control modes.
const (
	ControlSlack = "Slack"
	ControlPV    = "PV"
	ControlPQ    = "PQ"
)

// Bus is an electrical node.
type Bus struct {
	Name      string  `json:"name" yaml:"name"`
	VNom      float64 `json:"v_nom" yaml:"v_nom"`
	VMagPuSet float64 `json:"v_mag_pu_set" yaml:"v_mag_pu_set"`
	Control   string  `json:"control,omitempty" yaml:"control,omitempty"`
}

// Line is a passive branch between two buses. R and X are in ohms, SNom in MVA.
type Line struct {
	Name string  `json:"name" yaml:"name"`
	Bus0 string  `json:"bus0" yaml:"bus0"`
	Bus1 string  `json:"bus1" yaml:"bus1"`
	R    float64 `json:"r" yaml:"r"`
	X    float64 `json:"x" yaml:"x"`
	SNom float64 `json:"s_nom" yaml:"s_nom"`
}

// Generator injects power at a bus.
type Generator struct {
	Name         string  `json:"name" yaml:"name"`
	Bus          string  `json:"bus" yaml:"bus"`
	Control      string  `json:"control" yaml:"control"`
	PNom         float64 `json:"p_nom" yaml:"p_nom"`
	PMinPu       float64 `json:"p_min_pu" yaml:"p_min_pu"`
	PMaxPu       float64 `json:"p_max_pu" yaml:"p_max_pu"`
	PSet         float64 `json:"p_set" yaml:"p_set"`
	MarginalCost float64 `json:"marginal_cost" yaml:"marginal_cost"`
	Committable  bool    `json:"committable" yaml:"committable"`
}

// Load withdraws power at a bus.
type Load struct {
	Name string  `json:"name" yaml:"name"`
	Bus  string  `json:"bus" yaml:"bus"`
	PSet float64 `json:"p_set" yaml:"p_set"`
	QSet float64 `json:"q_set" yaml:"q_set"`
}

// BusSeries holds power flow results per snapshot and bus.
type BusSeries struct {
	P      Frame `json:"p" yaml:"p"`
	Q      Frame `json:"q" yaml:"q"`
	VMagPu Frame `json:"v_mag_pu" yaml:"v_mag_pu"`
	VAng   Frame `json:"v_ang" yaml:"v_ang"`
}

// LoadSeries holds time-varying load set points.
type LoadSeries struct {
	PSet Frame `json:"p_set" yaml:"p_set"`
}

// GeneratorSeries holds dispatch results per snapshot and generator.
type GeneratorSeries struct {
	P Frame `json:"p" yaml:"p"`
}

// Network is a grid model with static component data and snapshot series.
type Network struct {
	Name        string          `json:"name" yaml:"name"`
	Snapshots   []int           `json:"snapshots" yaml:"snapshots"`
	Buses       []Bus           `json:"buses" yaml:"buses"`
	Lines       []Line          `json:"lines" yaml:"lines"`
	Generators  []Generator     `json:"generators" yaml:"generators"`
	Loads       []Load          `json:"loads" yaml:"loads"`
	BusesT      BusSeries       `json:"buses_t" yaml:"buses_t"`
	LoadsT      LoadSeries      `json:"loads_t" yaml:"loads_t"`
	GeneratorsT GeneratorSeries `json:"generators_t" yaml:"generators_t"`
}

// Solver runs a power flow over every snapshot and fills BusesT.
type Solver interface {
	PF(*Network) error
}

// New returns an empty network with snapshots 0..n-1.
func New(name string, snapshots int) *Network {
	s := make([]int, snapshots)
	for i := range s {
		s[i] = i
	}
	return &Network{Name: name, Snapshots: s}
}

// AddBus adds b. A zero VMagPuSet defaults to 1.0 pu.
func (n *Network) AddBus(b Bus) error {
	if b.Name == "" {
		return errors.New("bus name is empty")
	}
	if n.hasBus(b.Name) {
		return fmt.Errorf("bus %q already exists", b.Name)
	}
	if b.VMagPuSet == 0 {
		b.VMagPuSet = 1.0
	}
	n.Buses = append(n.Buses, b)
	return nil
}

// AddLine adds l between two existing buses.
func (n *Network) AddLine(l Line) error {
	if l.Name == "" {
		return errors.New("line name is empty")
	}
	for _, e := range n.Lines {
		if e.Name == l.Name {
			return fmt.Errorf("line %q already exists", l.Name)
		}
	}
	if err := n.requireBus("line", l.Name, l.Bus0); err != nil {
		return err
	}
	if err := n.requireBus("line", l.Name, l.Bus1); err != nil {
		return err
	}
	if l.Bus0 == l.Bus1 {
		return fmt.Errorf("line %q connects bus %q to itself", l.Name, l.Bus0)
	}
	n.Lines = append(n.Lines, l)
	return nil
}

// AddGenerator adds g at an existing bus. Control defaults to PQ and
// PMaxPu to 1.
func (n *Network) AddGenerator(g Generator) error {
	if g.Name == "" {
		return errors.New("generator name is empty")
	}
	for _, e := range n.Generators {
		if e.Name == g.Name {
			return fmt.Errorf("generator %q already exists", g.Name)
		}
	}
	if err := n.requireBus("generator", g.Name, g.Bus); err != nil {
		return err
	}
	if g.Control == "" {
		g.Control = ControlPQ
	}
	if g.PMaxPu == 0 {
		g.PMaxPu = 1
	}
	n.Generators = append(n.Generators, g)
	return nil
}

// AddLoad adds a load with static set points.
func (n *Network) AddLoad(l Load) error {
	if l.Name == "" {
		return errors.New("load name is empty")
	}
	for _, e := range n.Loads {
		if e.Name == l.Name {
			return fmt.Errorf("load %q already exists", l.Name)
		}
	}
	if err := n.requireBus("load", l.Name, l.Bus); err != nil {
		return err
	}
	n.Loads = append(n.Loads, l)
	return nil
}

// AddLoadSeries adds a load whose active power varies per snapshot. Nothing
// is added when the series does not fit the load frame.
func (n *Network) AddLoadSeries(l Load, pSet []float64) error {
	if len(pSet) != len(n.Snapshots) {
		return fmt.Errorf("load %q series has %d values, network has %d snapshots", l.Name, len(pSet), len(n.Snapshots))
	}
	if err := n.LoadsT.PSet.fits(l.Name, len(pSet)); err != nil {
		return err
	}
	if err := n.AddLoad(l); err != nil {
		return err
	}
	return n.LoadsT.PSet.AddColumn(l.Name, pSet)
}

// PF runs solver over the network.
func (n *Network) PF(solver Solver) error {
	if solver == nil {
		return ErrNoSolver
	}
	return solver.PF(n)
}

// Validate checks names, bus references and series shapes of a decoded
// network and fills in the defaults AddBus and AddGenerator apply.
func (n *Network) Validate() error {
	c := &Network{Snapshots: n.Snapshots}
	for _, b := range n.Buses {
		if err := c.AddBus(b); err != nil {
			return err
		}
	}
	for _, l := range n.Lines {
		if err := c.AddLine(l); err != nil {
			return err
		}
	}
	for _, g := range n.Generators {
		if err := c.AddGenerator(g); err != nil {
			return err
		}
	}
	for _, l := range n.Loads {
		if err := c.AddLoad(l); err != nil {
			return err
		}
	}

	frames := map[string]Frame{
		"buses_t.p":        n.BusesT.P,
		"buses_t.q":        n.BusesT.Q,
		"buses_t.v_mag_pu": n.BusesT.VMagPu,
		"buses_t.v_ang":    n.BusesT.VAng,
		"loads_t.p_set":    n.LoadsT.PSet,
		"generators_t.p":   n.GeneratorsT.P,
	}
	for name, f := range frames {
		if err := f.check(len(n.Snapshots)); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	n.Buses = c.Buses
	n.Generators = c.Generators
	return nil
}

// BusNames lists bus names in insertion order.
func (n *Network) BusNames() []string {
	out := make([]string, len(n.Buses))
	for i, b := range n.Buses {
		out[i] = b.Name
	}
	return out
}

// BusVMagPuSet is the voltage set point column of the bus table.
func (n *Network) BusVMagPuSet() []float64 {
	out := make([]float64, len(n.Buses))
	for i, b := range n.Buses {
		out[i] = b.VMagPuSet
	}
	return out
}

// LineSNom is the thermal rating column of the line table.
func (n *Network) LineSNom() []float64 {
	return n.lineColumn(func(l Line) float64 { return l.SNom })
}

// LineX is the reactance column of the line table.
func (n *Network) LineX() []float64 {
	return n.lineColumn(func(l Line) float64 { return l.X })
}

// LineR is the resistance column of the line table.
func (n *Network) LineR() []float64 {
	return n.lineColumn(func(l Line) float64 { return l.R })
}

// GeneratorControl is the control mode column of the generator table.
func (n *Network) GeneratorControl() []string {
	out := make([]string, len(n.Generators))
	for i, g := range n.Generators {
		out[i] = g.Control
	}
	return out
}

// GeneratorPMinPu is the minimum output column of the generator table.
func (n *Network) GeneratorPMinPu() []float64 {
	return n.generatorColumn(func(g Generator) float64 { return g.PMinPu })
}

// GeneratorPSet is the active power set point column of the generator table.
func (n *Network) GeneratorPSet() []float64 {
	return n.generatorColumn(func(g Generator) float64 { return g.PSet })
}

func (n *Network) lineColumn(f func(Line) float64) []float64 {
	out := make([]float64, len(n.Lines))
	for i, l := range n.Lines {
		out[i] = f(l)
	}
	return out
}

func (n *Network) generatorColumn(f func(Generator) float64) []float64 {
	out := make([]float64, len(n.Generators))
	for i, g := range n.Generators {
		out[i] = f(g)
	}
	return out
}

func (n *Network) bus(name string) (Bus, bool) {
	for _, b := range n.Buses {
		if b.Name == name {
			return b, true
		}
	}
	return Bus{}, false
}

func (n *Network) hasBus(name string) bool {
	_, ok := n.bus(name)
	return ok
}

func (n *Network) requireBus(kind, name, bus string) error {
	if !n.hasBus(bus) {
		return fmt.Errorf("%s %q references unknown bus %q", kind, name, bus)
	}
	return nil
}

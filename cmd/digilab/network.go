package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/ohowland/digilab/internal/lib/assignment1"
	"github.com/ohowland/digilab/internal/lib/unitcommitment"
	"github.com/ohowland/digilab/internal/pkg/network"
	"github.com/ohowland/digilab/internal/pkg/submission"
	"github.com/spf13/cobra"
)

func networkCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "network",
		Short: "Build lab networks",
	}
	c.AddCommand(unitCommitmentCmd())
	return c
}

func unitCommitmentCmd() *cobra.Command {
	var load []float64
	var costG1, costG2 float64

	c := &cobra.Command{
		Use:   "uc",
		Short: "Print the three-bus unit commitment network as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := unitcommitment.GetNetwork(load, costG1, costG2)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(n)
		},
	}

	c.Flags().Float64SliceVar(&load, "load", nil, "Load set points in MW, one per snapshot (required)")
	c.Flags().Float64Var(&costG1, "cost-g1", 0, "Marginal cost of Hydro 1")
	c.Flags().Float64Var(&costG2, "cost-g2", 0, "Marginal cost of Hydro 2")
	_ = c.MarkFlagRequired("load")
	return c
}

func inspectCmd() *cobra.Command {
	var sBase float64

	c := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Summarize the network in a submission file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := submission.ReadFile(args[0])
			if err != nil {
				return err
			}
			n := sub.Network
			if n == nil {
				return errors.New("submission has no network")
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, titleStyle.Render(n.Name))
			fmt.Fprintf(w, "snapshots: %d\nbuses: %d\nlines: %d\ngenerators: %d\nloads: %d\n",
				len(n.Snapshots), len(n.Buses), len(n.Lines), len(n.Generators), len(n.Loads))

			islands, err := n.Islands()
			if err != nil {
				return err
			}
			printShapes(w, n)
			fmt.Fprintf(w, "islands: %d\n", len(islands))
			for i, island := range islands {
				fmt.Fprintf(w, "  %d: %s\n", i, strings.Join(island, ", "))
			}

			y, err := n.AdmittanceMatrix(sBase)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Y-bus (pu, %v MVA base)", sBase)))
			return printMatrix(w, n.BusNames(), y)
		},
	}

	c.Flags().Float64Var(&sBase, "s-base", unitcommitment.SBase, "System base power in MVA")
	return c
}

func ybusCmd() *cobra.Command {
	var reference bool

	c := &cobra.Command{
		Use:   "ybus",
		Short: "Print a per-unit bus admittance matrix",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if reference {
				return printMatrix(cmd.OutOrStdout(), busLabels(len(assignment1.YBus)), assignment1.YBus)
			}
			n, err := unitcommitment.GetNetwork([]float64{0}, 0, 0)
			if err != nil {
				return err
			}
			y, err := n.AdmittanceMatrix(unitcommitment.SBase)
			if err != nil {
				return err
			}
			return printMatrix(cmd.OutOrStdout(), n.BusNames(), y)
		},
	}

	c.Flags().BoolVar(&reference, "reference", false, "Print the matrix handed out with Assignment 1 instead of computing it")
	return c
}

func printMatrix(w io.Writer, names []string, y [][]complex128) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(headerStyle).
		Headers(append([]string{""}, names...)...)
	for i, row := range y {
		cells := make([]string, 0, len(row)+1)
		cells = append(cells, names[i])
		for _, v := range row {
			cells = append(cells, fmt.Sprintf("%+.8f%+.8fj", real(v), imag(v)))
		}
		t.Row(cells...)
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

func busLabels(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("Bus %d", i+1)
	}
	return out
}

func printShapes(w io.Writer, n *network.Network) {
	frames := []struct {
		name string
		f    network.Frame
	}{
		{"buses_t.p", n.BusesT.P},
		{"buses_t.q", n.BusesT.Q},
		{"buses_t.v_mag_pu", n.BusesT.VMagPu},
		{"buses_t.v_ang", n.BusesT.VAng},
		{"loads_t.p_set", n.LoadsT.PSet},
		{"generators_t.p", n.GeneratorsT.P},
	}
	for _, fr := range frames {
		if fr.f.Empty() {
			continue
		}
		rows, cols := fr.f.Shape()
		fmt.Fprintf(w, "%s: %dx%d\n", fr.name, rows, cols)
	}
}

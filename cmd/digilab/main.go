package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "digilab",
		Short:        "Grade DigiLab power system assignments",
		SilenceUsage: true,
	}
	cmd.AddCommand(tasksCmd(), gradeCmd(), networkCmd(), inspectCmd(), ybusCmd(), serveCmd())
	return cmd
}

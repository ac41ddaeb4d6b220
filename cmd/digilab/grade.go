package main

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/ohowland/digilab/internal/pkg/grade"
	"github.com/ohowland/digilab/internal/pkg/submission"
	"github.com/ohowland/digilab/internal/pkg/task"
	"github.com/spf13/cobra"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	faintStyle  = lipgloss.NewStyle().Faint(true)
	passedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	failedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

func tasksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "List the gradable tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := table.New().
				Border(lipgloss.NormalBorder()).
				StyleFunc(headerStyle).
				Headers("TASK", "MAX", "NEEDS", "DESCRIPTION")
			for _, tk := range task.List() {
				t.Row(tk.ID, strconv.Itoa(tk.Max), tk.Needs, tk.Description)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), t.String())
			return err
		},
	}
}

func gradeCmd() *cobra.Command {
	var id string

	c := &cobra.Command{
		Use:   "grade FILE",
		Short: "Grade a JSON or YAML submission file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := submission.ReadFile(args[0])
			if err != nil {
				return err
			}
			r, err := task.Run(id, sub, nil)
			if err != nil {
				return err
			}
			if err := printReport(cmd.OutOrStdout(), r); err != nil {
				return err
			}
			if r.Err != nil {
				return fmt.Errorf("%s: %w", r.Task, r.Err)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&id, "task", "t", "", "Task ID (defaults to the task named in the file)")
	return c
}

func headerStyle(row, _ int) lipgloss.Style {
	if row == table.HeaderRow {
		return titleStyle.Padding(0, 1)
	}
	return cellStyle
}

// printReport styles the lines grade.Print writes: messages faint, the
// closing summary by outcome.
func printReport(w io.Writer, r grade.Report) error {
	buf := &bytes.Buffer{}
	if err := grade.Print(buf, r); err != nil {
		return err
	}
	summary := passedStyle
	if !r.Passed() {
		summary = failedStyle
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	for i, line := range lines {
		style := faintStyle
		if i == len(lines)-1 {
			style = summary
		}
		if _, err := fmt.Fprintln(w, style.Render(line)); err != nil {
			return err
		}
	}
	return nil
}

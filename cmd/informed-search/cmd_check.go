package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/maastrichtu-biss/informed-search/internal/problem"
)

func (a *app) newCheckCmd() *cobra.Command {
	var (
		problemPath string
		goal        string
		strict      bool
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report whether a problem's heuristic is admissible and consistent",
		Long: `Computes the true cheapest cost from every node to the goal and lists
nodes whose heuristic overestimates it, and edges u -> v where
h(u) > cost(u, v) + h(v).

With --strict the command fails when the heuristic is not admissible.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := problem.Load(problemPath, problem.WithGoal(goal))
			if err != nil {
				return err
			}
			report, err := doc.Check()
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)
			if strict && !report.Admissible() {
				return fmt.Errorf("heuristic is not admissible for goal %s", report.Goal)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&problemPath, "problem", "p", "", "problem document (.yaml, .yml or .json)")
	cmd.Flags().StringVar(&goal, "goal", "", "goal node (default: document goal)")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when the heuristic is not admissible")
	cmd.MarkFlagRequired("problem")
	return cmd
}

func printReport(out io.Writer, report *problem.Report) {
	fmt.Fprintf(out, "Goal: %s\n", report.Goal)
	fmt.Fprintf(out, "Admissible: %t\n", report.Admissible())
	for _, v := range report.Violations {
		fmt.Fprintf(out, "  h(%s) = %s > true cost %s\n", v.Node, formatCost(v.Heuristic), formatCost(v.TrueCost))
	}
	fmt.Fprintf(out, "Consistent: %t\n", report.Consistent())
	for _, e := range report.Inconsistencies {
		fmt.Fprintf(out, "  %s -> %s: h(%s) = %s > %s + h(%s) = %s\n",
			e.From, e.To, e.From, formatCost(e.HFrom), formatCost(e.Cost), e.To, formatCost(e.HTo))
	}
	if len(report.ShortEdges) > 0 {
		fmt.Fprintln(out, "Edges cheaper than their straight-line distance:")
		for _, e := range report.ShortEdges {
			fmt.Fprintf(out, "  %s -> %s: cost %s < distance %s\n", e.From, e.To, formatCost(e.Cost), formatCost(e.Distance))
		}
	}
}

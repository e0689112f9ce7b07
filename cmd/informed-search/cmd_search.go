package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/maastrichtu-biss/informed-search/internal/aostar"
	"github.com/maastrichtu-biss/informed-search/internal/astar"
	"github.com/maastrichtu-biss/informed-search/internal/problem"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

type searchFlags struct {
	problemPath string
	start       string
	goal        string
	tieBreak    string
	strategy    string
	cyclePolicy string
	jsonOutput  bool
}

// =============================================================================
// COMMAND DEFINITIONS
// =============================================================================

func (a *app) newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run A* and AO* on the built-in reference problem",
		Args:  cobra.NoArgs,
		RunE:  a.runDemo,
	}
}

func (a *app) newAStarCmd() *cobra.Command {
	f := &searchFlags{}
	cmd := &cobra.Command{
		Use:   "astar",
		Short: "Find a path between two nodes of a problem document",
		Long: `Runs best-first search from start to goal.

Start and goal default to the values in the document. The strategy is one
of astar (f = g + h), greedy (f = h) or uniform-cost (f = g).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAStar(cmd.OutOrStdout(), f)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&f.goal, "goal", "", "goal node (default: document goal)")
	cmd.Flags().StringVar(&f.tieBreak, "tie-break", "", "equal-f ordering: lower-g or higher-g")
	cmd.Flags().StringVar(&f.strategy, "strategy", "", "astar, greedy or uniform-cost")
	return cmd
}

func (a *app) newAOStarCmd() *cobra.Command {
	f := &searchFlags{}
	cmd := &cobra.Command{
		Use:   "aostar",
		Short: "Solve the AND-OR graph of a problem document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAOStar(cmd.OutOrStdout(), f)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&f.cyclePolicy, "cycle-policy", "", "strict or lenient")
	return cmd
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.problemPath, "problem", "p", "", "problem document (.yaml, .yml or .json)")
	cmd.Flags().StringVar(&f.start, "start", "", "start node (default: document start)")
	cmd.Flags().BoolVar(&f.jsonOutput, "json", false, "print JSON instead of text")
	cmd.MarkFlagRequired("problem")
}

// =============================================================================
// RUNNERS
// =============================================================================

// runDemo prints the reference problem's A* and AO* results, followed by a
// warning when its heuristic table overestimates.
func (a *app) runDemo(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	doc := problem.Reference()

	opts, err := a.astarOptions(&searchFlags{})
	if err != nil {
		return err
	}
	res, err := doc.Search(opts...)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "===== A* Search =====")
	printSearch(out, doc, res)

	report, err := doc.Check()
	if err != nil {
		return err
	}
	printAdmissibilityWarning(out, report)

	aoOpts, err := a.aostarOptions(&searchFlags{})
	if err != nil {
		return err
	}
	sol, err := doc.Solve(aoOpts...)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "===== AO* Search =====")
	printSolution(out, sol)
	return nil
}

func (a *app) runAStar(out io.Writer, f *searchFlags) error {
	doc, err := loadProblem(f)
	if err != nil {
		return err
	}

	opts, err := a.astarOptions(f)
	if err != nil {
		return err
	}
	res, err := doc.Search(opts...)
	if err != nil {
		return err
	}

	if f.jsonOutput {
		return writeJSON(out, searchOutput{
			Start:    doc.Start,
			Goal:     doc.Goal,
			Found:    res.Found,
			Path:     res.Path,
			Cost:     finite(res.Cost),
			Expanded: res.Expanded,
		})
	}
	printSearch(out, doc, res)
	return nil
}

func (a *app) runAOStar(out io.Writer, f *searchFlags) error {
	doc, err := loadProblem(f)
	if err != nil {
		return err
	}

	opts, err := a.aostarOptions(f)
	if err != nil {
		return err
	}
	sol, err := doc.Solve(opts...)
	if err != nil {
		return err
	}

	if f.jsonOutput {
		resp := solutionOutput{Root: sol.Root, Cost: finite(sol.Cost()), Plan: sol.Plan()}
		for _, n := range sol.Order {
			c := sol.Choices[n]
			group := c.Group
			if group == nil {
				group = []string{}
			}
			resp.Choices = append(resp.Choices, choiceOutput{Node: n, Group: group, Cost: finite(c.Cost)})
		}
		return writeJSON(out, resp)
	}
	printSolution(out, sol)
	return nil
}

func loadProblem(f *searchFlags) (*problem.Document, error) {
	return problem.Load(f.problemPath, problem.WithStart(f.start), problem.WithGoal(f.goal))
}

func (a *app) astarOptions(f *searchFlags) ([]astar.Option, error) {
	opts, err := a.cfg.Search.AStarOptions()
	if err != nil {
		return nil, err
	}
	if f.tieBreak != "" {
		tb, err := astar.ParseTieBreak(f.tieBreak)
		if err != nil {
			return nil, err
		}
		opts = append(opts, astar.WithTieBreak(tb))
	}
	if f.strategy != "" {
		s, err := astar.ParseStrategy(f.strategy)
		if err != nil {
			return nil, err
		}
		opts = append(opts, astar.WithStrategy(s))
	}
	return append(opts, astar.WithLogger(a.logger)), nil
}

func (a *app) aostarOptions(f *searchFlags) ([]aostar.Option, error) {
	opts, err := a.cfg.Search.AOStarOptions()
	if err != nil {
		return nil, err
	}
	if f.cyclePolicy != "" {
		p, err := aostar.ParseCyclePolicy(f.cyclePolicy)
		if err != nil {
			return nil, err
		}
		opts = append(opts, aostar.WithCyclePolicy(p))
	}
	return append(opts, aostar.WithLogger(a.logger)), nil
}

// =============================================================================
// OUTPUT
// =============================================================================

type searchOutput struct {
	Start    string   `json:"start"`
	Goal     string   `json:"goal"`
	Found    bool     `json:"found"`
	Path     []string `json:"path"`
	Cost     *float64 `json:"cost,omitempty"`
	Expanded int      `json:"expanded"`
}

type choiceOutput struct {
	Node  string   `json:"node"`
	Group []string `json:"group"`
	Cost  *float64 `json:"cost,omitempty"`
}

type solutionOutput struct {
	Root    string         `json:"root"`
	Cost    *float64       `json:"cost,omitempty"`
	Choices []choiceOutput `json:"choices"`
	Plan    []string       `json:"plan"`
}

func printSearch(out io.Writer, doc *problem.Document, res astar.Result[string]) {
	if !res.Found {
		fmt.Fprintf(out, "No path found from %s to %s\n", doc.Start, doc.Goal)
		return
	}
	fmt.Fprintf(out, "Path found: %v\n", res.Path)
	fmt.Fprintf(out, "Total cost: %s\n", formatCost(res.Cost))
}

func printSolution(out io.Writer, sol *aostar.Solution[string]) {
	for _, n := range sol.Order {
		c := sol.Choices[n]
		group := c.Group
		if group == nil {
			group = []string{}
		}
		fmt.Fprintf(out, "Node %s: follows %v with total cost %s\n", n, group, formatCost(c.Cost))
	}
}

func printAdmissibilityWarning(out io.Writer, report *problem.Report) {
	if report.Admissible() {
		return
	}
	fmt.Fprintln(out, "Warning: the heuristic overestimates, so this path may not be optimal:")
	for _, v := range report.Violations {
		fmt.Fprintf(out, "  h(%s) = %s but the cheapest cost to %s is %s\n",
			v.Node, formatCost(v.Heuristic), report.Goal, formatCost(v.TrueCost))
	}
}

func formatCost(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

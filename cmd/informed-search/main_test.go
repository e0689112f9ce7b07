package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maastrichtu-biss/informed-search/internal/problem"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeReference(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, problem.Save(problem.Reference(), path))
	return path
}

const demoOutput = `===== A* Search =====
Path found: [A B E F]
Total cost: 7
Warning: the heuristic overestimates, so this path may not be optimal:
  h(A) = 6 but the cheapest cost to F is 5
  h(C) = 4 but the cheapest cost to F is 1

===== AO* Search =====
Node D: follows [] with total cost 2
Node B: follows [D] with total cost 6
Node E: follows [] with total cost 1
Node F: follows [] with total cost 0
Node C: follows [E F] with total cost 5
Node A: follows [B C] with total cost 17
`

func TestDemo(t *testing.T) {
	out, err := run(t)
	require.NoError(t, err)
	assert.Equal(t, demoOutput, out)

	out, err = run(t, "demo")
	require.NoError(t, err)
	assert.Equal(t, demoOutput, out)
}

func TestAStarCmd(t *testing.T) {
	path := writeReference(t, "reference.yaml")

	out, err := run(t, "astar", "--problem", path)
	require.NoError(t, err)
	assert.Equal(t, "Path found: [A B E F]\nTotal cost: 7\n", out)

	out, err = run(t, "astar", "-p", path, "--strategy", "uniform-cost")
	require.NoError(t, err)
	assert.Equal(t, "Path found: [A C F]\nTotal cost: 5\n", out)

	out, err = run(t, "astar", "-p", path, "--start", "D")
	require.NoError(t, err)
	assert.Equal(t, "No path found from D to F\n", out)

	out, err = run(t, "astar", "-p", path, "--goal", "C", "--json")
	require.NoError(t, err)
	var got searchOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.Found)
	assert.Equal(t, []string{"A", "C"}, got.Path)
	assert.Equal(t, 4.0, *got.Cost)

	_, err = run(t, "astar", "-p", path, "--tie-break", "random")
	assert.Error(t, err)

	_, err = run(t, "astar")
	assert.Error(t, err)
}

func TestAOStarCmd(t *testing.T) {
	path := writeReference(t, "reference.json")

	out, err := run(t, "aostar", "-p", path, "--start", "C")
	require.NoError(t, err)
	assert.Equal(t, "Node E: follows [] with total cost 1\nNode F: follows [] with total cost 0\nNode C: follows [E F] with total cost 5\n", out)

	out, err = run(t, "aostar", "-p", path, "--json")
	require.NoError(t, err)
	var got solutionOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "A", got.Root)
	assert.Equal(t, 17.0, *got.Cost)
	assert.Len(t, got.Choices, 6)
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "F"}, got.Plan)
}

func TestCheckCmd(t *testing.T) {
	path := writeReference(t, "reference.yaml")

	out, err := run(t, "check", "-p", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Admissible: false")
	assert.Contains(t, out, "h(C) = 4 > true cost 1")
	assert.Contains(t, out, "A -> B: h(A) = 6 > 1 + h(B) = 4")

	_, err = run(t, "check", "-p", path, "--strict")
	assert.Error(t, err)
}

func TestConfigFlags(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("search:\n  strategy: uniform-cost\n"), 0644))
	path := writeReference(t, "reference.yaml")

	out, err := run(t, "--config", cfgPath, "astar", "-p", path)
	require.NoError(t, err)
	assert.Equal(t, "Path found: [A C F]\nTotal cost: 5\n", out)

	_, err = run(t, "--log-level", "chatty", "demo")
	assert.Error(t, err)
}

const planarNoGoal = `start: a
edges:
  - {from: a, to: b, cost: 4}
  - {from: b, to: c, cost: 5}
coordinates:
  a: [0, 0]
  b: [3, 4]
  c: [6, 8]
heuristicSource: planar
`

func TestGoalFlagBeforeValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planar.yaml")
	require.NoError(t, os.WriteFile(path, []byte(planarNoGoal), 0644))

	_, err := run(t, "astar", "-p", path)
	assert.Error(t, err)

	out, err := run(t, "astar", "-p", path, "--goal", "c")
	require.NoError(t, err)
	assert.Equal(t, "Path found: [a b c]\nTotal cost: 9\n", out)

	out, err = run(t, "check", "-p", path, "--goal", "c")
	require.NoError(t, err)
	assert.Contains(t, out, "Goal: c")
	assert.Contains(t, out, "a -> b: cost 4 < distance 5")
}

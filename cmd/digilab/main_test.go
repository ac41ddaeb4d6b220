package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/ohowland/digilab/internal/lib/assignment1"
	"github.com/ohowland/digilab/internal/pkg/config"
	"github.com/ohowland/digilab/internal/pkg/grade"
	"github.com/ohowland/digilab/internal/pkg/msg"
	"github.com/ohowland/digilab/internal/pkg/network"
	"go.uber.org/zap"
	"gotest.tools/v3/assert"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTasks(t *testing.T) {
	out, err := execute(t, "tasks")
	assert.NilError(t, err)
	assert.Assert(t, strings.Contains(out, "a1/task1"))
	assert.Assert(t, strings.Contains(out, "a2/task2.2"))
}

func TestGrade(t *testing.T) {
	out, err := execute(t, "grade", "grade_test_submission.json")
	assert.NilError(t, err)
	assert.Assert(t, strings.Contains(out, "Score: 3/3"))
}

func TestGradeReportError(t *testing.T) {
	out, err := execute(t, "grade", "grade_test_partial.json")
	assert.ErrorContains(t, err, "a1/task2")
	assert.Assert(t, strings.Contains(out, "The power flow equations were not solved."))
	assert.Assert(t, strings.Contains(out, "Score: 0/3"))
}

func TestGradeTaskOverride(t *testing.T) {
	_, err := execute(t, "grade", "--task", "a9/task1", "grade_test_submission.json")
	assert.ErrorContains(t, err, "unknown task")
}

func TestPrintReport(t *testing.T) {
	r := grade.Report{Title: "Task 2.1", Score: 4, Max: 6, Messages: []string{"Objective is not correct."}}
	plain := &bytes.Buffer{}
	assert.NilError(t, grade.Print(plain, r))

	buf := &bytes.Buffer{}
	assert.NilError(t, printReport(buf, r))
	assert.Assert(t, strings.Contains(buf.String(), "Objective is not correct."))
	assert.Assert(t, strings.Contains(buf.String(), "Task 2.1: 4/6"))
	assert.Equal(t, strings.Count(buf.String(), "\n"), strings.Count(plain.String(), "\n"))
}

func TestNetworkUC(t *testing.T) {
	out, err := execute(t, "network", "uc", "--load", "4,5,6", "--cost-g1", "10", "--cost-g2", "12")
	assert.NilError(t, err)

	n := network.Network{}
	assert.NilError(t, json.Unmarshal([]byte(out), &n))
	assert.Equal(t, len(n.Snapshots), 3)
	assert.Equal(t, len(n.Buses), 3)
	assert.Equal(t, n.Generators[1].MarginalCost, 12.0)
}

func TestNetworkUCNeedsLoad(t *testing.T) {
	_, err := execute(t, "network", "uc")
	assert.ErrorContains(t, err, "load")
}

func TestYBusReference(t *testing.T) {
	out, err := execute(t, "ybus", "--reference")
	assert.NilError(t, err)

	want := &bytes.Buffer{}
	assert.NilError(t, printMatrix(want, busLabels(3), assignment1.YBus))
	assert.Equal(t, out, want.String())
	assert.Assert(t, strings.Contains(out, "-0.19890411+0.53041095j"))
	assert.Assert(t, strings.Contains(out, "Bus 3"))
}

func TestYBusComputed(t *testing.T) {
	out, err := execute(t, "ybus")
	assert.NilError(t, err)
	assert.Assert(t, strings.Contains(out, "+0.2354"))
	assert.Assert(t, strings.Contains(out, "Bus 1"))
}

func TestInspect(t *testing.T) {
	out, err := execute(t, "inspect", "inspect_test_network.yaml")
	assert.NilError(t, err)
	assert.Assert(t, strings.Contains(out, "buses: 3"))
	assert.Assert(t, strings.Contains(out, "buses_t.v_mag_pu: 1x3"))
	assert.Assert(t, strings.Contains(out, "generators_t.p: 1x1"))
	assert.Assert(t, strings.Contains(out, "islands: 1"))
	assert.Assert(t, strings.Contains(out, "Y-bus"))
}

func TestInspectWithoutNetwork(t *testing.T) {
	_, err := execute(t, "inspect", "grade_test_submission.json")
	assert.ErrorContains(t, err, "no network")
}

func TestServeShutsDown(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Port = "127.0.0.1:0"
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NilError(t, serve(ctx, cfg, zap.NewNop()))
}

func TestBuildSinks(t *testing.T) {
	cfg := config.Default()
	cfg.NATS.Server = "nats://127.0.0.1:4222"
	cfg.Mongo.URI = "mongodb://localhost"

	pid, _ := uuid.NewUUID()
	system := msg.NewPublisher(pid)
	defer system.Close()

	sinks, err := buildSinks(cfg, system, zap.NewNop())
	assert.NilError(t, err)
	assert.Equal(t, len(sinks), 2)
	_, ok := sinks["gradebook"]
	assert.Assert(t, !ok)
	_, ok = sinks["nats"]
	assert.Assert(t, ok)
}

package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/searchsim/internal/cli"
	"github.com/aretw0/searchsim/internal/config"
	"github.com/aretw0/searchsim/internal/logging"
	"github.com/aretw0/searchsim/pkg/domain"
	"github.com/aretw0/searchsim/pkg/policy"
)

func TestRun_JSONReports(t *testing.T) {
	var out bytes.Buffer
	err := cli.Run(context.Background(), cli.RunOptions{
		ConfigPath: filepath.Join("testdata", "sim.yaml"),
		JSON:       true,
	}, logging.NewNop(), nil, &out)
	require.NoError(t, err)

	reports := map[string]domain.Report{}
	dec := json.NewDecoder(&out)
	for dec.More() {
		var r domain.Report
		require.NoError(t, dec.Decode(&r))
		reports[r.SessionID] = r
	}
	require.Len(t, reports, 4)

	search := reports["search"]
	assert.Equal(t, []string{"tiger habitat", "tiger population"}, search.Queries)
	assert.Equal(t, 2, search.RelevantDocuments)
	assert.Equal(t, 88.0, search.TotalCost)
	assert.Equal(t, "exhausted", search.Reason)

	chat := reports["chat"]
	assert.Equal(t, domain.WorkflowConversational, chat.Workflow)
	assert.Len(t, chat.Utterances, 2)
	assert.Equal(t, "stopped", chat.Reason)

	for _, id := range []string{"walk-1", "walk-2"} {
		walk := reports[id]
		assert.Equal(t, []domain.Action{
			domain.ActionQuery, domain.ActionSERP, domain.ActionSnippet,
			domain.ActionDoc, domain.ActionMark, domain.ActionStop,
		}, walk.Actions, id)
	}
}

func TestRun_TableAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	var out bytes.Buffer
	err := cli.Run(context.Background(), cli.RunOptions{
		ConfigPath: filepath.Join("testdata", "sim.yaml"),
	}, logging.NewNop(), reg, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "SESSION")
	assert.Contains(t, out.String(), "4 completed, 0 skipped, 0 failed")

	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	assert.True(t, names["searchsim_actions_total"])
	assert.True(t, names["searchsim_sessions_finished_total"])
}

func TestRun_SQLiteResume(t *testing.T) {
	store := cli.StoreOptions{Kind: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "reports.db")}
	cfg := filepath.Join("testdata", "sim.yaml")

	var out bytes.Buffer
	require.NoError(t, cli.Run(context.Background(), cli.RunOptions{ConfigPath: cfg, Store: store}, logging.NewNop(), nil, &out))

	out.Reset()
	require.NoError(t, cli.Run(context.Background(), cli.RunOptions{ConfigPath: cfg, Store: store, Resume: true}, logging.NewNop(), nil, &out))
	assert.Contains(t, out.String(), "0 completed, 4 skipped, 0 failed")
}

func TestValidate(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, cli.Validate(filepath.Join("testdata", "sim.yaml"), &out))
	assert.Contains(t, out.String(), "4 sessions")

	err := cli.Validate(filepath.Join("testdata", "bad-policy.yaml"), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "depht")
}

func TestBuildPolicies_WrongPort(t *testing.T) {
	reg := policy.NewRegistry()
	reg.Register(policy.KindQueries, "broken", func(map[string]any, policy.Env) (any, error) {
		return "not a generator", nil
	})

	s := config.Session{Workflow: domain.WorkflowSearch}
	s.Policies.Queries = policy.Spec{Name: "broken"}

	_, err := cli.BuildPolicies(reg, s, policy.Env{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not implement")
}

func TestBuildPolicies_OnlyWhatTheWorkflowNeeds(t *testing.T) {
	cfg := config.Config{Sessions: []config.Session{{Workflow: domain.WorkflowConversational, Corpus: "c.yaml"}}}
	cfg.ApplyDefaults()

	p, err := cli.BuildPolicies(policy.Defaults(), cfg.Sessions[0], policy.Env{})
	require.NoError(t, err)
	assert.Nil(t, p.Queries)
	assert.Nil(t, p.Stopping)
	assert.NotNil(t, p.Utterances)
	assert.NotNil(t, p.ResponseStopping)
}

func TestOpenStore(t *testing.T) {
	_, err := cli.OpenStore(context.Background(), cli.StoreOptions{Kind: "etcd"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unknown store"))

	b, err := cli.OpenStore(context.Background(), cli.StoreOptions{})
	require.NoError(t, err)
	assert.Nil(t, b.Locker)
	assert.NoError(t, b.Close())
}

func TestRun_FileStore(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	err := cli.Run(context.Background(), cli.RunOptions{
		ConfigPath: filepath.Join("testdata", "sim.yaml"),
		Store:      cli.StoreOptions{Kind: "file", Dir: dir},
	}, logging.NewNop(), nil, &out)
	require.NoError(t, err)

	for _, id := range []string{"search", "chat", "walk-1", "walk-2"} {
		assert.FileExists(t, filepath.Join(dir, id+".json"))
	}
}

func TestRunInBackground_WaitsForReports(t *testing.T) {
	backend, err := cli.OpenStore(context.Background(), cli.StoreOptions{})
	require.NoError(t, err)

	wait := cli.RunInBackground(context.Background(), cli.RunOptions{
		ConfigPath: filepath.Join("testdata", "sim.yaml"),
	}, backend, logging.NewNop(), prometheus.NewRegistry())
	wait()

	ids, err := backend.Store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"chat", "search", "walk-1", "walk-2"}, ids)
	assert.NoError(t, backend.Close())
}

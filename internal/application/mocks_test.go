package application_test

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/ericfisherdev/armlabeler/internal/domain/model"
)

const (
	markedDoc   = `{"swagger":"2.0","info":{"title":"Foo","x-typespec-generated":[{"emitter":"@azure-tools/typespec-autorest"}]}}`
	unmarkedDoc = `{"swagger":"2.0","info":{"title":"Foo"}}`
)

func testPR() model.PullRequest {
	return model.PullRequest{
		Owner:      "Azure",
		Repo:       "azure-rest-api-specs",
		Number:     42,
		BaseRef:    "main",
		HeadSHA:    "abc123",
		BaseCommit: "HEAD^",
		HeadCommit: "HEAD",
	}
}

// --- RepoState ---

type mockRepoState struct {
	trees     map[string]map[string]string // ref -> path -> content
	workspace map[string]string
	changed   []string

	changedErr    error
	pathExistsLog []string
	diffFilters   []string
}

func newMockRepoState() *mockRepoState {
	return &mockRepoState{
		trees:     make(map[string]map[string]string),
		workspace: make(map[string]string),
	}
}

func (m *mockRepoState) commit(ref, path, content string) {
	if m.trees[ref] == nil {
		m.trees[ref] = make(map[string]string)
	}
	m.trees[ref][path] = content
}

func (m *mockRepoState) PathExists(_ context.Context, ref, path string) (bool, error) {
	m.pathExistsLog = append(m.pathExistsLog, path)
	for p := range m.trees[ref] {
		if p == path || strings.HasPrefix(p, path+"/") {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepoState) ListFiles(_ context.Context, ref, dir string) ([]string, error) {
	files := []string{}
	for p := range m.trees[ref] {
		if strings.HasPrefix(p, dir+"/") {
			files = append(files, p)
		}
	}
	sort.Strings(files)
	return files, nil
}

func (m *mockRepoState) FileContent(_ context.Context, ref, path string) ([]byte, error) {
	content, ok := m.trees[ref][path]
	if !ok {
		return nil, fmt.Errorf("%s:%s: %w", ref, path, model.ErrNotFound)
	}
	return []byte(content), nil
}

func (m *mockRepoState) WorkspaceFile(_ context.Context, path string) ([]byte, error) {
	content, ok := m.workspace[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, model.ErrNotFound)
	}
	return []byte(content), nil
}

func (m *mockRepoState) ChangedFiles(_ context.Context, _, _, diffFilter string) ([]string, error) {
	m.diffFilters = append(m.diffFilters, diffFilter)
	if m.changedErr != nil {
		return nil, m.changedErr
	}
	return m.changed, nil
}

// --- GitHub ---

type mockGitHub struct {
	labels []string

	listCalls int
	adds      []string
	removes   []string
	listErr   error
	addErr    error
	removeErr error

	checkRuns        []model.CheckRun
	combined         *model.CombinedStatus
	protectionChecks []string
	rulesetChecks    []string
}

func (m *mockGitHub) ListLabels(_ context.Context, _ string, _ int) ([]string, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return slices.Clone(m.labels), nil
}

func (m *mockGitHub) AddLabel(_ context.Context, _ string, _ int, name string) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.adds = append(m.adds, name)
	m.labels = append(m.labels, name)
	return nil
}

func (m *mockGitHub) RemoveLabel(_ context.Context, _ string, _ int, name string) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	m.removes = append(m.removes, name)
	m.labels = slices.DeleteFunc(m.labels, func(l string) bool { return l == name })
	return nil
}

func (m *mockGitHub) FetchCheckRuns(_ context.Context, _ string, _ string) ([]model.CheckRun, error) {
	return slices.Clone(m.checkRuns), nil
}

func (m *mockGitHub) FetchCombinedStatus(_ context.Context, _ string, _ string) (*model.CombinedStatus, error) {
	return m.combined, nil
}

func (m *mockGitHub) FetchRequiredStatusChecks(_ context.Context, _ string, _ string) ([]string, error) {
	return m.protectionChecks, nil
}

func (m *mockGitHub) FetchRulesetRequiredChecks(_ context.Context, _ string, _ string) ([]string, error) {
	return m.rulesetChecks, nil
}

// --- DecisionStore ---

type mockDecisionStore struct {
	recorded []model.LabelDecision
	err      error
}

func (m *mockDecisionStore) Record(_ context.Context, d model.LabelDecision) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.recorded = append(m.recorded, d)
	return int64(len(m.recorded)), nil
}

func (m *mockDecisionStore) ListRecent(_ context.Context, _ string, _ int) ([]model.LabelDecision, error) {
	return m.recorded, nil
}

func (m *mockDecisionStore) ListByPR(_ context.Context, _ string, _ int) ([]model.LabelDecision, error) {
	return m.recorded, nil
}

// --- RunReporter ---

type mockReporter struct {
	outputs   map[string]string
	decisions []model.LabelDecision
	outputErr error
}

func (m *mockReporter) SetOutput(name, value string) error {
	if m.outputErr != nil {
		return m.outputErr
	}
	if m.outputs == nil {
		m.outputs = make(map[string]string)
	}
	m.outputs[name] = value
	return nil
}

func (m *mockReporter) ReportDecision(d model.LabelDecision) error {
	m.decisions = append(m.decisions, d)
	return nil
}

package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ericfisherdev/armlabeler/internal/domain/model"
	"github.com/ericfisherdev/armlabeler/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.DecisionStore = (*DecisionRepo)(nil)

// decidedAtFormat is fixed width so that decided_at sorts chronologically as text.
const decidedAtFormat = "2006-01-02T15:04:05.000000000Z07:00"

// DecisionRepo is the SQLite implementation of the DecisionStore port interface.
type DecisionRepo struct {
	db *DB
}

// NewDecisionRepo creates a new DecisionRepo backed by the given DB.
func NewDecisionRepo(db *DB) *DecisionRepo {
	return &DecisionRepo{db: db}
}

// Record inserts a decision and returns its row ID. Label and file lists are
// stored as JSON arrays.
func (r *DecisionRepo) Record(ctx context.Context, d model.LabelDecision) (int64, error) {
	removed, err := encodeList(d.Removed)
	if err != nil {
		return 0, fmt.Errorf("encode removed labels: %w", err)
	}
	files, err := encodeList(d.ChangedFiles)
	if err != nil {
		return 0, fmt.Errorf("encode changed files: %w", err)
	}

	decidedAt := d.DecidedAt
	if decidedAt.IsZero() {
		decidedAt = time.Now()
	}

	const query = `
		INSERT INTO label_decisions (repo_full_name, pr_number, head_sha, command, outcome, applied, removed, changed_files, decided_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := r.db.Writer.ExecContext(ctx, query,
		d.RepoFullName, d.PRNumber, d.HeadSHA, d.Command, d.Outcome, d.Applied,
		removed, files, decidedAt.UTC().Format(decidedAtFormat),
	)
	if err != nil {
		return 0, fmt.Errorf("insert decision for %s#%d: %w", d.RepoFullName, d.PRNumber, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read decision id: %w", err)
	}
	return id, nil
}

// ListRecent returns up to limit decisions, newest first. An empty
// repoFullName matches every repository.
func (r *DecisionRepo) ListRecent(ctx context.Context, repoFullName string, limit int) ([]model.LabelDecision, error) {
	if limit <= 0 {
		limit = 20
	}

	const query = `
		SELECT id, repo_full_name, pr_number, head_sha, command, outcome, applied, removed, changed_files, decided_at
		FROM label_decisions
		WHERE ? = '' OR repo_full_name = ?
		ORDER BY decided_at DESC, id DESC
		LIMIT ?
	`
	return r.query(ctx, query, repoFullName, repoFullName, limit)
}

// ListByPR returns every decision for one pull request, newest first.
func (r *DecisionRepo) ListByPR(ctx context.Context, repoFullName string, number int) ([]model.LabelDecision, error) {
	const query = `
		SELECT id, repo_full_name, pr_number, head_sha, command, outcome, applied, removed, changed_files, decided_at
		FROM label_decisions
		WHERE repo_full_name = ? AND pr_number = ?
		ORDER BY decided_at DESC, id DESC
	`
	return r.query(ctx, query, repoFullName, number)
}

func (r *DecisionRepo) query(ctx context.Context, query string, args ...any) ([]model.LabelDecision, error) {
	rows, err := r.db.Reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	decisions := []model.LabelDecision{}
	for rows.Next() {
		d, err := scanDecision(rows)
		if err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		decisions = append(decisions, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decisions: %w", err)
	}

	return decisions, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDecision(s scanner) (*model.LabelDecision, error) {
	var d model.LabelDecision
	var removed, files, decidedAt string

	err := s.Scan(
		&d.ID, &d.RepoFullName, &d.PRNumber, &d.HeadSHA, &d.Command,
		&d.Outcome, &d.Applied, &removed, &files, &decidedAt,
	)
	if err != nil {
		return nil, err
	}

	if d.Removed, err = decodeList(removed); err != nil {
		return nil, fmt.Errorf("decode removed: %w", err)
	}
	if d.ChangedFiles, err = decodeList(files); err != nil {
		return nil, fmt.Errorf("decode changed_files: %w", err)
	}
	if d.DecidedAt, err = parseTime(decidedAt); err != nil {
		return nil, fmt.Errorf("parse decided_at: %w", err)
	}

	return &d, nil
}

func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeList(s string) ([]string, error) {
	items := []string{}
	if s == "" {
		return items, nil
	}
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}

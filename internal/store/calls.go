package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

type callRepo struct {
	db *sql.DB
}

var callColumns = []string{
	"id", "timestamp", "kind", "target", "method", "status", "latency_ms",
	"success", "error_message", "user_id", "request_id", "input_tokens", "output_tokens",
}

func (r *callRepo) AppendCall(ctx context.Context, rec CallRecord) error {
	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(CallEventsTable.Name).
		Columns(callColumns[1:]...).
		Values(
			ts.UTC().UnixMilli(), rec.Kind, rec.Target, rec.Method, rec.Status, rec.LatencyMs,
			rec.Success, rec.ErrorMessage, rec.UserID, rec.RequestID, rec.InputTokens, rec.OutputTokens,
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save call event: %w", err)
	}
	return nil
}

func (r *callRepo) QueryCalls(ctx context.Context, opts QueryOpts) ([]CallRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(callColumns...).
		From(entsql.Table(CallEventsTable.Name))

	var preds []*entsql.Predicate
	if opts.Kind != "" {
		preds = append(preds, entsql.EQ("kind", opts.Kind))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", opts.From.UTC().UnixMilli()))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	sel.OrderBy(entsql.Desc("id"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query call events: %w", err)
	}
	defer rows.Close()

	var out []CallRecord
	for rows.Next() {
		var rec CallRecord
		var ts int64
		if err := rows.Scan(
			&rec.ID, &ts, &rec.Kind, &rec.Target, &rec.Method, &rec.Status, &rec.LatencyMs,
			&rec.Success, &rec.ErrorMessage, &rec.UserID, &rec.RequestID, &rec.InputTokens, &rec.OutputTokens,
		); err != nil {
			return nil, fmt.Errorf("scan call event: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts).UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate call events: %w", err)
	}
	return out, nil
}

func (r *callRepo) UsageByTarget(ctx context.Context) ([]TargetUsage, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(
			"kind",
			"target",
			entsql.Count("*"),
			entsql.Avg("latency_ms"),
			entsql.Sum("input_tokens"),
			entsql.Sum("output_tokens"),
		).
		From(entsql.Table(CallEventsTable.Name)).
		GroupBy("kind", "target").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query usage: %w", err)
	}

	byKey := make(map[string]*TargetUsage)
	var order []string
	for rows.Next() {
		var u TargetUsage
		var avg sql.NullFloat64
		var in, out sql.NullInt64
		if err := rows.Scan(&u.Kind, &u.Target, &u.Calls, &avg, &in, &out); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		u.AvgLatencyMs = int64(avg.Float64)
		u.InputTokens = int(in.Int64)
		u.OutputTokens = int(out.Int64)
		key := u.Kind + "\x00" + u.Target
		byKey[key] = &u
		order = append(order, key)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate usage: %w", err)
	}
	rows.Close()

	failures, err := r.failuresByTarget(ctx)
	if err != nil {
		return nil, err
	}
	for key, n := range failures {
		if u, ok := byKey[key]; ok {
			u.Failures = n
		}
	}

	sort.Strings(order)
	usage := make([]TargetUsage, 0, len(order))
	for _, key := range order {
		usage = append(usage, *byKey[key])
	}
	return usage, nil
}

// failuresByTarget counts unsuccessful calls keyed by kind and target.
func (r *callRepo) failuresByTarget(ctx context.Context) (map[string]int, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("kind", "target", entsql.Count("*")).
		From(entsql.Table(CallEventsTable.Name)).
		Where(entsql.EQ("success", false)).
		GroupBy("kind", "target").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failures: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var kind, target string
		var n int
		if err := rows.Scan(&kind, &target, &n); err != nil {
			return nil, fmt.Errorf("scan failures: %w", err)
		}
		out[kind+"\x00"+target] = n
	}
	return out, rows.Err()
}

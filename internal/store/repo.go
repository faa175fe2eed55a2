package store

import (
	"context"
	"time"
)

// Call kinds.
const (
	KindGateway = "gateway"
	KindLLM     = "llm"
)

// QueryOpts configures journal queries.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	Kind  string    // "" = all kinds
	From  time.Time // timestamp >= From
}

// CallRecord is one outbound call made by the client.
type CallRecord struct {
	ID           int
	Timestamp    time.Time
	Kind         string
	Target       string
	Method       string
	Status       int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	UserID       string
	RequestID    string
	InputTokens  int
	OutputTokens int
}

// TargetUsage aggregates calls per kind and target.
type TargetUsage struct {
	Kind         string
	Target       string
	Calls        int
	Failures     int
	AvgLatencyMs int64
	InputTokens  int
	OutputTokens int
}

// CallRepo appends and reads call records.
type CallRepo interface {
	// AppendCall records one call. A zero Timestamp means now.
	AppendCall(ctx context.Context, rec CallRecord) error

	// QueryCalls returns records newest first.
	QueryCalls(ctx context.Context, opts QueryOpts) ([]CallRecord, error)

	// UsageByTarget aggregates all records per kind and target.
	UsageByTarget(ctx context.Context) ([]TargetUsage, error)
}

package authoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/storymath/internal/llm"
	"github.com/abhisek/storymath/internal/problem"
)

// Config controls the Drafter.
type Config struct {
	// Validators run in order; the first failure rejects the draft.
	Validators []Validator

	MaxTokens   int
	Temperature float64

	// MaxAvoid caps how many existing titles go into the prompt.
	MaxAvoid int
	// MaxAttempts is how many times one draft is regenerated after a
	// retryable validation failure.
	MaxAttempts int
	// Concurrency caps parallel LLM calls in a batch.
	Concurrency int
}

// DefaultConfig returns the standard validator chain and limits.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&ArithmeticValidator{},
			&DuplicateValidator{},
		},
		MaxTokens:   512,
		Temperature: 0.8,
		MaxAvoid:    20,
		MaxAttempts: 3,
		Concurrency: 3,
	}
}

// Drafter generates and validates word problems.
type Drafter struct {
	provider llm.Provider
	config   Config
	logger   *zap.Logger
}

func New(provider llm.Provider, cfg Config, logger *zap.Logger) *Drafter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Drafter{provider: provider, config: cfg, logger: logger}
}

// Draft generates one problem, regenerating on retryable validation
// failures up to MaxAttempts times.
func (d *Drafter) Draft(ctx context.Context, req Request) (Draft, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeDraftProblem)

	var lastErr error
	for attempt := range d.config.MaxAttempts {
		draft, err := d.generate(ctx, req)
		if err == nil {
			return draft, nil
		}
		lastErr = err

		var verr *ValidationError
		if !errors.As(err, &verr) || !verr.Retryable {
			return Draft{}, err
		}
		d.logger.Debug("draft rejected",
			zap.Int("attempt", attempt+1),
			zap.String("validator", verr.Validator),
			zap.String("reason", verr.Message))
	}
	return Draft{}, lastErr
}

func (d *Drafter) generate(ctx context.Context, req Request) (Draft, error) {
	resp, err := d.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(req, req.Avoid, d.config.MaxAvoid)}},
		Schema:      ProblemSchema,
		MaxTokens:   d.config.MaxTokens,
		Temperature: d.config.Temperature,
	})
	if err != nil {
		return Draft{}, fmt.Errorf("LLM generation failed: %w", err)
	}

	var out draftOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return Draft{}, fmt.Errorf("parse LLM response: %w", err)
	}

	draft := Draft{
		ID:           "draft-" + strings.SplitN(uuid.NewString(), "-", 2)[0],
		Title:        strings.TrimSpace(out.Title),
		Story:        strings.TrimSpace(out.Story),
		Difficulty:   req.Difficulty,
		VisualType:   req.VisualType,
		Operation:    req.Operation,
		InitialCount: out.InitialCount,
		Answer:       out.Answer,
		Steps:        out.Steps,
	}
	if req.Operation == problem.OperationAddition {
		draft.AddCount = out.ChangeCount
	} else {
		draft.RemoveCount = out.ChangeCount
	}

	for _, v := range d.config.Validators {
		if verr := v.Validate(&draft, req); verr != nil {
			return Draft{}, verr
		}
	}
	return draft, nil
}

// Batch is the outcome of DraftBatch.
type Batch struct {
	Drafts []Draft
	// Rejected holds one error per draft that could not be produced.
	Rejected []error
}

// DraftBatch drafts req.Count problems concurrently. Drafts that fail
// validation are reported in Rejected; provider rejections and context
// errors abort the whole batch. Titles are unique within the result.
func (d *Drafter) DraftBatch(ctx context.Context, req Request) (Batch, error) {
	if err := req.Validate(); err != nil {
		return Batch{}, err
	}

	results := make([]Draft, req.Count)
	errs := make([]error, req.Count)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.config.Concurrency)
	for i := range req.Count {
		g.Go(func() error {
			draft, err := d.Draft(gctx, req)
			if err != nil && fatal(err) {
				return err
			}
			results[i], errs[i] = draft, err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Batch{}, err
	}

	var batch Batch
	seen := make(map[string]bool)
	for i := range results {
		if errs[i] != nil {
			batch.Rejected = append(batch.Rejected, errs[i])
			continue
		}
		key := strings.ToLower(results[i].Title)
		if seen[key] {
			batch.Rejected = append(batch.Rejected, &ValidationError{
				Validator: "duplicate",
				Message:   fmt.Sprintf("title %q drafted twice", results[i].Title),
			})
			continue
		}
		seen[key] = true
		batch.Drafts = append(batch.Drafts, results[i])
	}
	return batch, nil
}

// fatal reports errors that no further drafting can fix.
func fatal(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var rejected *llm.ErrRejected
	return errors.As(err, &rejected)
}

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/abhisek/storymath/internal/authoring"
	"github.com/abhisek/storymath/internal/gateway"
	"github.com/abhisek/storymath/internal/llm"
	"github.com/abhisek/storymath/internal/problem"
)

var authorCmd = &cobra.Command{
	Use:   "author",
	Short: "Draft new word problems with an LLM",
	Long: `Draft new word problems in the backend's problem format.

Each draft is checked for structure, arithmetic and duplicate titles
before it is printed. Accepted drafts are written as a JSON array.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := authorRequest(cmd)
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("out")

		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if !e.cfg.LLM.Discover() {
			return errors.New("no LLM provider configured: set llm.provider in the config file or an API key such as GEMINI_API_KEY")
		}
		provider, err := llm.NewProvider(cmd.Context(), e.cfg.LLM, e.journal(), e.logger)
		if err != nil {
			return fmt.Errorf("create LLM provider: %w", err)
		}

		req.Avoid = existingTitles(cmd, e.gateway(), e.logger)

		drafter := authoring.New(provider, authoring.DefaultConfig(), e.logger)
		fmt.Fprintf(cmd.ErrOrStderr(), "Drafting %d %s problem(s) with %s...\n", req.Count, req.Operation, provider.ModelID())

		batch, err := drafter.DraftBatch(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("draft problems: %w", err)
		}
		for _, rej := range batch.Rejected {
			fmt.Fprintf(cmd.ErrOrStderr(), "rejected: %v\n", rej)
		}
		if len(batch.Drafts) == 0 {
			return errors.New("no drafts passed validation")
		}

		drafts := batch.Drafts
		data, err := json.MarshalIndent(drafts, "", "  ")
		if err != nil {
			return fmt.Errorf("encode drafts: %w", err)
		}
		data = append(data, '\n')

		if out == "" || out == "-" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d draft(s) to %s\n", len(drafts), out)
		return nil
	},
}

// authorRequest builds and validates the draft request from flags.
func authorRequest(cmd *cobra.Command) (authoring.Request, error) {
	op, _ := cmd.Flags().GetString("operation")
	vis, _ := cmd.Flags().GetString("visual")
	diff, _ := cmd.Flags().GetString("difficulty")
	count, _ := cmd.Flags().GetInt("count")

	req := authoring.Request{
		Operation:  problem.Operation(op),
		VisualType: problem.VisualType(vis),
		Difficulty: problem.Difficulty(diff),
		Count:      count,
	}
	if err := req.Validate(); err != nil {
		return authoring.Request{}, err
	}
	return req, nil
}

// existingTitles asks the backend for the current catalog so drafts do
// not repeat it. The backend is optional here.
func existingTitles(cmd *cobra.Command, gw gateway.Gateway, logger *zap.Logger) []string {
	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	problems, err := gw.ListProblems(gateway.WithRequestID(ctx, uuid.NewString()))
	if err != nil {
		logger.Warn("could not load catalog for duplicate check", zap.Error(err))
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: backend unreachable, skipping duplicate check against the catalog")
		return nil
	}
	titles := make([]string, 0, len(problems))
	for _, p := range problems {
		titles = append(titles, p.Title)
	}
	return titles
}

func init() {
	addAuthorFlags(authorCmd.Flags())
}

func addAuthorFlags(f *pflag.FlagSet) {
	f.String("operation", string(problem.OperationSubtraction), "Operation: addition or subtraction")
	f.String("visual", string(problem.VisualApples), "Visual type: apples, cookies, cars or gifts")
	f.String("difficulty", string(problem.DifficultyEasy), "Difficulty: easy, medium or hard")
	f.IntP("count", "n", 3, "Number of problems to draft")
	f.StringP("out", "o", "", "Write drafts to this file instead of stdout")
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lmarchetti/voicesim/internal/batch"
	"github.com/lmarchetti/voicesim/internal/dialogue"
)

func newBatchCmd() *cobra.Command {
	var (
		count       int
		concurrency int
		initiators  []string
		responder   string
		maxTurns    int
		minTurns    int
		audio       bool
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Generate a batch of conversations",
		Long:  "Generates many conversations in parallel, cycling through the requested customer personas, and prints a run summary.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, count, concurrency, initiators, responder, maxTurns, minTurns, audio, asJSON)
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 5, "number of conversations to generate")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "p", 3, "maximum conversations in flight")
	cmd.Flags().StringSliceVar(&initiators, "initiators", nil, "customer persona ids to cycle through (default: all)")
	cmd.Flags().StringVarP(&responder, "responder", "r", "default", "support persona id")
	cmd.Flags().IntVar(&maxTurns, "max-turns", 0, "maximum customer/support exchanges")
	cmd.Flags().IntVar(&minTurns, "min-turns", 0, "minimum turns before early exit")
	cmd.Flags().BoolVar(&audio, "audio", false, "synthesize audio for each turn")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full summary as JSON")
	return cmd
}

func runBatch(cmd *cobra.Command, count, concurrency int, initiators []string, responder string, maxTurns, minTurns int, audio, asJSON bool) error {
	if count <= 0 {
		return fmt.Errorf("count must be positive")
	}

	d, err := buildDeps(audio)
	if err != nil {
		return err
	}
	if len(initiators) == 0 {
		initiators = d.registry.CustomerIDs()
		sort.Strings(initiators)
	}
	if len(initiators) == 0 {
		return fmt.Errorf("no customer personas registered")
	}

	cfg := d.conversationConfig(maxTurns, minTurns)
	jobs := make([]batch.Job, count)
	for i := range jobs {
		jobs[i] = batch.Job{
			InitiatorID: initiators[i%len(initiators)],
			ResponderID: responder,
			Config:      cfg,
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := batch.NewRunner(d.orch, d.registry, concurrency)
	summary, runErr := runner.Run(ctx, jobs)

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			return err
		}
		return runErr
	}
	fmt.Fprintln(out, summary.String())
	fmt.Fprintf(out, "by state:\n")
	for _, state := range []dialogue.State{dialogue.StateComplete, dialogue.StateFailed, dialogue.StateCancelled} {
		if n := summary.ByState[state]; n > 0 {
			fmt.Fprintf(out, "  %-10s %d\n", strings.ToLower(string(state)), n)
		}
	}
	fmt.Fprintf(out, "by persona:\n")
	ids := make([]string, 0, len(summary.ByInitiator))
	for id := range summary.ByInitiator {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(out, "  %-20s %d\n", id, summary.ByInitiator[id])
	}
	return runErr
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lmarchetti/voicesim/internal/transport"
)

func newRunCmd() *cobra.Command {
	var (
		meta      string
		initiator string
		responder string
		maxTurns  int
		minTurns  int
		audio     bool
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate one conversation",
		Long:  "Generates a single bounded conversation between a customer and a support persona and prints the transcript.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOne(cmd, meta, initiator, responder, maxTurns, minTurns, audio, asJSON)
		},
	}

	cmd.Flags().StringVar(&meta, "meta", "", "session metadata triple initiator:responder:max_turns")
	cmd.Flags().StringVarP(&initiator, "initiator", "i", "", "customer persona id")
	cmd.Flags().StringVarP(&responder, "responder", "r", "", "support persona id")
	cmd.Flags().IntVar(&maxTurns, "max-turns", 0, "maximum customer/support exchanges")
	cmd.Flags().IntVar(&minTurns, "min-turns", 0, "minimum turns before early exit")
	cmd.Flags().BoolVar(&audio, "audio", false, "synthesize audio for each turn")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the conversation as JSON")
	return cmd
}

func runOne(cmd *cobra.Command, meta, initiator, responder string, maxTurns, minTurns int, audio, asJSON bool) error {
	parsed, err := transport.ParseSessionMeta(meta)
	if err != nil {
		return err
	}
	if initiator == "" {
		initiator = parsed.InitiatorPersonaID
	}
	if responder == "" {
		responder = parsed.ResponderPersonaID
	}
	if maxTurns <= 0 && meta != "" {
		maxTurns = parsed.MaxTurns
	}

	d, err := buildDeps(audio)
	if err != nil {
		return err
	}
	customer, err := d.registry.Customer(initiator)
	if err != nil {
		return err
	}
	support, err := d.registry.Support(responder)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conv, metrics, runErr := d.orch.Run(ctx, "", customer, support, d.conversationConfig(maxTurns, minTurns))
	if conv == nil {
		return runErr
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"conversation": conv,
			"metrics":      metrics,
		})
	}

	fmt.Fprintf(out, "conversation %s (%s)\n", conv.ID, conv.Scenario)
	for _, turn := range conv.Turns {
		fmt.Fprintf(out, "[%2d] %-8s %s\n", turn.Sequence, turn.Speaker+":", turn.Text)
	}
	fmt.Fprintf(out, "state: %s, resolution: %t, turns: %d, avg latency: %.0fms\n",
		conv.State, conv.ResolutionAchieved, metrics.TotalTurns, metrics.AvgLatencyMS)
	if conv.FailureReason != "" {
		fmt.Fprintf(out, "failure: %s\n", conv.FailureReason)
	}
	return runErr
}

package batch

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lmarchetti/voicesim/internal/dialogue"
	"github.com/lmarchetti/voicesim/internal/persona"
)

// Job describes one conversation to generate.
type Job struct {
	SessionID   string          `json:"session_id,omitempty"`
	InitiatorID string          `json:"initiator_id"`
	ResponderID string          `json:"responder_id"`
	Config      dialogue.Config `json:"config"`
}

// Result is the outcome of one job. A failed job carries its error and any
// partial conversation; siblings are unaffected.
type Result struct {
	Job          Job                    `json:"job"`
	Conversation *dialogue.Conversation `json:"conversation,omitempty"`
	Metrics      *dialogue.Metrics      `json:"metrics,omitempty"`
	Err          error                  `json:"-"`
}

// Summary aggregates a finished batch.
type Summary struct {
	Total       int                    `json:"total"`
	Succeeded   int                    `json:"succeeded"`
	Failed      int                    `json:"failed"`
	Resolved    int                    `json:"resolved"`
	TotalTurns  int                    `json:"total_turns"`
	ByState     map[dialogue.State]int `json:"by_state"`
	ByInitiator map[string]int         `json:"by_initiator"`
	Elapsed     time.Duration          `json:"elapsed_ns"`
	Results     []Result               `json:"results"`
}

// Runner generates batches of conversations with bounded parallelism.
type Runner struct {
	orchestrator *dialogue.Orchestrator
	registry     *persona.Registry
	concurrency  int
}

func NewRunner(o *dialogue.Orchestrator, reg *persona.Registry, concurrency int) *Runner {
	if concurrency <= 0 {
		concurrency = 3
	}
	return &Runner{orchestrator: o, registry: reg, concurrency: concurrency}
}

// Run executes all jobs, at most concurrency at a time. Per-job failures are
// isolated into their Result; only caller cancellation aborts the batch.
func (r *Runner) Run(ctx context.Context, jobs []Job) (*Summary, error) {
	start := time.Now()
	results := make([]Result, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result{Job: job, Err: err}
				return err
			}
			results[i] = r.runOne(gctx, job)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return r.summarize(results, time.Since(start)), err
	}
	return r.summarize(results, time.Since(start)), nil
}

func (r *Runner) runOne(ctx context.Context, job Job) Result {
	initiator, err := r.registry.Customer(job.InitiatorID)
	if err != nil {
		return Result{Job: job, Err: err}
	}
	responder, err := r.registry.Support(job.ResponderID)
	if err != nil {
		return Result{Job: job, Err: err}
	}

	conv, metrics, err := r.orchestrator.Run(ctx, job.SessionID, initiator, responder, job.Config)
	if err != nil {
		log.Printf("batch: conversation for %s/%s failed: %v", job.InitiatorID, job.ResponderID, err)
	}
	return Result{Job: job, Conversation: conv, Metrics: metrics, Err: err}
}

func (r *Runner) summarize(results []Result, elapsed time.Duration) *Summary {
	s := &Summary{
		Total:       len(results),
		ByState:     make(map[dialogue.State]int),
		ByInitiator: make(map[string]int),
		Elapsed:     elapsed,
		Results:     results,
	}
	for _, res := range results {
		s.ByInitiator[res.Job.InitiatorID]++
		if res.Conversation != nil {
			s.ByState[res.Conversation.State]++
			s.TotalTurns += len(res.Conversation.Turns)
			if res.Conversation.ResolutionAchieved {
				s.Resolved++
			}
		}
		if res.Err != nil {
			s.Failed++
		} else {
			s.Succeeded++
		}
	}
	return s
}

// String renders the run report logged at the end of a batch.
func (s *Summary) String() string {
	avg := 0.0
	if s.Succeeded > 0 {
		avg = float64(s.TotalTurns) / float64(s.Succeeded)
	}
	return fmt.Sprintf("batch: %d conversations, %d succeeded, %d failed, %d resolved, avg %.1f turns in %s",
		s.Total, s.Succeeded, s.Failed, s.Resolved, avg, s.Elapsed.Round(time.Millisecond))
}

package textgen

import (
	"context"
	"sync"
)

// ScriptedGenerator replays a fixed list of utterances, then repeats the
// fallback line. Used for offline runs and tests; never fails.
type ScriptedGenerator struct {
	mu       sync.Mutex
	lines    []string
	next     int
	fallback string
}

func NewScriptedGenerator(lines []string, fallback string) *ScriptedGenerator {
	if fallback == "" {
		fallback = "I see, please go on."
	}
	return &ScriptedGenerator{lines: lines, fallback: fallback}
}

func (g *ScriptedGenerator) Name() string { return "scripted" }

func (g *ScriptedGenerator) Generate(ctx context.Context, _ Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.next < len(g.lines) {
		line := g.lines[g.next]
		g.next++
		return line, nil
	}
	return g.fallback, nil
}

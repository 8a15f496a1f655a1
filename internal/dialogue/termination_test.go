package dialogue

import (
	"testing"

	"github.com/lmarchetti/voicesim/internal/catalog"
)

func turnsOf(pairs ...Turn) []Turn {
	for i := range pairs {
		pairs[i].Sequence = i
	}
	return pairs
}

func cust(text string) Turn { return Turn{Speaker: catalog.RoleCustomer, Text: text} }
func supp(text string) Turn { return Turn{Speaker: catalog.RoleSupport, Text: text} }

func TestDecide(t *testing.T) {
	heur := DefaultHeuristics()
	cfg := Config{MaxTurns: 5, MinTurns: 3}.withDefaults()

	tests := []struct {
		name       string
		turns      []Turn
		cfg        Config
		wantAction Action
		wantReason Reason
	}{
		{
			name:       "no turns yet",
			turns:      nil,
			cfg:        cfg,
			wantAction: ActionContinue,
			wantReason: ReasonNone,
		},
		{
			name: "neutral exchange continues",
			turns: turnsOf(
				supp("Good morning, this is Asha from Meridian Bank."),
				cust("My card got blocked yesterday."),
			),
			cfg:        cfg,
			wantAction: ActionContinue,
			wantReason: ReasonNone,
		},
		{
			name: "satisfied customer closes",
			turns: turnsOf(
				supp("Good morning."),
				cust("thank you, that's all"),
			),
			cfg:        cfg,
			wantAction: ActionClose,
			wantReason: ReasonSatisfied,
		},
		{
			name: "satisfaction phrase from the agent does not count",
			turns: turnsOf(
				cust("My card got blocked."),
				supp("Perfect, I have your account open."),
			),
			cfg:        cfg,
			wantAction: ActionContinue,
			wantReason: ReasonNone,
		},
		{
			name: "agent sign-off stops immediately",
			turns: turnsOf(
				supp("Good morning."),
				cust("My card got blocked."),
				supp("Is there anything else I can do for you today?"),
			),
			cfg:        cfg,
			wantAction: ActionStop,
			wantReason: ReasonSignOff,
		},
		{
			name: "sign-off phrase from the customer does not count",
			turns: turnsOf(
				supp("Good morning."),
				cust("goodbye then, I am hanging up."),
			),
			cfg:        cfg,
			wantAction: ActionContinue,
			wantReason: ReasonNone,
		},
		{
			name: "hard cap forces closing",
			turns: turnsOf(
				supp("a"), cust("b"), supp("c"), cust("d"),
			),
			cfg:        Config{MaxTurns: 2, MinTurns: 2}.withDefaults(),
			wantAction: ActionClose,
			wantReason: ReasonTurnLimit,
		},
		{
			name: "hard cap wins over satisfaction",
			turns: turnsOf(
				supp("a"), cust("b"), supp("c"), cust("thank you so much"),
			),
			cfg:        Config{MaxTurns: 2, MinTurns: 2}.withDefaults(),
			wantAction: ActionClose,
			wantReason: ReasonTurnLimit,
		},
		{
			name: "solution markers after min turns close early",
			turns: turnsOf(
				supp("Good morning."),
				cust("My statement looks wrong."),
				supp("I understand, I will correct the statement for you."),
			),
			cfg:        cfg,
			wantAction: ActionClose,
			wantReason: ReasonResolutionLikely,
		},
		{
			name: "solution markers before min turns do not close",
			turns: turnsOf(
				supp("I understand, I will correct the statement for you."),
				cust("My statement looks wrong."),
			),
			cfg:        cfg,
			wantAction: ActionContinue,
			wantReason: ReasonNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := heur.Decide(tt.turns, tt.cfg)
			if got.Action != tt.wantAction {
				t.Errorf("Decide action = %v, want %v", got.Action, tt.wantAction)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Decide reason = %q, want %q", got.Reason, tt.wantReason)
			}
		})
	}
}

func TestDecideIsPure(t *testing.T) {
	heur := DefaultHeuristics()
	cfg := Config{MaxTurns: 3, MinTurns: 2}.withDefaults()
	turns := turnsOf(
		supp("Good morning."),
		cust("thank you, that fixed it"),
	)

	first := heur.Decide(turns, cfg)
	for i := 0; i < 10; i++ {
		if got := heur.Decide(turns, cfg); got != first {
			t.Fatalf("Decide not deterministic: %+v vs %+v", got, first)
		}
	}
}

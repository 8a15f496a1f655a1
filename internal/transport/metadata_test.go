package transport

import "testing"

func TestParseSessionMeta(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    SessionMeta
		wantErr bool
	}{
		{
			name: "full triple",
			raw:  "angry_billing:default:7",
			want: SessionMeta{InitiatorPersonaID: "angry_billing", ResponderPersonaID: "default", MaxTurns: 7},
		},
		{
			name: "empty uses defaults",
			raw:  "",
			want: SessionMeta{InitiatorPersonaID: "cooperative_parent", ResponderPersonaID: "default", MaxTurns: 5},
		},
		{
			name: "missing max_turns",
			raw:  "angry_billing:default",
			want: SessionMeta{InitiatorPersonaID: "angry_billing", ResponderPersonaID: "default", MaxTurns: 5},
		},
		{
			name: "only initiator",
			raw:  "angry_billing",
			want: SessionMeta{InitiatorPersonaID: "angry_billing", ResponderPersonaID: "default", MaxTurns: 5},
		},
		{
			name: "empty middle field keeps default",
			raw:  "angry_billing::9",
			want: SessionMeta{InitiatorPersonaID: "angry_billing", ResponderPersonaID: "default", MaxTurns: 9},
		},
		{
			name:    "non-numeric max_turns",
			raw:     "a:b:many",
			wantErr: true,
		},
		{
			name:    "zero max_turns",
			raw:     "a:b:0",
			wantErr: true,
		},
		{
			name:    "too many fields",
			raw:     "a:b:3:extra",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSessionMeta(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseSessionMeta(%q) succeeded, want error", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSessionMeta(%q): %v", tt.raw, err)
			}
			if got != tt.want {
				t.Fatalf("ParseSessionMeta(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSessionMetaRoundTrip(t *testing.T) {
	meta := SessionMeta{InitiatorPersonaID: "confused_elderly", ResponderPersonaID: "default", MaxTurns: 4}
	got, err := ParseSessionMeta(meta.String())
	if err != nil {
		t.Fatalf("ParseSessionMeta: %v", err)
	}
	if got != meta {
		t.Fatalf("round trip = %+v, want %+v", got, meta)
	}
}

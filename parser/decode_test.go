package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type leadScore struct {
	Score   int      `json:"score" yaml:"score"`
	Reason  string   `json:"reason" yaml:"reason"`
	Signals []string `json:"signals" yaml:"signals"`
}

func TestFindJSON(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{
			name:  "bare object",
			reply: `  {"score": 80}  `,
			want:  `{"score": 80}`,
		},
		{
			name:  "fenced json",
			reply: "Here you go:\n```json\n{\"score\": 72, \"reason\": \"budget set\"}\n```\nLet me know.",
			want:  `{"score": 72, "reason": "budget set"}`,
		},
		{
			name:  "untagged fence",
			reply: "```\n[1, 2, 3]\n```",
			want:  `[1, 2, 3]`,
		},
		{
			name:  "embedded in prose",
			reply: `The result is {"score": 55, "reason": "uses {braces} in text"} as requested.`,
			want:  `{"score": 55, "reason": "uses {braces} in text"}`,
		},
		{
			name:  "skips invalid span",
			reply: `Range {1..5} then {"score": 9}`,
			want:  `{"score": 9}`,
		},
		{
			name:  "escaped quote in string",
			reply: `x {"reason": "said \"hi}\""} y`,
			want:  `{"reason": "said \"hi}\""}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindJSON(tt.reply)
			require.True(t, ok)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestFindJSONNone(t *testing.T) {
	for _, reply := range []string{"", "no json here", "{broken", "```go\nfunc main() { run() }\n```"} {
		_, ok := FindJSON(reply)
		assert.False(t, ok, "reply %q", reply)
	}
}

func TestDecodeJSON(t *testing.T) {
	var got leadScore
	err := DecodeJSON("```json\n{\"score\": 91, \"reason\": \"pre-approved\", \"signals\": [\"mortgage\", \"urgent\"]}\n```", &got)
	require.NoError(t, err)
	assert.Equal(t, leadScore{Score: 91, Reason: "pre-approved", Signals: []string{"mortgage", "urgent"}}, got)

	assert.ErrorIs(t, DecodeJSON("Sorry, I cannot score this lead.", &got), ErrNoJSON)
	assert.ErrorIs(t, DecodeJSON(`{"score": "high"}`, &got), ErrNoJSON, "type mismatch counts as undecodable")
}

func TestDecodeYAML(t *testing.T) {
	var got leadScore
	reply := "Summary below.\n```yaml\nscore: 40\nreason: just browsing\nsignals:\n  - newsletter\n```"
	require.NoError(t, DecodeYAML(reply, &got))
	assert.Equal(t, 40, got.Score)
	assert.Equal(t, []string{"newsletter"}, got.Signals)

	assert.ErrorIs(t, DecodeYAML("```yaml\nscore: [unclosed\n```", &got), ErrNoYAML)
	assert.ErrorIs(t, DecodeYAML("plain", &got), ErrNoYAML)
}

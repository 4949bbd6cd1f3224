package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineRender(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		name     string
		template string
		vars     map[string]any
		want     string
		wantErr  error
	}{
		{
			name:     "variables",
			template: "Hi {{name}}, your viewing is on {{date}}.",
			vars:     map[string]any{"name": "Lucía", "date": "Friday"},
			want:     "Hi Lucía, your viewing is on Friday.",
		},
		{
			name:     "missing variable",
			template: "Hi {{name}}",
			vars:     map[string]any{},
			want:     "Hi <no value>",
		},
		{
			name:     "nested access",
			template: "Lead: {{.lead.name}}",
			vars:     map[string]any{"lead": map[string]any{"name": "Ortiz"}},
			want:     "Lead: Ortiz",
		},
		{
			name:     "if true",
			template: "{{#if urgent}}URGENT: {{/if}}call back",
			vars:     map[string]any{"urgent": true},
			want:     "URGENT: call back",
		},
		{
			name:     "if missing",
			template: "{{#if urgent}}URGENT: {{/if}}call back",
			vars:     nil,
			want:     "call back",
		},
		{
			name:     "unless",
			template: "{{#unless financed}}Ask about mortgage pre-approval.{{/unless}}",
			vars:     map[string]any{"financed": false},
			want:     "Ask about mortgage pre-approval.",
		},
		{
			name:     "each",
			template: "{{#each areas}}[{{.}}]{{/each}}",
			vars:     map[string]any{"areas": []string{"Centro", "Playa"}},
			want:     "[Centro][Playa]",
		},
		{
			name:     "helpers with variable and literal",
			template: `{{upper city}} {{truncate note 8}} {{default agent "unassigned"}}`,
			vars:     map[string]any{"city": "merida", "note": "wants a pool and garden"},
			want:     "MERIDA wants... unassigned",
		},
		{
			name:     "money and join",
			template: "Budget {{money budget}} in {{join areas \", \"}}",
			vars:     map[string]any{"budget": 2500000, "areas": []string{"Norte", "Sur"}},
			want:     "Budget $2,500,000 in Norte, Sur",
		},
		{
			name:     "empty template",
			template: "  ",
			wantErr:  ErrEmpty,
		},
		{
			name:     "parse error",
			template: "{{#if open}}never closed",
			wantErr:  ErrParse,
		},
		{
			name:     "execute error",
			template: "{{truncate name 5}}",
			vars:     map[string]any{"name": 42},
			wantErr:  ErrExecute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Render(tt.template, tt.vars)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEngineVariables(t *testing.T) {
	e := NewEngine()

	vars, err := e.Variables(`{{name}} {{#if budget}}{{money budget}}{{/if}} {{truncate notes 50}} {{name}}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "budget", "notes"}, vars)

	_, err = e.Variables("{{#each x}}")
	assert.ErrorIs(t, err, ErrParse)
}

func TestEngineRequire(t *testing.T) {
	e := NewEngine()
	text := "Dear {{client}}, {{#if agent}}{{agent}} will call.{{/if}}"

	err := e.Require(text, map[string]any{})
	require.ErrorIs(t, err, ErrVariable)
	assert.Contains(t, err.Error(), "client")

	assert.NoError(t, e.Require("Dear {{client}}", map[string]any{"client": "Ana"}))
}

func TestEngineAddFunc(t *testing.T) {
	e := NewEngine()
	e.AddFunc("sqm", func(v int) string { return strings.Repeat("#", v) })

	got, err := e.Render("{{sqm size}}", map[string]any{"size": 3})
	require.NoError(t, err)
	assert.Equal(t, "###", got)
}

func TestConvert(t *testing.T) {
	helpers := []string{"upper", "truncate"}

	tests := []struct {
		in   string
		want string
	}{
		{"{{name}}", "{{.name}}"},
		{"{{ name }}", "{{.name}}"},
		{"{{#if a}}x{{/if}}", "{{if .a}}x{{end}}"},
		{"{{#unless a}}x{{/unless}}", "{{if not .a}}x{{end}}"},
		{"{{#each xs}}{{.}}{{/each}}", "{{range .xs}}{{.}}{{end}}"},
		{`{{truncate body 10}}`, `{{truncate .body 10}}`},
		{`{{upper "lit"}}`, `{{upper "lit"}}`},
		{"{{.already}}", "{{.already}}"},
		{"{{unknownfn arg}}", "{{unknownfn arg}}"},
		{"{{else}}", "{{else}}"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, convert(tt.in, helpers), "convert(%q)", tt.in)
	}
}

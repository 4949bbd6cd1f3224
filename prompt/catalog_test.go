package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/llmrouter/model"
)

func TestDefaultCatalogRendersEveryTask(t *testing.T) {
	c := DefaultCatalog()

	for task := range model.DefaultTaskTiers {
		t.Run(string(task), func(t *testing.T) {
			text, err := c.System(task, nil)
			require.NoError(t, err)
			assert.NotEmpty(t, text)
			assert.NotContains(t, text, "{{")
			assert.NotContains(t, text, "<no value>")
		})
	}
}

func TestCatalogVariables(t *testing.T) {
	c := DefaultCatalog()

	text, err := c.System(model.TaskEmailDraft, map[string]any{"agency": "Casa Sol", "language": "Spanish"})
	require.NoError(t, err)
	assert.Contains(t, text, "Casa Sol")
	assert.Contains(t, text, "in Spanish")
}

func TestCatalogFallbackAndOverride(t *testing.T) {
	c := DefaultCatalog()

	text, err := c.System("webinar-invite", nil)
	require.NoError(t, err)
	assert.Contains(t, text, "a marketing agency")

	c.Set(model.TaskLeadScoring, "Score leads for {{agency}}.")
	text, err = c.System(model.TaskLeadScoring, map[string]any{"agency": "Norte"})
	require.NoError(t, err)
	assert.Equal(t, "Score leads for Norte.", text)

	_, ok := c.Template("missing-task")
	assert.False(t, ok)
	assert.NotNil(t, c.Engine())
}

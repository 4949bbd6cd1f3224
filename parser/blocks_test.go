package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const campaignReply = `# Campaign ideas

1. Spring webinar series
2) **Referral bonus:** gift card for each closed referral

## Channels

- WhatsApp broadcast
* Email newsletter
• Instagram reels

` + "```json\n{\"budget\": 300}\n```"

func TestCodeBlocks(t *testing.T) {
	blocks := CodeBlocks("```JSON\n{}\n```\ntext\n```\nplain\n```")
	require.Len(t, blocks, 2)
	assert.Equal(t, "json", blocks[0].Language)
	assert.Equal(t, "{}\n", blocks[0].Content)
	assert.Equal(t, "", blocks[1].Language)

	code, ok := Code(campaignReply, "json")
	require.True(t, ok)
	assert.Contains(t, code, `"budget"`)

	_, ok = Code(campaignReply, "yaml")
	assert.False(t, ok)
}

func TestLists(t *testing.T) {
	assert.Equal(t, []string{
		"Spring webinar series",
		"Referral bonus: gift card for each closed referral",
	}, NumberedList(campaignReply))

	assert.Equal(t, []string{
		"WhatsApp broadcast",
		"Email newsletter",
		"Instagram reels",
	}, List(campaignReply))

	assert.Empty(t, List("no bullets here"))
}

func TestSections(t *testing.T) {
	body, ok := Section(campaignReply, "channels")
	require.True(t, ok)
	assert.Contains(t, body, "WhatsApp broadcast")
	assert.NotContains(t, body, "webinar")

	_, ok = Section(campaignReply, "Pricing")
	assert.False(t, ok)

	assert.Len(t, Sections(campaignReply), 2)
}

func TestStripCode(t *testing.T) {
	got := StripCode("before\n\n```go\nx := 1\n```\n\n\nafter")
	assert.Equal(t, "before\n\nafter", got)
}

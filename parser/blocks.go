package parser

import (
	"regexp"
	"strings"
)

var (
	fenceRe   = regexp.MustCompile("(?s)```([\\w-]*)[ \\t]*\\r?\\n(.*?)```")
	headerRe  = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)
	bulletRe  = regexp.MustCompile(`(?m)^\s*[-*•]\s+(.+)$`)
	numberRe  = regexp.MustCompile(`(?m)^\s*\d+[.)]\s+(.+)$`)
	spacingRe = regexp.MustCompile(`\n{3,}`)
)

// CodeBlock is a fenced block of a reply.
type CodeBlock struct {
	// Language is the tag after the opening fence, lower-cased ("json", "yaml").
	Language string

	// Content is the text between the fences.
	Content string
}

// CodeBlocks returns every fenced block in order.
func CodeBlocks(text string) []CodeBlock {
	matches := fenceRe.FindAllStringSubmatch(text, -1)
	blocks := make([]CodeBlock, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, CodeBlock{
			Language: strings.ToLower(m[1]),
			Content:  m[2],
		})
	}
	return blocks
}

// Code returns the content of the first block tagged language.
// An empty language matches any block.
func Code(text, language string) (string, bool) {
	for _, b := range CodeBlocks(text) {
		if language == "" || b.Language == strings.ToLower(language) {
			return b.Content, true
		}
	}
	return "", false
}

// StripCode removes fenced blocks and collapses the blank lines they leave.
func StripCode(text string) string {
	out := fenceRe.ReplaceAllString(text, "")
	return strings.TrimSpace(spacingRe.ReplaceAllString(out, "\n\n"))
}

// List returns the bullet items ("-", "*", "•") of a reply.
// Bold markers are dropped, so "**Idea:** text" becomes "Idea: text".
func List(text string) []string {
	return items(bulletRe, text)
}

// NumberedList returns the "1." or "1)" items of a reply.
func NumberedList(text string) []string {
	return items(numberRe, text)
}

func items(re *regexp.Regexp, text string) []string {
	matches := re.FindAllStringSubmatch(StripCode(text), -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.TrimSpace(strings.ReplaceAll(m[1], "**", "")))
	}
	return out
}

// Sections maps each markdown header title to the text beneath it.
func Sections(text string) map[string]string {
	matches := headerRe.FindAllStringSubmatchIndex(text, -1)
	sections := make(map[string]string, len(matches))
	for i, m := range matches {
		title := strings.TrimSpace(text[m[4]:m[5]])
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		sections[title] = strings.TrimSpace(text[m[1]:end])
	}
	return sections
}

// Section returns the text under the header titled title, ignoring case.
func Section(text, title string) (string, bool) {
	sections := Sections(text)
	if body, ok := sections[title]; ok {
		return body, true
	}
	for t, body := range sections {
		if strings.EqualFold(t, title) {
			return body, true
		}
	}
	return "", false
}

package prompt

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	ifRe      = regexp.MustCompile(`\{\{#if\s+([a-zA-Z_]\w*)\s*\}\}`)
	unlessRe  = regexp.MustCompile(`\{\{#unless\s+([a-zA-Z_]\w*)\s*\}\}`)
	eachRe    = regexp.MustCompile(`\{\{#each\s+([a-zA-Z_]\w*)\s*\}\}`)
	closeRe   = regexp.MustCompile(`\{\{/(?:if|unless|each)\}\}`)
	plainRe   = regexp.MustCompile(`\{\{\s*([a-zA-Z_]\w*)\s*\}\}`)
	callRe    = regexp.MustCompile(`\{\{\s*([a-zA-Z_]\w*)\s+([^{}]+?)\s*\}\}`)
	blockVars = regexp.MustCompile(`\{\{#(?:if|unless|each)\s+([a-zA-Z_]\w*)`)
)

// keywords are Go template words left untouched.
var keywords = map[string]bool{
	"else": true, "end": true, "if": true, "range": true, "with": true,
	"define": true, "template": true, "block": true, "nil": true,
}

// convert rewrites Handlebars-like syntax into Go template syntax:
//
//	{{name}}             -> {{.name}}
//	{{#if x}}..{{/if}}   -> {{if .x}}..{{end}}
//	{{#unless x}}        -> {{if not .x}}
//	{{#each xs}}         -> {{range .xs}}
//	{{helper a "b" 3}}   -> {{helper .a "b" 3}}
func convert(text string, helpers []string) string {
	isHelper := make(map[string]bool, len(helpers))
	for _, h := range helpers {
		isHelper[h] = true
	}

	out := ifRe.ReplaceAllString(text, "{{if .$1}}")
	out = unlessRe.ReplaceAllString(out, "{{if not .$1}}")
	out = eachRe.ReplaceAllString(out, "{{range .$1}}")
	out = closeRe.ReplaceAllString(out, "{{end}}")

	out = plainRe.ReplaceAllStringFunc(out, func(m string) string {
		name := plainRe.FindStringSubmatch(m)[1]
		if keywords[name] || isHelper[name] {
			return m
		}
		return "{{." + name + "}}"
	})

	return callRe.ReplaceAllStringFunc(out, func(m string) string {
		sub := callRe.FindStringSubmatch(m)
		if !isHelper[sub[1]] {
			return m
		}
		args := splitArgs(sub[2])
		for i, a := range args {
			if isIdentifier(a) && !isLiteral(a) {
				args[i] = "." + a
			}
		}
		return "{{" + sub[1] + " " + strings.Join(args, " ") + "}}"
	})
}

// splitArgs splits on spaces outside quotes.
func splitArgs(s string) []string {
	var (
		parts []string
		cur   strings.Builder
		quote rune
	)
	for _, r := range s {
		switch {
		case quote != 0:
			cur.WriteRune(r)
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'' || r == '`':
			quote = r
			cur.WriteRune(r)
		case r == ' ' || r == '\t':
			if cur.Len() > 0 {
				parts = append(parts, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}

func isLiteral(s string) bool {
	if s == "true" || s == "false" || keywords[s] {
		return true
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// plainVariables lists {{name}} references that are not helpers or keywords.
func plainVariables(text string, helpers []string) []string {
	isHelper := make(map[string]bool, len(helpers))
	for _, h := range helpers {
		isHelper[h] = true
	}

	seen := make(map[string]bool)
	var out []string
	for _, m := range plainRe.FindAllStringSubmatch(text, -1) {
		name := m[1]
		if keywords[name] || isHelper[name] || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// variables lists every variable a template references: plain, block,
// and helper arguments.
func variables(text string, helpers []string) []string {
	isHelper := make(map[string]bool, len(helpers))
	for _, h := range helpers {
		isHelper[h] = true
	}

	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		if keywords[name] || isHelper[name] || isLiteral(name) || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, name)
	}

	for _, m := range plainRe.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range blockVars.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range callRe.FindAllStringSubmatch(text, -1) {
		if !isHelper[m[1]] {
			continue
		}
		for _, a := range splitArgs(m[2]) {
			if isIdentifier(a) {
				add(a)
			}
		}
	}
	return out
}

package prompt

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"text/template"
)

// Engine renders prompt templates. It is safe for concurrent use.
type Engine struct {
	mu    sync.RWMutex
	funcs template.FuncMap
}

// NewEngine creates an engine with the built-in helpers.
func NewEngine() *Engine {
	return &Engine{funcs: defaultFuncs()}
}

// AddFunc registers a helper. Helpers take Handlebars-style arguments:
// {{name arg1 "literal"}}.
func (e *Engine) AddFunc(name string, fn any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.funcs[name] = fn
}

func (e *Engine) snapshot() (template.FuncMap, []string) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	funcs := make(template.FuncMap, len(e.funcs))
	names := make([]string, 0, len(e.funcs))
	for name, fn := range e.funcs {
		funcs[name] = fn
		names = append(names, name)
	}
	sort.Strings(names)
	return funcs, names
}

func (e *Engine) compile(text string) (*template.Template, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmpty
	}
	funcs, helpers := e.snapshot()
	tmpl, err := template.New("prompt").Funcs(funcs).Parse(convert(text, helpers))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return tmpl, nil
}

// Render executes a template with vars.
func (e *Engine) Render(text string, vars map[string]any) (string, error) {
	tmpl, err := e.compile(text)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, vars); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExecute, err)
	}
	return b.String(), nil
}

// Variables validates a template and lists the variables it references:
// plain ones first, then block conditions, then helper arguments.
func (e *Engine) Variables(text string) ([]string, error) {
	if _, err := e.compile(text); err != nil {
		return nil, err
	}
	_, helpers := e.snapshot()
	return variables(text, helpers), nil
}

// Require checks that vars provides every plain {{variable}} in the
// template. Variables used only in #if blocks are optional.
func (e *Engine) Require(text string, vars map[string]any) error {
	if _, err := e.compile(text); err != nil {
		return err
	}
	_, helpers := e.snapshot()
	var missing []string
	for _, name := range plainVariables(text, helpers) {
		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrVariable, strings.Join(missing, ", "))
	}
	return nil
}

package router

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"

	"github.com/randalmurphal/llmrouter/parser"
	"github.com/randalmurphal/llmrouter/provider"
)

// RouteJSON routes req and decodes the reply into out, which must be a
// non-nil pointer. The JSON Schema of out is added to the system prompt and
// the provider is asked for JSON. A reply with no decodable JSON counts as an
// empty response and is retried within the same attempt limit.
//
// out is only written when the returned Result reports success.
func (rt *Router) RouteJSON(ctx context.Context, req Request, out any) (*Result, error) {
	target := reflect.ValueOf(out)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return nil, provider.NewError(req.OverrideProvider, "route",
			fmt.Errorf("%w: RouteJSON needs a non-nil pointer, got %T", provider.ErrInvalidRequest, out), false)
	}

	instructions, err := schemaInstructions(out)
	if err != nil {
		return nil, provider.NewError(req.OverrideProvider, "schema",
			fmt.Errorf("%w: %w", provider.ErrInvalidRequest, err), false)
	}
	req.JSONMode = true

	elem := target.Type().Elem()
	var decoded reflect.Value
	accept := func(content string) error {
		v := reflect.New(elem)
		if err := parser.DecodeJSON(content, v.Interface()); err != nil {
			return err
		}
		decoded = v
		return nil
	}

	res, err := rt.route(ctx, req, instructions, accept)
	if err != nil {
		return nil, err
	}
	if res.Success && decoded.IsValid() {
		target.Elem().Set(decoded.Elem())
	}
	return res, nil
}

// schemaInstructions renders the reply contract for out's type.
func schemaInstructions(out any) (string, error) {
	r := jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	schema := r.Reflect(out)
	schema.Version = ""

	b, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal schema: %w", err)
	}
	return "Reply with a single JSON object that matches this JSON Schema. No prose, no code fences.\n" + string(b), nil
}

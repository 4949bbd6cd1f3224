// Package prompt renders CRM prompt templates and holds the default system
// prompt for each task type.
//
// Templates use a Handlebars-like syntax that is converted to Go templates
// before execution:
//
//	Lead: {{name}}
//	{{#if budget}}Budget: {{money budget}}{{/if}}
//	{{#each notes}}- {{.}}
//	{{/each}}
//
// Helpers: truncate, json, upper, lower, trim, join, default, money, bullets.
// Missing variables render as "<no value>"; use Engine.Require to reject them.
//
// The Catalog maps task types to system prompts:
//
//	catalog := prompt.DefaultCatalog()
//	system, err := catalog.System(model.TaskLeadScoring, map[string]any{"agency": "Casa Sol"})
package prompt

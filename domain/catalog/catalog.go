// Package catalog defines the component palette: the node types a user
// can place on the canvas, grouped the way the editor sidebar presents
// them, plus the default-naming policy for new nodes.
package catalog

import "strings"

// Template describes one placeable component type.
type Template struct {
	Type              string                 `json:"type"`
	Label             string                 `json:"label"`
	Description       string                 `json:"description,omitempty"`
	DefaultAttributes map[string]interface{} `json:"defaultAttributes,omitempty"`
}

// Category groups templates the way the sidebar presents them.
type Category struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Templates []Template `json:"templates"`
}

var categories = []Category{
	{
		ID:   "compute",
		Name: "Compute",
		Templates: []Template{
			{Type: "service", Label: "Service", Description: "A deployable application service"},
			{Type: "worker", Label: "Worker", Description: "A background job processor"},
			{Type: "function", Label: "Function", Description: "A serverless function"},
		},
	},
	{
		ID:   "data",
		Name: "Data Stores",
		Templates: []Template{
			{Type: "database", Label: "Database", DefaultAttributes: map[string]interface{}{"engine": "postgresql"}},
			{Type: "postgres", Label: "PostgreSQL"},
			{Type: "mysql", Label: "MySQL"},
			{Type: "mongodb", Label: "MongoDB"},
			{Type: "redis", Label: "Redis"},
			{Type: "cache", Label: "Cache", DefaultAttributes: map[string]interface{}{"engine": "redis"}},
		},
	},
	{
		ID:   "messaging",
		Name: "Messaging",
		Templates: []Template{
			{Type: "queue", Label: "Queue", Description: "A message queue"},
			{Type: "topic", Label: "Topic", Description: "A pub/sub topic"},
		},
	},
	{
		ID:   "networking",
		Name: "Networking",
		Templates: []Template{
			{Type: "loadbalancer", Label: "Load Balancer"},
			{Type: "gateway", Label: "API Gateway"},
			{Type: "cdn", Label: "CDN"},
		},
	},
	{
		ID:   "clients",
		Name: "Clients",
		Templates: []Template{
			{Type: "frontend", Label: "Web Frontend"},
			{Type: "mobile", Label: "Mobile App"},
		},
	},
}

var templatesByType = func() map[string]Template {
	index := make(map[string]Template)
	for _, cat := range categories {
		for _, tpl := range cat.Templates {
			index[tpl.Type] = tpl
		}
	}
	return index
}()

// Categories returns the full palette. The result is a copy; callers may
// not mutate the catalog.
func Categories() []Category {
	out := make([]Category, len(categories))
	for i, cat := range categories {
		out[i] = cat
		out[i].Templates = append([]Template(nil), cat.Templates...)
	}
	return out
}

// TemplateFor looks up the template for a node type.
func TemplateFor(nodeType string) (Template, bool) {
	tpl, ok := templatesByType[nodeType]
	return tpl, ok
}

// DefaultNodeName is the naming policy for freshly created nodes: the
// catalog label when the type is known, a title-cased rendering of the
// type otherwise.
func DefaultNodeName(nodeType string) string {
	if tpl, ok := templatesByType[nodeType]; ok {
		return tpl.Label
	}
	return titleCase(nodeType)
}

func titleCase(s string) string {
	if s == "" {
		return "Component"
	}
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	if len(words) == 0 {
		return "Component"
	}
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

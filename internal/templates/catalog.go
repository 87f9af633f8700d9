package templates

import (
	"fmt"
	"sort"
)

// Catalog resolves templates by name.
type Catalog struct {
	byName map[string]*Template
	names  []string
}

// NewCatalog indexes templates. When names repeat, the first one wins.
func NewCatalog(templates ...*Template) *Catalog {
	c := &Catalog{byName: make(map[string]*Template, len(templates))}
	for _, tmpl := range templates {
		if tmpl == nil {
			continue
		}
		if _, exists := c.byName[tmpl.Name]; exists {
			continue
		}
		c.byName[tmpl.Name] = tmpl
		c.names = append(c.names, tmpl.Name)
	}
	sort.Strings(c.names)
	return c
}

// Lookup returns the template called name.
func (c *Catalog) Lookup(name string) (*Template, error) {
	if tmpl, ok := c.byName[name]; ok {
		return tmpl, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
}

// List returns all templates sorted by name.
func (c *Catalog) List() []*Template {
	out := make([]*Template, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, c.byName[name])
	}
	return out
}

// Names returns the sorted template names.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.names...)
}

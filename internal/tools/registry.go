package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/lunavoice/luna/internal/domain"
	"github.com/lunavoice/luna/internal/metrics"
)

// Builder accumulates tool registrations before the registry is sealed.
// Registration is a startup-time step; after Build the table never changes.
type Builder struct {
	tools map[string]Tool
}

// NewBuilder creates an empty registration builder.
func NewBuilder() *Builder {
	return &Builder{tools: make(map[string]Tool)}
}

// Register adds a tool under its schema name. Duplicate names are a wiring
// bug and fail loudly at startup.
func (b *Builder) Register(t Tool) error {
	name := t.Schema.Name
	if name == "" {
		return fmt.Errorf("register tool: empty name")
	}
	if _, exists := b.tools[name]; exists {
		return fmt.Errorf("register tool: duplicate name %q", name)
	}
	b.tools[name] = t
	return nil
}

// Build seals the registrations into an immutable dispatch table.
func (b *Builder) Build() *Registry {
	tools := make(map[string]Tool, len(b.tools))
	for name, t := range b.tools {
		tools[name] = t
	}
	return &Registry{tools: tools}
}

// Registry is the immutable dispatch table handed to the realtime relay.
type Registry struct {
	tools map[string]Tool
}

// Dispatch runs the named tool against raw JSON arguments.
func (r *Registry) Dispatch(ctx context.Context, name string, raw json.RawMessage) (Result, error) {
	t, ok := r.tools[name]
	if !ok {
		metrics.ToolInvocationsTotal.WithLabelValues(name, "unknown").Inc()
		return Result{}, fmt.Errorf("dispatch %q: %w", name, domain.ErrUnknownTool)
	}

	res, err := t.Handle(ctx, raw)
	if err != nil {
		metrics.ToolInvocationsTotal.WithLabelValues(name, "error").Inc()
		return Result{}, err
	}
	metrics.ToolInvocationsTotal.WithLabelValues(name, "success").Inc()
	return res, nil
}

// Schemas returns every registered schema in name order for the session
// declaration.
func (r *Registry) Schemas() []Schema {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	schemas := make([]Schema, len(names))
	for i, name := range names {
		schemas[i] = r.tools[name].Schema
	}
	return schemas
}

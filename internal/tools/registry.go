// Package tools exposes the editor's operations as a fixed registry of
// named, schema-described tools. A conversational agent layer advertises
// the descriptors and funnels model tool calls into Execute; everything
// else (prompting, transport, the model itself) lives outside this module.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/lukasclt/Lumina/internal/autocut"
	"github.com/lukasclt/Lumina/internal/project"
	"github.com/lukasclt/Lumina/internal/storage"
)

// Static errors for tool dispatch.
var (
	// ErrUnknownTool is returned when Execute is called with a name the
	// registry does not carry.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrInvalidArgs is returned when a tool call's arguments fail to parse
	// or validate.
	ErrInvalidArgs = errors.New("invalid tool arguments")
)

// Descriptor describes one tool in a serializable form an agent layer can
// advertise to a model.
type Descriptor struct {
	// Name is the tool's stable identifier.
	Name string `json:"name"`
	// Description tells the model what the tool does and when to use it.
	Description string `json:"description"`
	// Parameters is a JSON Schema fragment describing the arguments object.
	Parameters json.RawMessage `json:"parameters"`
}

// Result is the outcome of one tool invocation.
type Result struct {
	// Summary is a short human-readable account of what happened.
	Summary string `json:"summary"`
	// Project is the updated project state after the call.
	Project *project.Project `json:"project"`
	// Data carries tool-specific payloads, like auto-cut statistics.
	Data any `json:"data,omitempty"`
}

// handler executes one tool against a project.
type handler func(ctx context.Context, projectID string, args json.RawMessage) (*Result, error)

type registeredTool struct {
	descriptor Descriptor
	run        handler
}

// Registry holds the fixed tool set and dispatches calls by name.
type Registry struct {
	projects *project.Service
	cutter   *autocut.Service
	assets   storage.Store
	validate *validator.Validate
	logger   *slog.Logger

	tools map[string]registeredTool
	order []string
}

// NewRegistry creates a Registry wired to the given services and registers
// the built-in tool set.
func NewRegistry(projects *project.Service, cutter *autocut.Service, assets storage.Store, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		projects: projects,
		cutter:   cutter,
		assets:   assets,
		validate: validator.New(),
		logger:   logger,
		tools:    make(map[string]registeredTool),
	}
	r.registerBuiltins()
	return r
}

// register adds a tool under its descriptor name. Later registrations of
// the same name replace earlier ones.
func (r *Registry) register(d Descriptor, run handler) {
	if _, exists := r.tools[d.Name]; !exists {
		r.order = append(r.order, d.Name)
	}
	r.tools[d.Name] = registeredTool{descriptor: d, run: run}
}

// List returns the descriptors in registration order.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].descriptor)
	}
	return out
}

// Execute runs the named tool against a project. Arguments are the raw
// JSON object from the model's tool call. Timeline refusals and decode
// failures pass through unchanged so the caller can map them.
func (r *Registry) Execute(ctx context.Context, projectID, name string, args json.RawMessage) (*Result, error) {
	tool, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}

	result, err := tool.run(ctx, projectID, args)
	if err != nil {
		r.logger.Warn("tool call failed",
			slog.String("tool", name),
			slog.String("project_id", projectID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	r.logger.Info("tool call applied",
		slog.String("tool", name),
		slog.String("project_id", projectID),
		slog.String("summary", result.Summary),
	)
	return result, nil
}

// decodeArgs parses and validates a tool's argument struct.
func (r *Registry) decodeArgs(raw json.RawMessage, into any) error {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}
	if err := r.validate.Struct(into); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}
	return nil
}

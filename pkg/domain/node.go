package domain

// Node type constants. The Type field is an open string so flows
// authored with editor plugins keep working; these are the types the
// built-in handlers and the translator recognize.
const (
	NodeTypeTrigger   = "trigger"
	NodeTypeAPICall   = "api_call"
	NodeTypeEmail     = "email"
	NodeTypeCondition = "condition"
	NodeTypeTransform = "transform"
	NodeTypeLoop      = "loop"
	NodeTypeSetup     = "setup"
	NodeTypeCleanup   = "cleanup"
)

// Position is the node's placement on the editor canvas. Cosmetic
// only; the engine never reads it, the translator passes it through.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Node is a single typed unit of work within a flow.
// Immutable once referenced by a running execution snapshot.
type Node struct {
	ID   string `json:"id" yaml:"id"`
	Type string `json:"type" yaml:"type"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Parameters is the opaque configuration the editor attached to
	// the node. Handlers and the translator decode what they need and
	// ignore the rest.
	Parameters map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty"`

	Position *Position `json:"position,omitempty" yaml:"position,omitempty"`

	// Dependencies lists node IDs that must run before this one.
	// Dangling references are retained as-is; they only surface if
	// the planner traverses them.
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`

	// StopOnError escalates a step failure to run termination.
	// Failures are recoverable by default.
	StopOnError bool `json:"stop_on_error,omitempty" yaml:"stop_on_error,omitempty"`

	// Optimized and OptimizationApplied are bookkeeping stamps set by
	// ApplyImprovements. They never change execution behavior.
	Optimized           bool   `json:"optimized,omitempty" yaml:"optimized,omitempty"`
	OptimizationApplied string `json:"optimization_applied,omitempty" yaml:"optimization_applied,omitempty"`
}

// Key returns the identifier used in dependency graphs: the ID, or
// the name when no ID was assigned.
func (n Node) Key() string {
	if n.ID != "" {
		return n.ID
	}
	return n.Name
}

// Edge is a directed connection declaring that one node's output
// feeds into another node's input. Source and target must reference
// nodes present in the same flow.
type Edge struct {
	ID           string `json:"id" yaml:"id"`
	Source       string `json:"source" yaml:"source"`
	Target       string `json:"target" yaml:"target"`
	SourceHandle string `json:"source_handle,omitempty" yaml:"source_handle,omitempty"`
	TargetHandle string `json:"target_handle,omitempty" yaml:"target_handle,omitempty"`
}

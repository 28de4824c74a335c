package domain

// FlowStatus is the publication state of a flow definition.
type FlowStatus string

const (
	FlowStatusDraft  FlowStatus = "draft"
	FlowStatusActive FlowStatus = "active"
)

// Flow is the node+edge definition of an automation, authored
// visually and persisted as a document. Durability, optimistic
// concurrency (version bump on save) and status transitions are the
// store's responsibility.
type Flow struct {
	ID          string         `json:"id" yaml:"id"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Nodes       []Node         `json:"nodes" yaml:"nodes"`
	Edges       []Edge         `json:"edges,omitempty" yaml:"edges,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Version     int            `json:"version" yaml:"version"`
	Status      FlowStatus     `json:"status,omitempty" yaml:"status,omitempty"`
}

// NodeByID returns the node with the given id, or false.
func (f *Flow) NodeByID(id string) (Node, bool) {
	for _, n := range f.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Improvement is one optimization suggestion keyed by step index, as
// produced by the advisor surface. Applying it is bookkeeping only.
type Improvement struct {
	StepIndex  int    `json:"step_index" yaml:"step_index"`
	StepName   string `json:"step_name,omitempty" yaml:"step_name,omitempty"`
	Suggestion string `json:"suggestion" yaml:"suggestion"`
}

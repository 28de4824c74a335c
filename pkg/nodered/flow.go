// Package nodered translates an emberflow flow definition into the
// Node-RED flows format: a tab node followed by typed nodes whose
// wires arrays carry the edge wiring. The resulting slice marshals to
// the JSON array the Node-RED admin API accepts.
package nodered

// FlowNode is one entry in a Node-RED flows array. A single struct
// covers the tab, the http request node and the comment placeholder;
// omitempty keeps each variant's JSON minimal.
type FlowNode struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Z     string `json:"z,omitempty"`
	Name  string `json:"name,omitempty"`
	Label string `json:"label,omitempty"`

	// http request fields.
	Method  string            `json:"method,omitempty"`
	URL     string            `json:"url,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Ret     string            `json:"ret,omitempty"`

	// Info carries the original type and a truncated parameter dump
	// for placeholder nodes, so nothing is lost in translation.
	Info string `json:"info,omitempty"`

	X int `json:"x,omitempty"`
	Y int `json:"y,omitempty"`

	// Wires holds the node's output wiring. All nodes here have a
	// single output, so only Wires[0] is ever populated.
	Wires [][]string `json:"wires,omitempty"`
}

const (
	typeTab         = "tab"
	typeHTTPRequest = "http request"
	typeComment     = "comment"
)

package nodered

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/emberflow/emberflow/pkg/domain"
)

const (
	defaultMethod = "GET"
	defaultURL    = "http://example.com/api"

	// Canvas offset used when a node carries no position.
	defaultX = 100
	defaultY = 100

	// Placeholder info dumps are capped so a pathological parameter
	// map can't bloat the exported flow.
	maxInfoLen = 200
)

// apiParams is the subset of node parameters an api_call node maps
// onto an http request node. Unknown keys are ignored.
type apiParams struct {
	Method  string            `mapstructure:"method"`
	URL     string            `mapstructure:"url"`
	Headers map[string]string `mapstructure:"headers"`
}

// Translate maps a flow definition onto the Node-RED flows format.
// Structural problems degrade gracefully: unknown node types become
// inert comment placeholders, edges referencing unmapped nodes are
// skipped, and a duplicate edge never wires its target twice.
func Translate(flow *domain.Flow) []FlowNode {
	tabID := "tab." + flow.ID
	out := make([]FlowNode, 0, len(flow.Nodes)+1)
	out = append(out, FlowNode{
		ID:    tabID,
		Type:  typeTab,
		Label: flow.Name,
	})

	// flow node id → index into out, for wiring.
	index := make(map[string]int, len(flow.Nodes))

	for _, n := range flow.Nodes {
		x, y := position(n)
		var fn FlowNode
		switch n.Type {
		case domain.NodeTypeAPICall, "api":
			var params apiParams
			// Decode errors leave the zero value; defaults cover it.
			_ = mapstructure.Decode(n.Parameters, &params)
			if params.Method == "" {
				params.Method = defaultMethod
			}
			if params.URL == "" {
				params.URL = defaultURL
			}
			fn = FlowNode{
				ID:      n.ID,
				Type:    typeHTTPRequest,
				Z:       tabID,
				Name:    nodeName(n),
				Method:  params.Method,
				URL:     params.URL,
				Headers: params.Headers,
				Ret:     "obj",
				X:       x,
				Y:       y,
			}
		default:
			fn = FlowNode{
				ID:   n.ID,
				Type: typeComment,
				Z:    tabID,
				Name: nodeName(n),
				Info: placeholderInfo(n),
				X:    x,
				Y:    y,
			}
		}
		index[n.ID] = len(out)
		out = append(out, fn)
	}

	for _, e := range flow.Edges {
		si, ok := index[e.Source]
		if !ok {
			continue
		}
		ti, ok := index[e.Target]
		if !ok {
			continue
		}
		src := &out[si]
		if len(src.Wires) == 0 {
			src.Wires = [][]string{{}}
		}
		if !contains(src.Wires[0], out[ti].ID) {
			src.Wires[0] = append(src.Wires[0], out[ti].ID)
		}
	}

	return out
}

func nodeName(n domain.Node) string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

func position(n domain.Node) (int, int) {
	if n.Position == nil {
		return defaultX, defaultY
	}
	return int(n.Position.X), int(n.Position.Y)
}

// placeholderInfo records the untranslated type and parameters so the
// node stays traceable inside the target editor.
func placeholderInfo(n domain.Node) string {
	info := fmt.Sprintf("unmapped node type %q", n.Type)
	if len(n.Parameters) > 0 {
		dump := fmt.Sprintf("%v", n.Parameters)
		if len(dump) > maxInfoLen {
			dump = dump[:maxInfoLen] + "..."
		}
		info += " params=" + dump
	}
	return info
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

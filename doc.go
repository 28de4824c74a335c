/*
Package emberflow turns visually authored automation flows (typed
nodes connected by edges) into executable plans: it validates the
dependency graph, translates the flow into the Node-RED runtime
format, and simulates execution step by step, producing a structured
report per run.

# Concept

A flow is a graph of typed nodes (trigger, api_call, email, condition,
transform, ...) wired by directed edges. The engine plans an order
that respects declared dependencies, dispatches every node to a
handler from a type-keyed registry, and aggregates per-step results
into an execution report. Failures are data: a step error lands in
the report's error list, and only nodes flagged stop_on_error halt
the run.

# Architecture

The core depends only on the interfaces in pkg/ports. Storage (memory
or Redis), the Node-RED admin API publisher, and the HTTP surface are
adapters; metrics attach through lifecycle hooks. This keeps the
engine embeddable in a CLI, a server, or a larger platform without
dragging infrastructure along.

# Usage

	eng := emberflow.New()
	report := eng.Execute(ctx, flow, nil)

See the cmd/emberflow CLI for the file-based entry points.
*/
package emberflow

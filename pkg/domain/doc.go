/*
Package domain contains the core types of the emberflow engine: the
flow definition (nodes and edges as authored in the visual editor),
the execution report produced by a run, and the lifecycle hooks used
for observability.

The types are plain data with JSON tags matching the wire format the
editor and the REST surface exchange. All behavior lives in the engine
and adapter packages.
*/
package domain

package ports

import "context"

// Publisher imports a translated flow into the target automation
// runtime. The translated payload is the JSON-serializable node array
// produced by pkg/nodered; the wire call and its error handling are
// the adapter's concern, not the translator's.
type Publisher interface {
	Publish(ctx context.Context, nodes any) error
}

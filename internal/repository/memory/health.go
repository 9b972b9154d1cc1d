package memory

import "context"

// Pinger always reports healthy.
type Pinger struct{}

func (Pinger) Ping(ctx context.Context) error { return nil }

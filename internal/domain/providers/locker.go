package providers

import (
	"context"
)

// Locker provides mutual exclusion scoped by key
type Locker interface {
	// Lock blocks until the key is held or ctx is done. The returned func releases it.
	Lock(ctx context.Context, key string) (func(), error)
}

// Package database opens the connections the storage drivers sit on.
package database

import (
	"context"
	"fmt"
	"time"
)

// connectTimeout bounds the reachability check made when a connection is opened
const connectTimeout = 5 * time.Second

// ping runs check under connectTimeout and runs cleanup when it fails
func ping(ctx context.Context, what string, check func(context.Context) error, cleanup func() error) error {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := check(ctx); err != nil {
		cleanup()
		return fmt.Errorf("%s unreachable: %w", what, err)
	}
	return nil
}

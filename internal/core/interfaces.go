package core

import "context"

type (
	// SessionSweeper is the part of the session manager the background
	// reaper needs: one pass deleting sessions past their TTL.
	SessionSweeper interface {
		ReapExpired(ctx context.Context) (int64, error)
	}
)

package zep

import (
	"context"
	"errors"
)

// ErrNilJobFunc is returned when a nil jobFunc is run.
var ErrNilJobFunc = errors.New("nil job func")

// jobFunc adapts a plain function to the shardqueue.Job interface.
type jobFunc func(ctx context.Context) error

func (f jobFunc) Run(ctx context.Context) error {
	if f == nil {
		return ErrNilJobFunc
	}
	return f(ctx)
}

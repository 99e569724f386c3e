package dashboard

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// collapse runs fn once per key among concurrent callers. A caller whose
// context ends stops waiting; the shared build keeps going for the others.
func collapse(ctx context.Context, group *singleflight.Group, key string, fn func(context.Context) (any, error)) (any, error, bool) {
	resultChan := group.DoChan(key, func() (any, error) {
		return fn(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err(), false
	case res := <-resultChan:
		return res.Val, res.Err, res.Shared
	}
}

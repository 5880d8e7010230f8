package viewstate

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Join2 runs fa and fb concurrently and waits for both. If either fails the
// other is cancelled and the first error is returned with zero values, so a
// compound load is never partially populated.
func Join2[A, B any](
	ctx context.Context,
	fa func(context.Context) (A, error),
	fb func(context.Context) (B, error),
) (A, B, error) {
	var (
		a A
		b B
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := fa(gctx)
		a = v
		return err
	})
	g.Go(func() error {
		v, err := fb(gctx)
		b = v
		return err
	})
	if err := g.Wait(); err != nil {
		var (
			za A
			zb B
		)
		return za, zb, err
	}
	return a, b, nil
}

// Join3 is Join2 for three fetches.
func Join3[A, B, C any](
	ctx context.Context,
	fa func(context.Context) (A, error),
	fb func(context.Context) (B, error),
	fc func(context.Context) (C, error),
) (A, B, C, error) {
	var (
		a A
		b B
		c C
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := fa(gctx)
		a = v
		return err
	})
	g.Go(func() error {
		v, err := fb(gctx)
		b = v
		return err
	})
	g.Go(func() error {
		v, err := fc(gctx)
		c = v
		return err
	})
	if err := g.Wait(); err != nil {
		var (
			za A
			zb B
			zc C
		)
		return za, zb, zc, err
	}
	return a, b, c, nil
}

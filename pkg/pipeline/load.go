package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/rangeplot/pkg/ranges"
)

// LoadDatasets reads every file concurrently, keeping the argument order.
// The reader is picked by file extension (see [ranges.ReadFile]).
func LoadDatasets(ctx context.Context, paths []string) ([]*ranges.Dataset, error) {
	out := make([]*ranges.Dataset, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ds, err := ranges.ReadFile(path)
			if err != nil {
				return err
			}
			out[i] = ds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

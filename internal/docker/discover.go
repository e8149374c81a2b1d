package docker

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
)

// inspectConcurrency bounds parallel inspects during discovery.
const inspectConcurrency = 4

// DiscoverOptions select the containers to tile.
type DiscoverOptions struct {
	ListOptions
	// Names keeps only containers whose name or compose service is listed.
	Names []string
	// Limit caps the number of containers; zero means no cap.
	Limit int
}

// Discover lists and inspects the containers to tile, ordered by compose
// project, then display name.
func Discover(ctx context.Context, c DockerClient, opts DiscoverOptions) ([]ContainerDetails, error) {
	list, err := c.ListContainers(ctx, opts.ListOptions)
	if err != nil {
		return nil, err
	}
	if len(opts.Names) > 0 {
		list = slices.DeleteFunc(list, func(ci ContainerInfo) bool {
			return !slices.Contains(opts.Names, ci.Name) && !slices.Contains(opts.Names, ci.DisplayName())
		})
	}

	details := make([]ContainerDetails, len(list))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(inspectConcurrency)
	for i, ci := range list {
		g.Go(func() error {
			d, err := c.InspectContainer(gctx, ci.ID)
			if err != nil {
				return fmt.Errorf("discover %s: %w", ci.Name, err)
			}
			// Listing carries the compose labels even when inspect is partial.
			if d.Labels == nil {
				d.Labels = ci.Labels
			}
			details[i] = *d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(details, func(a, b ContainerDetails) int {
		if n := strings.Compare(a.Labels[ComposeProjectLabel], b.Labels[ComposeProjectLabel]); n != 0 {
			return n
		}
		return strings.Compare(a.DisplayName(), b.DisplayName())
	})
	if opts.Limit > 0 && len(details) > opts.Limit {
		details = details[:opts.Limit]
	}
	return details, nil
}

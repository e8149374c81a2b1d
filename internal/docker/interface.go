package docker

import (
	"context"
	"io"
)

// DockerClient defines the interface for Docker operations.
// This allows for easy mocking in tests.
type DockerClient interface {
	// Client lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Discovery
	ListContainers(ctx context.Context, opts ListOptions) ([]ContainerInfo, error)
	InspectContainer(ctx context.Context, containerID string) (*ContainerDetails, error)

	// Streams
	StreamLogs(ctx context.Context, containerID string, tail int, w io.Writer) error
	Stats(ctx context.Context, containerID string) (*ContainerStats, error)
}

// Verify Client implements DockerClient at compile time
var _ DockerClient = (*Client)(nil)

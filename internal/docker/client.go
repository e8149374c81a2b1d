package docker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
)

// ErrLogsEnded is returned when a followed log stream closes, usually
// because the container stopped.
var ErrLogsEnded = errors.New("docker: log stream ended")

// Client wraps the Docker SDK client with the read-only operations the
// panes need.
type Client struct {
	cli *client.Client
}

// NewClient creates a new Docker client using environment defaults.
func NewClient() (*Client, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, err
	}
	return &Client{cli: cli}, nil
}

// Ping checks connectivity to the Docker daemon.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.cli.Ping(ctx)
	return err
}

// Close releases the Docker client resources.
func (c *Client) Close() error {
	return c.cli.Close()
}

// StreamLogs follows a container's stdout and stderr into w, starting with
// the last tail lines (all of them when tail is negative). It blocks until
// ctx ends or the stream closes.
func (c *Client) StreamLogs(ctx context.Context, containerID string, tail int, w io.Writer) error {
	info, err := c.cli.ContainerInspect(ctx, containerID)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", shortID(containerID), err)
	}

	tailArg := "all"
	if tail >= 0 {
		tailArg = strconv.Itoa(tail)
	}
	rc, err := c.cli.ContainerLogs(ctx, containerID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     true,
		Tail:       tailArg,
	})
	if err != nil {
		return fmt.Errorf("logs %s: %w", shortID(containerID), err)
	}
	defer rc.Close()

	// TTY containers send a raw stream; the rest multiplex stdout and stderr.
	if info.Config != nil && info.Config.Tty {
		_, err = io.Copy(w, rc)
	} else {
		_, err = stdcopy.StdCopy(w, w, rc)
	}
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("logs %s: %w", shortID(containerID), err)
	}
	return ErrLogsEnded
}

// shortID returns the 12 character form of a container id.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

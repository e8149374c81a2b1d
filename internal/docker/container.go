package docker

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
)

// Compose labels used to group and name containers.
const (
	ComposeProjectLabel = "com.docker.compose.project"
	ComposeServiceLabel = "com.docker.compose.service"
)

// ListOptions filter container discovery.
type ListOptions struct {
	// All includes stopped containers.
	All bool
	// Project keeps only containers of this compose project.
	Project string
}

// ContainerInfo holds basic info about a container
type ContainerInfo struct {
	ID      string
	Name    string
	Image   string
	State   string
	Status  string
	Labels  map[string]string
	Created time.Time
}

// DisplayName returns the compose service name, or the container name.
func (c ContainerInfo) DisplayName() string {
	if s := c.Labels[ComposeServiceLabel]; s != "" {
		return s
	}
	return c.Name
}

// ContainerDetails is the inspected state of a container.
type ContainerDetails struct {
	ContainerInfo
	Health       string
	StartedAt    time.Time
	RestartCount int
	TTY          bool
	Command      string
	Mounts       []string
}

// ListContainers lists containers matching opts, sorted by name.
func (c *Client) ListContainers(ctx context.Context, opts ListOptions) ([]ContainerInfo, error) {
	filterArgs := filters.NewArgs()
	if opts.Project != "" {
		filterArgs.Add("label", ComposeProjectLabel+"="+opts.Project)
	}

	containers, err := c.cli.ContainerList(ctx, container.ListOptions{
		All:     opts.All,
		Filters: filterArgs,
	})
	if err != nil {
		return nil, fmt.Errorf("list containers: %w", err)
	}

	result := make([]ContainerInfo, 0, len(containers))
	for _, c := range containers {
		name := ""
		if len(c.Names) > 0 {
			name = strings.TrimPrefix(c.Names[0], "/")
		}
		result = append(result, ContainerInfo{
			ID:      c.ID,
			Name:    name,
			Image:   c.Image,
			State:   c.State,
			Status:  c.Status,
			Labels:  c.Labels,
			Created: time.Unix(c.Created, 0),
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// InspectContainer returns the details of one container.
func (c *Client) InspectContainer(ctx context.Context, containerID string) (*ContainerDetails, error) {
	info, err := c.cli.ContainerInspect(ctx, containerID)
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", shortID(containerID), err)
	}

	d := &ContainerDetails{
		ContainerInfo: ContainerInfo{
			ID:   info.ID,
			Name: strings.TrimPrefix(info.Name, "/"),
		},
		RestartCount: info.RestartCount,
	}
	if t, err := time.Parse(time.RFC3339Nano, info.Created); err == nil {
		d.Created = t
	}
	if info.State != nil {
		d.State = info.State.Status
		if t, err := time.Parse(time.RFC3339Nano, info.State.StartedAt); err == nil {
			d.StartedAt = t
		}
		if info.State.Health != nil {
			d.Health = info.State.Health.Status
		}
	}
	if info.Config != nil {
		d.Image = info.Config.Image
		d.Labels = info.Config.Labels
		d.TTY = info.Config.Tty
		d.Command = strings.Join(info.Config.Cmd, " ")
	}
	for _, m := range info.Mounts {
		d.Mounts = append(d.Mounts, m.Source+":"+m.Destination)
	}
	return d, nil
}

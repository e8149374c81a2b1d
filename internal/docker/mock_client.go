package docker

import (
	"context"
	"io"
	"sync"
)

// MockClient is a mock implementation of DockerClient for testing.
type MockClient struct {
	mu         sync.Mutex
	containers []ContainerDetails
	logs       map[string]string
	stats      map[string]*ContainerStats
	logCalls   map[string]int

	// Configurable behaviors
	PingErr    error
	ListErr    error
	InspectErr error
	StatsErr   error
}

// NewMockClient creates a new mock Docker client for testing.
func NewMockClient() *MockClient {
	return &MockClient{
		logs:     make(map[string]string),
		stats:    make(map[string]*ContainerStats),
		logCalls: make(map[string]int),
	}
}

// AddContainer registers a container with its log output.
func (m *MockClient) AddContainer(d ContainerDetails, logs string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.containers = append(m.containers, d)
	m.logs[d.ID] = logs
}

// SetState changes a container's state.
func (m *MockClient) SetState(containerID, state string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.containers {
		if m.containers[i].ID == containerID {
			m.containers[i].State = state
		}
	}
}

// SetStats sets the snapshot Stats returns for a container.
func (m *MockClient) SetStats(containerID string, s *ContainerStats) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats[containerID] = s
}

// LogCalls returns how many times logs were streamed for a container.
func (m *MockClient) LogCalls(containerID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.logCalls[containerID]
}

func (m *MockClient) Ping(ctx context.Context) error {
	return m.PingErr
}

func (m *MockClient) Close() error {
	return nil
}

func (m *MockClient) ListContainers(ctx context.Context, opts ListOptions) ([]ContainerInfo, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var result []ContainerInfo
	for _, c := range m.containers {
		if !opts.All && c.State != "running" {
			continue
		}
		if opts.Project != "" && c.Labels[ComposeProjectLabel] != opts.Project {
			continue
		}
		result = append(result, c.ContainerInfo)
	}
	return result, nil
}

func (m *MockClient) InspectContainer(ctx context.Context, containerID string) (*ContainerDetails, error) {
	if m.InspectErr != nil {
		return nil, m.InspectErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.containers {
		if c.ID == containerID {
			d := c
			return &d, nil
		}
	}
	return nil, &containerNotFoundError{containerID}
}

// StreamLogs writes the container's scripted output on the first call only,
// the way a followed stream with tail 0 would, then follows until ctx ends.
func (m *MockClient) StreamLogs(ctx context.Context, containerID string, tail int, w io.Writer) error {
	m.mu.Lock()
	logs, ok := m.logs[containerID]
	m.logCalls[containerID]++
	first := m.logCalls[containerID] == 1
	m.mu.Unlock()

	if !ok {
		return &containerNotFoundError{containerID}
	}
	if first && tail != 0 && logs != "" {
		if _, err := io.WriteString(w, logs); err != nil {
			return err
		}
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *MockClient) Stats(ctx context.Context, containerID string) (*ContainerStats, error) {
	if m.StatsErr != nil {
		return nil, m.StatsErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.stats[containerID]; ok {
		c := *s
		return &c, nil
	}
	return &ContainerStats{}, nil
}

// containerNotFoundError for mock
type containerNotFoundError struct {
	id string
}

func (e *containerNotFoundError) Error() string {
	return "container not found: " + e.id
}

// Verify MockClient implements DockerClient
var _ DockerClient = (*MockClient)(nil)

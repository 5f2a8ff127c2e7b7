// Package testnats runs a throwaway NATS server for publisher tests.
package testnats

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const image = "nats:2.10-alpine"

type NATSContainer struct {
	Container testcontainers.Container
	URL       string
}

var shared = sync.OnceValues(func() (*NATSContainer, error) {
	return start(context.Background())
})

func start(ctx context.Context) (*NATSContainer, error) {
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{"4222/tcp"},
			WaitingFor:   wait.ForListeningPort("4222/tcp"),
		},
		Started: true,
	})
	if err != nil {
		return nil, err
	}

	endpoint, err := c.PortEndpoint(ctx, "4222/tcp", "nats")
	if err != nil {
		return nil, err
	}
	return &NATSContainer{Container: c, URL: endpoint}, nil
}

// SetupSharedNATS returns the NATS container shared by the test binary.
// Skipped with -short or when SKIP_NATS_TESTS is set.
func SetupSharedNATS(t *testing.T) *NATSContainer {
	t.Helper()

	if testing.Short() || os.Getenv("SKIP_NATS_TESTS") != "" {
		t.Skip("skipping NATS integration test")
	}

	nc, err := shared()
	require.NoError(t, err, "failed to start nats container")
	return nc
}

// Connect opens a client connection closed at the end of t.
func (nc *NATSContainer) Connect(t *testing.T) *nats.Conn {
	t.Helper()

	conn, err := nats.Connect(nc.URL, nats.Timeout(5*time.Second))
	require.NoError(t, err)
	t.Cleanup(conn.Close)
	return conn
}

// Subscribe listens on subject and flushes so no message published after the
// call is missed.
func (nc *NATSContainer) Subscribe(t *testing.T, subject string) *nats.Subscription {
	t.Helper()

	conn := nc.Connect(t)
	sub, err := conn.SubscribeSync(subject)
	require.NoError(t, err)
	require.NoError(t, conn.Flush())
	return sub
}

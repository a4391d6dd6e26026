// Package testutil holds the helpers shared by the black-box API tests.
package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/jayant413/contrashutter-backend/pkg/client"
)

const (
	EnvServerURL = "TEST_SERVER_URL"

	DefaultHealthCheckTimeout = 30 * time.Second
)

// NewAPIClient returns a fresh session against the server under test. The
// test is skipped when no server is configured.
func NewAPIClient(t *testing.T) *client.APIClient {
	t.Helper()

	serverURL := os.Getenv(EnvServerURL)
	if serverURL == "" {
		t.Skipf("%s not set, skipping integration test", EnvServerURL)
	}

	c := client.NewAPIClient(serverURL)
	if err := c.HTTP().WaitForHealthy(DefaultHealthCheckTimeout); err != nil {
		t.Fatalf("server at %s is not healthy: %v", serverURL, err)
	}
	return c
}

package shelf_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/shelf/pkg/shelfsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Container setup and shared assertions for the shelf end-to-end tests.
 * The suite needs Docker and only runs when SHELF_TEST_E2E is set.
 */

const (
	testImageName = "shelf-test:latest"

	testPassword = "password123"
)

// TestMain builds the image once for the whole suite and removes it
// afterwards.
func TestMain(m *testing.M) {
	if os.Getenv("SHELF_TEST_E2E") == "" {
		fmt.Fprintln(os.Stdout, "SHELF_TEST_E2E not set, skipping end-to-end tests")
		os.Exit(0)
	}

	fmt.Fprintf(os.Stdout, "Building shelf Docker image...")
	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up shelf Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	cmd := exec.CommandContext(context.Background(), "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/shelf/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	return cmd.Run()
}

func cleanupDockerImage() {
	cmd := exec.CommandContext(context.Background(), "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // the image may already be gone
}

// setupShelfContainer starts the service and returns its base URL.
// extraEnv overrides the defaults below.
func setupShelfContainer(t *testing.T, extraEnv map[string]string) string {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"SHELF_COOKIE_SECURE":   "false", // plain http inside the test network
		"SHELF_PASSWORD_HASHER": "argon2id",
		// Nothing listens here, so catalog calls fail fast with a 502.
		"GOOGLE_BOOKS_API_URL": "http://127.0.0.1:9/books/v1/volumes",
		"GOOGLE_BOOKS_TIMEOUT": "2s",
		"ENV":                  "test",
		"LOG_LEVEL":            "info",
		"LOG_FORMAT":           "json",
	}
	for k, v := range extraEnv {
		env[k] = v
	}

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
}

// registerUser signs up email with the shared test password.
func registerUser(t *testing.T, client *shelfsdk.SDKClient, email string) *shelfsdk.Session {
	t.Helper()

	session, err := client.Register(t.Context(), email, testPassword)
	require.NoError(t, err, "register %s", email)
	require.NotEmpty(t, session.AccessToken())
	return session
}

func assertHealthy(t *testing.T, health *shelfsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}

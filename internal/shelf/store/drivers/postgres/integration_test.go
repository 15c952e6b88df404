package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/aussiebroadwan/shelf/internal/shelf/domain"
	"github.com/aussiebroadwan/shelf/internal/shelf/store"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres runs a throwaway PostgreSQL and returns a migrated store.
// Set SHELF_TEST_INTEGRATION=1 to enable.
func startPostgres(t *testing.T) *Store {
	t.Helper()
	if os.Getenv("SHELF_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set SHELF_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image: "postgres:16-alpine",
		Env: map[string]string{
			"POSTGRES_USER":     "shelf",
			"POSTGRES_PASSWORD": "shelf",
			"POSTGRES_DB":       "shelf",
		},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := c.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	url := fmt.Sprintf("postgres://shelf:shelf@%s:%s/shelf?sslmode=disable", host, port.Port())
	s, err := NewStore(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestPostgresStoreIntegration(t *testing.T) {
	s := startPostgres(t)
	ctx := context.Background()

	role, err := s.Roles().GetRoleByName(ctx, domain.DefaultRole)
	require.NoError(t, err)

	u, err := s.Users().CreateUser(ctx, domain.User{Email: "ada@example.com", PasswordHash: "h", RoleID: role.ID})
	require.NoError(t, err)

	_, err = s.Users().CreateUser(ctx, domain.User{Email: "ada@example.com", PasswordHash: "h", RoleID: role.ID})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	got, err := s.Users().GetUserByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.Equal(t, "USER", got.Role)

	now := time.Now().UTC()
	for _, hash := range []string{"a", "b"} {
		_, err = s.RefreshSessions().UpsertForUser(ctx, domain.RefreshSession{
			UserID: u.ID, TokenHash: hash, ExpiresAt: now.Add(time.Hour), CreatedAt: now,
		})
		require.NoError(t, err)
	}
	n, err := s.RefreshSessions().CountByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	_, err = s.Books().CreateBook(ctx, domain.Book{GoogleBookID: "g1", Title: "Dune", UserID: u.ID})
	require.NoError(t, err)
	_, err = s.Books().CreateBook(ctx, domain.Book{GoogleBookID: "g1", Title: "Dune", UserID: u.ID})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	page, err := s.Books().PageForUser(ctx, u.ID, 10, 0)
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)
}

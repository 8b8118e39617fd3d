package testdb

import (
	"context"
	"database/sql"
	"os/exec"
	"strconv"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/phrazzld/tasks-api/internal/ciutil"
	"github.com/phrazzld/tasks-api/internal/config"
)

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 30 * time.Second

const (
	postgresImage = "postgres:16-alpine"
	testDBName    = "tasks"
	testUser      = "postgres"
	testPassword  = "postgres"
)

// dockerAvailable reports whether the Docker daemon is reachable.
// testcontainers-go panics without one.
func dockerAvailable() bool {
	return exec.Command("docker", "info").Run() == nil
}

// Database is a migrated PostgreSQL instance owned by a single test.
type Database struct {
	Config config.DatabaseConfig
	DB     *sql.DB
}

// unavailable skips the test locally and fails it under CI, where a missing
// database means the pipeline is misconfigured.
func unavailable(t *testing.T, format string, args ...any) {
	t.Helper()
	if ciutil.IsCI() {
		t.Fatalf(format, args...)
	}
	t.Skipf(format, args...)
}

// Start runs a PostgreSQL container, applies the schema and returns the
// settings needed to reach it.
func Start(t *testing.T) *Database {
	t.Helper()
	if !dockerAvailable() {
		unavailable(t, "Docker not available for PostgreSQL integration tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := tcpostgres.Run(ctx,
		postgresImage,
		tcpostgres.WithDatabase(testDBName),
		tcpostgres.WithUsername(testUser),
		tcpostgres.WithPassword(testPassword),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		unavailable(t, "failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mapped, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	port, err := strconv.Atoi(mapped.Port())
	require.NoError(t, err)

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	db, err := sql.Open("pgx", connStr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, ApplyMigrations(ctx, db), "failed to apply migrations")

	return &Database{
		Config: config.DatabaseConfig{
			Host:           host,
			Port:           port,
			User:           testUser,
			Password:       testPassword,
			Name:           testDBName,
			ConnectTimeout: 10 * time.Second,
			AcquireTimeout: 10 * time.Second,
			MaxConns:       4,
		},
		DB: db,
	}
}

// Reset empties the tasks table between subtests.
func (d *Database) Reset(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()
	require.NoError(t, ResetTasks(ctx, d.DB))
}

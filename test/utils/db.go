package testutils

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"courseware/internal/db"

	_ "github.com/lib/pq"
)

const testDBName = "courseware_test"

// TestDBWithCleanup creates a scratch database with the application schema
// and drops it when the test ends. Tests are skipped if Postgres is down.
func TestDBWithCleanup(t *testing.T) *sql.DB {
	t.Helper()

	dsn := "host=localhost port=5433 user=testuser password=testpass dbname=postgres sslmode=disable"
	if envDSN := os.Getenv("TEST_PG_ADMIN_URL"); envDSN != "" {
		dsn = envDSN
	}

	adminDB, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open admin connection: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := adminDB.PingContext(ctx); err != nil {
		adminDB.Close()
		t.Skipf("Postgres unavailable: %v", err)
	}

	_, err = adminDB.ExecContext(ctx, "CREATE DATABASE "+testDBName)
	if err != nil && !isDuplicateDBError(err) {
		adminDB.Close()
		t.Fatalf("create database %s: %v", testDBName, err)
	}

	appDSN := "host=localhost port=5433 user=testuser password=testpass dbname=" + testDBName + " sslmode=disable"
	if envDSN := os.Getenv("TEST_DATABASE_URL"); envDSN != "" {
		appDSN = envDSN
	}

	conn, err := sql.Open("postgres", appDSN)
	if err != nil {
		t.Fatalf("open %s: %v", testDBName, err)
	}
	if err := conn.PingContext(ctx); err != nil {
		t.Fatalf("%s unavailable: %v", testDBName, err)
	}

	conn.SetMaxOpenConns(5)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(5 * time.Minute)

	t.Cleanup(func() {
		conn.Close()
		_, _ = adminDB.ExecContext(context.Background(), "DROP DATABASE IF EXISTS "+testDBName+" WITH (FORCE)")
		adminDB.Close()
	})

	if err := db.Migrate(ctx, conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func isDuplicateDBError(err error) bool {
	return err != nil &&
		(err.Error() == `pq: database "`+testDBName+`" already exists` ||
			err.Error() == `ERROR: database "`+testDBName+`" already exists (SQLSTATE 42P04)`)
}

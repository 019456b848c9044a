// Package testing provides test utilities and database setup for repository and flow tests
package testing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/amirphl/affiliate-rhonat/logging"
	"github.com/amirphl/affiliate-rhonat/migrations"
	_ "github.com/lib/pq" // PostgreSQL driver for database/sql
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNoDatabase means neither TEST_DB_HOST nor Docker is available.
// Callers skip the test.
var ErrNoDatabase = errors.New("no test database available")

// TestDBConfig holds configuration for test database connections
type TestDBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	SSLMode  string
}

func (c *TestDBConfig) dsn(dbName string) string {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.SSLMode)
	if dbName != "" {
		dsn += " dbname=" + dbName
	}
	return dsn
}

var (
	sharedOnce   sync.Once
	sharedConfig *TestDBConfig
	sharedErr    error
)

// GetTestDBConfig returns TEST_DB_* settings when TEST_DB_HOST is set,
// otherwise a PostgreSQL container shared by the test binary
func GetTestDBConfig(ctx context.Context) (*TestDBConfig, error) {
	if os.Getenv("TEST_DB_HOST") != "" {
		return &TestDBConfig{
			Host:     getEnv("TEST_DB_HOST", "localhost"),
			Port:     getEnvAsInt("TEST_DB_PORT", 5432),
			User:     getEnv("TEST_DB_USER", "postgres"),
			Password: getEnv("TEST_DB_PASSWORD", "postgres"),
			SSLMode:  getEnv("TEST_DB_SSL_MODE", "disable"),
		}, nil
	}

	sharedOnce.Do(func() {
		if !IsDockerAvailable() {
			sharedErr = ErrNoDatabase
			return
		}
		pg, err := StartPostgres(ctx)
		if err != nil {
			sharedErr = err
			return
		}
		sharedConfig = pg.Config
	})
	return sharedConfig, sharedErr
}

// TestDB represents a test database instance
type TestDB struct {
	DB     *gorm.DB
	SQL    *sql.DB
	Name   string
	config *TestDBConfig
}

// SetupTestDB creates a new test database with a unique name and runs migrations
func SetupTestDB(ctx context.Context) (*TestDB, error) {
	config, err := GetTestDBConfig(ctx)
	if err != nil {
		return nil, err
	}

	dbName := fmt.Sprintf("affiliate_test_%d_%d", time.Now().UnixNano(), rand.Intn(10000))

	admin, err := sql.Open("postgres", config.dsn("postgres"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer admin.Close()

	if _, err := admin.ExecContext(ctx, "CREATE DATABASE "+dbName); err != nil {
		return nil, fmt.Errorf("failed to create test database %s: %w", dbName, err)
	}

	sqlDB, err := sql.Open("postgres", config.dsn(dbName))
	if err != nil {
		return nil, fmt.Errorf("failed to open test database %s: %w", dbName, err)
	}

	applied, err := migrations.Apply(ctx, sqlDB)
	if err != nil {
		sqlDB.Close()
		_, _ = admin.ExecContext(ctx, "DROP DATABASE IF EXISTS "+dbName)
		return nil, fmt.Errorf("failed to run migrations on test database %s: %w", dbName, err)
	}
	logging.Debug().Str("database", dbName).Strs("migrations", applied).Msg("test database ready")

	gdb, err := gorm.Open(postgres.Open(config.dsn(dbName)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to test database %s: %w", dbName, err)
	}

	return &TestDB{DB: gdb, SQL: sqlDB, Name: dbName, config: config}, nil
}

// TeardownTestDB drops the test database and closes connections
func (tdb *TestDB) TeardownTestDB() error {
	if gdb, err := tdb.DB.DB(); err == nil {
		gdb.Close()
	}
	tdb.SQL.Close()

	admin, err := sql.Open("postgres", tdb.config.dsn("postgres"))
	if err != nil {
		return err
	}
	defer admin.Close()

	if _, err := admin.Exec(
		"SELECT pg_terminate_backend(pid) FROM pg_stat_activity WHERE datname = $1 AND pid <> pg_backend_pid()",
		tdb.Name,
	); err != nil {
		logging.Warn().Err(err).Str("database", tdb.Name).Msg("failed to terminate test connections")
	}

	if _, err := admin.Exec("DROP DATABASE IF EXISTS " + tdb.Name); err != nil {
		return fmt.Errorf("failed to drop test database %s: %w", tdb.Name, err)
	}
	return nil
}

// ClearAllTables removes all data from tables while preserving structure
func (tdb *TestDB) ClearAllTables() error {
	return tdb.DB.Exec("TRUNCATE TABLE sales, clicks, affiliate_links, products, affiliates, brands CASCADE").Error
}

// TestWithDB sets up a test database, runs testFunc and cleans up.
// It returns ErrNoDatabase when no server is reachable.
func TestWithDB(testFunc func(*TestDB) error) error {
	ctx := context.Background()
	testDB, err := SetupTestDB(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cleanupErr := testDB.TeardownTestDB(); cleanupErr != nil {
			logging.Warn().Err(cleanupErr).Msg("failed to cleanup test database")
		}
	}()

	return testFunc(testDB)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

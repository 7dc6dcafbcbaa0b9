// Package client opens database connections for the write path.
package client

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Client is the database handle the executor runs against.
type Client struct {
	db       *sql.DB
	provider string
}

// NewClient opens a connection for the given provider.
func NewClient(provider string, connectionString string) (*Client, error) {
	driverName := getDriverName(provider)
	if driverName == "" {
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}

	db, err := sql.Open(driverName, connectionString)
	if err != nil {
		return nil, err
	}

	return &Client{
		db:       db,
		provider: provider,
	}, nil
}

// NewClientFromDB wraps an existing database connection.
func NewClientFromDB(provider string, db *sql.DB) *Client {
	return &Client{
		db:       db,
		provider: provider,
	}
}

// NewClientFromEnv opens a connection using DATABASE_URL, loading a
// .env file first when one exists. The provider is inferred from the
// URL scheme.
func NewClientFromEnv() (*Client, error) {
	_ = godotenv.Load()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	provider := ProviderFromURL(url)
	if provider == "" {
		return nil, fmt.Errorf("cannot infer provider from DATABASE_URL")
	}
	return NewClient(provider, url)
}

// ProviderFromURL infers the provider from a connection URL scheme.
func ProviderFromURL(url string) string {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return "postgres"
	case strings.HasPrefix(url, "mysql://"):
		return "mysql"
	case strings.HasPrefix(url, "file:"), strings.HasSuffix(url, ".db"), strings.HasSuffix(url, ".sqlite"):
		return "sqlite"
	default:
		return ""
	}
}

// getDriverName maps provider names to Go database driver names.
func getDriverName(provider string) string {
	switch provider {
	case "postgresql", "postgres":
		return "postgres"
	case "mysql":
		return "mysql"
	case "sqlite":
		return "sqlite3"
	default:
		return ""
	}
}

// Connect establishes the database connection.
func (c *Client) Connect(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Disconnect closes the database connection.
func (c *Client) Disconnect(ctx context.Context) error {
	return c.db.Close()
}

// DB returns the underlying database connection.
func (c *Client) DB() *sql.DB {
	return c.db
}

// Provider returns the provider name the client was opened with.
func (c *Client) Provider() string {
	return c.provider
}

package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"chirper/pkg/logging"
)

// Config holds MongoDB connection configuration
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	MaxPoolSize    uint64
}

// DefaultConfig returns default MongoDB configuration
func DefaultConfig() Config {
	return Config{
		ConnectTimeout: 10 * time.Second,
		MaxPoolSize:    50,
	}
}

// Conn bundles a MongoDB client with the selected database handle
type Conn struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// Ping verifies connectivity to the primary
func (c *Conn) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the underlying client
func (c *Conn) Close(ctx context.Context) error {
	return c.Client.Disconnect(ctx)
}

// Collection returns a handle to the named collection
func (c *Conn) Collection(name string) *mongo.Collection {
	return c.Database.Collection(name)
}

// Connect establishes a MongoDB connection with the given configuration
func Connect(cfg Config, logger logging.Logger) (*Conn, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("database URI is required")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("database name is required")
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	conn := &Conn{
		Client:   client,
		Database: client.Database(cfg.Database),
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()
	if err := conn.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.WithFields(logging.Fields{
		"database":      cfg.Database,
		"max_pool_size": cfg.MaxPoolSize,
	}).Info("Database connected")

	return conn, nil
}

// MustConnect is like Connect but exits the process on error
func MustConnect(cfg Config, logger logging.Logger) *Conn {
	conn, err := Connect(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	return conn
}

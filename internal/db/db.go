package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DialFunc opens a new client. Replaced in tests.
type DialFunc func(ctx context.Context, uri string) (*mongo.Client, error)

// InitFunc runs once on every freshly established client, e.g. to ensure indexes.
type InitFunc func(ctx context.Context, db *mongo.Database) error

// Connector lazily opens one shared Mongo client for the whole process.
// Concurrent first callers share a single dial; a failed dial is not cached.
type Connector struct {
	uri    string
	dbName string
	dial   DialFunc
	inits  []InitFunc
	log    *zap.Logger

	mu     sync.RWMutex
	client *mongo.Client
	group  singleflight.Group
}

// NewConnector creates a connector; nothing is dialed until first use.
func NewConnector(uri, dbName string, log *zap.Logger) *Connector {
	return &Connector{
		uri:    uri,
		dbName: dbName,
		dial:   Dial,
		log:    log,
	}
}

// WithDialer swaps the dial function.
func (c *Connector) WithDialer(dial DialFunc) *Connector {
	c.dial = dial
	return c
}

// OnConnect registers a hook run after each successful dial, before the
// client is published to other callers.
func (c *Connector) OnConnect(fn InitFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inits = append(c.inits, fn)
}

// Dial connects and pings the server.
func Dial(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return client, nil
}

// Client returns the shared client, connecting on first use.
func (c *Connector) Client(ctx context.Context) (*mongo.Client, error) {
	c.mu.RLock()
	client := c.client
	c.mu.RUnlock()
	if client != nil {
		return client, nil
	}

	v, err, shared := c.group.Do("connect", func() (interface{}, error) {
		c.mu.RLock()
		existing := c.client
		inits := c.inits
		c.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}

		// The dial outlives a single caller's cancellation since others may share it.
		dialCtx := context.WithoutCancel(ctx)
		client, err := c.dial(dialCtx, c.uri)
		if err != nil {
			return nil, err
		}

		if client != nil {
			for _, fn := range inits {
				if err := fn(dialCtx, client.Database(c.dbName)); err != nil {
					_ = client.Disconnect(context.Background())
					return nil, err
				}
			}
		}

		c.mu.Lock()
		c.client = client
		c.mu.Unlock()

		if c.log != nil {
			c.log.Info("connected to mongo", zap.String("database", c.dbName))
		}
		return client, nil
	})
	if err != nil {
		if c.log != nil {
			c.log.Error("mongo connection failed", zap.Error(err), zap.Bool("shared", shared))
		}
		return nil, err
	}

	return v.(*mongo.Client), nil
}

// Database returns the configured database on the shared client.
func (c *Connector) Database(ctx context.Context) (*mongo.Database, error) {
	client, err := c.Client(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(c.dbName), nil
}

// Collection returns a collection of the configured database.
func (c *Connector) Collection(ctx context.Context, name string) (*mongo.Collection, error) {
	db, err := c.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

// Close disconnects the shared client if one was opened.
func (c *Connector) Close(ctx context.Context) error {
	c.mu.Lock()
	client := c.client
	c.client = nil
	c.mu.Unlock()

	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

package testhelpers

import (
	"context"
	"os"
	"time"

	"antiscam/internal/db"

	"github.com/onsi/ginkgo/v2"
	g "github.com/onsi/gomega"
	"go.uber.org/zap"
)

// ConnectTestDB returns a connector against MONGODB_URL, or skips the current test
// when no server is reachable.
func ConnectTestDB() *db.Connector {
	uri := os.Getenv("MONGODB_URL")
	if uri == "" {
		ginkgo.Skip("MONGODB_URL not set")
	}

	dbName := os.Getenv("MONGODB_DATABASE")
	if dbName == "" {
		dbName = "antiscam_test"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := db.NewConnector(uri, dbName, zap.NewNop())
	if _, err := conn.Client(ctx); err != nil {
		ginkgo.Skip("database not available: " + err.Error())
	}
	return conn
}

// CleanupDB empties every collection but keeps indexes.
func CleanupDB(conn *db.Connector) {
	ctx := context.Background()

	database, err := conn.Database(ctx)
	g.Expect(err).NotTo(g.HaveOccurred())

	names, err := database.ListCollectionNames(ctx, map[string]interface{}{})
	g.Expect(err).NotTo(g.HaveOccurred())

	for _, name := range names {
		_, err := database.Collection(name).DeleteMany(ctx, map[string]interface{}{})
		g.Expect(err).NotTo(g.HaveOccurred(), "Failed to clean collection: "+name)
	}
}

// DropDB removes the test database entirely.
func DropDB(conn *db.Connector) {
	ctx := context.Background()
	database, err := conn.Database(ctx)
	g.Expect(err).NotTo(g.HaveOccurred())
	g.Expect(database.Drop(ctx)).To(g.Succeed())
}

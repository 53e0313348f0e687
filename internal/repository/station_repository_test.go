package repository_test

import (
	"context"

	"antiscam/internal/db"
	"antiscam/internal/models"
	"antiscam/internal/repository"
	"antiscam/internal/testhelpers"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/mongo"
)

func mustDatabase(conn *db.Connector) *mongo.Database {
	database, err := conn.Database(context.Background())
	Expect(err).NotTo(HaveOccurred())
	return database
}

var _ = Describe("StationRepository", func() {
	var (
		conn *db.Connector
		repo repository.StationRepository
		ctx  context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		conn = testhelpers.ConnectTestDB()
		repo = repository.NewStationRepository(conn)
		testhelpers.CleanupDB(conn)

		_, err := mustDatabase(conn).Collection(repository.StationCollection).InsertMany(ctx, []interface{}{
			models.Station{Name: "Shivajinagar Police Station", Address: "FC Road", PhoneNumber: "020-25536263", City: "Pune"},
			models.Station{Name: "Cyber Police Station (A+B)", Address: "BKC", PhoneNumber: "022-26504008", City: "Mumbai"},
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("matches a partial name case-insensitively", func() {
		station, err := repo.FindByName(ctx, "pune", "  shivaji ")
		Expect(err).NotTo(HaveOccurred())
		Expect(station.PhoneNumber).To(Equal("020-25536263"))
	})

	It("treats regex metacharacters literally", func() {
		station, err := repo.FindByName(ctx, "Mumbai", "(A+B)")
		Expect(err).NotTo(HaveOccurred())
		Expect(station.Address).To(Equal("BKC"))

		_, err = repo.FindByName(ctx, "Mumbai", ".*")
		Expect(err).To(MatchError(repository.ErrNotFound))
	})

	It("does not match a station from another city", func() {
		_, err := repo.FindByName(ctx, "Mumbai", "Shivajinagar")
		Expect(err).To(MatchError(repository.ErrNotFound))
	})

	It("rejects names shorter than two characters", func() {
		_, err := repo.FindByName(ctx, "Pune", " s ")
		Expect(err).To(MatchError(repository.ErrInvalidStationName))
	})
})

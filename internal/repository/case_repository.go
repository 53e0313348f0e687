package repository

import (
	"context"
	"errors"
	"fmt"

	"antiscam/internal/db"
	"antiscam/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// CaseCollection holds one document per reporter.
const CaseCollection = "users"

// CaseRepository persists cases.
type CaseRepository interface {
	Create(ctx context.Context, c *models.Case) (*models.Case, error)
	FindByID(ctx context.Context, id string) (*models.Case, error)
	FindSummary(ctx context.Context, id string) (*models.CaseSummary, error)
}

type caseRepository struct {
	conn   *db.Connector
	logger *zap.Logger
}

// NewCaseRepository registers the email index on the connector and returns the repository.
func NewCaseRepository(conn *db.Connector, logger *zap.Logger) CaseRepository {
	conn.OnConnect(EnsureCaseIndexes)
	return &caseRepository{conn: conn, logger: logger}
}

// EnsureCaseIndexes creates the unique email index.
func EnsureCaseIndexes(ctx context.Context, database *mongo.Database) error {
	_, err := database.Collection(CaseCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create email index: %w", err)
	}
	return nil
}

func (r *caseRepository) Create(ctx context.Context, c *models.Case) (*models.Case, error) {
	coll, err := r.conn.Collection(ctx, CaseCollection)
	if err != nil {
		return nil, err
	}

	doc := *c
	doc.ID = primitive.NewObjectID()

	if _, err := coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to insert case: %w", err)
	}

	r.logger.Info("case created", zap.String("case_id", doc.ID.Hex()))
	return &doc, nil
}

func (r *caseRepository) FindByID(ctx context.Context, id string) (*models.Case, error) {
	var c models.Case
	if err := r.findOne(ctx, id, nil, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caseRepository) FindSummary(ctx context.Context, id string) (*models.CaseSummary, error) {
	projection := bson.D{{Key: "_id", Value: 1}, {Key: "name", Value: 1}, {Key: "email", Value: 1}}

	var s models.CaseSummary
	if err := r.findOne(ctx, id, projection, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *caseRepository) findOne(ctx context.Context, id string, projection bson.D, out interface{}) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	coll, err := r.conn.Collection(ctx, CaseCollection)
	if err != nil {
		return err
	}

	opts := options.FindOne()
	if projection != nil {
		opts.SetProjection(projection)
	}

	err = coll.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to find case: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"antiscam/internal/db"
	"antiscam/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// StationCollection holds police stations.
const StationCollection = "policestations"

// StationRepository looks up police stations.
type StationRepository interface {
	FindByName(ctx context.Context, city, name string) (*models.Station, error)
}

type stationRepository struct {
	conn *db.Connector
}

func NewStationRepository(conn *db.Connector) StationRepository {
	return &stationRepository{conn: conn}
}

// FindByName matches the station name case-insensitively. The city narrows the
// match only for stations that carry one.
func (r *stationRepository) FindByName(ctx context.Context, city, name string) (*models.Station, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < 2 {
		return nil, ErrInvalidStationName
	}

	coll, err := r.conn.Collection(ctx, StationCollection)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"name": primitive.Regex{Pattern: regexp.QuoteMeta(name), Options: "i"}}
	if city = strings.TrimSpace(city); city != "" {
		filter["$or"] = bson.A{
			bson.M{"city": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(city) + "$", Options: "i"}},
			bson.M{"city": bson.M{"$exists": false}},
		}
	}

	var station models.Station
	err = coll.FindOne(ctx, filter).Decode(&station)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find station: %w", err)
	}
	return &station, nil
}

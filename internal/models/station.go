package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Station is a police station a reporter can be directed to.
type Station struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Address     string             `bson:"address" json:"address"`
	PhoneNumber string             `bson:"phoneNumber" json:"phoneNumber"`
	City        string             `bson:"city" json:"city"`
}

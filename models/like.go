package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Like is the user-property join entity; the unique index on
// (user, property) keeps it to at most one per pair.
type Like struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Property  primitive.ObjectID `bson:"property" json:"property"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

package store

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is one canonical directory entry. The directory enumerates which
// locations the booking and rent-out channels are queried for.
type Store struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"` // canonical "<Brand> - <Location>"
	Code      string             `json:"code" bson:"code"`
	Brand     string             `json:"brand" bson:"brand"`
	City      string             `json:"city" bson:"city"`
	IsActive  bool               `json:"is_active" bson:"is_active"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

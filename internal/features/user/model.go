package user

import (
	"time"

	common_models "go-telecrm/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username  string             `json:"username" bson:"username"`
	Password  string             `json:"-" bson:"password"` // bcrypt hash
	Name      string             `json:"name" bson:"name"`
	Role      common_models.Role `json:"role" bson:"role"`
	Store     string             `json:"store,omitempty" bson:"store,omitempty"` // canonical, required for telecallers
	IsActive  bool               `json:"is_active" bson:"is_active"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

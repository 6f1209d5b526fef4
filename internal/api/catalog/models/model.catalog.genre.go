package catalogmodels

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Genre là document trong collection genres, Name là duy nhất (unique index)
type Genre struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name" index:"unique"`
	Description string             `json:"description" bson:"description"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

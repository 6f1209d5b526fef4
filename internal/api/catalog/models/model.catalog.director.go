package catalogmodels

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Director là document trong collection directors, MovieIDs là back-link giống Actor
type Director struct {
	ID        primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string               `json:"name" bson:"name" index:"single"`
	Bio       string               `json:"bio" bson:"bio"`
	MovieIDs  []primitive.ObjectID `json:"movie_ids" bson:"movie_ids"`
	CreatedAt time.Time            `json:"created_at" bson:"created_at"`
}

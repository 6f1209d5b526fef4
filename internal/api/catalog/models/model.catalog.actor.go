package catalogmodels

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor là document trong collection actors.
// MovieIDs là back-link tới Movie, cập nhật best-effort khi phim được tạo/sửa.
type Actor struct {
	ID        primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string               `json:"name" bson:"name" index:"single"`
	Bio       string               `json:"bio" bson:"bio"`
	MovieIDs  []primitive.ObjectID `json:"movie_ids" bson:"movie_ids" index:"single"`
	CreatedAt time.Time            `json:"created_at" bson:"created_at"`
}

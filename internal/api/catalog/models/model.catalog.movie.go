// Package catalogmodels chứa các model MongoDB của domain catalog (phim, diễn viên, đạo diễn, thể loại).
package catalogmodels

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review là một đánh giá của người xem, lưu nhúng trong Movie
type Review struct {
	User    string  `json:"user" bson:"user"`
	Comment string  `json:"comment" bson:"comment"`
	Rating  float64 `json:"rating" bson:"rating"`
}

// Movie là document trong collection movies.
// DirectorID, ActorIDs, GenreIDs là tham chiếu, nguồn chuẩn cho quan hệ phim - người.
// PosterURL nil (thiếu field hoặc null) nghĩa là chưa được enrichment.
type Movie struct {
	ID          primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Title       string               `json:"title" bson:"title"`
	ReleaseYear int                  `json:"release_year" bson:"release_year" index:"single"`
	Rating      float64              `json:"rating" bson:"rating" index:"single;order:-1"`
	DirectorID  primitive.ObjectID   `json:"director_id" bson:"director_id" index:"single"`
	ActorIDs    []primitive.ObjectID `json:"actor_ids" bson:"actor_ids" index:"single"`
	GenreIDs    []primitive.ObjectID `json:"genre_ids" bson:"genre_ids" index:"single"`
	PosterURL   *string              `json:"poster_url" bson:"poster_url"`
	Description string               `json:"description,omitempty" bson:"description,omitempty"`
	Reviews     []Review             `json:"reviews" bson:"reviews"`
	IsFeatured  bool                 `json:"is_featured,omitempty" bson:"is_featured,omitempty"`
	CreatedAt   time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

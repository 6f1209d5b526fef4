// Package catalogdto chứa DTO (input từ client và view trả về) cho domain catalog.
// File: dto.catalog.movie.go - theo cấu trúc dto.<domain>.<entity>.go.
package catalogdto

// ReviewInput là một review gửi kèm khi tạo phim
type ReviewInput struct {
	User    string  `json:"user" validate:"required,min=1,max=100"`
	Comment string  `json:"comment" validate:"required,min=1,max=1000"`
	Rating  float64 `json:"rating" validate:"gte=0,lte=10"`
}

// MovieCreateInput là input để tạo phim
type MovieCreateInput struct {
	Title       string        `json:"title" validate:"required,min=1,max=300,no_xss"`
	ReleaseYear int           `json:"release_year" validate:"required,gte=1888,lte=2100"`
	DirectorID  string        `json:"director_id" validate:"required,objectid"`
	ActorIDs    []string      `json:"actor_ids" validate:"omitempty,dive,objectid"`
	GenreIDs    []string      `json:"genre_ids" validate:"omitempty,dive,objectid"`
	Rating      float64       `json:"rating" validate:"gte=0,lte=10"`
	Description string        `json:"description,omitempty" validate:"max=2000,no_xss"`
	Reviews     []ReviewInput `json:"reviews" validate:"omitempty,dive"`
}

// MovieUpdateInput là input cập nhật một phần, field nil nghĩa là giữ nguyên
type MovieUpdateInput struct {
	Title       *string   `json:"title,omitempty" validate:"omitempty,min=1,max=300,no_xss"`
	ReleaseYear *int      `json:"release_year,omitempty" validate:"omitempty,gte=1888,lte=2100"`
	DirectorID  *string   `json:"director_id,omitempty" validate:"omitempty,objectid"`
	ActorIDs    *[]string `json:"actor_ids,omitempty" validate:"omitempty,dive,objectid"`
	GenreIDs    *[]string `json:"genre_ids,omitempty" validate:"omitempty,dive,objectid"`
	Rating      *float64  `json:"rating,omitempty" validate:"omitempty,gte=0,lte=10"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=2000,no_xss"`
	PosterURL   *string   `json:"poster_url,omitempty" validate:"omitempty,url"`
}

// PersonRef là diễn viên/đạo diễn nhúng trong MovieView
type PersonRef struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Bio  *string `json:"bio,omitempty"`
}

// GenreRef là thể loại nhúng trong MovieView
type GenreRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ReviewView là review trả về client
type ReviewView struct {
	User    string  `json:"user"`
	Comment string  `json:"comment"`
	Rating  float64 `json:"rating"`
}

// MovieView là phim đã resolve quan hệ, field camelCase theo frontend
type MovieView struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	ReleaseYear int          `json:"releaseYear"`
	Rating      float64      `json:"rating"`
	Director    PersonRef    `json:"director"`
	Actors      []PersonRef  `json:"actors"`
	Genres      []GenreRef   `json:"genres"`
	Description string       `json:"description"`
	IsFeatured  bool         `json:"isFeatured"`
	PosterURL   *string      `json:"posterUrl"`
	Reviews     []ReviewView `json:"reviews"`
}

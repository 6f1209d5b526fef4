package catalogdto

// PersonCreateInput là input để tạo diễn viên hoặc đạo diễn
type PersonCreateInput struct {
	Name     string   `json:"name" validate:"required,min=1,max=200,no_xss"`
	Bio      string   `json:"bio" validate:"required,min=1,max=2000,no_xss"`
	MovieIDs []string `json:"movie_ids" validate:"omitempty,dive,objectid"`
}

// PersonView là diễn viên/đạo diễn kèm danh sách phim đã format
type PersonView struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Bio    string      `json:"bio"`
	Movies []MovieView `json:"movies"`
}

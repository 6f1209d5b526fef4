package catalogdto

// GenreCreateInput là input để tạo thể loại
type GenreCreateInput struct {
	Name        string `json:"name" validate:"required,min=1,max=100,no_xss"`
	Description string `json:"description" validate:"required,min=1,max=500"`
}

// GenreView là thể loại trả về client
type GenreView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

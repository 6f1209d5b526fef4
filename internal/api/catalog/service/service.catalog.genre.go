package catalogsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	basesvc "github.com/Kevindaniel6700/movie-time/internal/api/base/service"
	catalogdto "github.com/Kevindaniel6700/movie-time/internal/api/catalog/dto"
	catalogmodels "github.com/Kevindaniel6700/movie-time/internal/api/catalog/models"
	"github.com/Kevindaniel6700/movie-time/internal/common"
	"github.com/Kevindaniel6700/movie-time/internal/global"
)

// GenreService xử lý logic cho thể loại
type GenreService struct {
	*basesvc.BaseServiceMongoImpl[catalogmodels.Genre]
}

// ListGenres trả về toàn bộ thể loại, sắp theo tên
func (s *GenreService) ListGenres(ctx context.Context) ([]catalogdto.GenreView, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	genres, err := s.Find(ctx, BuildGenreFilter(), opts)
	if err != nil {
		return nil, err
	}
	return FormatGenres(genres), nil
}

// GetGenre trả về một thể loại theo id, NotFound khi không tồn tại
func (s *GenreService) GetGenre(ctx context.Context, id string) (catalogdto.GenreView, error) {
	genre, err := findByRawID(ctx, s.BaseServiceMongoImpl, EntityGenre, id)
	if err != nil {
		return catalogdto.GenreView{}, err
	}
	return FormatGenre(genre), nil
}

// CreateGenre tạo thể loại. Tên trùng bị unique index chặn và trả về 409.
func (s *GenreService) CreateGenre(ctx context.Context, input catalogdto.GenreCreateInput) (catalogdto.GenreView, error) {
	if err := global.ValidateStruct(input); err != nil {
		return catalogdto.GenreView{}, err
	}

	created, err := s.InsertOne(ctx, catalogmodels.Genre{
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicate) {
			return catalogdto.GenreView{}, common.NewError(
				common.ErrCodeDuplicate,
				fmt.Sprintf("Genre with name %s already exists", input.Name),
				common.StatusConflict,
				err,
			)
		}
		return catalogdto.GenreView{}, err
	}
	return FormatGenre(created), nil
}

// DeleteGenre xóa thể loại, genre_ids trên phim không được dọn
func (s *GenreService) DeleteGenre(ctx context.Context, id string) error {
	return deleteByRawID(ctx, s.BaseServiceMongoImpl, EntityGenre, id)
}

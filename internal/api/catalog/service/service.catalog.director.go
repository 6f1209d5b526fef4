package catalogsvc

import (
	"context"
	"time"

	basesvc "github.com/Kevindaniel6700/movie-time/internal/api/base/service"
	catalogdto "github.com/Kevindaniel6700/movie-time/internal/api/catalog/dto"
	catalogmodels "github.com/Kevindaniel6700/movie-time/internal/api/catalog/models"
	"github.com/Kevindaniel6700/movie-time/internal/global"
	"github.com/Kevindaniel6700/movie-time/internal/utility"
)

// DirectorService xử lý logic cho đạo diễn
type DirectorService struct {
	*basesvc.BaseServiceMongoImpl[catalogmodels.Director]
	formatter *Formatter
}

// ListDirectors trả về toàn bộ đạo diễn kèm phim
func (s *DirectorService) ListDirectors(ctx context.Context) ([]catalogdto.PersonView, error) {
	directors, err := s.Find(ctx, BuildDirectorFilter(), nil)
	if err != nil {
		return nil, err
	}
	return s.formatter.FormatDirectors(ctx, directors)
}

// GetDirector trả về một đạo diễn kèm phim
func (s *DirectorService) GetDirector(ctx context.Context, id string) (catalogdto.PersonView, error) {
	director, err := findByRawID(ctx, s.BaseServiceMongoImpl, EntityDirector, id)
	if err != nil {
		return catalogdto.PersonView{}, err
	}
	return s.formatter.FormatDirector(ctx, director)
}

func (s *DirectorService) CreateDirector(ctx context.Context, input catalogdto.PersonCreateInput) (catalogdto.PersonView, error) {
	if err := global.ValidateStruct(input); err != nil {
		return catalogdto.PersonView{}, err
	}
	movieIDs, err := utility.DecodeObjectIDs(input.MovieIDs)
	if err != nil {
		return catalogdto.PersonView{}, err
	}

	created, err := s.InsertOne(ctx, catalogmodels.Director{
		Name:      input.Name,
		Bio:       input.Bio,
		MovieIDs:  utility.UniqueObjectIDs(movieIDs),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return catalogdto.PersonView{}, err
	}
	return s.formatter.FormatDirector(ctx, created)
}

func (s *DirectorService) DeleteDirector(ctx context.Context, id string) error {
	return deleteByRawID(ctx, s.BaseServiceMongoImpl, EntityDirector, id)
}

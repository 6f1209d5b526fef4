// Package catalogsvc chứa logic nghiệp vụ của catalog: bộ lọc, formatter, tìm kiếm và các service theo entity.
package catalogsvc

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	basesvc "github.com/Kevindaniel6700/movie-time/internal/api/base/service"
	catalogmodels "github.com/Kevindaniel6700/movie-time/internal/api/catalog/models"
	"github.com/Kevindaniel6700/movie-time/internal/common"
	"github.com/Kevindaniel6700/movie-time/internal/database"
	"github.com/Kevindaniel6700/movie-time/internal/global"
	"github.com/Kevindaniel6700/movie-time/internal/logger"
	"github.com/Kevindaniel6700/movie-time/internal/utility"
)

// Collections là bốn collection mà catalog cần
type Collections struct {
	Movies    database.Collection
	Actors    database.Collection
	Directors database.Collection
	Genres    database.Collection
}

// Services gom các service của catalog, dùng chung một Formatter
type Services struct {
	Movies    *MovieService
	Actors    *ActorService
	Directors *DirectorService
	Genres    *GenreService
	Formatter *Formatter
}

// NewServices tạo các service catalog trên các collection cho trước
func NewServices(cols Collections) *Services {
	movies := basesvc.NewBaseServiceMongo[catalogmodels.Movie](cols.Movies)
	actors := basesvc.NewBaseServiceMongo[catalogmodels.Actor](cols.Actors)
	directors := basesvc.NewBaseServiceMongo[catalogmodels.Director](cols.Directors)
	genres := basesvc.NewBaseServiceMongo[catalogmodels.Genre](cols.Genres)

	formatter := &Formatter{
		movies:    movies,
		actors:    actors,
		directors: directors,
		genres:    genres,
	}

	return &Services{
		Movies: &MovieService{
			BaseServiceMongoImpl: movies,
			actors:               actors,
			directors:            directors,
			formatter:            formatter,
		},
		Actors: &ActorService{
			BaseServiceMongoImpl: actors,
			movies:               movies,
			formatter:            formatter,
		},
		Directors: &DirectorService{
			BaseServiceMongoImpl: directors,
			formatter:            formatter,
		},
		Genres: &GenreService{
			BaseServiceMongoImpl: genres,
		},
		Formatter: formatter,
	}
}

// CollectionsFromRegistry lấy bốn collection catalog từ global.RegistryCollections (đã đăng ký lúc khởi động)
func CollectionsFromRegistry() (Collections, error) {
	names := global.MongoDB_ColNames
	var cols Collections
	for name, target := range map[string]*database.Collection{
		names.Movies:    &cols.Movies,
		names.Actors:    &cols.Actors,
		names.Directors: &cols.Directors,
		names.Genres:    &cols.Genres,
	} {
		col, err := global.RegistryCollections.MustGet(name)
		if err != nil {
			return Collections{}, fmt.Errorf("failed to get %s collection: %w", name, err)
		}
		*target = col
	}
	return cols, nil
}

// NewServicesFromRegistry tạo các service trên collection lấy từ registry
func NewServicesFromRegistry() (*Services, error) {
	cols, err := CollectionsFromRegistry()
	if err != nil {
		return nil, err
	}
	return NewServices(cols), nil
}

// RegisterMongoCollections tạo index theo model rồi đăng ký các collection catalog của db vào registry.
// Collection đã có trong registry được giữ nguyên, không tạo lại index.
func RegisterMongoCollections(ctx context.Context, db *mongo.Database) error {
	names := global.MongoDB_ColNames
	models := []struct {
		name  string
		model interface{}
	}{
		{names.Movies, catalogmodels.Movie{}},
		{names.Actors, catalogmodels.Actor{}},
		{names.Directors, catalogmodels.Director{}},
		{names.Genres, catalogmodels.Genre{}},
	}

	for _, m := range models {
		created := false
		_, err := global.RegistryCollections.GetOrCreate(m.name, func() (database.Collection, error) {
			collection := db.Collection(m.name)
			if err := database.CreateIndexes(ctx, collection, m.model); err != nil {
				return nil, fmt.Errorf("failed to create indexes for %s: %w", m.name, err)
			}
			created = true
			return database.NewMongoCollection(collection), nil
		})
		if err != nil {
			return fmt.Errorf("failed to register collection %s: %w", m.name, err)
		}
		log := logger.WithCollection(m.name)
		if created {
			log.Info("Collection registered successfully")
		} else {
			log.Warn("Collection already registered")
		}
	}
	return nil
}

// findByRawID decode id rồi tìm document, NotFound mang message "<Kind> with ID <id> not found"
func findByRawID[T any](ctx context.Context, svc *basesvc.BaseServiceMongoImpl[T], kind EntityKind, id string) (T, error) {
	var zero T
	oid, err := utility.DecodeObjectID(id)
	if err != nil {
		return zero, err
	}
	doc, err := svc.FindOneById(ctx, oid)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return zero, common.NewNotFoundError(kind.NotFoundMessage(id))
		}
		return zero, err
	}
	return doc, nil
}

// deleteByRawID decode id rồi xóa document của chính entity đó
func deleteByRawID[T any](ctx context.Context, svc *basesvc.BaseServiceMongoImpl[T], kind EntityKind, id string) error {
	oid, err := utility.DecodeObjectID(id)
	if err != nil {
		return err
	}
	if err := svc.DeleteById(ctx, oid); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.NewNotFoundError(kind.NotFoundMessage(id))
		}
		return err
	}
	return nil
}

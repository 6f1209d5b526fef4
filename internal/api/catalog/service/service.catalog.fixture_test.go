package catalogsvc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	catalogdto "github.com/Kevindaniel6700/movie-time/internal/api/catalog/dto"
	catalogmodels "github.com/Kevindaniel6700/movie-time/internal/api/catalog/models"
	"github.com/Kevindaniel6700/movie-time/internal/database/memstore"
)

// catalogFixture là bốn collection memstore cùng các service dựng trên chúng
type catalogFixture struct {
	movies    *memstore.Store
	actors    *memstore.Store
	directors *memstore.Store
	genres    *memstore.Store
	svc       *Services
}

func newFixture(t *testing.T) *catalogFixture {
	t.Helper()
	f := &catalogFixture{
		movies:    memstore.NewForModel("movies", catalogmodels.Movie{}),
		actors:    memstore.NewForModel("actors", catalogmodels.Actor{}),
		directors: memstore.NewForModel("directors", catalogmodels.Director{}),
		genres:    memstore.NewForModel("genres", catalogmodels.Genre{}),
	}
	f.svc = NewServices(Collections{
		Movies:    f.movies,
		Actors:    f.actors,
		Directors: f.directors,
		Genres:    f.genres,
	})
	return f
}

func insertDoc(t *testing.T, store *memstore.Store, doc interface{}) primitive.ObjectID {
	t.Helper()
	id, err := store.InsertOne(context.Background(), doc)
	require.NoError(t, err)
	return id.(primitive.ObjectID)
}

func (f *catalogFixture) genre(t *testing.T, name string) primitive.ObjectID {
	return insertDoc(t, f.genres, catalogmodels.Genre{Name: name, Description: name + " movies", CreatedAt: time.Now()})
}

func (f *catalogFixture) actor(t *testing.T, name string, movieIDs ...primitive.ObjectID) primitive.ObjectID {
	return insertDoc(t, f.actors, catalogmodels.Actor{Name: name, Bio: name + " bio", MovieIDs: movieIDs, CreatedAt: time.Now()})
}

func (f *catalogFixture) director(t *testing.T, name string, movieIDs ...primitive.ObjectID) primitive.ObjectID {
	return insertDoc(t, f.directors, catalogmodels.Director{Name: name, Bio: name + " bio", MovieIDs: movieIDs, CreatedAt: time.Now()})
}

func (f *catalogFixture) movie(t *testing.T, m catalogmodels.Movie) primitive.ObjectID {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	return insertDoc(t, f.movies, m)
}

func titlesOf(views []catalogdto.MovieView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.Title)
	}
	return out
}

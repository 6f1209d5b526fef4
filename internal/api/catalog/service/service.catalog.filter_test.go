package catalogsvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	catalogmodels "github.com/Kevindaniel6700/movie-time/internal/api/catalog/models"
	"github.com/Kevindaniel6700/movie-time/internal/common"
)

func intPtr(v int) *int { return &v }

func TestBuildMovieFilter(t *testing.T) {
	t.Run("không tham số thì khớp tất cả", func(t *testing.T) {
		filter, err := BuildMovieFilter(MovieFilterParams{})
		require.NoError(t, err)
		assert.Equal(t, bson.M{}, filter)
	})

	t.Run("mỗi tham số thành một mệnh đề", func(t *testing.T) {
		genre, actor, director := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
		filter, err := BuildMovieFilter(MovieFilterParams{
			GenreID:     genre.Hex(),
			ActorID:     actor.Hex(),
			DirectorID:  director.Hex(),
			ReleaseYear: intPtr(2010),
		})
		require.NoError(t, err)
		assert.Equal(t, bson.M{
			"genre_ids":    genre,
			"actor_ids":    actor,
			"director_id":  director,
			"release_year": 2010,
		}, filter)
	})

	t.Run("năm 0 coi như không truyền", func(t *testing.T) {
		filter, err := BuildMovieFilter(MovieFilterParams{ReleaseYear: intPtr(0)})
		require.NoError(t, err)
		assert.Empty(t, filter)
	})

	t.Run("id sai định dạng", func(t *testing.T) {
		for _, params := range []MovieFilterParams{
			{GenreID: "invalid_id"},
			{ActorID: "123"},
			{DirectorID: "507f1f77bcf86cd79943901z"},
		} {
			_, err := BuildMovieFilter(params)
			assert.ErrorIs(t, err, common.ErrInvalidID)
		}
	})
}

func TestBuildActorFilter(t *testing.T) {
	filter, err := BuildActorFilter("")
	require.NoError(t, err)
	assert.Empty(t, filter)

	movie := primitive.NewObjectID()
	filter, err = BuildActorFilter(movie.Hex())
	require.NoError(t, err)
	assert.Equal(t, bson.M{"movie_ids": movie}, filter)

	_, err = BuildActorFilter("nope")
	assert.ErrorIs(t, err, common.ErrInvalidID)

	assert.Empty(t, BuildDirectorFilter())
	assert.Empty(t, BuildGenreFilter())
}

func TestListMoviesFilterCompositionIsIntersection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g1, g2 := f.genre(t, "Drama"), f.genre(t, "Sci-Fi")
	a1, a2 := f.actor(t, "Leonardo DiCaprio"), f.actor(t, "Tom Hardy")
	d1, d2 := f.director(t, "Christopher Nolan"), f.director(t, "Denis Villeneuve")

	f.movie(t, catalogmodels.Movie{Title: "M1", ReleaseYear: 2010, DirectorID: d1, ActorIDs: ids(a1), GenreIDs: ids(g1)})
	f.movie(t, catalogmodels.Movie{Title: "M2", ReleaseYear: 1999, DirectorID: d2, ActorIDs: ids(a2), GenreIDs: ids(g1)})
	f.movie(t, catalogmodels.Movie{Title: "M3", ReleaseYear: 2010, DirectorID: d1, ActorIDs: ids(a1), GenreIDs: ids(g2)})
	f.movie(t, catalogmodels.Movie{Title: "M4", ReleaseYear: 2010, DirectorID: d2, ActorIDs: ids(a1, a2), GenreIDs: ids(g1, g2)})
	f.movie(t, catalogmodels.Movie{Title: "M5", ReleaseYear: 1999, DirectorID: d1, ActorIDs: ids(a2), GenreIDs: ids(g2)})

	single := []MovieFilterParams{
		{GenreID: g1.Hex()},
		{ActorID: a1.Hex()},
		{DirectorID: d1.Hex()},
		{ReleaseYear: intPtr(2010)},
	}

	titlesFor := func(params MovieFilterParams) map[string]bool {
		views, err := f.svc.Movies.ListMovies(ctx, params)
		require.NoError(t, err)
		set := map[string]bool{}
		for _, title := range titlesOf(views) {
			set[title] = true
		}
		return set
	}

	individual := make([]map[string]bool, len(single))
	for i, params := range single {
		individual[i] = titlesFor(params)
	}
	all := titlesFor(MovieFilterParams{})
	assert.Len(t, all, 5)

	// Mọi tổ hợp tham số: kết quả bằng giao của kết quả từng tham số
	for mask := 1; mask < 1<<len(single); mask++ {
		var combined MovieFilterParams
		expected := map[string]bool{}
		for title := range all {
			expected[title] = true
		}
		for i, params := range single {
			if mask&(1<<i) == 0 {
				continue
			}
			if params.GenreID != "" {
				combined.GenreID = params.GenreID
			}
			if params.ActorID != "" {
				combined.ActorID = params.ActorID
			}
			if params.DirectorID != "" {
				combined.DirectorID = params.DirectorID
			}
			if params.ReleaseYear != nil {
				combined.ReleaseYear = params.ReleaseYear
			}
			for title := range expected {
				if !individual[i][title] {
					delete(expected, title)
				}
			}
		}
		assert.Equal(t, expected, titlesFor(combined), "mask %04b", mask)
	}
}

func TestListMoviesByReleaseYear(t *testing.T) {
	f := newFixture(t)
	d := f.director(t, "Christopher Nolan")
	f.movie(t, catalogmodels.Movie{Title: "Inception", ReleaseYear: 2010, DirectorID: d})
	f.movie(t, catalogmodels.Movie{Title: "The Matrix", ReleaseYear: 1999, DirectorID: d})

	views, err := f.svc.Movies.ListMovies(context.Background(), MovieFilterParams{ReleaseYear: intPtr(2010)})
	require.NoError(t, err)
	assert.Equal(t, []string{"Inception"}, titlesOf(views))
}

func TestResolveActorIDsByGenre(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	drama, horror := f.genre(t, "Drama"), f.genre(t, "Horror")
	a1, a2, a3 := f.actor(t, "A1"), f.actor(t, "A2"), f.actor(t, "A3")
	f.movie(t, catalogmodels.Movie{Title: "X", ReleaseYear: 2000, ActorIDs: ids(a1, a2), GenreIDs: ids(drama)})
	f.movie(t, catalogmodels.Movie{Title: "Y", ReleaseYear: 2001, ActorIDs: ids(a2, a3), GenreIDs: ids(drama)})
	f.movie(t, catalogmodels.Movie{Title: "Z", ReleaseYear: 2002, ActorIDs: ids(a3), GenreIDs: nil})

	t.Run("hợp các actor_ids, bỏ trùng", func(t *testing.T) {
		got, err := ResolveActorIDsByGenre(ctx, f.movies, drama.Hex())
		require.NoError(t, err)
		assert.Equal(t, ids(a1, a2, a3), got)
	})

	t.Run("thể loại không có phim thì trả rỗng, không lỗi", func(t *testing.T) {
		got, err := ResolveActorIDsByGenre(ctx, f.movies, horror.Hex())
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("id sai", func(t *testing.T) {
		_, err := ResolveActorIDsByGenre(ctx, f.movies, "invalid_id")
		assert.ErrorIs(t, err, common.ErrInvalidID)
	})
}

func TestListActorsByGenre(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	drama, horror := f.genre(t, "Drama"), f.genre(t, "Horror")
	a1, a2 := f.actor(t, "Kate Winslet"), f.actor(t, "Hugh Jackman")
	m := f.movie(t, catalogmodels.Movie{Title: "Titanic", ReleaseYear: 1997, ActorIDs: ids(a1), GenreIDs: ids(drama)})
	f.movie(t, catalogmodels.Movie{Title: "Logan", ReleaseYear: 2017, ActorIDs: ids(a2)})

	actors, err := f.svc.Actors.ListActors(ctx, "", drama.Hex())
	require.NoError(t, err)
	require.Len(t, actors, 1)
	assert.Equal(t, "Kate Winslet", actors[0].Name)

	before := f.actors.FindCalls()
	actors, err = f.svc.Actors.ListActors(ctx, "", horror.Hex())
	require.NoError(t, err)
	assert.Empty(t, actors)
	assert.Equal(t, before, f.actors.FindCalls(), "không cần query actors khi thể loại không dẫn tới diễn viên nào")

	// movie_id lọc qua back-link
	_, err = f.actors.UpdateOne(ctx, bson.M{"_id": a1}, bson.M{"$addToSet": bson.M{"movie_ids": m}})
	require.NoError(t, err)
	actors, err = f.svc.Actors.ListActors(ctx, m.Hex(), "")
	require.NoError(t, err)
	require.Len(t, actors, 1)
	assert.Equal(t, a1.Hex(), actors[0].ID)

	_, err = f.svc.Actors.ListActors(ctx, "bad", "")
	assert.ErrorIs(t, err, common.ErrInvalidID)
}

func ids(values ...primitive.ObjectID) []primitive.ObjectID {
	return values
}

//go:build integration

package catalogsvc

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Kevindaniel6700/movie-time/config"
	catalogdto "github.com/Kevindaniel6700/movie-time/internal/api/catalog/dto"
	catalogmodels "github.com/Kevindaniel6700/movie-time/internal/api/catalog/models"
	"github.com/Kevindaniel6700/movie-time/internal/database"
	"github.com/Kevindaniel6700/movie-time/internal/worker"
)

// mongoCatalog là bốn collection MongoDB thật cùng các service dựng trên chúng
type mongoCatalog struct {
	movies    database.Collection
	actors    database.Collection
	directors database.Collection
	genres    database.Collection
	svc       *Services
}

func startCatalogMongo(t *testing.T) *mongo.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "27017")
	require.NoError(t, err)

	client, err := database.GetInstance(&config.Configuration{
		MongoDB_ConnectionURI: fmt.Sprintf("mongodb://%s:%s", host, port.Port()),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.CloseInstance(client) })
	return client
}

// newMongoCatalog tạo database riêng cho mỗi case, có đủ index như lúc chạy server
func newMongoCatalog(t *testing.T, client *mongo.Client, dbName string) *mongoCatalog {
	t.Helper()
	ctx := context.Background()
	db := client.Database(dbName)
	t.Cleanup(func() { _ = db.Drop(ctx) })

	collection := func(name string, model interface{}) database.Collection {
		raw := db.Collection(name)
		require.NoError(t, database.CreateIndexes(ctx, raw, model))
		return database.NewMongoCollection(raw)
	}

	m := &mongoCatalog{
		movies:    collection("movies", catalogmodels.Movie{}),
		actors:    collection("actors", catalogmodels.Actor{}),
		directors: collection("directors", catalogmodels.Director{}),
		genres:    collection("genres", catalogmodels.Genre{}),
	}
	m.svc = NewServices(Collections{Movies: m.movies, Actors: m.actors, Directors: m.directors, Genres: m.genres})
	return m
}

func insertInto(t *testing.T, col database.Collection, doc interface{}) primitive.ObjectID {
	t.Helper()
	id, err := col.InsertOne(context.Background(), doc)
	require.NoError(t, err)
	return id.(primitive.ObjectID)
}

func (m *mongoCatalog) genre(t *testing.T, name string) primitive.ObjectID {
	return insertInto(t, m.genres, catalogmodels.Genre{Name: name, Description: name, CreatedAt: time.Now()})
}

func (m *mongoCatalog) actor(t *testing.T, name string, movieIDs ...primitive.ObjectID) primitive.ObjectID {
	return insertInto(t, m.actors, catalogmodels.Actor{Name: name, Bio: name, MovieIDs: movieIDs, CreatedAt: time.Now()})
}

func (m *mongoCatalog) director(t *testing.T, name string, movieIDs ...primitive.ObjectID) primitive.ObjectID {
	return insertInto(t, m.directors, catalogmodels.Director{Name: name, Bio: name, MovieIDs: movieIDs, CreatedAt: time.Now()})
}

func (m *mongoCatalog) movie(t *testing.T, movie catalogmodels.Movie) primitive.ObjectID {
	movie.CreatedAt = time.Now()
	return insertInto(t, m.movies, movie)
}

func rawMovieIDs(t *testing.T, col database.Collection, id primitive.ObjectID) []primitive.ObjectID {
	t.Helper()
	var doc struct {
		MovieIDs []primitive.ObjectID `bson:"movie_ids"`
	}
	require.NoError(t, col.FindOne(context.Background(), bson.M{"_id": id}).Decode(&doc))
	return doc.MovieIDs
}

func TestCatalogAgainstMongo(t *testing.T) {
	client := startCatalogMongo(t)
	ctx := context.Background()

	t.Run("lọc phim là giao của từng tham số", func(t *testing.T) {
		m := newMongoCatalog(t, client, "it_filter")

		g1, g2 := m.genre(t, "Drama"), m.genre(t, "Sci-Fi")
		a1, a2 := m.actor(t, "Leonardo DiCaprio"), m.actor(t, "Tom Hardy")
		d1, d2 := m.director(t, "Christopher Nolan"), m.director(t, "Denis Villeneuve")

		m.movie(t, catalogmodels.Movie{Title: "M1", ReleaseYear: 2010, DirectorID: d1, ActorIDs: ids(a1), GenreIDs: ids(g1)})
		m.movie(t, catalogmodels.Movie{Title: "M2", ReleaseYear: 1999, DirectorID: d2, ActorIDs: ids(a2), GenreIDs: ids(g1)})
		m.movie(t, catalogmodels.Movie{Title: "M3", ReleaseYear: 2010, DirectorID: d1, ActorIDs: ids(a1), GenreIDs: ids(g2)})
		m.movie(t, catalogmodels.Movie{Title: "M4", ReleaseYear: 2010, DirectorID: d2, ActorIDs: ids(a1, a2), GenreIDs: ids(g1, g2)})
		m.movie(t, catalogmodels.Movie{Title: "M5", ReleaseYear: 1999, DirectorID: d1, ActorIDs: ids(a2), GenreIDs: ids(g2)})

		cases := []struct {
			params MovieFilterParams
			want   []string
		}{
			{MovieFilterParams{}, []string{"M1", "M2", "M3", "M4", "M5"}},
			{MovieFilterParams{GenreID: g1.Hex()}, []string{"M1", "M2", "M4"}},
			{MovieFilterParams{ActorID: a1.Hex()}, []string{"M1", "M3", "M4"}},
			{MovieFilterParams{DirectorID: d1.Hex()}, []string{"M1", "M3", "M5"}},
			{MovieFilterParams{ReleaseYear: intPtr(2010)}, []string{"M1", "M3", "M4"}},
			{MovieFilterParams{GenreID: g1.Hex(), ActorID: a1.Hex()}, []string{"M1", "M4"}},
			{MovieFilterParams{GenreID: g2.Hex(), ActorID: a2.Hex(), ReleaseYear: intPtr(1999)}, []string{"M5"}},
			{MovieFilterParams{GenreID: g1.Hex(), ActorID: a1.Hex(), DirectorID: d1.Hex(), ReleaseYear: intPtr(2010)}, []string{"M1"}},
			{MovieFilterParams{GenreID: g2.Hex(), DirectorID: d2.Hex(), ReleaseYear: intPtr(1999)}, []string{}},
		}
		for _, tc := range cases {
			views, err := m.svc.Movies.ListMovies(ctx, tc.params)
			require.NoError(t, err)
			assert.ElementsMatch(t, tc.want, titlesOf(views), "%+v", tc.params)
		}

		// genre -> actor dùng projection trả về bson.A
		actors, err := ResolveActorIDsByGenre(ctx, m.movies, g2.Hex())
		require.NoError(t, err)
		assert.ElementsMatch(t, ids(a1, a2), actors)
	})

	t.Run("tìm kiếm tách biệt theo loại", func(t *testing.T) {
		m := newMongoCatalog(t, client, "it_search")

		heat := m.movie(t, catalogmodels.Movie{Title: "Heat", ReleaseYear: 1995})
		scarface := m.movie(t, catalogmodels.Movie{Title: "Scarface", ReleaseYear: 1983})
		m.movie(t, catalogmodels.Movie{Title: "Pacino: A Portrait", ReleaseYear: 2020})
		collateral := m.movie(t, catalogmodels.Movie{Title: "Collateral", ReleaseYear: 2004})
		m.movie(t, catalogmodels.Movie{Title: "Mission (Im)possible?", ReleaseYear: 1996})
		m.actor(t, "Al Pacino", heat, scarface)
		m.director(t, "Michael Mann", heat, collateral)

		cases := []struct {
			q          string
			searchType string
			want       []string
		}{
			{"pacino", "", []string{"Heat", "Scarface", "Pacino: A Portrait"}},
			{"PACINO", "title", []string{"Pacino: A Portrait"}},
			{"pacino", "actor", []string{"Heat", "Scarface"}},
			{"mann", "director", []string{"Heat", "Collateral"}},
			{"portrait", "actor", []string{}},
			{"heat", "studio", []string{}},
			{"(im)possible?", "title", []string{"Mission (Im)possible?"}},
			{"h.at", "all", []string{}},
		}
		for _, tc := range cases {
			views, err := m.svc.Movies.SearchMovies(ctx, tc.q, ParseSearchType(tc.searchType))
			require.NoError(t, err)
			assert.ElementsMatch(t, tc.want, titlesOf(views), "q=%q type=%q", tc.q, tc.searchType)
		}
	})

	t.Run("back-link được thêm và gỡ khi tạo và cập nhật phim", func(t *testing.T) {
		m := newMongoCatalog(t, client, "it_backlinks")

		d1, d2 := m.director(t, "Christopher Nolan"), m.director(t, "Ridley Scott")
		a1, a2 := m.actor(t, "Christian Bale"), m.actor(t, "Hugh Jackman")

		created, err := m.svc.Movies.CreateMovie(ctx, catalogdto.MovieCreateInput{
			Title:       "The Prestige",
			ReleaseYear: 2006,
			DirectorID:  d1.Hex(),
			ActorIDs:    []string{a1.Hex(), a1.Hex()},
		})
		require.NoError(t, err)
		movieID := mustOID(t, created.ID)
		require.Len(t, created.Actors, 1)

		assert.Equal(t, ids(movieID), rawMovieIDs(t, m.actors, a1))
		assert.Equal(t, ids(movieID), rawMovieIDs(t, m.directors, d1))

		// $addToSet không tạo bản trùng khi tạo lại back-link
		m.svc.Movies.addBackLinks(ctx, movieID, ids(a1), d1)
		assert.Equal(t, ids(movieID), rawMovieIDs(t, m.actors, a1))

		actorIDs := []string{a2.Hex()}
		director := d2.Hex()
		updated, err := m.svc.Movies.UpdateMovie(ctx, created.ID, catalogdto.MovieUpdateInput{ActorIDs: &actorIDs, DirectorID: &director})
		require.NoError(t, err)
		assert.Equal(t, "Ridley Scott", updated.Director.Name)

		assert.Empty(t, rawMovieIDs(t, m.actors, a1))
		assert.Equal(t, ids(movieID), rawMovieIDs(t, m.actors, a2))
		assert.Empty(t, rawMovieIDs(t, m.directors, d1))
		assert.Equal(t, ids(movieID), rawMovieIDs(t, m.directors, d2))

		actor, err := m.svc.Actors.GetActor(ctx, a2.Hex())
		require.NoError(t, err)
		assert.Equal(t, []string{"The Prestige"}, titlesOf(actor.Movies))
	})

	t.Run("phim liên quan loại trừ chính nó", func(t *testing.T) {
		m := newMongoCatalog(t, client, "it_related")

		drama, comedy := m.genre(t, "Drama"), m.genre(t, "Comedy")
		anchor := m.movie(t, catalogmodels.Movie{Title: "Anchor", ReleaseYear: 2000, GenreIDs: ids(drama, comedy)})
		m.movie(t, catalogmodels.Movie{Title: "Drama", ReleaseYear: 2001, GenreIDs: ids(drama)})
		m.movie(t, catalogmodels.Movie{Title: "Comedy", ReleaseYear: 2002, GenreIDs: ids(comedy)})
		m.movie(t, catalogmodels.Movie{Title: "Other", ReleaseYear: 2003})

		views, err := m.svc.Movies.RelatedMovies(ctx, anchor.Hex())
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Drama", "Comedy"}, titlesOf(views))
	})

	t.Run("candidate của enrichment là poster thiếu hoặc null", func(t *testing.T) {
		m := newMongoCatalog(t, client, "it_candidates")

		missing := insertInto(t, m.movies, bson.M{"title": "Missing"})
		null := insertInto(t, m.movies, bson.M{"title": "Null", "poster_url": nil})
		insertInto(t, m.movies, bson.M{"title": "Done", "poster_url": "https://img/done.jpg"})
		insertInto(t, m.movies, bson.M{"title": "Empty", "poster_url": ""})

		cursor, err := m.movies.Find(ctx, worker.CandidateFilter())
		require.NoError(t, err)
		var docs []struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		require.NoError(t, cursor.All(ctx, &docs))

		found := make([]primitive.ObjectID, 0, len(docs))
		for _, d := range docs {
			found = append(found, d.ID)
		}
		assert.ElementsMatch(t, ids(missing, null), found)
	})
}

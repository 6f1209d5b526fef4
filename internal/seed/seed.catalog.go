package seed

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	catalogdto "github.com/Kevindaniel6700/movie-time/internal/api/catalog/dto"
	catalogsvc "github.com/Kevindaniel6700/movie-time/internal/api/catalog/service"
	"github.com/Kevindaniel6700/movie-time/internal/database"
	"github.com/Kevindaniel6700/movie-time/internal/global"
	"github.com/Kevindaniel6700/movie-time/internal/logger"
)

// Nguồn dữ liệu không có đạo diễn, mỗi phim được gán ngẫu nhiên một người trong danh sách này
var seedDirectors = []string{
	"Steven Spielberg", "Christopher Nolan", "Martin Scorsese", "Quentin Tarantino", "James Cameron",
	"Ridley Scott", "Peter Jackson", "David Fincher", "Tim Burton", "George Lucas",
	"Alfred Hitchcock", "Stanley Kubrick", "Francis Ford Coppola", "Clint Eastwood", "Woody Allen",
	"Wes Anderson", "Coen Brothers", "Spike Lee", "Greta Gerwig", "Sofia Coppola",
}

var seedReviews = []catalogdto.ReviewInput{
	{User: "MovieBuff99", Rating: 5, Comment: "Absolute masterpiece! Must watch."},
	{User: "CinemaLover", Rating: 4, Comment: "Great acting and cinematography."},
	{User: "CriticJoe", Rating: 3, Comment: "Good, but the pacing was a bit slow."},
	{User: "AverageViewer", Rating: 4, Comment: "Enjoyed it thoroughly with family."},
	{User: "ActionFan", Rating: 5, Comment: "Best movie I've seen this year!"},
	{User: "DramaQueen", Rating: 2, Comment: "Didn't connect with the characters."},
	{User: "SciFiNerd", Rating: 5, Comment: "Mind-blowing concept and execution."},
	{User: "ComedyGold", Rating: 4, Comment: "Hilarious! Laughed out loud."},
}

const (
	actorBio           = "Biography not available."
	directorBio        = "Famous director (Seeded)."
	noDescription      = "No description available."
	maxDescriptionRune = 2000
)

// Summary đếm số document đã tạo
type Summary struct {
	Genres    int
	Actors    int
	Directors int
	Movies    int
	Skipped   int // Phim/diễn viên không qua được validate
}

// Seeder xóa dữ liệu cũ rồi nạp lại catalog qua các service,
// nên back-link movie_ids của diễn viên và đạo diễn được duy trì như khi tạo qua API.
type Seeder struct {
	cols     catalogsvc.Collections
	services *catalogsvc.Services
	rng      *rand.Rand
}

// NewSeeder tạo Seeder trên các collection cho trước
func NewSeeder(cols catalogsvc.Collections, rng *rand.Rand) *Seeder {
	return &Seeder{cols: cols, services: catalogsvc.NewServices(cols), rng: rng}
}

// Run nạp các phim đã chọn vào catalog
func (s *Seeder) Run(ctx context.Context, movies []SourceMovie) (Summary, error) {
	log := logger.WithModule("seed")
	var summary Summary

	log.Info("Clearing existing data...")
	for _, col := range []database.Collection{s.cols.Movies, s.cols.Actors, s.cols.Directors, s.cols.Genres} {
		if _, err := col.DeleteMany(ctx, bson.M{}); err != nil {
			return summary, fmt.Errorf("clear %s: %w", col.Name(), err)
		}
	}

	genreIDs := map[string]string{}
	for _, name := range uniqueNames(movies, func(m SourceMovie) []string { return m.Genres }) {
		genre, err := s.services.Genres.CreateGenre(ctx, catalogdto.GenreCreateInput{Name: name, Description: name + " movies"})
		if err != nil {
			return summary, fmt.Errorf("create genre %s: %w", name, err)
		}
		genreIDs[name] = genre.ID
		summary.Genres++
	}
	log.Infof("Inserted %d genres", summary.Genres)

	actorIDs := map[string]string{}
	for _, name := range uniqueNames(movies, func(m SourceMovie) []string { return m.Cast }) {
		actor, err := s.services.Actors.CreateActor(ctx, catalogdto.PersonCreateInput{Name: name, Bio: actorBio})
		if err != nil {
			log.WithError(err).WithField("actor", name).Warn("Skipping actor")
			summary.Skipped++
			continue
		}
		actorIDs[name] = actor.ID
		summary.Actors++
	}
	log.Infof("Inserted %d actors", summary.Actors)

	directorIDs := make([]string, 0, len(seedDirectors))
	for _, name := range seedDirectors {
		director, err := s.services.Directors.CreateDirector(ctx, catalogdto.PersonCreateInput{Name: name, Bio: directorBio})
		if err != nil {
			return summary, fmt.Errorf("create director %s: %w", name, err)
		}
		directorIDs = append(directorIDs, director.ID)
		summary.Directors++
	}

	for _, m := range movies {
		input := catalogdto.MovieCreateInput{
			Title:       strings.TrimSpace(m.Title),
			ReleaseYear: m.Year,
			DirectorID:  directorIDs[s.rng.IntN(len(directorIDs))],
			ActorIDs:    lookupIDs(m.Cast, actorIDs),
			GenreIDs:    lookupIDs(m.Genres, genreIDs),
			Rating:      math.Round((5.0+s.rng.Float64()*4.5)*10) / 10,
			Description: description(m.Extract),
			Reviews:     s.sampleReviews(),
		}

		created, err := s.services.Movies.CreateMovie(ctx, input)
		if err != nil {
			log.WithError(err).WithField("title", m.Title).Warn("Skipping movie")
			summary.Skipped++
			continue
		}
		summary.Movies++

		if m.Thumbnail != "" {
			poster := m.Thumbnail
			if _, err := s.services.Movies.UpdateMovie(ctx, created.ID, catalogdto.MovieUpdateInput{PosterURL: &poster}); err != nil {
				log.WithError(err).WithField("title", m.Title).Warn("Poster not stored, enrichment will retry")
			}
		}
	}
	log.Infof("Inserted %d movies", summary.Movies)
	return summary, nil
}

// sampleReviews lấy ngẫu nhiên 2-5 review khác nhau
func (s *Seeder) sampleReviews() []catalogdto.ReviewInput {
	n := 2 + s.rng.IntN(4)
	reviews := make([]catalogdto.ReviewInput, 0, n)
	for _, i := range s.rng.Perm(len(seedReviews))[:n] {
		reviews = append(reviews, seedReviews[i])
	}
	return reviews
}

// uniqueNames gom tên không trùng, sắp xếp để kết quả ổn định
func uniqueNames(movies []SourceMovie, names func(SourceMovie) []string) []string {
	seen := map[string]struct{}{}
	for _, m := range movies {
		for _, name := range names(m) {
			if name = strings.TrimSpace(name); name != "" {
				seen[name] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func lookupIDs(names []string, ids map[string]string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if id, ok := ids[strings.TrimSpace(name)]; ok {
			out = append(out, id)
		}
	}
	return out
}

func description(extract string) string {
	extract = strings.TrimSpace(extract)
	if extract == "" {
		return noDescription
	}
	if runes := []rune(extract); len(runes) > maxDescriptionRune {
		extract = string(runes[:maxDescriptionRune])
	}
	if err := global.ValidateStruct(descriptionCheck{Description: extract}); err != nil {
		return noDescription
	}
	return extract
}

// descriptionCheck dùng cùng rule với MovieCreateInput.Description
type descriptionCheck struct {
	Description string `validate:"max=2000,no_xss"`
}

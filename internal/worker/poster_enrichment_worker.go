// Package worker - PosterEnrichmentWorker bổ sung poster_url cho các phim còn thiếu bằng OMDb.
// Chạy đúng một lần mỗi process, ngay sau khi khởi động. Không chạy định kỳ.
package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/time/rate"

	"github.com/Kevindaniel6700/movie-time/internal/database"
	"github.com/Kevindaniel6700/movie-time/internal/logger"
	"github.com/Kevindaniel6700/movie-time/internal/omdb"
)

const defaultRetryBackoff = time.Second

// PosterLookup là nguồn poster bên ngoài (omdb.Client thỏa mãn interface này)
type PosterLookup interface {
	FetchPosterURL(ctx context.Context, title string, year int) (string, error)
}

// PosterEnrichmentState là trạng thái của worker: idle -> scanning -> done
type PosterEnrichmentState string

const (
	PosterEnrichmentIdle     PosterEnrichmentState = "idle"
	PosterEnrichmentScanning PosterEnrichmentState = "scanning"
	PosterEnrichmentDone     PosterEnrichmentState = "done"
)

// PosterEnrichmentStatus là snapshot trạng thái và bộ đếm, trả về qua /system/enrichment
type PosterEnrichmentStatus struct {
	Enabled    bool                  `json:"enabled"`
	State      PosterEnrichmentState `json:"state"`
	Scanned    int64                 `json:"scanned"`  // Số phim thiếu poster đã duyệt
	Enriched   int64                 `json:"enriched"` // Số phim đã được gán poster
	Skipped    int64                 `json:"skipped"`  // Không có tiêu đề hoặc OMDb không có poster
	Failed     int64                 `json:"failed"`   // Lỗi lookup hoặc lỗi cập nhật
	StartedAt  *time.Time            `json:"startedAt,omitempty"`
	FinishedAt *time.Time            `json:"finishedAt,omitempty"`
	LastError  string                `json:"lastError,omitempty"`
}

// PosterEnrichmentOptions cấu hình worker
type PosterEnrichmentOptions struct {
	Enabled       bool                  // false: không chạm tới store, kết thúc ngay
	RatePerSecond float64               // Số lookup tối đa mỗi giây, <= 0 là không giới hạn
	Registerer    prometheus.Registerer // nil: không đăng ký metrics
	RetryBackoff  time.Duration         // Thời gian chờ khi breaker từ chối lookup, <= 0 dùng mặc định 1s
}

// enrichmentCandidate là phần của Movie mà worker cần đọc
type enrichmentCandidate struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	ReleaseYear int                `bson:"release_year"`
}

// PosterEnrichmentWorker quét các phim có poster_url thiếu hoặc null và gọi PosterLookup cho từng phim.
// Lỗi của từng phim chỉ được ghi log và đếm, không dừng lượt quét.
// Lỗi khi quét (cursor) hoặc panic kết thúc worker mà không ảnh hưởng process.
type PosterEnrichmentWorker struct {
	movies  database.Collection
	lookup  PosterLookup
	enabled bool
	limiter *rate.Limiter
	backoff time.Duration
	metrics *enrichmentMetrics

	once   sync.Once
	mu     sync.RWMutex
	status PosterEnrichmentStatus
}

// NewPosterEnrichmentWorker tạo worker mới
func NewPosterEnrichmentWorker(movies database.Collection, lookup PosterLookup, opts PosterEnrichmentOptions) *PosterEnrichmentWorker {
	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}
	backoff := opts.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}
	return &PosterEnrichmentWorker{
		movies:  movies,
		lookup:  lookup,
		enabled: opts.Enabled,
		limiter: rate.NewLimiter(limit, 1),
		backoff: backoff,
		metrics: newEnrichmentMetrics(opts.Registerer),
		status: PosterEnrichmentStatus{
			Enabled: opts.Enabled,
			State:   PosterEnrichmentIdle,
		},
	}
}

// CandidateFilter khớp phim chưa có poster: thiếu field hoặc null.
// Lookup thất bại để lại null nên sẽ được thử lại ở lần khởi động sau.
func CandidateFilter() bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"poster_url": bson.M{"$exists": false}},
		bson.M{"poster_url": nil},
	}}
}

// Start chạy một lượt enrichment và chặn tới khi xong. Gọi lại lần nữa không làm gì.
func (w *PosterEnrichmentWorker) Start(ctx context.Context) {
	w.once.Do(func() {
		w.run(ctx)
	})
}

// Status trả về snapshot trạng thái hiện tại
func (w *PosterEnrichmentWorker) Status() PosterEnrichmentStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.status
}

func (w *PosterEnrichmentWorker) run(ctx context.Context) {
	log := logger.WithModule("worker")

	defer func() {
		if r := recover(); r != nil {
			log.WithFields(map[string]interface{}{
				"panic": r,
			}).Error("🖼️ [POSTER_ENRICHMENT] Panic khi xử lý, dừng enrichment")
			w.finish(fmt.Errorf("panic: %v", r))
		}
	}()

	if !w.enabled {
		log.Info("🖼️ [POSTER_ENRICHMENT] Poster enrichment disabled by configuration")
		w.finish(nil)
		return
	}

	now := time.Now()
	w.mu.Lock()
	w.status.State = PosterEnrichmentScanning
	w.status.StartedAt = &now
	w.mu.Unlock()
	log.Info("🖼️ [POSTER_ENRICHMENT] Poster enrichment started")

	err := w.scan(ctx)
	if err != nil {
		log.WithError(err).Error("🖼️ [POSTER_ENRICHMENT] Lỗi khi quét phim thiếu poster")
	}
	w.finish(err)

	status := w.Status()
	log.WithFields(map[string]interface{}{
		"scanned":  status.Scanned,
		"enriched": status.Enriched,
		"skipped":  status.Skipped,
		"failed":   status.Failed,
	}).Info("🖼️ [POSTER_ENRICHMENT] Poster enrichment completed")
}

// scan đọc toàn bộ candidate trước rồi mới gọi OMDb, cursor không bị giữ mở trong lúc chờ mạng
func (w *PosterEnrichmentWorker) scan(ctx context.Context) error {
	opts := options.Find().SetProjection(bson.M{"title": 1, "release_year": 1})
	cursor, err := w.movies.Find(ctx, CandidateFilter(), opts)
	if err != nil {
		return fmt.Errorf("find candidates: %w", err)
	}

	var candidates []enrichmentCandidate
	if err := cursor.All(ctx, &candidates); err != nil {
		return fmt.Errorf("read candidates: %w", err)
	}

	for _, movie := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}
		w.count(func(s *PosterEnrichmentStatus) { s.Scanned++ }, w.metrics.scanned)
		w.enrichOne(ctx, movie)
	}
	return nil
}

// enrichOne xử lý một phim: fetching -> updating hoặc skipping
func (w *PosterEnrichmentWorker) enrichOne(ctx context.Context, movie enrichmentCandidate) {
	log := logger.WithModule("worker").WithFields(map[string]interface{}{
		"movie_id": movie.ID.Hex(),
		"title":    movie.Title,
	})

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Warn("🖼️ [POSTER_ENRICHMENT] Panic khi xử lý phim, bỏ qua")
			w.count(func(s *PosterEnrichmentStatus) { s.Failed++ }, w.metrics.failed)
		}
	}()

	if strings.TrimSpace(movie.Title) == "" {
		w.count(func(s *PosterEnrichmentStatus) { s.Skipped++ }, w.metrics.skipped)
		return
	}

	poster, err := w.fetch(ctx, movie)
	if err != nil {
		log.WithError(err).Warn("🖼️ [POSTER_ENRICHMENT] Lookup poster thất bại, bỏ qua")
		w.count(func(s *PosterEnrichmentStatus) { s.Failed++ }, w.metrics.failed)
		return
	}
	if poster == "" {
		log.Debug("🖼️ [POSTER_ENRICHMENT] Không tìm thấy poster")
		w.count(func(s *PosterEnrichmentStatus) { s.Skipped++ }, w.metrics.skipped)
		return
	}

	update := bson.M{"$set": bson.M{"poster_url": poster}}
	if _, err := w.movies.UpdateOne(ctx, bson.M{"_id": movie.ID}, update); err != nil {
		log.WithError(err).Warn("🖼️ [POSTER_ENRICHMENT] Không thể lưu poster_url")
		w.count(func(s *PosterEnrichmentStatus) { s.Failed++ }, w.metrics.failed)
		return
	}
	w.count(func(s *PosterEnrichmentStatus) { s.Enriched++ }, w.metrics.enriched)
}

// fetch gọi lookup cho một phim. Khi breaker đang mở, OMDb chưa được gọi nên phim
// không bị tính là thất bại: worker chờ rồi thử lại chính phim đó tới khi breaker cho qua.
func (w *PosterEnrichmentWorker) fetch(ctx context.Context, movie enrichmentCandidate) (string, error) {
	for {
		if err := w.limiter.Wait(ctx); err != nil {
			return "", err
		}

		poster, err := w.lookup.FetchPosterURL(ctx, movie.Title, movie.ReleaseYear)
		if err == nil || !omdb.IsRejected(err) {
			return poster, err
		}

		logger.WithModule("worker").WithField("movie_id", movie.ID.Hex()).
			Debugf("🖼️ [POSTER_ENRICHMENT] Circuit breaker đang mở, chờ %s rồi thử lại", w.backoff)
		timer := time.NewTimer(w.backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
}

func (w *PosterEnrichmentWorker) count(apply func(*PosterEnrichmentStatus), counter prometheus.Counter) {
	w.mu.Lock()
	apply(&w.status)
	w.mu.Unlock()
	counter.Inc()
}

func (w *PosterEnrichmentWorker) finish(err error) {
	now := time.Now()
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status.State = PosterEnrichmentDone
	w.status.FinishedAt = &now
	if err != nil {
		w.status.LastError = err.Error()
	}
}

// enrichmentMetrics là các counter Prometheus movie_poster_enrichment_*
type enrichmentMetrics struct {
	scanned  prometheus.Counter
	enriched prometheus.Counter
	skipped  prometheus.Counter
	failed   prometheus.Counter
}

func newEnrichmentMetrics(reg prometheus.Registerer) *enrichmentMetrics {
	counter := func(name, help string) prometheus.Counter {
		c := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "movie",
			Subsystem: "poster_enrichment",
			Name:      name,
			Help:      help,
		})
		if reg == nil {
			return c
		}
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				if existing, ok := already.ExistingCollector.(prometheus.Counter); ok {
					return existing
				}
			}
		}
		return c
	}

	return &enrichmentMetrics{
		scanned:  counter("scanned_total", "Movies without a poster visited by the enrichment task."),
		enriched: counter("enriched_total", "Movies that received a poster URL."),
		skipped:  counter("skipped_total", "Movies skipped because of an empty title or no poster found."),
		failed:   counter("failed_total", "Movies whose lookup or update failed."),
	}
}

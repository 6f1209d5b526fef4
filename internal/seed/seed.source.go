// Package seed nạp dữ liệu mẫu cho catalog từ bộ dữ liệu phim Wikipedia (JSON).
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Kevindaniel6700/movie-time/internal/logger"
)

// SourceMovie là một phần tử trong file JSON nguồn
type SourceMovie struct {
	Title     string   `json:"title"`
	Year      int      `json:"year"`
	Cast      []string `json:"cast"`
	Genres    []string `json:"genres"`
	Extract   string   `json:"extract"`
	Thumbnail string   `json:"thumbnail"`
}

// Download tải file nguồn về path nếu path chưa tồn tại
func Download(ctx context.Context, url, path string) error {
	log := logger.WithModule("seed")
	if _, err := os.Stat(path); err == nil {
		log.WithField("path", path).Info("Found local source file")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status %d", url, resp.StatusCode)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	log.WithField("path", path).Info("Download complete")
	return nil
}

// LoadSource đọc danh sách phim từ JSON
func LoadSource(r io.Reader) ([]SourceMovie, error) {
	var movies []SourceMovie
	if err := json.NewDecoder(r).Decode(&movies); err != nil {
		return nil, fmt.Errorf("decode source: %w", err)
	}
	return movies, nil
}

// SelectOptions điều khiển việc chọn phim từ nguồn
type SelectOptions struct {
	MaxMovies     int // Số phim tối đa được seed
	MinYear       int // Ưu tiên phim từ năm này trở đi
	MinCandidates int // Dưới ngưỡng này thì nới điều kiện lọc
}

// SelectMovies ưu tiên phim có thumbnail và đủ mới, nới dần điều kiện khi không đủ ứng viên,
// rồi xáo trộn và lấy tối đa MaxMovies phim.
func SelectMovies(all []SourceMovie, opts SelectOptions, rng *rand.Rand) []SourceMovie {
	log := logger.WithModule("seed")

	candidates := filterMovies(all, func(m SourceMovie) bool {
		return m.Year >= opts.MinYear && m.Thumbnail != ""
	})
	if len(candidates) < opts.MinCandidates {
		log.Warnf("Only %d recent candidates with thumbnails, including older movies", len(candidates))
		candidates = filterMovies(all, func(m SourceMovie) bool { return m.Thumbnail != "" })
	}
	if len(candidates) < opts.MinCandidates {
		log.Warnf("Only %d candidates with thumbnails, including movies without thumbnails", len(candidates))
		start := len(all) - 1000
		if start < 0 {
			start = 0
		}
		candidates = append([]SourceMovie(nil), all[start:]...)
	}

	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if opts.MaxMovies > 0 && len(candidates) > opts.MaxMovies {
		candidates = candidates[:opts.MaxMovies]
	}
	return candidates
}

func filterMovies(all []SourceMovie, keep func(SourceMovie) bool) []SourceMovie {
	out := make([]SourceMovie, 0, len(all))
	for _, m := range all {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

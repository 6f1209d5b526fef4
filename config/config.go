package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration chứa thông tin tĩnh cần thiết để chạy ứng dụng
type Configuration struct {
	Address               string `env:"ADDRESS" envDefault:"8080"`                                     // Cổng server
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI" envDefault:"mongodb://localhost:27017"` // URL kết nối cơ sở dữ liệu
	MongoDB_DBName        string `env:"MONGODB_DBNAME" envDefault:"movie_explorer"`                    // Tên cơ sở dữ liệu catalog
	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`                                   // Các origins được phép (phân cách bởi dấu phẩy, * = tất cả)
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`                     // Cho phép gửi credentials

	// Rate limit theo IP
	RateLimit_Enabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"false"` // Bật/tắt rate limit
	RateLimit_Max     int  `env:"RATE_LIMIT_MAX" envDefault:"100"`       // Số request tối đa trong một cửa sổ
	RateLimit_Window  int  `env:"RATE_LIMIT_WINDOW" envDefault:"60"`     // Độ dài cửa sổ (giây)

	// Poster enrichment (chạy một lần khi khởi động)
	EnablePosterEnrichment bool          `env:"ENABLE_POSTER_ENRICHMENT" envDefault:"true"`        // Bật/tắt enrichment
	OMDbAPIURL             string        `env:"OMDB_API_URL" envDefault:"http://www.omdbapi.com/"` // Endpoint OMDb
	OMDbAPIKey             string        `env:"OMDB_API_KEY"`                                      // API key OMDb
	PosterLookupTimeout    time.Duration `env:"POSTER_LOOKUP_TIMEOUT" envDefault:"10s"`            // Timeout mỗi lần gọi OMDb
	PosterLookupRate       float64       `env:"POSTER_LOOKUP_RATE" envDefault:"5"`                 // Số request OMDb tối đa mỗi giây
	PosterBreakerFailures  int           `env:"POSTER_BREAKER_FAILURES" envDefault:"5"`            // Số lỗi liên tiếp trước khi ngắt mạch
	PosterBreakerOpen      time.Duration `env:"POSTER_BREAKER_OPEN" envDefault:"30s"`              // Thời gian mạch mở trước khi thử lại
}

// getEnvPath trả về đường dẫn đến file env dựa trên môi trường
func getEnvPath() string {
	// Mặc định sử dụng môi trường development
	goEnv := os.Getenv("GO_ENV")
	if goEnv == "" {
		goEnv = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không thể lấy được thư mục hiện tại: %v\n", err)
		return ""
	}

	// Tìm thư mục config/env, đi dần lên thư mục cha
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, fmt.Sprintf("%s.env", goEnv))
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig đọc cấu hình từ file env (nếu có) rồi parse từ biến môi trường.
// Thiếu file env không phải lỗi, biến môi trường của process vẫn được dùng.
func NewConfig() (*Configuration, error) {
	if envPath := getEnvPath(); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return nil, fmt.Errorf("không thể load file env tại %s: %w", envPath, err)
			}
		}
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("lỗi khi parse config: %w", err)
	}
	return &cfg, nil
}

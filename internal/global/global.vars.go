package global

import (
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Kevindaniel6700/movie-time/config"
	"github.com/Kevindaniel6700/movie-time/internal/database"
	"github.com/Kevindaniel6700/movie-time/internal/registry"
)

// MongoDB_CatalogCollectionName chứa tên các collection của catalog
type MongoDB_CatalogCollectionName struct {
	Movies    string // Tên collection cho phim
	Actors    string // Tên collection cho diễn viên
	Directors string // Tên collection cho đạo diễn
	Genres    string // Tên collection cho thể loại
}

// Các biến toàn cục
var Validate *validator.Validate                      // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client                     // Phiên kết nối tới MongoDB
var MongoDB_ServerConfig *config.Configuration        // Cấu hình của server
var MongoDB_ColNames = MongoDB_CatalogCollectionName{ // Tên các collection
	Movies:    "movies",
	Actors:    "actors",
	Directors: "directors",
	Genres:    "genres",
}

// RegistryCollections chứa các collection đã khởi tạo (MongoDB thật hoặc memstore trong test)
var RegistryCollections = registry.NewRegistry[database.Collection]()

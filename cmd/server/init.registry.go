package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	catalogsvc "github.com/Kevindaniel6700/movie-time/internal/api/catalog/service"
	"github.com/Kevindaniel6700/movie-time/internal/global"
)

func InitRegistry() {
	logrus.Info("Initialized registry")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Tạo index và đăng ký các collection catalog
	db := global.MongoDB_Session.Database(global.MongoDB_ServerConfig.MongoDB_DBName)
	if err := catalogsvc.RegisterMongoCollections(ctx, db); err != nil {
		logrus.Fatalf("Failed to initialize collections: %v", err)
	}
	logrus.WithField("collections", global.RegistryCollections.Names()).Info("Initialized collection registry")
}

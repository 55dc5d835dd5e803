package main

import (
	"context"
	"log"

	"grid-portal-be/internal/bootstrap"
	"grid-portal-be/internal/config"
	"grid-portal-be/internal/server"
	"grid-portal-be/internal/tracer"
	"grid-portal-be/pkg/database"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	if err := container.NotifierService.Start(context.Background()); err != nil {
		log.Printf("Background Notifier Error: %v", err)
	}

	srv := server.New(cfg, container)

	log.Fatal(srv.Run())
}

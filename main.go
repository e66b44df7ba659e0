package main

import (
	"fmt"
	"log"

	"github.com/haque51/lumina-finance-backend/internal/config"
	"github.com/haque51/lumina-finance-backend/internal/database"
	"github.com/haque51/lumina-finance-backend/internal/router"
	"github.com/haque51/lumina-finance-backend/internal/service"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	// monthly snapshot job
	rates := service.NewDBRateProvider(db)
	snapshots := service.NewSnapshotService(db, rates)
	if cfg.Snapshot.Enabled {
		stop := make(chan struct{})
		defer close(stop)
		snapshots.StartScheduler(stop)
	}

	// setup router
	r := router.SetupRouter(cfg, db, snapshots)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}

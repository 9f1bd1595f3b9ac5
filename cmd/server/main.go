package main

import (
	"log"
	"net/http"
	"os"

	"github.com/reincoon/task-manager/internal/config"
	"github.com/reincoon/task-manager/internal/serverapp"
)

func main() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "task_manager.yml"
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	config.ApplyEnv(cfg)

	handler, err := serverapp.NewHandler(serverapp.Options{
		Config: cfg,
		Logger: log.Default(),
	})
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	log.Printf("listening on %s (storage=%s)", cfg.Server.Addr, cfg.Storage.Backend)
	log.Fatal(http.ListenAndServe(cfg.Server.Addr, handler))
}

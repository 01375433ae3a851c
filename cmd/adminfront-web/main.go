// Web front-end for the user-management backend: serves the login, user
// dashboard, and admin screens.
package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/vledera/go-adminfront/config"
	"github.com/vledera/go-adminfront/webapp"
)

func main() {
	godotenv.Load()

	configPath := flag.String("config", "", "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("adminfront-web: %v", err)
	}

	app := webapp.New(cfg)

	log.Printf("adminfront-web: listening on %s, backend %s", cfg.Server.Addr, cfg.Backend.BaseURL)
	if err := app.Listen(cfg.Server.Addr); err != nil {
		log.Fatalf("adminfront-web: %v", err)
	}
}

package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/rmsilva/portfolio-backend/api"
	"github.com/rmsilva/portfolio-backend/auth"
	"github.com/rmsilva/portfolio-backend/db"
	"github.com/rmsilva/portfolio-backend/email"
	"github.com/rmsilva/portfolio-backend/ratelimit"
)

const defaultAdminSecret = "admin123"

// How often stale rate-limit windows are swept from memory.
const limiterSweepInterval = 30 * time.Minute

func adminSecret() string {
	secret := os.Getenv("ADMIN_PASSWORD")
	if secret == "" {
		log.Println("Warning: ADMIN_PASSWORD not set, using the default admin secret")
		return defaultAdminSecret
	}
	return secret
}

// ServePublicEndpoints serves all public HTTP endpoints.
func ServePublicEndpoints(a *api.API, cfg *db.Config) {
	mux := http.NewServeMux()
	mainHandler := a.RegisterHandlers(mux)

	portString := ":" + cfg.Port
	log.Printf("[Portfolio backend] Listening on port %s\n", portString)
	log.Fatal(http.ListenAndServe(portString, mainHandler))
}

func main() {
	godotenv.Load()
	cfg, err := db.LoadEnvironmentVariables()
	if err != nil {
		log.Fatal(err)
	}
	database, err := db.InitSQLDatabase(cfg)
	if err != nil {
		log.Fatal(err)
	}
	emailConfig, err := email.MakeConfigFromEnv()
	if err != nil {
		// Notification delivery is best-effort: run without it
		// rather than refusing to start.
		log.Printf("couldn't configure mailer: %v", err)
	}

	limiter := ratelimit.New()
	go func() {
		for range time.Tick(limiterSweepInterval) {
			limiter.Sweep()
		}
	}()

	a := api.API{
		Database: database,
		Auth:     auth.NewService(adminSecret(), limiter),
		Limiter:  limiter,
		Emailer:  emailConfig,
		Audit:    api.LogAuditLog{},
	}
	ServePublicEndpoints(&a, &cfg)
}

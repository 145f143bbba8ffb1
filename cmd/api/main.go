package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"sfpms.org/internal/auth"
	"sfpms.org/internal/directory"
	"sfpms.org/internal/httpapi"
	"sfpms.org/internal/obs"
)

var (
	version = "0.3.1"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	// Connect Postgres when a DSN is configured; without one the service
	// runs fully in-memory, which is enough for local development.
	var db *sql.DB
	if dsn := os.Getenv("SFPMS_PG_DSN"); dsn != "" {
		var err error
		db, err = sql.Open("pgx", dsn)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	var creds auth.CredentialStore
	if db != nil {
		creds = auth.NewPGCredentialStore(db)
	} else {
		mem := auth.NewMemoryCredentialStore()
		seedBootstrapAdmin(mem)
		creds = mem
	}

	authSvc, err := auth.NewService(
		creds,
		auth.NewLockoutPolicy(auth.DefaultMaxFailedAttempts, auth.DefaultLockWindow),
		auth.NewMfaManager(auth.DefaultMfaTTL),
		auth.NewSessionManager(auth.WithTokenFunc(func(sess auth.Session) (string, error) {
			ttl := auth.DefaultIdleTimeout
			if sess.Remembered(sess.LoginTime) {
				ttl = auth.DefaultRememberWindow
			}
			return auth.SignSessionToken(sess, ttl)
		})),
	)
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}

	var dirSvc *directory.Service
	if db != nil {
		dirSvc, err = directory.NewService(directory.NewPGStore(db))
		if err != nil {
			log.Fatalf("directory service: %v", err)
		}
	}

	api := httpapi.New(httpapi.ReadyProbe{DB: db}, version, authSvc, dirSvc)

	addr := os.Getenv("SFPMS_HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting sfpms-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}

// seedBootstrapAdmin provisions the default administrator for in-memory
// runs so a fresh instance is usable without a database.
func seedBootstrapAdmin(creds *auth.MemoryCredentialStore) {
	email := os.Getenv("SFPMS_BOOTSTRAP_ADMIN_EMAIL")
	if email == "" {
		email = "admin@university.edu"
	}
	password := os.Getenv("SFPMS_BOOTSTRAP_ADMIN_PASSWORD")
	if password == "" {
		password = "Password!2345"
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("hash bootstrap password: %v", err)
	}
	err = creds.Create(context.Background(), &auth.Credential{
		User: auth.User{
			ID:       "admin-1",
			Username: "admin",
			Email:    email,
			Role:     auth.RoleAdmin,
			Status:   auth.UserStatusActive,
		},
		PasswordHash: hash,
	})
	if err != nil {
		log.Fatalf("seed bootstrap admin: %v", err)
	}
}

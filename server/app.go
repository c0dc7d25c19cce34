package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"cartlock/config"
	"cartlock/internal/admin"
	"cartlock/internal/booking"
	"cartlock/internal/db"
	"cartlock/internal/health"
	"cartlock/internal/invoice"
	"cartlock/internal/logs"
	"cartlock/internal/mail"
	"cartlock/internal/middleware"
	"cartlock/internal/models"
	"cartlock/internal/repo"
	"cartlock/internal/ttlock"
)

type App struct {
	cfg        *config.Config
	db         *gorm.DB
	Router     *mux.Router
	httpServer *http.Server

	ctx    context.Context
	cancel context.CancelFunc
}

func (a *App) Initialize(cfg *config.Config) {
	a.cfg = cfg

	/* 1) Логи */
	logs.Init(logs.Options{
		Level:  a.cfg.Logging.Level,
		Format: a.cfg.Logging.Format,
		File:   a.cfg.Logging.File,
	})

	/* 2) DB (опционально) */
	if drv := a.cfg.Database.Driver; drv != "" {
		d, err := db.Open(drv, a.cfg.Database.DSN)
		if err != nil {
			log.Fatalf("db open failed: %v", err)
		}
		a.db = d

		if err := a.db.AutoMigrate(&models.Reservation{}); err != nil {
			log.Fatalf("db migrate failed: %v", err)
		}
	}

	/* 3) Коллабораторы */
	var store booking.Store
	if a.db != nil {
		store = repo.NewReservationStore(a.db)
	} else {
		logs.Logger.Warn("no database configured, using in-memory store")
		store = booking.NewMemoryStore()
	}

	lock := ttlock.New(ttlock.Config{
		APIBase:      a.cfg.TTLock.APIBase,
		ClientID:     a.cfg.TTLock.ClientID,
		ClientSecret: a.cfg.TTLock.ClientSecret,
		Username:     a.cfg.TTLock.Username,
		Password:     a.cfg.TTLock.Password,
		LockID:       a.cfg.TTLock.LockID,
	})
	mailer := mail.New(mail.Config{
		Host:     a.cfg.SMTP.Host,
		Port:     a.cfg.SMTP.Port,
		Username: a.cfg.SMTP.Username,
		Password: a.cfg.SMTP.Password,
		From:     a.cfg.SMTP.From,
		FromName: a.cfg.SMTP.FromName,
	})

	svc := booking.NewService(store, lock, mailer, invoice.NewRenderer())

	/* 4) Router + middleware */
	a.Router = mux.NewRouter().StrictSlash(true)
	a.Router.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.LoggerMW,
	)

	/* 5) Health */
	if a.db != nil {
		health.RegisterRoutesWithDB(a.Router, a.db) // /healthz, /readyz
	} else {
		health.RegisterRoutes(a.Router) // только /healthz
	}

	/* 6) Публичное API + админка */
	booking.RegisterRoutes(a.Router, booking.NewHandler(svc))
	admin.Attach(a.Router, admin.Dependencies{
		Store:    store,
		Lock:     lock,
		Password: a.cfg.Admin.Password,
	})

	/* 7) Статика клиента — последним, ловит всё остальное */
	a.Router.PathPrefix("/").Handler(http.FileServer(http.Dir(a.cfg.Server.StaticDir)))

	/* вывести известные маршруты в лог при старте */
	_ = a.Router.Walk(func(rt *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, _ := rt.GetPathTemplate()
		methods, _ := rt.GetMethods()
		if len(methods) == 0 {
			methods = []string{"ANY"}
		}
		log.Printf("route: %-6v %s", methods, path)
		return nil
	})
}

func (a *App) Run() error {
	if a.Router == nil || a.cfg == nil {
		return fmt.Errorf("server not initialized")
	}

	bind := net.JoinHostPort(a.cfg.Server.Address, a.cfg.Server.HTTPPort)

	a.ctx, a.cancel = context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigs
		logs.Logger.Infof("shutdown signal: %s", s)
		a.cancel()
	}()

	// Жёсткие таймауты — это важно для production
	a.httpServer = &http.Server{
		Addr:              bind,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logs.Logger.Infof("HTTP listening on %s", bind)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logs.Logger.Fatalf("http server error: %v", err)
		}
	}()

	<-a.ctx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logs.Logger.Errorf("http shutdown: %v", err)
	}
	return nil
}

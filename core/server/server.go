package server

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smartfactory/sensorstats/internal/cache"
	"github.com/smartfactory/sensorstats/internal/dataset"
	"github.com/smartfactory/sensorstats/internal/domain"
	"github.com/smartfactory/sensorstats/internal/query"
)

type Server struct {
	config  *ServerConfig
	store   *dataset.Store
	stats   *query.Service
	watcher *dataset.Watcher
	router  *gin.Engine
}

func NewServer(options ...ConfigOption) (*Server, error) {
	config := &ServerConfig{
		Port: "8080",
	}

	for _, option := range options {
		if err := option(config); err != nil {
			return nil, err
		}
	}
	if config.Source == nil {
		return nil, errors.New("no dataset source configured")
	}

	resultCache := cache.New()
	store := dataset.NewStore(config.Source, resultCache.InvalidateAll)

	server := &Server{
		config: config,
		store:  store,
		stats:  query.NewService(store, resultCache, config.RefreshOnQuery),
		router: gin.Default(),
	}
	if config.ReloadInterval > 0 {
		server.watcher = dataset.NewWatcher(store, config.ReloadInterval)
	}

	server.setupRoutes()
	return server, nil
}

func (s *Server) setupRoutes() {
	s.router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"*"},
	}))

	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Metrics endpoint
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/stats", s.handleStats)
}

func (s *Server) handleStats(c *gin.Context) {
	result, hit, err := s.stats.GetStats(
		c.Request.Context(),
		c.Query("location"),
		c.Query("sensor"),
		c.Query("start_date"),
		c.Query("end_date"),
	)
	if err != nil {
		var invalidDate *domain.InvalidDateError
		if errors.As(err, &invalidDate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": invalidDate.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}

	if hit {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
	c.JSON(http.StatusOK, gin.H{"stats": result})
}

// Load performs the initial dataset load. Start calls it; tests that
// exercise the router directly call it themselves.
func (s *Server) Load(ctx context.Context) error {
	return s.store.Load(ctx)
}

// Router exposes the gin engine for httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) Start(ctx context.Context) error {
	if err := s.Load(ctx); err != nil {
		return err
	}

	if s.watcher != nil {
		go s.watcher.Run(ctx)
	}

	server := &http.Server{
		Addr:    ":" + s.config.Port,
		Handler: s.router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Printf("Server starting on port %s", s.config.Port)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *Server) Close() error {
	if closer, ok := s.config.Source.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/sngm3741/workshop-feedback/api/internal/apperr"
	"github.com/sngm3741/workshop-feedback/api/internal/config"
	feedbackapp "github.com/sngm3741/workshop-feedback/api/internal/feedback/application"
	"github.com/sngm3741/workshop-feedback/api/internal/feedback/notification"
	"github.com/sngm3741/workshop-feedback/api/internal/infrastructure/mail"
	mongodoc "github.com/sngm3741/workshop-feedback/api/internal/infrastructure/mongo"
	"github.com/sngm3741/workshop-feedback/api/internal/interfaces/http/common"
	publichttp "github.com/sngm3741/workshop-feedback/api/internal/interfaces/http/public"
	"github.com/sngm3741/workshop-feedback/api/internal/logging"
	"github.com/sngm3741/workshop-feedback/api/internal/metrics"
)

// pinger is satisfied by *mongo.Client.
type pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// Server owns the HTTP lifecycle and is the composition root that injects
// the store client, mail sender and services into the handlers.
type Server struct {
	logger          *logrus.Logger
	client          *mongo.Client
	store           pinger
	feedbackRepo    *mongodoc.FeedbackRepository
	feedbackService feedbackapp.FeedbackCommandService
	metrics         *metrics.Metrics
	responder       common.ErrorResponder
	addr            string
	publicDir       string
	allowedOrigins  []string
}

// Run builds the router, starts listening and blocks until shutdown.
func (s *Server) Run() error {
	if s.feedbackRepo != nil {
		if err := s.feedbackRepo.EnsureIndexes(context.Background()); err != nil {
			s.logger.WithError(err).Warn("feedback indexes not created")
		}
	}

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Infof("HTTP server listening on %s", s.addr)
		errChan <- httpServer.ListenAndServe()
	}()

	return waitForShutdown(httpServer, errChan, s)
}

// Handler returns the fully wired router.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logging.RequestLogger(s.logger))
	router.Use(recoverer(s.responder))
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())
	if s.metrics != nil {
		router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	publicHandler := publichttp.NewHandler(publichttp.Config{
		Logger:    s.logger,
		Feedback:  s.feedbackService,
		Responder: s.responder,
	})
	publicHandler.Register(router)

	fallback := s.fallbackHandler()
	router.NotFound(fallback)
	router.MethodNotAllowed(fallback)

	return router
}

// fallbackHandler serves files from the public directory and reports every
// other unmatched request as not found.
func (s *Server) fallbackHandler() http.HandlerFunc {
	files := http.FileServer(http.Dir(s.publicDir))
	return func(w http.ResponseWriter, r *http.Request) {
		if (r.Method == http.MethodGet || r.Method == http.MethodHead) && s.assetExists(r.URL.Path) {
			files.ServeHTTP(w, r)
			return
		}
		s.responder.Write(w, r, apperr.NotFound(fmt.Sprintf("Can't find %s on this server!", r.URL.RequestURI())))
	}
}

func (s *Server) assetExists(urlPath string) bool {
	if s.publicDir == "" {
		return false
	}
	name := path.Clean("/" + urlPath)
	dir := http.Dir(s.publicDir)

	f, err := dir.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false
	}
	if !info.IsDir() {
		return true
	}

	index, err := dir.Open(path.Join(name, "index.html"))
	if err != nil {
		return false
	}
	index.Close()
	return true
}

// recoverer turns a handler panic into the regular internal error body.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func recoverer(responder common.ErrorResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				err := pkgerrors.Errorf("panic: %v", rvr)
				responder.Write(w, r, apperr.Internal("Something went wrong", err))
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// withCORS returns middleware adding CORS headers for the allowed origins.
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// healthHandler reports store reachability only.
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.store.Ping(ctx, readpref.Primary()); err != nil {
			common.WriteJSON(s.logger, w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}

		common.WriteJSON(s.logger, w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

// shutdown disconnects the Mongo client with a timeout.
func (s *Server) shutdown(ctx context.Context) {
	if s.client == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(shutdownCtx); err != nil {
		s.logger.WithError(err).Error("MongoDB disconnect failed")
	}
}

// waitForShutdown blocks on ListenAndServe or an OS signal and drains the
// server on the latter.
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
	case sig := <-sigChan:
		srv.logger.Infof("received %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.WithError(err).Error("HTTP server shutdown failed")
		}
	}

	srv.shutdown(context.Background())
	return runErr
}

// New wires the repository, renderer, mail sender and command service around
// an already connected Mongo client.
func New(cfg config.Config, client *mongo.Client, logger *logrus.Logger) *Server {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.FixedZone("IST", 5*60*60+30*60)
		logger.WithError(err).Warnf("time zone %s not loaded, using IST", cfg.Timezone)
	}

	m := metrics.New()
	repo := mongodoc.NewFeedbackRepository(client.Database(cfg.MongoDatabase), cfg.FeedbackCollection, cfg.StoreTimeout)
	sender := mail.NewSender(mail.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.MailUser,
		Password: cfg.MailPassword,
		FromName: cfg.MailFromName,
		ReplyTo:  cfg.MailReplyTo,
		To:       cfg.FeedbackMailbox,
		Logger:   logger,
		Metrics:  m,
	})

	service := feedbackapp.NewFeedbackCommandService(feedbackapp.Deps{
		Repository: repo,
		Renderer:   notification.NewRenderer(loc),
		Notifier:   sender,
		Outcomes:   m,
		Logger:     logger,
	})

	srv := newServer(cfg, logger, client, service, m)
	srv.client = client
	srv.feedbackRepo = repo
	return srv
}

func newServer(cfg config.Config, logger *logrus.Logger, store pinger, service feedbackapp.FeedbackCommandService, m *metrics.Metrics) *Server {
	return &Server{
		logger:          logger,
		store:           store,
		feedbackService: service,
		metrics:         m,
		responder:       common.ErrorResponder{Logger: logger, Development: cfg.Development},
		addr:            cfg.Addr,
		publicDir:       cfg.PublicDir,
		allowedOrigins:  append([]string(nil), cfg.AllowedOrigins...),
	}
}

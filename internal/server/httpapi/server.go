// Package httpapi is the public JSON API of the server, built on gin.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/noteshare/internal/logging"
	"github.com/dmitrijs2005/noteshare/internal/server/auth"
	"github.com/dmitrijs2005/noteshare/internal/server/models"
	"github.com/dmitrijs2005/noteshare/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const shutdownTimeout = 10 * time.Second

func init() {
	// unknown JSON fields are rejected rather than ignored; the switch is
	// process-wide in gin
	binding.EnableDecoderDisallowUnknownFields = true
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

type AccountService interface {
	Create(ctx context.Context, in services.CreateAccountInput) (*models.Account, error)
	List(ctx context.Context, page models.Page) ([]*models.Account, error)
	Get(ctx context.Context, id int64) (*models.Account, error)
	Update(ctx context.Context, id int64, in services.UpdateAccountInput, identity auth.Identity) (*models.Account, error)
	Delete(ctx context.Context, id int64, identity auth.Identity) error
	UploadPicture(ctx context.Context, identity auth.Identity, data []byte) (*models.Account, error)
	PictureURL(ctx context.Context, id int64) (string, error)
}

type NoteService interface {
	List(ctx context.Context, page models.Page) ([]*models.Note, error)
	Get(ctx context.Context, id int64) (*models.Note, error)
	Create(ctx context.Context, in services.CreateNoteInput, identity auth.Identity) (*models.Note, error)
	Update(ctx context.Context, id int64, in services.UpdateNoteInput, identity auth.Identity) (*models.Note, error)
	Delete(ctx context.Context, id int64, identity auth.Identity) error
}

// Authenticator resolves the caller of a request.
type Authenticator interface {
	Authenticate(ctx context.Context, r *http.Request) (auth.Identity, error)
}

// Server owns the HTTP listener and its routes.
type Server struct {
	addr          string
	auth          AuthService
	accounts      AccountService
	notes         NoteService
	authenticator Authenticator
	limiter       *RateLimiter
	logger        logging.Logger
	engine        *gin.Engine
}

func NewServer(addr string, authSvc AuthService, accounts AccountService, notes NoteService,
	authenticator Authenticator, limiter *RateLimiter, logger logging.Logger) *Server {
	s := &Server{
		addr:          addr,
		auth:          authSvc,
		accounts:      accounts,
		notes:         notes,
		authenticator: authenticator,
		limiter:       limiter,
		logger:        logger.With("module", "http"),
	}
	s.engine = s.routes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(s.logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	a := r.Group("/auth", s.limiter.Middleware())
	a.POST("/login", s.login)
	a.POST("/refresh", s.refresh)

	u := r.Group("/users")
	u.POST("", s.createAccount)
	u.GET("", s.protected(s.listAccounts))
	u.POST("/upload-picture", s.protected(s.uploadPicture))
	u.GET("/:id", s.protected(s.getAccount))
	u.GET("/:id/picture", s.protected(s.pictureURL))
	u.PATCH("/:id", s.protected(s.updateAccount))
	u.DELETE("/:id", s.protected(s.deleteAccount))

	n := r.Group("/notes")
	n.GET("", s.listNotes)
	n.GET("/:id", s.getNote)
	n.POST("", s.protected(s.createNote))
	n.PATCH("/:id", s.protected(s.updateNote))
	n.DELETE("/:id", s.protected(s.deleteNote))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Code: "NOT_FOUND", Message: "route not found"})
	})

	return r
}

// protected authenticates the request and hands the identity to h.
func (s *Server) protected(h func(c *gin.Context, identity auth.Identity)) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := s.authenticator.Authenticate(c.Request.Context(), c.Request)
		if err != nil {
			s.writeError(c, err)
			return
		}
		h(c, identity)
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "HTTP server listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "HTTP server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/mataju/api"
	"github.com/Domenick1991/mataju/config"
	"github.com/Domenick1991/mataju/internal/auth"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Handlers groups everything the HTTP surface needs.
type Handlers struct {
	Users    *api.UserHandler
	Houses   *api.HouseHandler
	Units    *api.UnitHandler
	Bookings *api.BookingHandler
	Admin    *api.AdminHandler
	Tokens   *auth.Manager
}

// Run starts the HTTP server and blocks until the context is canceled
// or the server fails.
func Run(ctx context.Context, cfg *config.Config, h Handlers) error {
	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: newRouter(cfg, h),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(cfg *config.Config, h Handlers) *gin.Engine {
	router := gin.Default()

	v1 := router.Group("/api")
	h.Users.Register(v1.Group("/users"))

	authed := v1.Group("", auth.RequireAuth(h.Tokens))
	h.Houses.Register(authed.Group("/houses"))
	h.Units.Register(authed.Group("/units"))
	h.Bookings.Register(authed.Group("/bookings"))
	h.Admin.Register(authed.Group("/admin", auth.RequireAdmin()))

	if cfg.HTTP.SwaggerFile != "" {
		router.StaticFile("/swagger/openapi.json", cfg.HTTP.SwaggerFile)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/openapi.json"),
		)))
	}

	return router
}

package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sakila-tools/filmsearch/internal/modules/search"
	"github.com/sakila-tools/filmsearch/internal/modules/stats"
	"github.com/sakila-tools/filmsearch/internal/pkg/response"
)

const apiPrefix = "/api"

func (a *App) registerRoutes(r *gin.Engine) {
	r.NoRoute(func(c *gin.Context) {
		response.NotFoundMsg(c, "Not Found")
	})
	r.NoMethod(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusMethodNotAllowed, gin.H{"ok": 0, "code": http.StatusMethodNotAllowed, "message": "Method Not Allowed"})
	})

	api := r.Group(apiPrefix)
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ok":                1,
			"env":               a.cfg.Env,
			"query_log_backend": a.cfg.Mongo.Backend,
			"cache":             a.rc != nil,
		})
	})

	if a.Catalog != nil {
		search.NewHandler(a.Catalog, a.Queries, a.logger).RegisterRoutes(api)
	}
	stats.NewHandler(a.Stats).RegisterRoutes(api)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/bookshelf-paginate/internal/service"
)

// APIV1Prefix is the base path of every versioned route.
const APIV1Prefix = "/api/v1"

// Register mounts all public routes on the given engine. metrics may be nil,
// in which case /metrics is not served.
func Register(r *gin.Engine, repo Pinger, authorSvc service.AuthorService, bookSvc service.BookService, metrics http.Handler) {
	h := NewHealthHandler(repo)

	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}

	RegisterDocs(r)

	api := r.Group(APIV1Prefix)
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		NewAuthorHandler(authorSvc, bookSvc).Register(api)
		NewBookHandler(bookSvc).Register(api)
	}
}

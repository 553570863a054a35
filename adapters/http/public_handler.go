package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/portfolio-pilot/internal/application/gateway"
	"github.com/khoahotran/portfolio-pilot/internal/application/router"
	"github.com/khoahotran/portfolio-pilot/internal/application/usecase/publicprofile"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
)

// PublicHandler serves read-only endpoints that need no session.
type PublicHandler struct {
	gw     gateway.Reader
	logger logger.Logger
}

func NewPublicHandler(gw gateway.Reader, log logger.Logger) *PublicHandler {
	return &PublicHandler{gw: gw, logger: log}
}

// ResolveView reports which view a client with the given fragment and optional
// bearer token should show.
func (h *PublicHandler) ResolveView(c *gin.Context) {
	view := router.Resolve(GetIdentityFromGinContext(c), c.Query("fragment"))
	c.JSON(http.StatusOK, view)
}

func (h *PublicHandler) GetProfile(c *gin.Context) {
	view := publicprofile.NewReader(h.gw, c.Param("id"), h.logger).Load(c.Request.Context())

	status := http.StatusOK
	switch view.Status {
	case publicprofile.StatusNotFound:
		status = http.StatusNotFound
	case publicprofile.StatusError:
		status = http.StatusInternalServerError
	}
	c.JSON(status, view)
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/portfolio-pilot/internal/application/usecase/backup"
	"github.com/khoahotran/portfolio-pilot/pkg/apperror"
)

type ExportHandler struct {
	exportUseCase *backup.ExportUseCase
}

func NewExportHandler(exportUC *backup.ExportUseCase) *ExportHandler {
	return &ExportHandler{exportUseCase: exportUC}
}

type ExportResponse struct {
	URL   string `json:"url"`
	Path  string `json:"path"`
	Items int    `json:"items"`
}

func (h *ExportHandler) Export(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	out, err := h.exportUseCase.Execute(c.Request.Context(), ownerID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ExportResponse{URL: out.URL, Path: out.Path, Items: out.Items})
}

package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-pilot/internal/application/router"
	"github.com/khoahotran/portfolio-pilot/internal/application/usecase/dashboard"
	portfolioUC "github.com/khoahotran/portfolio-pilot/internal/application/usecase/portfolio"
	profileUC "github.com/khoahotran/portfolio-pilot/internal/application/usecase/profile"
	"github.com/khoahotran/portfolio-pilot/internal/domain/portfolio"
	"github.com/khoahotran/portfolio-pilot/internal/domain/profile"
	"github.com/khoahotran/portfolio-pilot/pkg/apperror"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
)

const maxUploadBytes = 10 << 20

// PortfolioHandler is the owner's API: everything here acts on the caller's own profile.
type PortfolioHandler struct {
	getProfileUseCase    *profileUC.GetProfileUseCase
	updateProfileUseCase *profileUC.UpdateProfileUseCase
	listItemsUseCase     *portfolioUC.ListItemsUseCase
	getItemUseCase       *portfolioUC.GetItemUseCase
	saveItemUseCase      *portfolioUC.SaveItemUseCase
	deleteItemUseCase    *portfolioUC.DeleteItemUseCase
	publicBaseURL        string
	logger               logger.Logger
}

func NewPortfolioHandler(
	getProfileUC *profileUC.GetProfileUseCase,
	updateProfileUC *profileUC.UpdateProfileUseCase,
	listItemsUC *portfolioUC.ListItemsUseCase,
	getItemUC *portfolioUC.GetItemUseCase,
	saveItemUC *portfolioUC.SaveItemUseCase,
	deleteItemUC *portfolioUC.DeleteItemUseCase,
	publicBaseURL string,
	log logger.Logger,
) *PortfolioHandler {
	return &PortfolioHandler{
		getProfileUseCase:    getProfileUC,
		updateProfileUseCase: updateProfileUC,
		listItemsUseCase:     listItemsUC,
		getItemUseCase:       getItemUC,
		saveItemUseCase:      saveItemUC,
		deleteItemUseCase:    deleteItemUC,
		publicBaseURL:        publicBaseURL,
		logger:               log,
	}
}

func (h *PortfolioHandler) GetDashboard(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	ctx := c.Request.Context()

	p := profile.Default(c.GetString(GinContextKeyEmail))
	stored, err := h.getProfileUseCase.Execute(ctx, ownerID)
	switch {
	case err == nil:
		p = *stored
	case !errors.Is(err, apperror.ErrNotFound):
		c.Error(err)
		return
	}

	items, err := h.listItemsUseCase.All(ctx, ownerID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToDashboardDTO(p, items, h.publicURL(ownerID)))
}

func (h *PortfolioHandler) UpdateProfile(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	err := h.updateProfileUseCase.Execute(c.Request.Context(), profileUC.UpdateProfileInput{
		OwnerID: ownerID,
		Fields:  req.ToFields(),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: dashboard.MsgProfileUpdated})
}

func (h *PortfolioHandler) ListItems(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	category, err := categoryParam(c)
	if err != nil {
		c.Error(err)
		return
	}
	items, err := h.listItemsUseCase.Execute(c.Request.Context(), ownerID, category)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category, "items": ToItemDTOs(items)})
}

func (h *PortfolioHandler) CreateItem(c *gin.Context) {
	h.saveItem(c, "")
}

func (h *PortfolioHandler) UpdateItem(c *gin.Context) {
	h.saveItem(c, c.Param("id"))
}

func (h *PortfolioHandler) saveItem(c *gin.Context, itemID string) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	category, err := categoryParam(c)
	if err != nil {
		c.Error(err)
		return
	}
	req, file, err := bindItemRequest(c)
	if err != nil {
		c.Error(err)
		return
	}

	output, err := h.saveItemUseCase.Execute(c.Request.Context(), portfolioUC.SaveItemInput{
		OwnerID:  ownerID,
		Category: category,
		Item:     req.ToDomain(itemID),
		File:     file,
	})
	if err != nil {
		c.Error(err)
		return
	}

	resp := SaveItemResponse{
		Item:    ItemDTO{Item: output.Item, DisplayDate: output.Item.DisplayDate()},
		Message: dashboard.MsgItemUpdated,
	}
	status := http.StatusOK
	if output.Created {
		resp.Message = dashboard.MsgItemAdded
		status = http.StatusCreated
	}
	if output.UploadSkipped {
		resp.Notices = append(resp.Notices, emptyFileNotice)
	}
	c.JSON(status, resp)
}

// DeleteItem looks the item up first so the stored file path, not one supplied
// by the caller, decides which blob is removed.
func (h *PortfolioHandler) DeleteItem(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	category, err := categoryParam(c)
	if err != nil {
		c.Error(err)
		return
	}
	itemID := c.Param("id")
	ctx := c.Request.Context()

	var filePath string
	item, err := h.getItemUseCase.Execute(ctx, ownerID, category, itemID)
	switch {
	case err == nil:
		filePath = item.FilePath
	case !errors.Is(err, apperror.ErrNotFound):
		c.Error(err)
		return
	}

	output, err := h.deleteItemUseCase.Execute(ctx, portfolioUC.DeleteItemInput{
		OwnerID:  ownerID,
		Category: category,
		ItemID:   itemID,
		FilePath: filePath,
	})
	if err != nil {
		c.Error(err)
		return
	}
	h.logger.Debug("Item deleted", zap.String("item_id", itemID), zap.Bool("blob_deleted", output.BlobDeleted))
	c.JSON(http.StatusOK, MessageResponse{Message: dashboard.MsgItemDeleted})
}

func (h *PortfolioHandler) GetPublicLink(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"public_url": h.publicURL(ownerID)})
}

func (h *PortfolioHandler) publicURL(ownerID string) string {
	return h.publicBaseURL + router.Fragment(ownerID)
}

func categoryParam(c *gin.Context) (portfolio.Category, error) {
	category, err := portfolio.ParseCategory(c.Param("category"))
	if err != nil {
		return "", apperror.NewInvalidInput("unknown category", err)
	}
	return category, nil
}

// bindItemRequest accepts either a JSON body or a multipart form with the item
// as JSON in "data" and an optional "file".
func bindItemRequest(c *gin.Context) (ItemRequest, *portfolioUC.File, error) {
	var req ItemRequest
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBindJSON(&req); err != nil {
			return req, nil, apperror.NewInvalidInput("invalid request data", err)
		}
		return req, nil, nil
	}

	if err := json.Unmarshal([]byte(c.PostForm("data")), &req); err != nil {
		return req, nil, apperror.NewInvalidInput("invalid item data", err)
	}

	header, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return req, nil, nil
	}
	if err != nil {
		return req, nil, apperror.NewInvalidInput("invalid file", err)
	}
	if header.Size > maxUploadBytes {
		return req, nil, apperror.NewInvalidInput("file too large", nil)
	}

	f, err := header.Open()
	if err != nil {
		return req, nil, apperror.NewInternal("failed to open upload", err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return req, nil, apperror.NewInternal("failed to read upload", err)
	}
	return req, &portfolioUC.File{Name: header.Filename, Content: content}, nil
}

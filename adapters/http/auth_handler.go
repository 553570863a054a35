package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/portfolio-pilot/internal/application/usecase/auth"
	"github.com/khoahotran/portfolio-pilot/pkg/apperror"
)

type AuthHandler struct {
	signUpUseCase *auth.SignUpUseCase
	signInUseCase *auth.SignInUseCase
}

func NewAuthHandler(signUpUC *auth.SignUpUseCase, signInUC *auth.SignInUseCase) *AuthHandler {
	return &AuthHandler{
		signUpUseCase: signUpUC,
		signInUseCase: signInUC,
	}
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	output, err := h.signUpUseCase.Execute(c.Request.Context(), auth.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, toAuthResponse(output))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	output, err := h.signInUseCase.Execute(c.Request.Context(), auth.SignInInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toAuthResponse(output))
}

func toAuthResponse(out *auth.Output) AuthResponse {
	return AuthResponse{
		AccessToken: out.AccessToken,
		UserID:      out.Identity.ID,
		Email:       out.Identity.Email,
	}
}

package controller

import (
	"cafehere/auth"
	"cafehere/dto"
	"cafehere/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type AuthController struct {
	credentials *auth.CredentialService
	tokens      *auth.TokenService
}

func NewAuthController(credentials *auth.CredentialService, tokens *auth.TokenService) *AuthController {
	return &AuthController{credentials: credentials, tokens: tokens}
}

func (ac *AuthController) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := utils.Bind(c, &req); err != nil {
		utils.Error(c, err)
		return
	}
	user, err := ac.credentials.Register(c.Request.Context(), req.Mobile, req.Password)
	if err != nil {
		utils.Error(c, err)
		return
	}
	log.Info().Str("user", user.UUID.String()).Msg("user registered")
	utils.Created(c, dto.RegisterResponse{UUID: user.UUID, Mobile: user.Mobile})
}

func (ac *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := utils.Bind(c, &req); err != nil {
		utils.Error(c, err)
		return
	}
	user, err := ac.credentials.AuthenticateByPassword(c.Request.Context(), req.Mobile, req.Password)
	if err != nil {
		utils.Error(c, err)
		return
	}
	pair, err := ac.tokens.Issue(c.Request.Context(), user)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, dto.TokenPairResponse{Access: pair.Access, Refresh: pair.Refresh})
}

// Refresh rotates the pair: the submitted refresh token cannot be used again.
func (ac *AuthController) Refresh(c *gin.Context) {
	var req dto.TokenRequest
	if err := utils.Bind(c, &req); err != nil {
		utils.Error(c, err)
		return
	}
	pair, err := ac.tokens.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, dto.TokenPairResponse{Access: pair.Access, Refresh: pair.Refresh})
}

func (ac *AuthController) Logout(c *gin.Context) {
	var req dto.TokenRequest
	if err := utils.Bind(c, &req); err != nil {
		utils.Error(c, err)
		return
	}
	if err := ac.tokens.Revoke(c.Request.Context(), req.Refresh); err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, gin.H{})
}

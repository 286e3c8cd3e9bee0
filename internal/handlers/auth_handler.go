package handlers

import (
	"errors"
	"net/http"

	"github.com/Alexandre11021998/Zelo/internal/config"
	"github.com/Alexandre11021998/Zelo/internal/middleware"
	"github.com/Alexandre11021998/Zelo/internal/models"
	"github.com/Alexandre11021998/Zelo/internal/repository"
	"github.com/Alexandre11021998/Zelo/internal/services"
	"github.com/Alexandre11021998/Zelo/internal/utils"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles login, staff self-signup and session introspection
type AuthHandler struct {
	userRepo     *repository.UserRepository
	profileRepo  *repository.ProfileRepository
	provisioning *services.ProvisioningService
	cfg          *config.Config
}

func NewAuthHandler(userRepo *repository.UserRepository, profileRepo *repository.ProfileRepository, provisioning *services.ProvisioningService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		provisioning: provisioning,
		cfg:          cfg,
	}
}

// Login authenticates a user by email and password
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req.Email = utils.NormalizeEmail(req.Email)

	user, err := h.userRepo.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "credenciais inválidas"})
			return
		}
		internalError(c, err)
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "credenciais inválidas"})
		return
	}

	token, err := utils.GenerateJWT(user.ID, h.cfg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	sessionUser := &models.SessionUser{ID: user.ID, Email: user.Email}
	if profile, err := h.profileRepo.GetProfile(c.Request.Context(), user.ID); err == nil {
		sessionUser.FullName = profile.FullName
	}

	c.JSON(http.StatusOK, models.AuthResponse{Token: token, User: sessionUser})
}

// Signup é o auto-cadastro de colaborador com o código de acesso do hospital
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.provisioning.Signup(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidHospitalCode),
			errors.Is(err, services.ErrCPFAlreadyExists),
			errors.Is(err, services.ErrEmailAlreadyExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			internalError(c, err)
		}
		return
	}

	token, err := utils.GenerateJWT(user.ID, h.cfg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, models.AuthResponse{Token: token, User: user})
}

// Me returns the resolved session of the authenticated user
func (h *AuthHandler) Me(c *gin.Context) {
	session := middleware.GetSession(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	c.JSON(http.StatusOK, session)
}

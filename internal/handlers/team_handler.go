package handlers

import (
	"errors"
	"net/http"

	"github.com/Alexandre11021998/Zelo/internal/middleware"
	"github.com/Alexandre11021998/Zelo/internal/models"
	"github.com/Alexandre11021998/Zelo/internal/repository"
	"github.com/Alexandre11021998/Zelo/internal/services"
	"github.com/gin-gonic/gin"
)

// TeamHandler handles staff management within a hospital
type TeamHandler struct {
	profileRepo  *repository.ProfileRepository
	provisioning *services.ProvisioningService
}

func NewTeamHandler(profileRepo *repository.ProfileRepository, provisioning *services.ProvisioningService) *TeamHandler {
	return &TeamHandler{
		profileRepo:  profileRepo,
		provisioning: provisioning,
	}
}

// List lists the caller's hospital team
func (h *TeamHandler) List(c *gin.Context) {
	session := middleware.GetSession(c)
	if session.HospitalID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "usuário não está vinculado a um hospital"})
		return
	}

	staff, err := h.profileRepo.ListStaffByHospital(c.Request.Context(), *session.HospitalID)
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, staff)
}

// CreateStaff provisiona um colaborador no hospital do chamador
func (h *TeamHandler) CreateStaff(c *gin.Context) {
	session := middleware.GetSession(c)

	var req models.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.provisioning.CreateStaff(c.Request.Context(), session, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCallerWithoutHospital),
			errors.Is(err, services.ErrEmailAlreadyExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			internalError(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, models.ProvisionResponse{Success: true, User: user})
}

// RemoveStaff remove um colaborador do hospital do chamador
func (h *TeamHandler) RemoveStaff(c *gin.Context) {
	session := middleware.GetSession(c)

	var req models.RemoveStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.provisioning.RemoveStaff(c.Request.Context(), session, req.UserID); err != nil {
		switch {
		case errors.Is(err, services.ErrSelfRemoval):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrDifferentHospital), errors.Is(err, services.ErrManagerTarget):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			internalError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

package admin

import (
	"errors"
	"log"
	"net/http"

	"github.com/Alexandre11021998/Zelo/internal/models"
	"github.com/Alexandre11021998/Zelo/internal/services"
	"github.com/gin-gonic/gin"
)

// ProvisioningHandler exposes the superadmin account-provisioning endpoints
type ProvisioningHandler struct {
	provisioning *services.ProvisioningService
}

func NewProvisioningHandler(provisioning *services.ProvisioningService) *ProvisioningHandler {
	return &ProvisioningHandler{provisioning: provisioning}
}

// CreateHospitalAdmin provisiona a conta do primeiro admin de um hospital
func (h *ProvisioningHandler) CreateHospitalAdmin(c *gin.Context) {
	var req models.CreateHospitalAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.provisioning.CreateHospitalAdmin(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailAlreadyExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrHospitalNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			internalError(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, models.ProvisionResponse{Success: true, User: user})
}

// AddSuperadmin concede o papel superadmin a uma conta existente
func (h *ProvisioningHandler) AddSuperadmin(c *gin.Context) {
	var req models.AddSuperadminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.provisioning.AddSuperadmin(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// internalError loga o detalhe e responde com mensagem genérica
func internalError(c *gin.Context, err error) {
	log.Printf("Erro interno em %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

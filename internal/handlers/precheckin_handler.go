package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Alexandre11021998/Zelo/internal/models"
	"github.com/Alexandre11021998/Zelo/internal/repository"
	"github.com/Alexandre11021998/Zelo/internal/services"
	"github.com/Alexandre11021998/Zelo/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PreCheckinHandler handles the public pre-checkin form and its triage
type PreCheckinHandler struct {
	repo    *repository.PreCheckinRepository
	uploads *services.UploadService
}

func NewPreCheckinHandler(repo *repository.PreCheckinRepository, uploads *services.UploadService) *PreCheckinHandler {
	return &PreCheckinHandler{
		repo:    repo,
		uploads: uploads,
	}
}

// Create recebe o formulário público multipart, com documento opcional
func (h *PreCheckinHandler) Create(c *gin.Context) {
	nome := strings.TrimSpace(c.PostForm("nome"))
	cpf := strings.TrimSpace(c.PostForm("cpf"))
	convenio := strings.TrimSpace(c.PostForm("convenio"))

	if len(nome) < 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nome é obrigatório"})
		return
	}
	if !utils.ValidateCPF(cpf) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CPF inválido"})
		return
	}
	if convenio == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "convênio é obrigatório"})
		return
	}

	var documentoURL *string
	if fileHeader, err := c.FormFile("documento"); err == nil {
		url, err := h.uploads.SavePreCheckinDocument(c.Request.Context(), fileHeader)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		documentoURL = &url
	}

	created, err := h.repo.CreatePreCheckin(c.Request.Context(), nome, utils.MaskCPF(cpf), convenio, documentoURL)
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// List lists submissions for the staff triage screen
func (h *PreCheckinHandler) List(c *gin.Context) {
	items, err := h.repo.ListPreCheckins(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// UpdateStatus updates the triage status of a submission
func (h *PreCheckinHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	var req models.UpdatePreCheckinStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.repo.UpdatePreCheckinStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "registro não encontrado"})
			return
		}
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

package admin

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Alexandre11021998/Zelo/internal/models"
	"github.com/Alexandre11021998/Zelo/internal/repository"
	"github.com/Alexandre11021998/Zelo/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HospitalHandler handles hospital management on the superadmin plane
type HospitalHandler struct {
	hospitalRepo *repository.HospitalRepository
	provisioning *services.ProvisioningService
	uploads      *services.UploadService
}

func NewHospitalHandler(hospitalRepo *repository.HospitalRepository, provisioning *services.ProvisioningService, uploads *services.UploadService) *HospitalHandler {
	return &HospitalHandler{
		hospitalRepo: hospitalRepo,
		provisioning: provisioning,
		uploads:      uploads,
	}
}

// List lists all hospitals
func (h *HospitalHandler) List(c *gin.Context) {
	hospitals, err := h.hospitalRepo.ListHospitals(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, hospitals)
}

// Get retrieves a hospital by id
func (h *HospitalHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	hospital, err := h.hospitalRepo.GetHospitalByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "hospital não encontrado"})
			return
		}
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, hospital)
}

// Create cria um hospital com código de acesso gerado pelo servidor
func (h *HospitalHandler) Create(c *gin.Context) {
	var req models.CreateHospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hospital, err := h.provisioning.CreateHospital(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrCNPJAlreadyExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		internalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, hospital)
}

// Update edits hospital data (cnpj and access code stay fixed)
func (h *HospitalHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	var req models.CreateHospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hospital := &models.Hospital{
		ID:   id,
		Name: strings.TrimSpace(req.Name),
	}
	assignOptional(&hospital.RazaoSocial, req.RazaoSocial)
	assignOptional(&hospital.EmailContato, req.EmailContato)
	assignOptional(&hospital.Telefone, req.Telefone)
	assignOptional(&hospital.CEP, req.CEP)
	assignOptional(&hospital.Endereco, req.Endereco)
	assignOptional(&hospital.Numero, req.Numero)
	assignOptional(&hospital.Bairro, req.Bairro)
	assignOptional(&hospital.Cidade, req.Cidade)
	assignOptional(&hospital.UF, strings.ToUpper(req.UF))
	assignOptional(&hospital.NomeGestor, req.NomeGestor)
	assignOptional(&hospital.DadosFaturamento, req.DadosFaturamento)

	updated, err := h.hospitalRepo.UpdateHospital(c.Request.Context(), hospital)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "hospital não encontrado"})
			return
		}
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete removes a hospital
func (h *HospitalHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	if err := h.provisioning.DeleteHospital(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "hospital não encontrado"})
			return
		}
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UploadLogo recebe a imagem, gera a versão redimensionada e grava a URL
func (h *HospitalHandler) UploadLogo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	if _, err := h.hospitalRepo.GetHospitalByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "hospital não encontrado"})
			return
		}
		internalError(c, err)
		return
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "arquivo de logo é obrigatório"})
		return
	}

	logoURL, err := h.uploads.SaveHospitalLogo(c.Request.Context(), id, fileHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.hospitalRepo.UpdateLogoURL(c.Request.Context(), id, logoURL); err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"logo_url": logoURL})
}

func assignOptional(dst **string, value string) {
	if strings.TrimSpace(value) != "" {
		v := value
		*dst = &v
	}
}

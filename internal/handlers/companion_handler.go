package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Alexandre11021998/Zelo/internal/cache"
	"github.com/Alexandre11021998/Zelo/internal/models"
	"github.com/Alexandre11021998/Zelo/internal/repository"
	"github.com/Alexandre11021998/Zelo/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CompanionHandler serve a consulta pública do acompanhante.
// Não há autenticação: o par nome + data de nascimento é a credencial.
type CompanionHandler struct {
	patientRepo *repository.PatientRepository
	cache       *cache.Client
}

func NewCompanionHandler(patientRepo *repository.PatientRepository, cacheClient *cache.Client) *CompanionHandler {
	return &CompanionHandler{
		patientRepo: patientRepo,
		cache:       cacheClient,
	}
}

// Lookup localiza um paciente ativo por nome exato (sem diferenciar
// maiúsculas) e data de nascimento exata. Paciente de alta não aparece.
func (h *CompanionHandler) Lookup(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	birthParam := strings.TrimSpace(c.Query("birth_date"))

	if name == "" || birthParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nome e data de nascimento são obrigatórios"})
		return
	}

	birthDate, err := utils.ParseDate(birthParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data de nascimento inválida"})
		return
	}

	patient, err := h.patientRepo.FindActiveByNameAndBirth(c.Request.Context(), name, birthDate)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "paciente não encontrado"})
			return
		}
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CompanionPatient{
		ID:             patient.ID,
		Name:           patient.Name,
		DataNascimento: utils.FormatISODate(patient.DataNascimento),
		Status:         patient.Status,
		StatusLabel:    patient.Status.Label(),
		UpdatedAt:      patient.UpdatedAt,
	})
}

// Stream envia as mudanças de status de um único paciente como SSE
func (h *CompanionHandler) Stream(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	// Só pacientes ativos têm stream público
	if _, err := h.patientRepo.GetPublicPatientByID(c.Request.Context(), patientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "paciente não encontrado"})
			return
		}
		internalError(c, err)
		return
	}

	streamEvents(c, h.cache, cache.PatientChannel(patientID))
}

package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Alexandre11021998/Zelo/internal/cache"
	"github.com/Alexandre11021998/Zelo/internal/config"
	"github.com/Alexandre11021998/Zelo/internal/middleware"
	"github.com/Alexandre11021998/Zelo/internal/models"
	"github.com/Alexandre11021998/Zelo/internal/repository"
	"github.com/Alexandre11021998/Zelo/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yeqown/go-qrcode"
)

// PatientHandler handles the hospital-scoped patient operations
type PatientHandler struct {
	patientRepo *repository.PatientRepository
	cache       *cache.Client
	cfg         *config.Config
}

func NewPatientHandler(patientRepo *repository.PatientRepository, cacheClient *cache.Client, cfg *config.Config) *PatientHandler {
	return &PatientHandler{
		patientRepo: patientRepo,
		cache:       cacheClient,
		cfg:         cfg,
	}
}

// List lists the hospital's patients with optional filters
func (h *PatientHandler) List(c *gin.Context) {
	session := middleware.GetSession(c)
	if session.HospitalID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "usuário não está vinculado a um hospital"})
		return
	}

	filter := repository.PatientFilter{
		Search: c.Query("search"),
	}
	if status := c.Query("status"); status != "" {
		ps := models.PatientStatus(status)
		if !ps.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status inválido"})
			return
		}
		filter.Status = ps
	}
	if active := c.Query("active"); active != "" {
		isActive := active == "true"
		filter.Active = &isActive
	}

	patients, err := h.patientRepo.ListPatients(c.Request.Context(), *session.HospitalID, filter)
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, patients)
}

// Create registers a patient with status 'aguardando'
func (h *PatientHandler) Create(c *gin.Context) {
	session := middleware.GetSession(c)
	if session.HospitalID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "usuário não está vinculado a um hospital"})
		return
	}

	var req models.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	birthDate, err := utils.ParseDate(req.DataNascimento)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data de nascimento inválida"})
		return
	}

	patient := &models.Patient{
		HospitalID:     *session.HospitalID,
		Name:           strings.TrimSpace(req.Name),
		DataNascimento: birthDate,
		CodigoPaciente: utils.GeneratePatientCode(),
		UpdatedBy:      &session.UserID,
		UpdatedByName:  &session.FullName,
	}
	if req.CPF != "" {
		masked := utils.MaskCPF(req.CPF)
		patient.CPF = &masked
	}

	created, err := h.patientRepo.CreatePatient(c.Request.Context(), patient)
	if err != nil {
		internalError(c, err)
		return
	}

	h.cache.PublishPatientEvent(c.Request.Context(), cache.EventInsert, created)
	c.JSON(http.StatusCreated, created)
}

// Update edits patient demographics
func (h *PatientHandler) Update(c *gin.Context) {
	session := middleware.GetSession(c)
	patientID, ok := h.requirePatientScope(c, session)
	if !ok {
		return
	}

	var req models.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	birthDate, err := utils.ParseDate(req.DataNascimento)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data de nascimento inválida"})
		return
	}

	patient := &models.Patient{
		ID:             patientID,
		HospitalID:     *session.HospitalID,
		Name:           strings.TrimSpace(req.Name),
		DataNascimento: birthDate,
		UpdatedBy:      &session.UserID,
		UpdatedByName:  &session.FullName,
	}
	if req.CPF != "" {
		masked := utils.MaskCPF(req.CPF)
		patient.CPF = &masked
	}

	updated, err := h.patientRepo.UpdatePatient(c.Request.Context(), patient)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "paciente não encontrado"})
			return
		}
		internalError(c, err)
		return
	}

	h.cache.PublishPatientEvent(c.Request.Context(), cache.EventUpdate, updated)
	c.JSON(http.StatusOK, updated)
}

// UpdateStatus muda o estágio do paciente. Qualquer estágio pode
// suceder qualquer outro; apenas o valor precisa ser conhecido.
func (h *PatientHandler) UpdateStatus(c *gin.Context) {
	session := middleware.GetSession(c)
	patientID, ok := h.requirePatientScope(c, session)
	if !ok {
		return
	}

	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status inválido"})
		return
	}

	updated, err := h.patientRepo.UpdateStatus(c.Request.Context(), *session.HospitalID, patientID, req.Status, session.UserID, session.FullName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "paciente não encontrado"})
			return
		}
		internalError(c, err)
		return
	}

	h.cache.PublishPatientEvent(c.Request.Context(), cache.EventUpdate, updated)
	c.JSON(http.StatusOK, updated)
}

// Discharge marks the patient inactive, hiding it from companion lookup
func (h *PatientHandler) Discharge(c *gin.Context) {
	session := middleware.GetSession(c)
	patientID, ok := h.requirePatientScope(c, session)
	if !ok {
		return
	}

	updated, err := h.patientRepo.DischargePatient(c.Request.Context(), *session.HospitalID, patientID, session.UserID, session.FullName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "paciente não encontrado"})
			return
		}
		internalError(c, err)
		return
	}

	h.cache.PublishPatientEvent(c.Request.Context(), cache.EventUpdate, updated)
	c.JSON(http.StatusOK, updated)
}

// Delete removes a patient record
func (h *PatientHandler) Delete(c *gin.Context) {
	session := middleware.GetSession(c)
	patientID, ok := h.requirePatientScope(c, session)
	if !ok {
		return
	}

	patient, err := h.patientRepo.GetPatientByID(c.Request.Context(), *session.HospitalID, patientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "paciente não encontrado"})
			return
		}
		internalError(c, err)
		return
	}

	if err := h.patientRepo.DeletePatient(c.Request.Context(), *session.HospitalID, patientID); err != nil {
		internalError(c, err)
		return
	}

	h.cache.PublishPatientEvent(c.Request.Context(), cache.EventDelete, patient)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Import importa pacientes de um CSV (name;data_nascimento;cpf).
// Linhas inválidas são puladas e reportadas; as válidas são gravadas.
func (h *PatientHandler) Import(c *gin.Context) {
	session := middleware.GetSession(c)
	if session.HospitalID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "usuário não está vinculado a um hospital"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "arquivo CSV é obrigatório"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		internalError(c, err)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	report := models.ImportReport{Skipped: []models.ImportError{}}
	line := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			report.Skipped = append(report.Skipped, models.ImportError{Line: line, Reason: "linha malformada"})
			continue
		}
		// Cabeçalho opcional
		if line == 1 && len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "name") {
			continue
		}
		if len(record) < 2 {
			report.Skipped = append(report.Skipped, models.ImportError{Line: line, Reason: "colunas insuficientes"})
			continue
		}

		name := strings.TrimSpace(record[0])
		if len(name) < 3 {
			report.Skipped = append(report.Skipped, models.ImportError{Line: line, Reason: "nome inválido"})
			continue
		}

		birthDate, err := utils.ParseDate(strings.TrimSpace(record[1]))
		if err != nil {
			report.Skipped = append(report.Skipped, models.ImportError{Line: line, Reason: "data de nascimento inválida"})
			continue
		}

		patient := &models.Patient{
			HospitalID:     *session.HospitalID,
			Name:           name,
			DataNascimento: birthDate,
			CodigoPaciente: utils.GeneratePatientCode(),
			UpdatedBy:      &session.UserID,
			UpdatedByName:  &session.FullName,
		}
		if len(record) >= 3 && strings.TrimSpace(record[2]) != "" {
			cpf := strings.TrimSpace(record[2])
			if !utils.ValidateCPF(cpf) {
				report.Skipped = append(report.Skipped, models.ImportError{Line: line, Reason: "CPF inválido"})
				continue
			}
			masked := utils.MaskCPF(cpf)
			patient.CPF = &masked
		}

		created, err := h.patientRepo.CreatePatient(c.Request.Context(), patient)
		if err != nil {
			report.Skipped = append(report.Skipped, models.ImportError{Line: line, Reason: "erro ao gravar"})
			continue
		}

		h.cache.PublishPatientEvent(c.Request.Context(), cache.EventInsert, created)
		report.Imported++
	}

	c.JSON(http.StatusOK, report)
}

// QRCode gera a imagem com o deep link público do acompanhante.
// O link carrega nome e nascimento, pré-preenchendo a consulta.
func (h *PatientHandler) QRCode(c *gin.Context) {
	session := middleware.GetSession(c)
	patientID, ok := h.requirePatientScope(c, session)
	if !ok {
		return
	}

	patient, err := h.patientRepo.GetPatientByID(c.Request.Context(), *session.HospitalID, patientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "paciente não encontrado"})
			return
		}
		internalError(c, err)
		return
	}

	deepLink := fmt.Sprintf("%s/acompanhante?nome=%s&nascimento=%s",
		strings.TrimSuffix(h.cfg.App.PublicBaseURL, "/"),
		url.QueryEscape(patient.Name),
		utils.FormatISODate(patient.DataNascimento),
	)

	qrc, err := qrcode.New(deepLink)
	if err != nil {
		internalError(c, err)
		return
	}

	c.Header("Content-Type", "image/jpeg")
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%s.jpeg", patient.CodigoPaciente))
	if err := qrc.SaveTo(c.Writer); err != nil {
		internalError(c, err)
	}
}

// Stream envia um evento SSE a cada mutação nos pacientes do hospital.
// O cliente trata qualquer evento como convite para recarregar a lista.
func (h *PatientHandler) Stream(c *gin.Context) {
	session := middleware.GetSession(c)
	if session.HospitalID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "usuário não está vinculado a um hospital"})
		return
	}

	streamEvents(c, h.cache, cache.HospitalChannel(*session.HospitalID))
}

// requirePatientScope valida o vínculo com hospital e o id da rota
func (h *PatientHandler) requirePatientScope(c *gin.Context, session *models.Session) (uuid.UUID, bool) {
	if session.HospitalID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "usuário não está vinculado a um hospital"})
		return uuid.Nil, false
	}

	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return uuid.Nil, false
	}

	return patientID, true
}

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Alexandre11021998/Zelo/internal/models"
	"github.com/Alexandre11021998/Zelo/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCompanionRouter(t *testing.T) (*gin.Engine, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewCompanionHandler(repository.NewPatientRepository(mock), nil)
	router.GET("/companion/patient", handler.Lookup)

	return router, mock
}

func companionPatientRow(id, hospitalID uuid.UUID, name string, birth time.Time) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{
		"id", "hospital_id", "name", "cpf", "data_nascimento", "status", "is_active",
		"codigo_paciente", "updated_by", "updated_by_name", "created_at", "updated_at",
	}).AddRow(
		id, hospitalID, name, (*string)(nil), birth, models.StatusEmProcedimento, true,
		"PACA1B2C3D4", (*uuid.UUID)(nil), (*string)(nil), now, now,
	)
}

func TestCompanionLookupReturnsPatient(t *testing.T) {
	router, mock := newCompanionRouter(t)

	patientID := uuid.New()
	birth := time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`(?s)SELECT .* FROM patients\s+WHERE LOWER\(name\) = LOWER\(\$1\)`).
		WithArgs("Maria Silva", birth).
		WillReturnRows(companionPatientRow(patientID, uuid.New(), "Maria Silva", birth))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/companion/patient?name=Maria+Silva&birth_date=20/05/1990", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body models.CompanionPatient
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, patientID, body.ID)
	assert.Equal(t, "Maria Silva", body.Name)
	assert.Equal(t, "1990-05-20", body.DataNascimento)
	assert.Equal(t, models.StatusEmProcedimento, body.Status)
	assert.Equal(t, "Em Procedimento", body.StatusLabel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanionLookupAcceptsISODate(t *testing.T) {
	router, mock := newCompanionRouter(t)

	birth := time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`(?s)SELECT .* FROM patients`).
		WithArgs("Maria Silva", birth).
		WillReturnRows(companionPatientRow(uuid.New(), uuid.New(), "Maria Silva", birth))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/companion/patient?name=Maria+Silva&birth_date=1990-05-20", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanionLookupMissingParams(t *testing.T) {
	router, _ := newCompanionRouter(t)

	for _, target := range []string{
		"/companion/patient",
		"/companion/patient?name=Maria",
		"/companion/patient?birth_date=1990-05-20",
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, target, nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestCompanionLookupInvalidDate(t *testing.T) {
	router, _ := newCompanionRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/companion/patient?name=Maria&birth_date=31/02/2024", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompanionLookupNotFound(t *testing.T) {
	router, mock := newCompanionRouter(t)

	mock.ExpectQuery(`(?s)SELECT .* FROM patients`).
		WithArgs("Fulano", time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "hospital_id", "name", "cpf", "data_nascimento", "status", "is_active",
			"codigo_paciente", "updated_by", "updated_by_name", "created_at", "updated_at",
		}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/companion/patient?name=Fulano&birth_date=2000-01-01", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Alexandre11021998/Zelo/internal/models"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var patientCols = []string{
	"id", "hospital_id", "name", "cpf", "data_nascimento", "status", "is_active",
	"codigo_paciente", "updated_by", "updated_by_name", "created_at", "updated_at",
}

func patientRow(id, hospitalID uuid.UUID, name string, birth time.Time, status models.PatientStatus, active bool) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(patientCols).
		AddRow(id, hospitalID, name, nil, birth, status, active, "PAC12345678", nil, nil, now, now)
}

func TestFindActiveByNameAndBirth(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPatientRepository(mock)

	id := uuid.New()
	hospitalID := uuid.New()
	birth := time.Date(1985, time.July, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)SELECT .* FROM patients\s+WHERE LOWER\(name\) = LOWER\(\$1\) AND data_nascimento = \$2 AND is_active = true`).
		WithArgs("Maria da Silva", birth).
		WillReturnRows(patientRow(id, hospitalID, "Maria da Silva", birth, models.StatusEmProcedimento, true))

	patient, err := repo.FindActiveByNameAndBirth(context.Background(), "  Maria da Silva ", birth)

	require.NoError(t, err)
	assert.Equal(t, id, patient.ID)
	assert.Equal(t, models.StatusEmProcedimento, patient.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindActiveByNameAndBirthNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPatientRepository(mock)

	birth := time.Date(1985, time.July, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)SELECT .* FROM patients`).
		WithArgs("Ninguém", birth).
		WillReturnRows(pgxmock.NewRows(patientCols))

	_, err = repo.FindActiveByNameAndBirth(context.Background(), "Ninguém", birth)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusScopedToHospital(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPatientRepository(mock)

	id := uuid.New()
	hospitalID := uuid.New()
	staffID := uuid.New()
	birth := time.Date(1990, time.January, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`UPDATE patients SET`).
		WithArgs(id, hospitalID, models.StatusNoQuarto, staffID, "Enf. Paula").
		WillReturnRows(patientRow(id, hospitalID, "João Pedro", birth, models.StatusNoQuarto, true))

	updated, err := repo.UpdateStatus(context.Background(), hospitalID, id, models.StatusNoQuarto, staffID, "Enf. Paula")

	require.NoError(t, err)
	assert.Equal(t, models.StatusNoQuarto, updated.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPatientRepository(mock)

	mock.ExpectQuery(`UPDATE patients SET`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), models.StatusEmAlta, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(patientCols))

	_, err = repo.UpdateStatus(context.Background(), uuid.New(), uuid.New(), models.StatusEmAlta, uuid.New(), "Enf. Paula")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPatientsAppliesFilters(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPatientRepository(mock)

	hospitalID := uuid.New()
	birth := time.Date(1970, time.March, 10, 0, 0, 0, 0, time.UTC)
	active := true

	mock.ExpectQuery(`(?s)SELECT .* FROM patients WHERE hospital_id = \$1 AND LOWER\(name\) LIKE \$2 AND status = \$3 AND is_active = \$4`).
		WithArgs(hospitalID, "%silva%", models.StatusAguardando, true).
		WillReturnRows(patientRow(uuid.New(), hospitalID, "Ana Silva", birth, models.StatusAguardando, true))

	patients, err := repo.ListPatients(context.Background(), hospitalID, PatientFilter{
		Search: "Silva",
		Status: models.StatusAguardando,
		Active: &active,
	})

	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, "Ana Silva", patients[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePatientNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPatientRepository(mock)

	mock.ExpectExec(`DELETE FROM patients`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err = repo.DeletePatient(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, ErrNotFound)
}

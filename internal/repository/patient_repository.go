package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Alexandre11021998/Zelo/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PatientRepository struct {
	db DB
}

func NewPatientRepository(db DB) *PatientRepository {
	return &PatientRepository{db: db}
}

const patientColumns = `id, hospital_id, name, cpf, data_nascimento, status, is_active,
	codigo_paciente, updated_by, updated_by_name, created_at, updated_at`

func scanPatient(row pgx.Row) (*models.Patient, error) {
	p := &models.Patient{}
	err := row.Scan(
		&p.ID,
		&p.HospitalID,
		&p.Name,
		&p.CPF,
		&p.DataNascimento,
		&p.Status,
		&p.IsActive,
		&p.CodigoPaciente,
		&p.UpdatedBy,
		&p.UpdatedByName,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CreatePatient inserts a patient with status 'aguardando'
func (r *PatientRepository) CreatePatient(ctx context.Context, p *models.Patient) (*models.Patient, error) {
	query := `
		INSERT INTO patients (hospital_id, name, cpf, data_nascimento, codigo_paciente, updated_by, updated_by_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + patientColumns

	created, err := scanPatient(r.db.QueryRow(ctx, query,
		p.HospitalID, p.Name, p.CPF, p.DataNascimento, p.CodigoPaciente, p.UpdatedBy, p.UpdatedByName,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}

	return created, nil
}

// GetPatientByID retrieves a patient scoped to a hospital
func (r *PatientRepository) GetPatientByID(ctx context.Context, hospitalID, patientID uuid.UUID) (*models.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1 AND hospital_id = $2`

	p, err := scanPatient(r.db.QueryRow(ctx, query, patientID, hospitalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	return p, nil
}

// PatientFilter restringe a listagem de pacientes de um hospital
type PatientFilter struct {
	Search string
	Status models.PatientStatus
	Active *bool
}

// ListPatients lists the hospital's patients applying the optional filters
func (r *PatientRepository) ListPatients(ctx context.Context, hospitalID uuid.UUID, filter PatientFilter) ([]models.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE hospital_id = $1`
	args := []any{hospitalID}

	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		query += fmt.Sprintf(" AND LOWER(name) LIKE $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		query += fmt.Sprintf(" AND is_active = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	defer rows.Close()

	patients := []models.Patient{}
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan patient: %w", err)
		}
		patients = append(patients, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read patients: %w", err)
	}

	return patients, nil
}

// UpdatePatient updates patient demographics
func (r *PatientRepository) UpdatePatient(ctx context.Context, p *models.Patient) (*models.Patient, error) {
	query := `
		UPDATE patients SET
			name = $3, cpf = $4, data_nascimento = $5,
			updated_by = $6, updated_by_name = $7, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND hospital_id = $2
		RETURNING ` + patientColumns

	updated, err := scanPatient(r.db.QueryRow(ctx, query,
		p.ID, p.HospitalID, p.Name, p.CPF, p.DataNascimento, p.UpdatedBy, p.UpdatedByName,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}

	return updated, nil
}

// UpdateStatus muda o estágio do paciente registrando quem atualizou.
// Qualquer estágio pode suceder qualquer outro.
func (r *PatientRepository) UpdateStatus(ctx context.Context, hospitalID, patientID uuid.UUID, status models.PatientStatus, updatedBy uuid.UUID, updatedByName string) (*models.Patient, error) {
	query := `
		UPDATE patients SET
			status = $3, updated_by = $4, updated_by_name = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND hospital_id = $2
		RETURNING ` + patientColumns

	updated, err := scanPatient(r.db.QueryRow(ctx, query,
		patientID, hospitalID, status, updatedBy, updatedByName,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	return updated, nil
}

// DischargePatient marks the patient inactive, hiding it from companion lookup
func (r *PatientRepository) DischargePatient(ctx context.Context, hospitalID, patientID uuid.UUID, updatedBy uuid.UUID, updatedByName string) (*models.Patient, error) {
	query := `
		UPDATE patients SET
			is_active = false, updated_by = $3, updated_by_name = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND hospital_id = $2
		RETURNING ` + patientColumns

	updated, err := scanPatient(r.db.QueryRow(ctx, query,
		patientID, hospitalID, updatedBy, updatedByName,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to discharge patient: %w", err)
	}

	return updated, nil
}

// DeletePatient removes a patient row
func (r *PatientRepository) DeletePatient(ctx context.Context, hospitalID, patientID uuid.UUID) error {
	query := `DELETE FROM patients WHERE id = $1 AND hospital_id = $2`

	tag, err := r.db.Exec(ctx, query, patientID, hospitalID)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// FindActiveByNameAndBirth é a consulta pública do acompanhante:
// nome exato sem diferenciar maiúsculas, data exata, somente ativos.
func (r *PatientRepository) FindActiveByNameAndBirth(ctx context.Context, name string, birthDate time.Time) (*models.Patient, error) {
	query := `
		SELECT ` + patientColumns + `
		FROM patients
		WHERE LOWER(name) = LOWER($1) AND data_nascimento = $2 AND is_active = true
		LIMIT 1
	`

	p, err := scanPatient(r.db.QueryRow(ctx, query, strings.TrimSpace(name), birthDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find patient: %w", err)
	}

	return p, nil
}

// GetPublicPatientByID é usada pelo stream público do acompanhante
func (r *PatientRepository) GetPublicPatientByID(ctx context.Context, patientID uuid.UUID) (*models.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1 AND is_active = true`

	p, err := scanPatient(r.db.QueryRow(ctx, query, patientID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	return p, nil
}

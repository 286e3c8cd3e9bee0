package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Alexandre11021998/Zelo/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ProfileRepository struct {
	db DB
}

func NewProfileRepository(db DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// UpsertProfile cria ou atualiza o perfil do usuário.
// O upsert elimina a dependência de qualquer gatilho de criação automática:
// se a linha já existe, os dados informados a sobrescrevem.
func (r *ProfileRepository) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (id, full_name, cpf, registration_number, job_role, hospital_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			cpf = COALESCE(EXCLUDED.cpf, profiles.cpf),
			registration_number = COALESCE(EXCLUDED.registration_number, profiles.registration_number),
			job_role = COALESCE(EXCLUDED.job_role, profiles.job_role),
			hospital_id = EXCLUDED.hospital_id,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := r.db.Exec(ctx, query,
		profile.ID,
		profile.FullName,
		profile.CPF,
		profile.RegistrationNumber,
		profile.JobRole,
		profile.HospitalID,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	return nil
}

// GetProfile retrieves a user's profile
func (r *ProfileRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	profile := &models.Profile{}

	query := `
		SELECT id, full_name, cpf, registration_number, job_role, hospital_id, avatar_url, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.FullName,
		&profile.CPF,
		&profile.RegistrationNumber,
		&profile.JobRole,
		&profile.HospitalID,
		&profile.AvatarURL,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return profile, nil
}

// CPFExists checks whether any profile already registered the CPF
func (r *ProfileRepository) CPFExists(ctx context.Context, cpf string) (bool, error) {
	var exists bool

	query := `SELECT EXISTS(SELECT 1 FROM profiles WHERE cpf = $1)`

	if err := r.db.QueryRow(ctx, query, cpf).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check cpf: %w", err)
	}

	return exists, nil
}

// ListStaffByHospital lists the hospital team with emails and roles
func (r *ProfileRepository) ListStaffByHospital(ctx context.Context, hospitalID uuid.UUID) ([]models.StaffMember, error) {
	query := `
		SELECT p.id, u.email, p.full_name, p.job_role, p.registration_number, u.created_at,
			COALESCE(array_agg(ur.role) FILTER (WHERE ur.role IS NOT NULL), '{}')
		FROM profiles p
		JOIN users u ON u.id = p.id
		LEFT JOIN user_roles ur ON ur.user_id = p.id
		WHERE p.hospital_id = $1
		GROUP BY p.id, u.email, p.full_name, p.job_role, p.registration_number, u.created_at
		ORDER BY p.full_name
	`

	rows, err := r.db.Query(ctx, query, hospitalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	defer rows.Close()

	staff := []models.StaffMember{}
	for rows.Next() {
		var member models.StaffMember
		var roles []string
		if err := rows.Scan(
			&member.ID,
			&member.Email,
			&member.FullName,
			&member.JobRole,
			&member.RegistrationNumber,
			&member.CreatedAt,
			&roles,
		); err != nil {
			return nil, fmt.Errorf("failed to scan staff member: %w", err)
		}
		for _, role := range roles {
			member.Roles = append(member.Roles, models.Role(role))
		}
		staff = append(staff, member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read staff: %w", err)
	}

	return staff, nil
}

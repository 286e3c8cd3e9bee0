package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Alexandre11021998/Zelo/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PreCheckinRepository struct {
	db DB
}

func NewPreCheckinRepository(db DB) *PreCheckinRepository {
	return &PreCheckinRepository{db: db}
}

// CreatePreCheckin registra um envio do formulário público
func (r *PreCheckinRepository) CreatePreCheckin(ctx context.Context, nome, cpf, convenio string, documentoURL *string) (*models.PreCheckin, error) {
	pc := &models.PreCheckin{}

	query := `
		INSERT INTO pre_checkin (nome, cpf, convenio, documento_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, nome, cpf, convenio, documento_url, status, created_at
	`

	err := r.db.QueryRow(ctx, query, nome, cpf, convenio, documentoURL).Scan(
		&pc.ID,
		&pc.Nome,
		&pc.CPF,
		&pc.Convenio,
		&pc.DocumentoURL,
		&pc.Status,
		&pc.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create pre-checkin: %w", err)
	}

	return pc, nil
}

// ListPreCheckins lists submissions, newest first
func (r *PreCheckinRepository) ListPreCheckins(ctx context.Context) ([]models.PreCheckin, error) {
	query := `
		SELECT id, nome, cpf, convenio, documento_url, status, created_at
		FROM pre_checkin
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pre-checkins: %w", err)
	}
	defer rows.Close()

	items := []models.PreCheckin{}
	for rows.Next() {
		var pc models.PreCheckin
		if err := rows.Scan(
			&pc.ID,
			&pc.Nome,
			&pc.CPF,
			&pc.Convenio,
			&pc.DocumentoURL,
			&pc.Status,
			&pc.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pre-checkin: %w", err)
		}
		items = append(items, pc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pre-checkins: %w", err)
	}

	return items, nil
}

// UpdatePreCheckinStatus updates the triage status of a submission
func (r *PreCheckinRepository) UpdatePreCheckinStatus(ctx context.Context, id uuid.UUID, status string) (*models.PreCheckin, error) {
	pc := &models.PreCheckin{}

	query := `
		UPDATE pre_checkin SET status = $2
		WHERE id = $1
		RETURNING id, nome, cpf, convenio, documento_url, status, created_at
	`

	err := r.db.QueryRow(ctx, query, id, status).Scan(
		&pc.ID,
		&pc.Nome,
		&pc.CPF,
		&pc.Convenio,
		&pc.DocumentoURL,
		&pc.Status,
		&pc.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update pre-checkin: %w", err)
	}

	return pc, nil
}

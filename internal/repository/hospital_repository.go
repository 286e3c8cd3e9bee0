package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Alexandre11021998/Zelo/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type HospitalRepository struct {
	db DB
}

func NewHospitalRepository(db DB) *HospitalRepository {
	return &HospitalRepository{db: db}
}

const hospitalColumns = `id, name, cnpj, codigo_acesso, razao_social, email_contato, telefone,
	cep, endereco, numero, bairro, cidade, uf, nome_gestor, dados_faturamento, logo_url, created_at`

func scanHospital(row pgx.Row) (*models.Hospital, error) {
	h := &models.Hospital{}
	err := row.Scan(
		&h.ID,
		&h.Name,
		&h.CNPJ,
		&h.CodigoAcesso,
		&h.RazaoSocial,
		&h.EmailContato,
		&h.Telefone,
		&h.CEP,
		&h.Endereco,
		&h.Numero,
		&h.Bairro,
		&h.Cidade,
		&h.UF,
		&h.NomeGestor,
		&h.DadosFaturamento,
		&h.LogoURL,
		&h.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// CreateHospital creates a hospital with the given access code
func (r *HospitalRepository) CreateHospital(ctx context.Context, h *models.Hospital) (*models.Hospital, error) {
	query := `
		INSERT INTO hospitals (name, cnpj, codigo_acesso, razao_social, email_contato, telefone,
			cep, endereco, numero, bairro, cidade, uf, nome_gestor, dados_faturamento)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + hospitalColumns

	created, err := scanHospital(r.db.QueryRow(ctx, query,
		h.Name, h.CNPJ, h.CodigoAcesso, h.RazaoSocial, h.EmailContato, h.Telefone,
		h.CEP, h.Endereco, h.Numero, h.Bairro, h.Cidade, h.UF, h.NomeGestor, h.DadosFaturamento,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create hospital: %w", err)
	}

	return created, nil
}

// GetHospitalByID retrieves a hospital by ID
func (r *HospitalRepository) GetHospitalByID(ctx context.Context, id uuid.UUID) (*models.Hospital, error) {
	query := `SELECT ` + hospitalColumns + ` FROM hospitals WHERE id = $1`

	h, err := scanHospital(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get hospital: %w", err)
	}

	return h, nil
}

// GetHospitalByCode retrieves a hospital by its access code (case-insensitive)
func (r *HospitalRepository) GetHospitalByCode(ctx context.Context, code string) (*models.Hospital, error) {
	query := `SELECT ` + hospitalColumns + ` FROM hospitals WHERE codigo_acesso = $1`

	h, err := scanHospital(r.db.QueryRow(ctx, query, strings.ToUpper(strings.TrimSpace(code))))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get hospital by code: %w", err)
	}

	return h, nil
}

// CNPJExists checks whether a hospital with the CNPJ already exists
func (r *HospitalRepository) CNPJExists(ctx context.Context, cnpj string) (bool, error) {
	var exists bool

	query := `SELECT EXISTS(SELECT 1 FROM hospitals WHERE cnpj = $1)`

	if err := r.db.QueryRow(ctx, query, cnpj).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check cnpj: %w", err)
	}

	return exists, nil
}

// CodeExists checks whether an access code is already taken
func (r *HospitalRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool

	query := `SELECT EXISTS(SELECT 1 FROM hospitals WHERE codigo_acesso = $1)`

	if err := r.db.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check access code: %w", err)
	}

	return exists, nil
}

// ListHospitals lists all hospitals ordered by name
func (r *HospitalRepository) ListHospitals(ctx context.Context) ([]models.Hospital, error) {
	query := `SELECT ` + hospitalColumns + ` FROM hospitals ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list hospitals: %w", err)
	}
	defer rows.Close()

	hospitals := []models.Hospital{}
	for rows.Next() {
		h, err := scanHospital(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hospital: %w", err)
		}
		hospitals = append(hospitals, *h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read hospitals: %w", err)
	}

	return hospitals, nil
}

// UpdateHospital updates hospital data (access code and cnpj stay fixed)
func (r *HospitalRepository) UpdateHospital(ctx context.Context, h *models.Hospital) (*models.Hospital, error) {
	query := `
		UPDATE hospitals SET
			name = $2, razao_social = $3, email_contato = $4, telefone = $5,
			cep = $6, endereco = $7, numero = $8, bairro = $9, cidade = $10,
			uf = $11, nome_gestor = $12, dados_faturamento = $13
		WHERE id = $1
		RETURNING ` + hospitalColumns

	updated, err := scanHospital(r.db.QueryRow(ctx, query,
		h.ID, h.Name, h.RazaoSocial, h.EmailContato, h.Telefone,
		h.CEP, h.Endereco, h.Numero, h.Bairro, h.Cidade,
		h.UF, h.NomeGestor, h.DadosFaturamento,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update hospital: %w", err)
	}

	return updated, nil
}

// UpdateLogoURL stores the public URL of the uploaded logo
func (r *HospitalRepository) UpdateLogoURL(ctx context.Context, id uuid.UUID, logoURL string) error {
	query := `UPDATE hospitals SET logo_url = $2 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, logoURL)
	if err != nil {
		return fmt.Errorf("failed to update logo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteHospital removes a hospital
func (r *HospitalRepository) DeleteHospital(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM hospitals WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete hospital: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate aplica o schema de forma idempotente na inicialização.
// Todas as instruções usam IF NOT EXISTS, então rodar de novo é seguro.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	log.Println("Aplicando schema do banco...")

	if _, err := pool.Exec(ctx, schema()); err != nil {
		return fmt.Errorf("erro ao aplicar schema: %w", err)
	}

	log.Println("Schema aplicado com sucesso")
	return nil
}

// schema retorna o schema SQL da aplicação
func schema() string {
	return `
		-- Accounts (credentials only)
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Hospitals table
		CREATE TABLE IF NOT EXISTS hospitals (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL,
			cnpj VARCHAR(18) NOT NULL UNIQUE,
			codigo_acesso CHAR(6) NOT NULL UNIQUE,
			razao_social VARCHAR(255),
			email_contato VARCHAR(255),
			telefone VARCHAR(20),
			cep VARCHAR(9),
			endereco VARCHAR(255),
			numero VARCHAR(20),
			bairro VARCHAR(100),
			cidade VARCHAR(100),
			uf CHAR(2),
			nome_gestor VARCHAR(255),
			dados_faturamento TEXT,
			logo_url TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Profiles (personal data, 1:1 with users)
		CREATE TABLE IF NOT EXISTS profiles (
			id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			full_name VARCHAR(255) NOT NULL,
			cpf VARCHAR(14) UNIQUE,
			registration_number VARCHAR(50),
			job_role VARCHAR(100),
			hospital_id UUID REFERENCES hospitals(id) ON DELETE SET NULL,
			avatar_url TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Roles (a user may hold more than one)
		CREATE TABLE IF NOT EXISTS user_roles (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			role VARCHAR(20) NOT NULL CHECK (role IN ('admin', 'acompanhante', 'superadmin', 'colaborador')),
			UNIQUE(user_id, role)
		);

		-- Patients table
		CREATE TABLE IF NOT EXISTS patients (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			hospital_id UUID NOT NULL REFERENCES hospitals(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			cpf VARCHAR(14),
			data_nascimento DATE NOT NULL,
			status VARCHAR(30) NOT NULL DEFAULT 'aguardando' CHECK (status IN (
				'aguardando', 'em_preparacao', 'em_procedimento',
				'recuperacao_pos_anestesica', 'no_quarto', 'em_alta')),
			is_active BOOLEAN NOT NULL DEFAULT true,
			codigo_paciente VARCHAR(20) NOT NULL UNIQUE,
			updated_by UUID,
			updated_by_name VARCHAR(255),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Public pre-checkin submissions
		CREATE TABLE IF NOT EXISTS pre_checkin (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			nome VARCHAR(255) NOT NULL,
			cpf VARCHAR(14) NOT NULL,
			convenio VARCHAR(100) NOT NULL,
			documento_url TEXT,
			status VARCHAR(30) NOT NULL DEFAULT 'Pendente',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_profiles_hospital ON profiles(hospital_id);
		CREATE INDEX IF NOT EXISTS idx_user_roles_user ON user_roles(user_id);
		CREATE INDEX IF NOT EXISTS idx_patients_hospital ON patients(hospital_id);
		CREATE INDEX IF NOT EXISTS idx_patients_lookup ON patients(LOWER(name), data_nascimento) WHERE is_active;
	`
}

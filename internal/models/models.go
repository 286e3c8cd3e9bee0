package models

import (
	"time"

	"github.com/google/uuid"
)

// Role é o papel de um usuário dentro da plataforma
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleSuperadmin   Role = "superadmin"
	RoleColaborador  Role = "colaborador"
	RoleAcompanhante Role = "acompanhante"
)

// User representa uma conta de acesso (credenciais apenas; dados pessoais ficam no Profile)
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Hospital representa uma instituição cadastrada pelo superadmin
type Hospital struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	CNPJ             string    `json:"cnpj"`
	CodigoAcesso     string    `json:"codigo_acesso"`
	RazaoSocial      *string   `json:"razao_social,omitempty"`
	EmailContato     *string   `json:"email_contato,omitempty"`
	Telefone         *string   `json:"telefone,omitempty"`
	CEP              *string   `json:"cep,omitempty"`
	Endereco         *string   `json:"endereco,omitempty"`
	Numero           *string   `json:"numero,omitempty"`
	Bairro           *string   `json:"bairro,omitempty"`
	Cidade           *string   `json:"cidade,omitempty"`
	UF               *string   `json:"uf,omitempty"`
	NomeGestor       *string   `json:"nome_gestor,omitempty"`
	DadosFaturamento *string   `json:"dados_faturamento,omitempty"`
	LogoURL          *string   `json:"logo_url,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// Profile guarda os dados pessoais de um usuário (1:1 com users)
type Profile struct {
	ID                 uuid.UUID  `json:"id"`
	FullName           string     `json:"full_name"`
	CPF                *string    `json:"cpf,omitempty"`
	RegistrationNumber *string    `json:"registration_number,omitempty"`
	JobRole            *string    `json:"job_role,omitempty"`
	HospitalID         *uuid.UUID `json:"hospital_id,omitempty"`
	AvatarURL          *string    `json:"avatar_url,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Patient representa um paciente em acompanhamento em um hospital
type Patient struct {
	ID             uuid.UUID     `json:"id"`
	HospitalID     uuid.UUID     `json:"hospital_id"`
	Name           string        `json:"name"`
	CPF            *string       `json:"cpf,omitempty"`
	DataNascimento time.Time     `json:"data_nascimento"`
	Status         PatientStatus `json:"status"`
	IsActive       bool          `json:"is_active"`
	CodigoPaciente string        `json:"codigo_paciente"`
	UpdatedBy      *uuid.UUID    `json:"updated_by,omitempty"`
	UpdatedByName  *string       `json:"updated_by_name,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// PreCheckin é um registro enviado pelo formulário público de pré-check-in
type PreCheckin struct {
	ID           uuid.UUID `json:"id"`
	Nome         string    `json:"nome"`
	CPF          string    `json:"cpf"`
	Convenio     string    `json:"convenio"`
	DocumentoURL *string   `json:"documento_url,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session é o objeto resolvido uma única vez por requisição pelo middleware
// de autenticação; os guards de papel leem apenas daqui
type Session struct {
	UserID     uuid.UUID  `json:"user_id"`
	Email      string     `json:"email"`
	FullName   string     `json:"full_name"`
	Roles      []Role     `json:"roles"`
	HospitalID *uuid.UUID `json:"hospital_id,omitempty"`
}

// HasRole verifica se a sessão possui algum dos papéis informados
func (s *Session) HasRole(roles ...Role) bool {
	for _, have := range s.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// ===== Requests =====

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SignupRequest struct {
	HospitalCode       string `json:"hospital_code" binding:"required,len=6"`
	Email              string `json:"email" binding:"required,email"`
	Password           string `json:"password" binding:"required,min=6"`
	FullName           string `json:"full_name" binding:"required,min=3"`
	CPF                string `json:"cpf" binding:"required,cpf"`
	RegistrationNumber string `json:"registration_number"`
	JobRole            string `json:"job_role" binding:"required"`
}

type CreateHospitalRequest struct {
	Name             string `json:"name" binding:"required,min=3"`
	CNPJ             string `json:"cnpj" binding:"required"`
	RazaoSocial      string `json:"razao_social"`
	EmailContato     string `json:"email_contato" binding:"omitempty,email"`
	Telefone         string `json:"telefone"`
	CEP              string `json:"cep"`
	Endereco         string `json:"endereco"`
	Numero           string `json:"numero"`
	Bairro           string `json:"bairro"`
	Cidade           string `json:"cidade"`
	UF               string `json:"uf" binding:"omitempty,len=2"`
	NomeGestor       string `json:"nome_gestor"`
	DadosFaturamento string `json:"dados_faturamento"`
}

type CreateHospitalAdminRequest struct {
	HospitalID uuid.UUID `json:"hospital_id" binding:"required"`
	Email      string    `json:"email" binding:"required,email"`
	Password   string    `json:"password" binding:"required,min=6"`
	FullName   string    `json:"full_name" binding:"required,min=3"`
}

type CreateStaffRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required,min=3"`
	JobRole  string `json:"job_role"`
}

type RemoveStaffRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

type AddSuperadminRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type CreatePatientRequest struct {
	Name           string `json:"name" binding:"required,min=3"`
	CPF            string `json:"cpf" binding:"omitempty,cpf"`
	DataNascimento string `json:"data_nascimento" binding:"required"`
}

type UpdatePatientRequest struct {
	Name           string `json:"name" binding:"required,min=3"`
	CPF            string `json:"cpf" binding:"omitempty,cpf"`
	DataNascimento string `json:"data_nascimento" binding:"required"`
}

type UpdateStatusRequest struct {
	Status PatientStatus `json:"status" binding:"required"`
}

type UpdatePreCheckinStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ===== Responses =====

type AuthResponse struct {
	Token string       `json:"token"`
	User  *SessionUser `json:"user"`
}

type SessionUser struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
}

type ProvisionResponse struct {
	Success bool         `json:"success"`
	User    *SessionUser `json:"user"`
}

// CompanionPatient é a visão pública do paciente exibida ao acompanhante
type CompanionPatient struct {
	ID             uuid.UUID     `json:"id"`
	Name           string        `json:"name"`
	DataNascimento string        `json:"data_nascimento"`
	Status         PatientStatus `json:"status"`
	StatusLabel    string        `json:"status_label"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// StaffMember é um item da listagem de equipe do hospital
type StaffMember struct {
	ID                 uuid.UUID `json:"id"`
	Email              string    `json:"email"`
	FullName           string    `json:"full_name"`
	JobRole            *string   `json:"job_role,omitempty"`
	RegistrationNumber *string   `json:"registration_number,omitempty"`
	Roles              []Role    `json:"roles"`
	CreatedAt          time.Time `json:"created_at"`
}

// ImportError descreve uma linha rejeitada durante a importação de CSV
type ImportError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ImportReport é o resultado de uma importação parcial de pacientes
type ImportReport struct {
	Imported int           `json:"imported"`
	Skipped  []ImportError `json:"skipped"`
}

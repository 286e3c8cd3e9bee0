package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Alexandre11021998/Zelo/internal/cache"
	"github.com/Alexandre11021998/Zelo/internal/models"
	"github.com/Alexandre11021998/Zelo/internal/repository"
	"github.com/Alexandre11021998/Zelo/internal/utils"
	"github.com/google/uuid"
)

// Interfaces mínimas sobre os repositórios, para permitir mocks nos testes

type userStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
	AssignRole(ctx context.Context, userID uuid.UUID, role models.Role) error
	GetRoles(ctx context.Context, userID uuid.UUID) ([]models.Role, error)
}

type profileStore interface {
	UpsertProfile(ctx context.Context, profile *models.Profile) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	CPFExists(ctx context.Context, cpf string) (bool, error)
}

type hospitalStore interface {
	CreateHospital(ctx context.Context, h *models.Hospital) (*models.Hospital, error)
	GetHospitalByID(ctx context.Context, id uuid.UUID) (*models.Hospital, error)
	GetHospitalByCode(ctx context.Context, code string) (*models.Hospital, error)
	CNPJExists(ctx context.Context, cnpj string) (bool, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	DeleteHospital(ctx context.Context, id uuid.UUID) error
}

// ProvisioningService concentra a criação de hospitais e contas.
// Criações multi-passo registram compensações e desfazem tudo na primeira falha.
type ProvisioningService struct {
	users     userStore
	profiles  profileStore
	hospitals hospitalStore
	cache     *cache.Client
}

func NewProvisioningService(users userStore, profiles profileStore, hospitals hospitalStore, cacheClient *cache.Client) *ProvisioningService {
	return &ProvisioningService{
		users:     users,
		profiles:  profiles,
		hospitals: hospitals,
		cache:     cacheClient,
	}
}

// CreateHospital cria um hospital com código de acesso gerado e único
func (s *ProvisioningService) CreateHospital(ctx context.Context, req *models.CreateHospitalRequest) (*models.Hospital, error) {
	exists, err := s.hospitals.CNPJExists(ctx, req.CNPJ)
	if err != nil {
		return nil, fmt.Errorf("erro ao verificar CNPJ: %w", err)
	}
	if exists {
		return nil, ErrCNPJAlreadyExists
	}

	// Gerar código de acesso garantindo unicidade
	code := utils.GenerateHospitalCode()
	for attempts := 0; attempts < 10; attempts++ {
		taken, err := s.hospitals.CodeExists(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("erro ao verificar código de acesso: %w", err)
		}
		if !taken {
			break
		}
		code = utils.GenerateHospitalCode()
		if attempts == 9 {
			return nil, fmt.Errorf("falha ao gerar código de acesso único após 10 tentativas")
		}
	}

	hospital := &models.Hospital{
		Name:             strings.TrimSpace(req.Name),
		CNPJ:             req.CNPJ,
		CodigoAcesso:     code,
		RazaoSocial:      optional(req.RazaoSocial),
		EmailContato:     optional(req.EmailContato),
		Telefone:         optional(req.Telefone),
		CEP:              optional(req.CEP),
		Endereco:         optional(req.Endereco),
		Numero:           optional(req.Numero),
		Bairro:           optional(req.Bairro),
		Cidade:           optional(req.Cidade),
		UF:               optional(strings.ToUpper(req.UF)),
		NomeGestor:       optional(req.NomeGestor),
		DadosFaturamento: optional(req.DadosFaturamento),
	}

	created, err := s.hospitals.CreateHospital(ctx, hospital)
	if err != nil {
		return nil, err
	}

	// Cachear código -> id para o auto-cadastro de colaboradores
	if s.cache != nil {
		if err := s.cache.SetHospitalIDByCode(ctx, created.CodigoAcesso, created.ID.String(), 24*time.Hour); err != nil {
			log.Printf("Erro ao cachear código de acesso %s: %v", created.CodigoAcesso, err)
		}
	}

	return created, nil
}

// DeleteHospital remove um hospital e invalida o cache do código de acesso
func (s *ProvisioningService) DeleteHospital(ctx context.Context, id uuid.UUID) error {
	hospital, err := s.hospitals.GetHospitalByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.hospitals.DeleteHospital(ctx, id); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateHospitalCode(ctx, hospital.CodigoAcesso); err != nil {
			log.Printf("Erro ao invalidar código de acesso %s: %v", hospital.CodigoAcesso, err)
		}
	}

	return nil
}

// CreateHospitalAdmin provisiona a conta do primeiro admin de um hospital.
// Passos: conta -> perfil -> papel admin. O perfil é um upsert idempotente,
// então não há dependência de nenhum gatilho de criação automática.
// Se algum passo falhar depois da conta criada, o hospital recém-criado
// também é removido, preservando o fluxo "hospital + admin" como uma unidade.
func (s *ProvisioningService) CreateHospitalAdmin(ctx context.Context, req *models.CreateHospitalAdminRequest) (*models.SessionUser, error) {
	email := utils.NormalizeEmail(req.Email)

	if _, err := s.hospitals.GetHospitalByID(ctx, req.HospitalID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrHospitalNotFound
		}
		return nil, err
	}

	// Checagem indexada de duplicidade antes de qualquer criação
	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("erro ao verificar email: %w", err)
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar hash da senha: %w", err)
	}

	// Falha na própria criação da conta não tem o que compensar:
	// o hospital recém-criado pelo chamador permanece intacto
	user, err := s.users.CreateUser(ctx, email, passwordHash)
	if err != nil {
		return nil, err
	}

	var sg saga

	// Com a conta criada, uma falha nos passos seguintes desfaz também o
	// hospital recém-criado pelo chamador, para não deixá-lo órfão.
	// O usuário é removido antes do hospital: o perfil referencia hospitals.
	sg.add(func(ctx context.Context) error {
		return s.hospitals.DeleteHospital(ctx, req.HospitalID)
	})
	sg.add(func(ctx context.Context) error {
		return s.users.DeleteUser(ctx, user.ID)
	})

	profile := &models.Profile{
		ID:         user.ID,
		FullName:   strings.TrimSpace(req.FullName),
		HospitalID: &req.HospitalID,
	}
	if err := s.profiles.UpsertProfile(ctx, profile); err != nil {
		sg.rollback(ctx)
		return nil, err
	}

	if err := s.users.AssignRole(ctx, user.ID, models.RoleAdmin); err != nil {
		sg.rollback(ctx)
		return nil, err
	}

	return &models.SessionUser{ID: user.ID, Email: user.Email, FullName: profile.FullName}, nil
}

// CreateStaff cria uma conta de colaborador vinculada ao hospital do chamador.
// O papel atribuído é sempre colaborador; admin nunca é concedido por aqui.
func (s *ProvisioningService) CreateStaff(ctx context.Context, session *models.Session, req *models.CreateStaffRequest) (*models.SessionUser, error) {
	if session.HospitalID == nil {
		return nil, ErrCallerWithoutHospital
	}

	email := utils.NormalizeEmail(req.Email)

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("erro ao verificar email: %w", err)
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	var sg saga

	user, err := s.createAccount(ctx, &sg, email, req.Password)
	if err != nil {
		sg.rollback(ctx)
		return nil, err
	}

	profile := &models.Profile{
		ID:         user.ID,
		FullName:   strings.TrimSpace(req.FullName),
		JobRole:    optional(req.JobRole),
		HospitalID: session.HospitalID,
	}
	if err := s.profiles.UpsertProfile(ctx, profile); err != nil {
		sg.rollback(ctx)
		return nil, err
	}

	if err := s.users.AssignRole(ctx, user.ID, models.RoleColaborador); err != nil {
		sg.rollback(ctx)
		return nil, err
	}

	return &models.SessionUser{ID: user.ID, Email: user.Email, FullName: profile.FullName}, nil
}

// RemoveStaff remove um colaborador do hospital do chamador.
// A ordem dos guards importa: auto-remoção, existência, hospital, papel.
func (s *ProvisioningService) RemoveStaff(ctx context.Context, session *models.Session, targetID uuid.UUID) error {
	if targetID == session.UserID {
		return ErrSelfRemoval
	}

	profile, err := s.profiles.GetProfile(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if session.HospitalID == nil || profile.HospitalID == nil || *profile.HospitalID != *session.HospitalID {
		return ErrDifferentHospital
	}

	roles, err := s.users.GetRoles(ctx, targetID)
	if err != nil {
		return err
	}
	for _, role := range roles {
		if role == models.RoleAdmin || role == models.RoleSuperadmin {
			return ErrManagerTarget
		}
	}

	// Perfil e papéis caem em cascata pela FK
	return s.users.DeleteUser(ctx, targetID)
}

// Signup é o auto-cadastro de colaborador pelo código de acesso do hospital.
// Código inválido e CPF duplicado falham ANTES de qualquer criação de conta.
func (s *ProvisioningService) Signup(ctx context.Context, req *models.SignupRequest) (*models.SessionUser, error) {
	code := strings.ToUpper(strings.TrimSpace(req.HospitalCode))

	hospital, err := s.lookupHospitalByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidHospitalCode
		}
		return nil, err
	}

	cpf := utils.MaskCPF(req.CPF)
	cpfTaken, err := s.profiles.CPFExists(ctx, cpf)
	if err != nil {
		return nil, fmt.Errorf("erro ao verificar CPF: %w", err)
	}
	if cpfTaken {
		return nil, ErrCPFAlreadyExists
	}

	email := utils.NormalizeEmail(req.Email)
	emailTaken, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("erro ao verificar email: %w", err)
	}
	if emailTaken {
		return nil, ErrEmailAlreadyExists
	}

	var sg saga

	user, err := s.createAccount(ctx, &sg, email, req.Password)
	if err != nil {
		sg.rollback(ctx)
		return nil, err
	}

	profile := &models.Profile{
		ID:                 user.ID,
		FullName:           strings.TrimSpace(req.FullName),
		CPF:                &cpf,
		RegistrationNumber: optional(req.RegistrationNumber),
		JobRole:            optional(req.JobRole),
		HospitalID:         &hospital.ID,
	}
	if err := s.profiles.UpsertProfile(ctx, profile); err != nil {
		sg.rollback(ctx)
		return nil, err
	}

	if err := s.users.AssignRole(ctx, user.ID, models.RoleColaborador); err != nil {
		sg.rollback(ctx)
		return nil, err
	}

	return &models.SessionUser{ID: user.ID, Email: user.Email, FullName: profile.FullName}, nil
}

// AddSuperadmin concede o papel superadmin a uma conta existente
func (s *ProvisioningService) AddSuperadmin(ctx context.Context, email string) error {
	user, err := s.users.GetUserByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	return s.users.AssignRole(ctx, user.ID, models.RoleSuperadmin)
}

// createAccount cria a conta e registra sua compensação no saga
func (s *ProvisioningService) createAccount(ctx context.Context, sg *saga, email, password string) (*models.User, error) {
	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar hash da senha: %w", err)
	}

	user, err := s.users.CreateUser(ctx, email, passwordHash)
	if err != nil {
		return nil, err
	}

	sg.add(func(ctx context.Context) error {
		return s.users.DeleteUser(ctx, user.ID)
	})

	return user, nil
}

// lookupHospitalByCode consulta o cache antes do banco
func (s *ProvisioningService) lookupHospitalByCode(ctx context.Context, code string) (*models.Hospital, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetHospitalIDByCode(ctx, code); err == nil && cached != "" {
			if id, err := uuid.Parse(cached); err == nil {
				if hospital, err := s.hospitals.GetHospitalByID(ctx, id); err == nil {
					return hospital, nil
				}
			}
		}
	}

	hospital, err := s.hospitals.GetHospitalByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetHospitalIDByCode(ctx, code, hospital.ID.String(), 24*time.Hour); err != nil {
			log.Printf("Erro ao cachear código de acesso %s: %v", code, err)
		}
	}

	return hospital, nil
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

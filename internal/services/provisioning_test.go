package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Alexandre11021998/Zelo/internal/models"
	"github.com/Alexandre11021998/Zelo/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== mocks =====

type mockUsers struct {
	createCalls   int
	created       []*models.User
	deleted       []uuid.UUID
	assigned      map[uuid.UUID][]models.Role
	roles         map[uuid.UUID][]models.Role
	byEmail       map[string]*models.User
	emailExists   bool
	createErr     error
	assignRoleErr error
	log           *[]string
}

func newMockUsers(log *[]string) *mockUsers {
	return &mockUsers{
		assigned: map[uuid.UUID][]models.Role{},
		roles:    map[uuid.UUID][]models.Role{},
		byEmail:  map[string]*models.User{},
		log:      log,
	}
}

func (m *mockUsers) CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error) {
	m.createCalls++
	if m.createErr != nil {
		return nil, m.createErr
	}
	user := &models.User{ID: uuid.New(), Email: email, PasswordHash: passwordHash}
	m.created = append(m.created, user)
	return user, nil
}

func (m *mockUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := m.byEmail[email]; ok {
		return user, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockUsers) EmailExists(ctx context.Context, email string) (bool, error) {
	return m.emailExists, nil
}

func (m *mockUsers) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	m.deleted = append(m.deleted, userID)
	*m.log = append(*m.log, "delete_user")
	return nil
}

func (m *mockUsers) AssignRole(ctx context.Context, userID uuid.UUID, role models.Role) error {
	if m.assignRoleErr != nil {
		return m.assignRoleErr
	}
	m.assigned[userID] = append(m.assigned[userID], role)
	return nil
}

func (m *mockUsers) GetRoles(ctx context.Context, userID uuid.UUID) ([]models.Role, error) {
	return m.roles[userID], nil
}

type mockProfiles struct {
	upserted  []*models.Profile
	profiles  map[uuid.UUID]*models.Profile
	cpfExists bool
}

func newMockProfiles() *mockProfiles {
	return &mockProfiles{profiles: map[uuid.UUID]*models.Profile{}}
}

func (m *mockProfiles) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	m.upserted = append(m.upserted, profile)
	return nil
}

func (m *mockProfiles) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	if profile, ok := m.profiles[userID]; ok {
		return profile, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockProfiles) CPFExists(ctx context.Context, cpf string) (bool, error) {
	return m.cpfExists, nil
}

type mockHospitals struct {
	byID       map[uuid.UUID]*models.Hospital
	byCode     map[string]*models.Hospital
	cnpjExists bool
	codeTaken  int // quantas primeiras verificações de código retornam tomado
	deleted    []uuid.UUID
	log        *[]string
}

func newMockHospitals(log *[]string) *mockHospitals {
	return &mockHospitals{
		byID:   map[uuid.UUID]*models.Hospital{},
		byCode: map[string]*models.Hospital{},
		log:    log,
	}
}

func (m *mockHospitals) CreateHospital(ctx context.Context, h *models.Hospital) (*models.Hospital, error) {
	h.ID = uuid.New()
	m.byID[h.ID] = h
	m.byCode[h.CodigoAcesso] = h
	return h, nil
}

func (m *mockHospitals) GetHospitalByID(ctx context.Context, id uuid.UUID) (*models.Hospital, error) {
	if h, ok := m.byID[id]; ok {
		return h, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockHospitals) GetHospitalByCode(ctx context.Context, code string) (*models.Hospital, error) {
	if h, ok := m.byCode[code]; ok {
		return h, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockHospitals) CNPJExists(ctx context.Context, cnpj string) (bool, error) {
	return m.cnpjExists, nil
}

func (m *mockHospitals) CodeExists(ctx context.Context, code string) (bool, error) {
	if m.codeTaken > 0 {
		m.codeTaken--
		return true, nil
	}
	return false, nil
}

func (m *mockHospitals) DeleteHospital(ctx context.Context, id uuid.UUID) error {
	m.deleted = append(m.deleted, id)
	*m.log = append(*m.log, "delete_hospital")
	return nil
}

func newService() (*ProvisioningService, *mockUsers, *mockProfiles, *mockHospitals, *[]string) {
	log := &[]string{}
	users := newMockUsers(log)
	profiles := newMockProfiles()
	hospitals := newMockHospitals(log)
	return NewProvisioningService(users, profiles, hospitals, nil), users, profiles, hospitals, log
}

func signupRequest() *models.SignupRequest {
	return &models.SignupRequest{
		HospitalCode: "HOSA7K",
		Email:        "ana@hospital.com",
		Password:     "senha123",
		FullName:     "Ana Souza",
		CPF:          "529.982.247-25",
		JobRole:      "Enfermeira",
	}
}

// ===== signup =====

func TestSignupUnknownCodeFailsBeforeAccountCreation(t *testing.T) {
	svc, users, _, _, _ := newService()

	_, err := svc.Signup(context.Background(), signupRequest())

	assert.ErrorIs(t, err, ErrInvalidHospitalCode)
	assert.Zero(t, users.createCalls, "nenhuma conta deve ser criada com código inválido")
}

func TestSignupDuplicateCPFFailsBeforeAccountCreation(t *testing.T) {
	svc, users, profiles, hospitals, _ := newService()
	hospitals.byCode["HOSA7K"] = &models.Hospital{ID: uuid.New(), CodigoAcesso: "HOSA7K"}
	profiles.cpfExists = true

	_, err := svc.Signup(context.Background(), signupRequest())

	assert.ErrorIs(t, err, ErrCPFAlreadyExists)
	assert.Zero(t, users.createCalls, "nenhuma conta deve ser criada com CPF duplicado")
}

func TestSignupNormalizesCodeInput(t *testing.T) {
	svc, users, profiles, hospitals, _ := newService()
	hospital := &models.Hospital{ID: uuid.New(), CodigoAcesso: "HOSA7K"}
	hospitals.byCode["HOSA7K"] = hospital

	req := signupRequest()
	req.HospitalCode = " hosa7k "

	user, err := svc.Signup(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, profiles.upserted, 1)
	assert.Equal(t, hospital.ID, *profiles.upserted[0].HospitalID)
	assert.Equal(t, []models.Role{models.RoleColaborador}, users.assigned[user.ID])
}

func TestSignupMasksCPFOnProfile(t *testing.T) {
	svc, _, profiles, hospitals, _ := newService()
	hospitals.byCode["HOSA7K"] = &models.Hospital{ID: uuid.New(), CodigoAcesso: "HOSA7K"}

	req := signupRequest()
	req.CPF = "52998224725"

	_, err := svc.Signup(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, profiles.upserted, 1)
	assert.Equal(t, "529.982.247-25", *profiles.upserted[0].CPF)
}

// ===== create hospital =====

func TestCreateHospitalDuplicateCNPJ(t *testing.T) {
	svc, _, _, hospitals, _ := newService()
	hospitals.cnpjExists = true

	_, err := svc.CreateHospital(context.Background(), &models.CreateHospitalRequest{
		Name: "Hospital Central", CNPJ: "12.345.678/0001-90",
	})

	assert.ErrorIs(t, err, ErrCNPJAlreadyExists)
}

func TestCreateHospitalGeneratesUniqueAccessCode(t *testing.T) {
	svc, _, _, hospitals, _ := newService()
	hospitals.codeTaken = 2 // as duas primeiras tentativas colidem

	hospital, err := svc.CreateHospital(context.Background(), &models.CreateHospitalRequest{
		Name: "Hospital Central", CNPJ: "12.345.678/0001-90",
	})

	require.NoError(t, err)
	assert.Regexp(t, `^HOS[A-Z0-9]{3}$`, hospital.CodigoAcesso)
}

func TestDeleteHospitalUnknown(t *testing.T) {
	svc, _, _, hospitals, _ := newService()

	err := svc.DeleteHospital(context.Background(), uuid.New())

	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Empty(t, hospitals.deleted)
}

func TestDeleteHospitalRemovesRow(t *testing.T) {
	svc, _, _, hospitals, _ := newService()
	hospitalID := uuid.New()
	hospitals.byID[hospitalID] = &models.Hospital{ID: hospitalID, CodigoAcesso: "HOSA7K"}

	err := svc.DeleteHospital(context.Background(), hospitalID)

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{hospitalID}, hospitals.deleted)
}

// ===== create hospital admin =====

func TestCreateHospitalAdminUnknownHospital(t *testing.T) {
	svc, users, _, _, _ := newService()

	_, err := svc.CreateHospitalAdmin(context.Background(), &models.CreateHospitalAdminRequest{
		HospitalID: uuid.New(), Email: "admin@hospital.com", Password: "senha123", FullName: "Carlos Lima",
	})

	assert.ErrorIs(t, err, ErrHospitalNotFound)
	assert.Zero(t, users.createCalls)
}

func TestCreateHospitalAdminDuplicateEmail(t *testing.T) {
	svc, users, _, hospitals, _ := newService()
	hospitalID := uuid.New()
	hospitals.byID[hospitalID] = &models.Hospital{ID: hospitalID}
	users.emailExists = true

	_, err := svc.CreateHospitalAdmin(context.Background(), &models.CreateHospitalAdminRequest{
		HospitalID: hospitalID, Email: "admin@hospital.com", Password: "senha123", FullName: "Carlos Lima",
	})

	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	assert.Zero(t, users.createCalls, "nenhuma conta duplicada deve ser criada")
	assert.Empty(t, hospitals.deleted, "checagem de email não dispara compensação")
}

func TestCreateHospitalAdminAssignsAdminRole(t *testing.T) {
	svc, users, profiles, hospitals, _ := newService()
	hospitalID := uuid.New()
	hospitals.byID[hospitalID] = &models.Hospital{ID: hospitalID}

	user, err := svc.CreateHospitalAdmin(context.Background(), &models.CreateHospitalAdminRequest{
		HospitalID: hospitalID, Email: "Admin@Hospital.com", Password: "senha123", FullName: "Carlos Lima",
	})

	require.NoError(t, err)
	assert.Equal(t, "admin@hospital.com", user.Email)
	assert.Equal(t, []models.Role{models.RoleAdmin}, users.assigned[user.ID])
	require.Len(t, profiles.upserted, 1)
	assert.Equal(t, hospitalID, *profiles.upserted[0].HospitalID)
}

func TestCreateHospitalAdminAccountFailureKeepsHospital(t *testing.T) {
	svc, users, _, hospitals, log := newService()
	hospitalID := uuid.New()
	hospitals.byID[hospitalID] = &models.Hospital{ID: hospitalID}
	users.createErr = errors.New("insert failed")

	_, err := svc.CreateHospitalAdmin(context.Background(), &models.CreateHospitalAdminRequest{
		HospitalID: hospitalID, Email: "admin@hospital.com", Password: "senha123", FullName: "Carlos Lima",
	})

	require.Error(t, err)
	// Sem conta criada não há o que compensar: o hospital fica como está
	assert.Empty(t, hospitals.deleted)
	assert.Empty(t, *log)
}

func TestCreateHospitalAdminRollbackRunsInReverseOrder(t *testing.T) {
	svc, users, _, hospitals, log := newService()
	hospitalID := uuid.New()
	hospitals.byID[hospitalID] = &models.Hospital{ID: hospitalID}
	users.assignRoleErr = errors.New("role insert failed")

	_, err := svc.CreateHospitalAdmin(context.Background(), &models.CreateHospitalAdminRequest{
		HospitalID: hospitalID, Email: "admin@hospital.com", Password: "senha123", FullName: "Carlos Lima",
	})

	require.Error(t, err)
	// Compensações em ordem inversa: conta primeiro, hospital depois
	assert.Equal(t, []string{"delete_user", "delete_hospital"}, *log)
	require.Len(t, users.deleted, 1)
	assert.Equal(t, users.created[0].ID, users.deleted[0])
	assert.Equal(t, []uuid.UUID{hospitalID}, hospitals.deleted)
}

// ===== create staff =====

func TestCreateStaffRequiresCallerHospital(t *testing.T) {
	svc, users, _, _, _ := newService()
	session := &models.Session{UserID: uuid.New(), Roles: []models.Role{models.RoleAdmin}}

	_, err := svc.CreateStaff(context.Background(), session, &models.CreateStaffRequest{
		Email: "novo@hospital.com", Password: "senha123", FullName: "Novo Colaborador",
	})

	assert.ErrorIs(t, err, ErrCallerWithoutHospital)
	assert.Zero(t, users.createCalls)
}

func TestCreateStaffNeverGrantsAdmin(t *testing.T) {
	svc, users, profiles, _, _ := newService()
	hospitalID := uuid.New()
	session := &models.Session{UserID: uuid.New(), HospitalID: &hospitalID, Roles: []models.Role{models.RoleAdmin}}

	user, err := svc.CreateStaff(context.Background(), session, &models.CreateStaffRequest{
		Email: "novo@hospital.com", Password: "senha123", FullName: "Novo Colaborador", JobRole: "Técnico",
	})

	require.NoError(t, err)
	assert.Equal(t, []models.Role{models.RoleColaborador}, users.assigned[user.ID])
	require.Len(t, profiles.upserted, 1)
	assert.Equal(t, hospitalID, *profiles.upserted[0].HospitalID)
}

func TestCreateStaffRollbackOnProfileFailure(t *testing.T) {
	svc, users, _, _, _ := newService()
	hospitalID := uuid.New()
	session := &models.Session{UserID: uuid.New(), HospitalID: &hospitalID}
	users.assignRoleErr = errors.New("boom")

	_, err := svc.CreateStaff(context.Background(), session, &models.CreateStaffRequest{
		Email: "novo@hospital.com", Password: "senha123", FullName: "Novo Colaborador",
	})

	require.Error(t, err)
	require.Len(t, users.deleted, 1)
	assert.Equal(t, users.created[0].ID, users.deleted[0])
}

// ===== remove staff =====

func removeStaffFixture() (*ProvisioningService, *mockUsers, *mockProfiles, *models.Session, uuid.UUID) {
	svc, users, profiles, _, _ := newService()
	hospitalID := uuid.New()
	caller := &models.Session{UserID: uuid.New(), HospitalID: &hospitalID, Roles: []models.Role{models.RoleAdmin}}

	targetID := uuid.New()
	profiles.profiles[targetID] = &models.Profile{ID: targetID, FullName: "Alvo", HospitalID: &hospitalID}
	users.roles[targetID] = []models.Role{models.RoleColaborador}

	return svc, users, profiles, caller, targetID
}

func TestRemoveStaffSelfRemoval(t *testing.T) {
	svc, users, _, caller, _ := removeStaffFixture()

	err := svc.RemoveStaff(context.Background(), caller, caller.UserID)

	assert.ErrorIs(t, err, ErrSelfRemoval)
	assert.Empty(t, users.deleted)
}

func TestRemoveStaffUnknownTarget(t *testing.T) {
	svc, users, _, caller, _ := removeStaffFixture()

	err := svc.RemoveStaff(context.Background(), caller, uuid.New())

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Empty(t, users.deleted)
}

func TestRemoveStaffCrossHospital(t *testing.T) {
	svc, users, profiles, caller, targetID := removeStaffFixture()
	otherHospital := uuid.New()
	profiles.profiles[targetID].HospitalID = &otherHospital

	err := svc.RemoveStaff(context.Background(), caller, targetID)

	assert.ErrorIs(t, err, ErrDifferentHospital)
	assert.Empty(t, users.deleted)
}

func TestRemoveStaffManagerTarget(t *testing.T) {
	svc, users, _, caller, targetID := removeStaffFixture()
	users.roles[targetID] = []models.Role{models.RoleColaborador, models.RoleAdmin}

	err := svc.RemoveStaff(context.Background(), caller, targetID)

	assert.ErrorIs(t, err, ErrManagerTarget)
	assert.Empty(t, users.deleted)
}

func TestRemoveStaffHappyPath(t *testing.T) {
	svc, users, _, caller, targetID := removeStaffFixture()

	err := svc.RemoveStaff(context.Background(), caller, targetID)

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{targetID}, users.deleted)
}

// ===== add superadmin =====

func TestAddSuperadminUnknownEmail(t *testing.T) {
	svc, _, _, _, _ := newService()

	err := svc.AddSuperadmin(context.Background(), "ninguem@zelo.com")

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAddSuperadminGrantsRole(t *testing.T) {
	svc, users, _, _, _ := newService()
	user := &models.User{ID: uuid.New(), Email: "gestor@zelo.com"}
	users.byEmail[user.Email] = user

	err := svc.AddSuperadmin(context.Background(), "Gestor@Zelo.com")

	require.NoError(t, err)
	assert.Equal(t, []models.Role{models.RoleSuperadmin}, users.assigned[user.ID])
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOrderHasSixStages(t *testing.T) {
	assert.Len(t, StatusOrder, 6)
	assert.Equal(t, StatusAguardando, StatusOrder[0])
	assert.Equal(t, StatusEmAlta, StatusOrder[5])
}

func TestStepIndexMatchesFixedOrder(t *testing.T) {
	for i, status := range StatusOrder {
		assert.Equal(t, i, status.StepIndex(), "status %s", status)
	}
}

func TestStepIndexUnknownStatus(t *testing.T) {
	assert.Equal(t, -1, PatientStatus("internado").StepIndex())
}

func TestStatusLabels(t *testing.T) {
	expected := map[PatientStatus]string{
		StatusAguardando:              "Aguardando",
		StatusEmPreparacao:            "Em Preparação",
		StatusEmProcedimento:          "Em Procedimento",
		StatusRecuperacaoPosAnestesia: "Recuperação Pós-Anestésica",
		StatusNoQuarto:                "No Quarto",
		StatusEmAlta:                  "Em Alta",
	}

	for status, label := range expected {
		assert.Equal(t, label, status.Label())
	}
}

func TestIsValid(t *testing.T) {
	for _, status := range StatusOrder {
		assert.True(t, status.IsValid())
	}
	assert.False(t, PatientStatus("").IsValid())
	assert.False(t, PatientStatus("alta").IsValid())
}

func TestSessionHasRole(t *testing.T) {
	session := &Session{Roles: []Role{RoleColaborador}}

	assert.True(t, session.HasRole(RoleAdmin, RoleColaborador))
	assert.False(t, session.HasRole(RoleAdmin, RoleSuperadmin))

	// Conta sem papéis nega tudo
	empty := &Session{}
	assert.False(t, empty.HasRole(RoleAdmin, RoleColaborador, RoleSuperadmin, RoleAcompanhante))
}

package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaIsIdempotent(t *testing.T) {
	// Todas as instruções precisam tolerar reexecução na inicialização
	for _, stmt := range []string{"CREATE TABLE", "CREATE INDEX"} {
		count := strings.Count(schema(), stmt)
		withGuard := strings.Count(schema(), stmt+" IF NOT EXISTS")
		assert.Equal(t, count, withGuard, "%s sem IF NOT EXISTS", stmt)
	}
}

func TestSchemaHospitalReferencesHaveDeleteBehavior(t *testing.T) {
	// Excluir um hospital em uso não pode esbarrar em FK sem ação definida:
	// pacientes caem junto, perfis apenas perdem o vínculo
	assert.Contains(t, schema(), "hospital_id UUID NOT NULL REFERENCES hospitals(id) ON DELETE CASCADE")
	assert.Contains(t, schema(), "hospital_id UUID REFERENCES hospitals(id) ON DELETE SET NULL")
}

func TestSchemaUserReferencesCascade(t *testing.T) {
	// Remoção de conta derruba perfil e papéis em cascata
	assert.Contains(t, schema(), "REFERENCES users(id) ON DELETE CASCADE")
}

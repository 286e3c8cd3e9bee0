package services

import (
	"context"
	"log"
)

// saga acumula compensações dos passos já concluídos de um provisionamento.
// Na primeira falha as compensações rodam na ordem inversa do registro.
type saga struct {
	compensations []func(context.Context) error
}

// add registra a compensação do passo que acabou de ser concluído
func (s *saga) add(comp func(context.Context) error) {
	s.compensations = append(s.compensations, comp)
}

// rollback executa as compensações em ordem inversa.
// Falha de compensação é logada e não interrompe as demais.
func (s *saga) rollback(ctx context.Context) {
	for i := len(s.compensations) - 1; i >= 0; i-- {
		if err := s.compensations[i](ctx); err != nil {
			log.Printf("Erro ao executar compensação: %v", err)
		}
	}
}

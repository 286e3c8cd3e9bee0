package models

// PatientStatus representa o estágio do paciente na jornada cirúrgica
type PatientStatus string

const (
	StatusAguardando              PatientStatus = "aguardando"
	StatusEmPreparacao            PatientStatus = "em_preparacao"
	StatusEmProcedimento          PatientStatus = "em_procedimento"
	StatusRecuperacaoPosAnestesia PatientStatus = "recuperacao_pos_anestesica"
	StatusNoQuarto                PatientStatus = "no_quarto"
	StatusEmAlta                  PatientStatus = "em_alta"
)

// StatusOrder é a ordem fixa exibida no stepper do acompanhante.
// Qualquer estágio pode ser atribuído a partir de qualquer outro;
// a ordem existe apenas para apresentação.
var StatusOrder = []PatientStatus{
	StatusAguardando,
	StatusEmPreparacao,
	StatusEmProcedimento,
	StatusRecuperacaoPosAnestesia,
	StatusNoQuarto,
	StatusEmAlta,
}

var statusLabels = map[PatientStatus]string{
	StatusAguardando:              "Aguardando",
	StatusEmPreparacao:            "Em Preparação",
	StatusEmProcedimento:          "Em Procedimento",
	StatusRecuperacaoPosAnestesia: "Recuperação Pós-Anestésica",
	StatusNoQuarto:                "No Quarto",
	StatusEmAlta:                  "Em Alta",
}

// IsValid verifica se o status é um dos seis estágios conhecidos
func (s PatientStatus) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label retorna o rótulo de exibição do status
func (s PatientStatus) Label() string {
	return statusLabels[s]
}

// StepIndex retorna a posição do status no stepper (0-5), ou -1 se desconhecido
func (s PatientStatus) StepIndex() int {
	for i, st := range StatusOrder {
		if st == s {
			return i
		}
	}
	return -1
}

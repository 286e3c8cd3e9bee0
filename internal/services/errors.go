package services

import "errors"

// Erros de domínio mapeados pelos handlers para status HTTP
var (
	// 400
	ErrInvalidHospitalCode   = errors.New("código de acesso inválido")
	ErrCPFAlreadyExists      = errors.New("CPF já cadastrado")
	ErrEmailAlreadyExists    = errors.New("email já cadastrado")
	ErrCNPJAlreadyExists     = errors.New("CNPJ já cadastrado")
	ErrSelfRemoval           = errors.New("você não pode remover a si mesmo")
	ErrCallerWithoutHospital = errors.New("usuário não está vinculado a um hospital")

	// 403
	ErrDifferentHospital = errors.New("usuário pertence a outro hospital")
	ErrManagerTarget     = errors.New("não é permitido remover administradores")

	// 404
	ErrHospitalNotFound = errors.New("hospital não encontrado")
	ErrUserNotFound     = errors.New("usuário não encontrado")
)

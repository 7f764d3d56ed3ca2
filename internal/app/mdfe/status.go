package mdfe

import (
	"fmt"
	"time"

	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/ds"
)

// Transições permitidas do ciclo de vida. Rejeitado volta para em_digitacao
// na correção/reenvio; cancelado e encerrado são terminais.
var transicoesValidas = map[string][]string{
	ds.MDFeStatusRascunho:    {ds.MDFeStatusEmDigitacao, ds.MDFeStatusTransmitido},
	ds.MDFeStatusEmDigitacao: {ds.MDFeStatusTransmitido},
	ds.MDFeStatusTransmitido: {ds.MDFeStatusAutorizado, ds.MDFeStatusRejeitado},
	ds.MDFeStatusAutorizado:  {ds.MDFeStatusCancelado, ds.MDFeStatusEncerrado},
	ds.MDFeStatusRejeitado:   {ds.MDFeStatusEmDigitacao, ds.MDFeStatusTransmitido},
}

// StateMachine - governa as transições de status e grava o histórico
type StateMachine struct{}

// Iniciar - registra o status inicial (rascunho) com entrada no histórico
func (StateMachine) Iniciar(doc *ds.MDFe, motivo string) {
	doc.Status = ds.MDFeStatusRascunho
	doc.Transicoes = append(doc.Transicoes, ds.MDFeTransicao{
		ParaStatus: ds.MDFeStatusRascunho,
		Motivo:     motivo,
		CriadoEm:   time.Now(),
	})
}

// Transicionar - valida e aplica a mudança de status, anexando ao histórico.
// Tentativa inválida devolve ErrTransicaoInvalida com a descrição dos estados.
func (StateMachine) Transicionar(doc *ds.MDFe, para, motivo string) error {
	permitidas, ok := transicoesValidas[doc.Status]
	if !ok {
		return fmt.Errorf("%w: %s é estado terminal", ErrTransicaoInvalida, doc.Status)
	}

	valida := false
	for _, p := range permitidas {
		if p == para {
			valida = true
			break
		}
	}
	if !valida {
		return fmt.Errorf("%w: %s -> %s", ErrTransicaoInvalida, doc.Status, para)
	}

	doc.Transicoes = append(doc.Transicoes, ds.MDFeTransicao{
		MDFeID:     doc.ID,
		DeStatus:   doc.Status,
		ParaStatus: para,
		Motivo:     motivo,
		CriadoEm:   time.Now(),
	})
	doc.Status = para
	return nil
}

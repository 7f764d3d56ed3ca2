package mdfe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/ds"
)

func TestCriar_DocumentoMinimo(t *testing.T) {
	store := novoFakeStoreComCadastro()
	a := NewAssembler(store)

	res, err := a.Criar(payloadMinimo())
	require.NoError(t, err)

	doc := res.Documento
	assert.NotZero(t, doc.ID)
	assert.Equal(t, ds.MDFeStatusRascunho, doc.Status)
	assert.Equal(t, 1, doc.Serie, "série ausente assume 1")
	assert.Equal(t, 1, doc.Numero)
	assert.Len(t, doc.ChaveAcesso, 44)
	assert.True(t, ValidarChaveAcesso(doc.ChaveAcesso))
	assert.Empty(t, res.Ignorados)

	// defaults dos escalares
	assert.Equal(t, 1, doc.TipoEmissao)
	assert.Equal(t, 2, doc.Ambiente)
	assert.Equal(t, 5, doc.TipoCarga)
	assert.Equal(t, 1, doc.UnidadeMedida)
	assert.False(t, doc.DataEmissao.IsZero())
}

func TestCriar_NumeracaoSequencialPorEmitenteESerie(t *testing.T) {
	store := novoFakeStoreComCadastro()
	a := NewAssembler(store)

	primeiro, err := a.Criar(payloadMinimo())
	require.NoError(t, err)
	segundo, err := a.Criar(payloadMinimo())
	require.NoError(t, err)

	assert.Equal(t, 1, primeiro.Documento.Numero)
	assert.Equal(t, 2, segundo.Documento.Numero)
	assert.NotEqual(t, primeiro.Documento.ChaveAcesso, segundo.Documento.ChaveAcesso)
}

func TestCriar_RetentativaAposColisaoDeNumero(t *testing.T) {
	store := novoFakeStoreComCadastro()
	store.duplicarProximoSave = true
	a := NewAssembler(store)

	res, err := a.Criar(payloadMinimo())
	require.NoError(t, err, "uma colisão é absorvida pela retentativa")
	assert.NotZero(t, res.Documento.ID)
}

func TestCriar_NumeroExplicitoNaoRetenta(t *testing.T) {
	store := novoFakeStoreComCadastro()
	a := NewAssembler(store)

	p := payloadMinimo()
	p.Numero = 10
	_, err := a.Criar(p)
	require.NoError(t, err)

	// mesmo número explícito de novo: colide e não realoca
	p2 := payloadMinimo()
	p2.Numero = 10
	_, err = a.Criar(p2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNumeroDuplicado)
}

func TestCriar_ReferenciasObrigatorias(t *testing.T) {
	store := novoFakeStoreComCadastro()
	a := NewAssembler(store)

	casos := []struct {
		nome    string
		mudar   func(*DocumentoPayload)
		esperar error
	}{
		{"sem veiculo", func(p *DocumentoPayload) { p.VeiculoID = 0 }, ErrValidacao},
		{"sem condutor", func(p *DocumentoPayload) { p.CondutorID = 0 }, ErrValidacao},
		{"sem emitente", func(p *DocumentoPayload) { p.EmitenteID = 0 }, ErrValidacao},
		{"emitente inexistente", func(p *DocumentoPayload) { p.EmitenteID = 99 }, ErrNotFound},
		{"veiculo inexistente", func(p *DocumentoPayload) { p.VeiculoID = 99 }, ErrNotFound},
		{"condutor inexistente", func(p *DocumentoPayload) { p.CondutorID = 99 }, ErrNotFound},
	}
	for _, c := range casos {
		t.Run(c.nome, func(t *testing.T) {
			p := payloadMinimo()
			c.mudar(p)
			_, err := a.Criar(p)
			require.Error(t, err)
			assert.ErrorIs(t, err, c.esperar)
		})
	}
}

func TestCriar_ContratanteOpcionalMasDeveExistir(t *testing.T) {
	store := novoFakeStoreComCadastro()
	a := NewAssembler(store)

	id := uint(55)
	p := payloadMinimo()
	p.ContratanteID = &id
	_, err := a.Criar(p)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	store.contratantes[55] = &ds.Contratante{ID: 55, RazaoSocial: "Contratante X"}
	res, err := a.Criar(p)
	require.NoError(t, err)
	require.NotNil(t, res.Documento.ContratanteID)
	assert.Equal(t, uint(55), *res.Documento.ContratanteID)
}

func TestCriar_UFsFicamNulasQuandoAusentes(t *testing.T) {
	store := novoFakeStoreComCadastro()
	a := NewAssembler(store)

	p := payloadMinimo()
	p.UFInicio = nil
	p.UFFim = nil
	res, err := a.Criar(p)
	require.NoError(t, err)

	assert.Nil(t, res.Documento.UFInicio, "UF ausente não assume padrão")
	assert.Nil(t, res.Documento.UFFim)
}

func TestCriar_SnapshotCongelado(t *testing.T) {
	store := novoFakeStoreComCadastro()
	a := NewAssembler(store)

	res, err := a.Criar(payloadMinimo())
	require.NoError(t, err)
	doc := res.Documento

	assert.Equal(t, "Transportes Penapolis LTDA", doc.EmitenteRazaoSocial)
	assert.Equal(t, "12345678000195", doc.EmitenteCNPJ)
	assert.Equal(t, "ABC1D23", doc.VeiculoPlaca)
	assert.Equal(t, 7500, doc.VeiculoTara)
	assert.Equal(t, "João da Silva", doc.CondutorNome)

	// a edição posterior do cadastro não reflete no documento gravado
	store.veiculos[1].Placa = "NOV4A11"
	salvo, err := store.GetMDFe(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "ABC1D23", salvo.VeiculoPlaca)
}

func TestCriar_ComColecoesEItensIgnorados(t *testing.T) {
	store := novoFakeStoreComCadastro()
	a := NewAssembler(store)

	p := payloadMinimo()
	p.Reboques = []uint{2, 777}
	p.ChavesCTe = []string{"chave-a", "chave-b"}
	res, err := a.Criar(p)
	require.NoError(t, err)

	assert.Len(t, res.Documento.Reboques, 1)
	require.Len(t, res.Ignorados, 1)
	assert.Equal(t, "reboques", res.Ignorados[0].Colecao)
	assert.Equal(t, []string{"chave-a", "chave-b"}, LinhasNaoVazias(res.Documento.ChavesCTe))
}

func TestAtualizar_RecompoeEMudaParaEmDigitacao(t *testing.T) {
	store := novoFakeStoreComCadastro()
	a := NewAssembler(store)

	criado, err := a.Criar(payloadMinimo())
	require.NoError(t, err)
	id := criado.Documento.ID
	chaveOriginal := criado.Documento.ChaveAcesso

	p := payloadMinimo()
	p.DescricaoProduto = "Carga refrigerada"
	p.ValesPedagio = []ValePedagioInput{
		{CNPJFornecedor: "11111111000111", NumeroComprovante: "V-009", Valor: 120},
	}
	res, err := a.Atualizar(id, p)
	require.NoError(t, err)

	doc := res.Documento
	assert.Equal(t, ds.MDFeStatusEmDigitacao, doc.Status)
	assert.Equal(t, "Carga refrigerada", doc.DescricaoProduto)
	assert.Len(t, doc.ValesPedagio, 1)

	// identidade fiscal preservada
	assert.Equal(t, criado.Documento.Serie, doc.Serie)
	assert.Equal(t, criado.Documento.Numero, doc.Numero)
	assert.Equal(t, chaveOriginal, doc.ChaveAcesso)
}

func TestAtualizar_RemocaoDeValesZeraLinhas(t *testing.T) {
	store := novoFakeStoreComCadastro()
	a := NewAssembler(store)

	p := payloadMinimo()
	p.ValesPedagio = []ValePedagioInput{
		{CNPJFornecedor: "11111111000111", NumeroComprovante: "V-001", Valor: 100},
		{CNPJFornecedor: "11111111000111", NumeroComprovante: "V-002", Valor: 200},
	}
	criado, err := a.Criar(p)
	require.NoError(t, err)
	require.Len(t, criado.Documento.ValesPedagio, 2)

	res, err := a.Atualizar(criado.Documento.ID, payloadMinimo())
	require.NoError(t, err)
	assert.Empty(t, res.Documento.ValesPedagio)
}

func TestAtualizar_TrocaDeEmitenteRejeitada(t *testing.T) {
	store := novoFakeStoreComCadastro()
	store.emitentes[2] = &ds.Emitente{ID: 2, RazaoSocial: "Outra Transportadora SA", CNPJ: "99888777000166", UF: "PR", TipoEmitente: 2}
	a := NewAssembler(store)

	criado, err := a.Criar(payloadMinimo())
	require.NoError(t, err)
	chaveOriginal := criado.Documento.ChaveAcesso

	p := payloadMinimo()
	p.EmitenteID = 2
	_, err = a.Atualizar(criado.Documento.ID, p)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidacao)

	// a chave embute o CNPJ do emitente original; nada pode ter mudado
	doc := store.docs[criado.Documento.ID]
	assert.Equal(t, uint(1), doc.EmitenteID)
	assert.Equal(t, "12345678000195", doc.EmitenteCNPJ)
	assert.Equal(t, chaveOriginal, doc.ChaveAcesso)
	assert.Contains(t, doc.ChaveAcesso, "12345678000195")
}

func TestAtualizar_NaoEditavelAposAutorizacao(t *testing.T) {
	store := novoFakeStoreComCadastro()
	a := NewAssembler(store)

	criado, err := a.Criar(payloadMinimo())
	require.NoError(t, err)

	// simula autorização direta no armazenamento
	store.docs[criado.Documento.ID].Status = ds.MDFeStatusAutorizado

	_, err = a.Atualizar(criado.Documento.ID, payloadMinimo())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNaoEditavel)
}

func TestAtualizar_DocumentoInexistente(t *testing.T) {
	store := novoFakeStoreComCadastro()
	a := NewAssembler(store)

	_, err := a.Atualizar(404, payloadMinimo())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSalvarRascunho_Upsert(t *testing.T) {
	store := novoFakeStoreComCadastro()
	a := NewAssembler(store)

	// sem ID cria
	res, err := a.SalvarRascunho(payloadMinimo())
	require.NoError(t, err)
	assert.Equal(t, ds.MDFeStatusRascunho, res.Documento.Status)

	// com ID atualiza o mesmo documento
	p := payloadMinimo()
	p.ID = res.Documento.ID
	p.DescricaoProduto = "Atualizado"
	res2, err := a.SalvarRascunho(p)
	require.NoError(t, err)
	assert.Equal(t, res.Documento.ID, res2.Documento.ID)
	assert.Equal(t, "Atualizado", res2.Documento.DescricaoProduto)
	assert.Len(t, store.docs, 1)
}

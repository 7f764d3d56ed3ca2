package mdfe

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/ds"
)

func TestCompor_ReboquesComSnapshot(t *testing.T) {
	store := novoFakeStoreComCadastro()
	c := NewComposer(store)
	doc := &ds.MDFe{}

	ignorados := c.Compor(doc, &DocumentoPayload{Reboques: []uint{2}})

	assert.Empty(t, ignorados)
	require.Len(t, doc.Reboques, 1)
	assert.Equal(t, 1, doc.Reboques[0].Seq)
	assert.Equal(t, uint(2), doc.Reboques[0].VeiculoID)
	assert.Equal(t, "XYZ9K88", doc.Reboques[0].Placa)
	assert.Equal(t, 5000, doc.Reboques[0].Tara)
}

func TestCompor_ReboqueInexistenteEhIgnorado(t *testing.T) {
	store := novoFakeStoreComCadastro()
	c := NewComposer(store)
	doc := &ds.MDFe{}

	ignorados := c.Compor(doc, &DocumentoPayload{Reboques: []uint{2, 999}})

	require.Len(t, doc.Reboques, 1, "o reboque válido persiste")
	require.Len(t, ignorados, 1)
	assert.Equal(t, "reboques", ignorados[0].Colecao)
	assert.Equal(t, 1, ignorados[0].Indice)
	assert.Contains(t, ignorados[0].Motivo, "999")
}

func TestCompor_SubstituicaoIntegral(t *testing.T) {
	store := novoFakeStoreComCadastro()
	c := NewComposer(store)
	doc := &ds.MDFe{
		ValesPedagio: []ds.MDFeValePedagio{
			{Seq: 1, CNPJFornecedor: "11111111000111", NumeroComprovante: "V-OLD", Valor: 100},
		},
	}

	// payload sem vales: a coleção é zerada, não mantida
	ignorados := c.Compor(doc, &DocumentoPayload{})

	assert.Empty(t, ignorados)
	assert.Empty(t, doc.ValesPedagio, "remoção de todos os vales zera as linhas")
}

func TestCompor_MunicipioResolvidoPelaTabelaIBGE(t *testing.T) {
	store := novoFakeStoreComCadastro()
	c := NewComposer(store)
	doc := &ds.MDFe{}

	ignorados := c.Compor(doc, &DocumentoPayload{
		MunicipiosCarregamento: []LocalidadeInput{
			{CodigoIBGE: 3550308, Nome: "nome errado enviado pelo cliente"},
		},
		MunicipiosDescarregamento: []LocalidadeInput{
			{CodigoIBGE: 3509502},
			{CodigoIBGE: 9999999},
		},
	})

	require.Len(t, doc.MunicipiosCarregamento, 1)
	assert.Equal(t, "São Paulo", doc.MunicipiosCarregamento[0].Nome, "nome canônico do cadastro prevalece")

	require.Len(t, doc.MunicipiosDescarregamento, 1)
	assert.Equal(t, "Campinas", doc.MunicipiosDescarregamento[0].Nome)

	require.Len(t, ignorados, 1)
	assert.Equal(t, "municipios_descarregamento", ignorados[0].Colecao)
}

func TestCompor_ValePedagioIncompleto(t *testing.T) {
	store := novoFakeStoreComCadastro()
	c := NewComposer(store)
	doc := &ds.MDFe{}

	ignorados := c.Compor(doc, &DocumentoPayload{
		ValesPedagio: []ValePedagioInput{
			{CNPJFornecedor: "11111111000111", NumeroComprovante: "V-001", Valor: 250.50},
			{CNPJFornecedor: "", NumeroComprovante: "V-002", Valor: 100},
			{CNPJFornecedor: "22222222000122", NumeroComprovante: "V-003", Valor: 0},
		},
	})

	require.Len(t, doc.ValesPedagio, 1)
	assert.Equal(t, "V-001", doc.ValesPedagio[0].NumeroComprovante)
	assert.Equal(t, 1, doc.ValesPedagio[0].TipoVale, "tipo ausente assume TAG")
	assert.Len(t, ignorados, 2)
}

func TestCompor_PagamentoComComponentesEParcelas(t *testing.T) {
	store := novoFakeStoreComCadastro()
	c := NewComposer(store)
	doc := &ds.MDFe{}

	ignorados := c.Compor(doc, &DocumentoPayload{
		Pagamentos: []PagamentoInput{
			{
				Nome:          "Agenciadora de Frete",
				CNPJCPF:       "33333333000133",
				ValorContrato: 5000,
				ChavePIX:      "frete@agencia.com.br",
				Componentes: []ComponentePagamentoInput{
					{Tipo: 1, Valor: 3000},
					{Tipo: 0, Valor: 2000}, // sem tipo, ignorado
				},
				Parcelas: []ParcelaPagamentoInput{
					{Valor: 2500},
					{Valor: 2500},
				},
			},
			{ValorContrato: 0}, // sem valor, ignorado inteiro
		},
	})

	require.Len(t, doc.Pagamentos, 1)
	pag := doc.Pagamentos[0]
	assert.Equal(t, "frete@agencia.com.br", pag.ChavePIX)
	require.Len(t, pag.Componentes, 1)
	assert.Equal(t, 1, pag.Componentes[0].Seq)
	require.Len(t, pag.Parcelas, 2)
	assert.Equal(t, 1, pag.Parcelas[0].NumeroParcela, "parcela sem número recebe o sequencial")
	assert.Equal(t, 2, pag.Parcelas[1].NumeroParcela)

	assert.Len(t, ignorados, 2)
}

func TestCompor_AutorizadosValidaTamanhoDoDocumento(t *testing.T) {
	store := novoFakeStoreComCadastro()
	c := NewComposer(store)
	doc := &ds.MDFe{}

	ignorados := c.Compor(doc, &DocumentoPayload{
		Autorizados: []string{"12345678901", "12345678000195", "123"},
	})

	require.Len(t, doc.Autorizados, 2)
	assert.Equal(t, 1, doc.Autorizados[0].Seq)
	assert.Equal(t, 2, doc.Autorizados[1].Seq)
	require.Len(t, ignorados, 1)
	assert.Equal(t, "autorizados", ignorados[0].Colecao)
}

func TestCompor_RespTecnicoSingleton(t *testing.T) {
	store := novoFakeStoreComCadastro()
	c := NewComposer(store)
	doc := &ds.MDFe{RespTecnico: &ds.MDFeRespTecnico{CNPJ: "antigo"}}

	// sem resp técnico no payload: o existente é removido
	c.Compor(doc, &DocumentoPayload{})
	assert.Nil(t, doc.RespTecnico)

	ignorados := c.Compor(doc, &DocumentoPayload{RespTecnico: &RespTecnicoInput{CNPJ: "44444444000144", Email: "ti@sistema.com"}})
	assert.Empty(t, ignorados)
	require.NotNil(t, doc.RespTecnico)
	assert.Equal(t, "44444444000144", doc.RespTecnico.CNPJ)

	ignorados = c.Compor(doc, &DocumentoPayload{RespTecnico: &RespTecnicoInput{Email: "sem-cnpj@x.com"}})
	assert.Nil(t, doc.RespTecnico)
	require.Len(t, ignorados, 1)
	assert.Equal(t, "resp_tecnico", ignorados[0].Colecao)
}

func TestCompor_UnidadesTransporteComCargaAninhada(t *testing.T) {
	store := novoFakeStoreComCadastro()
	c := NewComposer(store)
	doc := &ds.MDFe{}

	ignorados := c.Compor(doc, &DocumentoPayload{
		UnidadesTransporte: []UnidadeTransporteInput{
			{
				TipoUnidade:   1,
				Identificacao: "CARRETA-01",
				Lacres:        []string{"L-100", "", "L-101"},
				UnidadesCarga: []UnidadeCargaInput{
					{TipoUnidade: 1, Identificacao: "CONT-77", Lacres: []string{"LC-1"}},
					{TipoUnidade: 1}, // sem identificação
				},
			},
		},
	})

	require.Len(t, doc.UnidadesTransporte, 1)
	ut := doc.UnidadesTransporte[0]
	assert.Len(t, ut.Lacres, 2, "lacre vazio é pulado sem aviso")
	require.Len(t, ut.UnidadesCarga, 1)
	assert.Equal(t, "CONT-77", ut.UnidadesCarga[0].Identificacao)
	require.Len(t, ut.UnidadesCarga[0].Lacres, 1)

	require.Len(t, ignorados, 1)
	assert.Equal(t, "unidades_transporte", ignorados[0].Colecao)
}

func TestCompor_SequenciaAninhadaSemLacunasAposDescartes(t *testing.T) {
	store := novoFakeStoreComCadastro()
	c := NewComposer(store)
	doc := &ds.MDFe{}

	ignorados := c.Compor(doc, &DocumentoPayload{
		UnidadesTransporte: []UnidadeTransporteInput{
			{
				TipoUnidade:   1,
				Identificacao: "CARRETA-02",
				Lacres:        []string{"", "L-200", "", "L-201"},
				UnidadesCarga: []UnidadeCargaInput{
					{TipoUnidade: 1, Identificacao: "CONT-01", Lacres: []string{"", "LC-9"}},
					{TipoUnidade: 1}, // sem identificação, descartada
					{TipoUnidade: 1, Identificacao: "CONT-02"},
				},
			},
		},
	})

	require.Len(t, doc.UnidadesTransporte, 1)
	ut := doc.UnidadesTransporte[0]

	require.Len(t, ut.Lacres, 2)
	assert.Equal(t, 1, ut.Lacres[0].Seq)
	assert.Equal(t, 2, ut.Lacres[1].Seq)

	require.Len(t, ut.UnidadesCarga, 2)
	assert.Equal(t, 1, ut.UnidadesCarga[0].Seq)
	assert.Equal(t, 2, ut.UnidadesCarga[1].Seq)

	require.Len(t, ut.UnidadesCarga[0].Lacres, 1)
	assert.Equal(t, 1, ut.UnidadesCarga[0].Lacres[0].Seq)

	require.Len(t, ignorados, 1)
}

func TestCompor_ProdutosPerigosos(t *testing.T) {
	store := novoFakeStoreComCadastro()
	c := NewComposer(store)
	doc := &ds.MDFe{}

	ignorados := c.Compor(doc, &DocumentoPayload{
		ProdutosPerigosos: []ProdutoPerigosoInput{
			{NumeroONU: "1203", NomeApropriado: "Gasolina", QuantidadeTotal: "5000 L"},
			{NumeroONU: "", QuantidadeTotal: "10"},
		},
	})

	require.Len(t, doc.ProdutosPerigosos, 1)
	assert.Equal(t, "1203", doc.ProdutosPerigosos[0].NumeroONU)
	assert.Len(t, ignorados, 1)
}

func TestCompor_EspelhosJSONRegenerados(t *testing.T) {
	store := novoFakeStoreComCadastro()
	c := NewComposer(store)
	doc := &ds.MDFe{}

	c.Compor(doc, &DocumentoPayload{
		ValesPedagio: []ValePedagioInput{
			{CNPJFornecedor: "11111111000111", NumeroComprovante: "V-001", Valor: 300},
		},
		MunicipiosCarregamento: []LocalidadeInput{{CodigoIBGE: 3550308}},
	})

	var vales []map[string]interface{}
	require.NoError(t, json.Unmarshal(doc.ValesPedagioJSON, &vales))
	require.Len(t, vales, 1)
	assert.Equal(t, "V-001", vales[0]["numero_comprovante"])

	var localidades []map[string]interface{}
	require.NoError(t, json.Unmarshal(doc.LocalidadesJSON, &localidades))
	require.Len(t, localidades, 1)
	assert.Equal(t, "carrega", localidades[0]["tipo"])
	assert.Equal(t, "São Paulo", localidades[0]["nome"])

	// remoção do vale some também do espelho
	c.Compor(doc, &DocumentoPayload{})
	require.NoError(t, json.Unmarshal(doc.ValesPedagioJSON, &vales))
	assert.Empty(t, vales, "espelho acompanha as linhas relacionais")
}

package mdfe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/ds"
)

func documentoCompleto() *ds.MDFe {
	uf := "SP"
	ufFim := "PR"
	return &ds.MDFe{
		Serie:       1,
		Numero:      42,
		TipoEmissao: 1,
		Modal:       1,
		Ambiente:    2,
		DataEmissao: time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC),
		UFInicio:    &uf,
		UFFim:       &ufFim,

		EmitenteRazaoSocial: "Transportes Penapolis LTDA",
		EmitenteCNPJ:        "12345678000195",
		EmitenteUF:          "SP",
		VeiculoPlaca:        "ABC1D23",
		VeiculoTara:         7500,
		VeiculoUF:           "SP",
		CondutorNome:        "João da Silva",
		CondutorCPF:         "12345678901",

		DescricaoProduto: "Carga geral",
		TipoCarga:        5,
		PesoBrutoTotal:   12000,
		ValorTotal:       85000,
		UnidadeMedida:    1,

		ChavesCTe: "35260312345678000195570010000001011000001010",

		Reboques: []ds.MDFeReboque{
			{Seq: 1, Placa: "XYZ9K88", Tara: 5000, UF: "SP"},
		},
		MunicipiosCarregamento: []ds.MDFeMunicipioCarregamento{
			{Seq: 1, CodigoIBGE: 3550308, Nome: "São Paulo"},
		},
		MunicipiosDescarregamento: []ds.MDFeMunicipioDescarregamento{
			{Seq: 1, CodigoIBGE: 4106902, Nome: "Curitiba"},
		},
		ValesPedagio: []ds.MDFeValePedagio{
			{Seq: 1, CNPJFornecedor: "11111111000111", NumeroComprovante: "V-001", Valor: 250.5, TipoVale: 1},
		},
		Pagamentos: []ds.MDFePagamento{
			{
				Seq: 1, Nome: "Agenciadora", CNPJCPF: "33333333000133", ValorContrato: 5000,
				ChavePIX: "frete@agencia.com.br",
				Componentes: []ds.MDFeComponentePagamento{{Seq: 1, Tipo: 1, Valor: 5000}},
				Parcelas: []ds.MDFeParcelaPagamento{
					{Seq: 1, NumeroParcela: 1, DataVencimento: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), Valor: 5000},
				},
			},
		},
		Autorizados: []ds.MDFeAutorizado{{Seq: 1, CNPJCPF: "44444444000144"}},
		RespTecnico: &ds.MDFeRespTecnico{CNPJ: "55555555000155", Contato: "Suporte", Email: "ti@sistema.com"},
		ProdutosPerigosos: []ds.MDFeProdutoPerigoso{
			{Seq: 1, NumeroONU: "1203", NomeApropriado: "Gasolina", QuantidadeTotal: "5000 L"},
		},
	}
}

func TestIniGenerator_SecoesPrincipais(t *testing.T) {
	texto := NewIniGenerator().Gerar(documentoCompleto())
	secoes := parseINI(texto)

	ide, ok := secoes["ide"]
	require.True(t, ok)
	assert.Equal(t, "35", ide["cUF"])
	assert.Equal(t, "58", ide["mod"])
	assert.Equal(t, "1", ide["serie"])
	assert.Equal(t, "42", ide["nMDF"])
	assert.Equal(t, "15/03/2026 10:30:00", ide["dhEmi"])
	assert.Equal(t, "SP", ide["UFIni"])
	assert.Equal(t, "PR", ide["UFFim"])

	emit := secoes["emit"]
	assert.Equal(t, "12345678000195", emit["CNPJ"])
	assert.Equal(t, "Transportes Penapolis LTDA", emit["xNome"])

	veic := secoes["veicTracao"]
	assert.Equal(t, "ABC1D23", veic["placa"])
	assert.Equal(t, "7500", veic["tara"])

	cond := secoes["condutor001"]
	assert.Equal(t, "João da Silva", cond["xNome"])
	assert.Equal(t, "12345678901", cond["CPF"])
}

func TestIniGenerator_ColecoesNumeradas(t *testing.T) {
	texto := NewIniGenerator().Gerar(documentoCompleto())
	secoes := parseINI(texto)

	assert.Equal(t, "XYZ9K88", secoes["reboque001"]["placa"])
	assert.Equal(t, "3550308", secoes["infMunCarrega001"]["cMunCarrega"])
	assert.Equal(t, "São Paulo", secoes["infMunCarrega001"]["xMunCarrega"])
	assert.Equal(t, "4106902", secoes["infMunDescarga001"]["cMunDescarga"])
	assert.Equal(t, "35260312345678000195570010000001011000001010", secoes["infCTe001"]["chCTe"])

	vale := secoes["valePed001"]
	assert.Equal(t, "11111111000111", vale["CNPJForn"])
	assert.Equal(t, "250.50", vale["vValePed"])
	assert.Equal(t, "01", vale["tpValePed"])

	pag := secoes["infPag001"]
	assert.Equal(t, "5000.00", pag["vContrato"])
	assert.Equal(t, "frete@agencia.com.br", pag["PIX"])
	assert.Equal(t, "01", secoes["infPag001Comp001"]["tpComp"])
	assert.Equal(t, "01/04/2026", secoes["infPag001Prazo001"]["dVenc"])

	assert.Equal(t, "44444444000144", secoes["autXML001"]["CNPJCPF"])
	assert.Equal(t, "55555555000155", secoes["infRespTec"]["CNPJ"])
	assert.Equal(t, "1203", secoes["peri001"]["nONU"])
}

func TestIniGenerator_Totais(t *testing.T) {
	texto := NewIniGenerator().Gerar(documentoCompleto())
	secoes := parseINI(texto)

	tot := secoes["tot"]
	assert.Equal(t, "1", tot["qCTe"])
	assert.Equal(t, "0", tot["qNFe"])
	assert.Equal(t, "85000.00", tot["vCarga"])
	assert.Equal(t, "12000.00", tot["qCarga"])
	assert.Equal(t, "01", tot["cUnid"])

	prod := secoes["prodPred"]
	assert.Equal(t, "05", prod["tpCarga"])
	assert.Equal(t, "Carga geral", prod["xProd"])
}

func TestIniGenerator_CamposVaziosOmitidos(t *testing.T) {
	doc := documentoCompleto()
	doc.UFInicio = nil
	doc.Seguradora = nil
	doc.RespTecnico = nil
	texto := NewIniGenerator().Gerar(doc)
	secoes := parseINI(texto)

	_, temUFIni := secoes["ide"]["UFIni"]
	assert.False(t, temUFIni, "UF nula não aparece no INI")
	_, temSeg := secoes["seg001"]
	assert.False(t, temSeg)
	_, temRT := secoes["infRespTec"]
	assert.False(t, temRT)
}

func TestIniGenerator_Seguradora(t *testing.T) {
	doc := documentoCompleto()
	doc.Seguradora = &ds.Seguradora{
		RazaoSocial: "Seguradora Nacional", CNPJ: "66666666000166",
		NumeroApolice: "AP-1001", NumeroAverbacao: "AV-2002", ResponsavelSeguro: 1,
	}
	texto := NewIniGenerator().Gerar(doc)
	secoes := parseINI(texto)

	seg := secoes["seg001"]
	require.NotNil(t, seg)
	assert.Equal(t, "Seguradora Nacional", seg["xSeg"])
	assert.Equal(t, "AP-1001", seg["nApol"])
	assert.Equal(t, "1", seg["respSeg"])
}

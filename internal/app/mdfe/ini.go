package mdfe

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/ds"
)

// IniGenerator - renderiza o formato textual canônico de submissão (INI no
// leiaute da ponte ACBr) a partir de um documento carregado com as coleções.
type IniGenerator struct{}

func NewIniGenerator() *IniGenerator {
	return &IniGenerator{}
}

// Gerar - produz o texto INI completo do documento
func (g *IniGenerator) Gerar(doc *ds.MDFe) string {
	var b strings.Builder

	g.secao(&b, "ide", [][2]string{
		{"cUF", strconv.Itoa(codigosUF[doc.EmitenteUF])},
		{"tpAmb", strconv.Itoa(doc.Ambiente)},
		{"tpEmit", strconv.Itoa(tipoEmitenteOuPadrao(doc))},
		{"mod", "58"},
		{"serie", strconv.Itoa(doc.Serie)},
		{"nMDF", strconv.Itoa(doc.Numero)},
		{"modal", strconv.Itoa(doc.Modal)},
		{"dhEmi", doc.DataEmissao.Format("02/01/2006 15:04:05")},
		{"tpEmis", strconv.Itoa(doc.TipoEmissao)},
		{"UFIni", deref(doc.UFInicio)},
		{"UFFim", deref(doc.UFFim)},
		{"dhIniViagem", dataOuVazio(doc.DataInicioViagem)},
	})

	g.secao(&b, "emit", [][2]string{
		{"CNPJ", doc.EmitenteCNPJ},
		{"xNome", doc.EmitenteRazaoSocial},
		{"UF", doc.EmitenteUF},
	})

	g.secao(&b, "veicTracao", [][2]string{
		{"placa", doc.VeiculoPlaca},
		{"tara", strconv.Itoa(doc.VeiculoTara)},
		{"UF", doc.VeiculoUF},
	})

	g.secao(&b, "condutor001", [][2]string{
		{"xNome", doc.CondutorNome},
		{"CPF", doc.CondutorCPF},
	})

	for _, r := range doc.Reboques {
		g.secao(&b, fmt.Sprintf("reboque%03d", r.Seq), [][2]string{
			{"placa", r.Placa},
			{"tara", strconv.Itoa(r.Tara)},
			{"UF", r.UF},
		})
	}

	for _, m := range doc.MunicipiosCarregamento {
		g.secao(&b, fmt.Sprintf("infMunCarrega%03d", m.Seq), [][2]string{
			{"cMunCarrega", strconv.Itoa(m.CodigoIBGE)},
			{"xMunCarrega", m.Nome},
		})
	}

	for _, m := range doc.MunicipiosDescarregamento {
		g.secao(&b, fmt.Sprintf("infMunDescarga%03d", m.Seq), [][2]string{
			{"cMunDescarga", strconv.Itoa(m.CodigoIBGE)},
			{"xMunDescarga", m.Nome},
		})
	}

	for i, chave := range LinhasNaoVazias(doc.ChavesCTe) {
		g.secao(&b, fmt.Sprintf("infCTe%03d", i+1), [][2]string{{"chCTe", chave}})
	}
	for i, chave := range LinhasNaoVazias(doc.ChavesNFe) {
		g.secao(&b, fmt.Sprintf("infNFe%03d", i+1), [][2]string{{"chNFe", chave}})
	}

	for _, v := range doc.ValesPedagio {
		g.secao(&b, fmt.Sprintf("valePed%03d", v.Seq), [][2]string{
			{"CNPJForn", v.CNPJFornecedor},
			{"CNPJPg", v.CNPJPagador},
			{"nCompra", v.NumeroComprovante},
			{"vValePed", valor(v.Valor)},
			{"tpValePed", fmt.Sprintf("%02d", v.TipoVale)},
		})
	}

	for _, p := range doc.Pagamentos {
		g.secao(&b, fmt.Sprintf("infPag%03d", p.Seq), [][2]string{
			{"xNome", p.Nome},
			{"CNPJCPF", p.CNPJCPF},
			{"vContrato", valor(p.ValorContrato)},
			{"indPag", strconv.Itoa(p.TipoPagamento)},
			{"codBanco", p.CodigoBanco},
			{"codAgencia", p.CodigoAgencia},
			{"CNPJIPEF", p.CNPJIPEF},
			{"PIX", p.ChavePIX},
		})
		for _, comp := range p.Componentes {
			g.secao(&b, fmt.Sprintf("infPag%03dComp%03d", p.Seq, comp.Seq), [][2]string{
				{"tpComp", fmt.Sprintf("%02d", comp.Tipo)},
				{"vComp", valor(comp.Valor)},
			})
		}
		for _, parc := range p.Parcelas {
			g.secao(&b, fmt.Sprintf("infPag%03dPrazo%03d", p.Seq, parc.Seq), [][2]string{
				{"nParcela", fmt.Sprintf("%03d", parc.NumeroParcela)},
				{"dVenc", parc.DataVencimento.Format("02/01/2006")},
				{"vParcela", valor(parc.Valor)},
			})
		}
	}

	for _, a := range doc.Autorizados {
		g.secao(&b, fmt.Sprintf("autXML%03d", a.Seq), [][2]string{{"CNPJCPF", a.CNPJCPF}})
	}

	for _, ut := range doc.UnidadesTransporte {
		g.secao(&b, fmt.Sprintf("infUnidTransp%03d", ut.Seq), [][2]string{
			{"tpUnidTransp", strconv.Itoa(ut.TipoUnidade)},
			{"idUnidTransp", ut.Identificacao},
			{"qtdRat", valor(ut.QuantidadeRateada)},
		})
		for _, l := range ut.Lacres {
			g.secao(&b, fmt.Sprintf("lacUnidTransp%03d%03d", ut.Seq, l.Seq), [][2]string{{"nLacre", l.Numero}})
		}
		for _, uc := range ut.UnidadesCarga {
			g.secaoUnidadeCarga(&b, fmt.Sprintf("infUnidCarga%03d%03d", ut.Seq, uc.Seq), uc)
		}
	}

	for _, uc := range doc.UnidadesCarga {
		g.secaoUnidadeCarga(&b, fmt.Sprintf("infUnidCarga%03d", uc.Seq), uc)
	}

	for _, pp := range doc.ProdutosPerigosos {
		g.secao(&b, fmt.Sprintf("peri%03d", pp.Seq), [][2]string{
			{"nONU", pp.NumeroONU},
			{"xNomeAE", pp.NomeApropriado},
			{"xClaRisco", pp.Classe},
			{"grEmb", pp.GrupoEmbalagem},
			{"qTotProd", pp.QuantidadeTotal},
			{"qVolTipo", pp.QuantidadeTipoVolume},
		})
	}

	if s := doc.Seguradora; s != nil {
		g.secao(&b, "seg001", [][2]string{
			{"respSeg", strconv.Itoa(s.ResponsavelSeguro)},
			{"xSeg", s.RazaoSocial},
			{"CNPJ", s.CNPJ},
			{"nApol", s.NumeroApolice},
			{"nAver", s.NumeroAverbacao},
		})
	}

	g.secao(&b, "prodPred", [][2]string{
		{"tpCarga", fmt.Sprintf("%02d", doc.TipoCarga)},
		{"xProd", doc.DescricaoProduto},
	})

	g.secao(&b, "tot", [][2]string{
		{"qCTe", strconv.Itoa(len(LinhasNaoVazias(doc.ChavesCTe)))},
		{"qNFe", strconv.Itoa(len(LinhasNaoVazias(doc.ChavesNFe)))},
		{"vCarga", valor(doc.ValorTotal)},
		{"cUnid", fmt.Sprintf("%02d", doc.UnidadeMedida)},
		{"qCarga", valor(doc.PesoBrutoTotal)},
	})

	if rt := doc.RespTecnico; rt != nil {
		g.secao(&b, "infRespTec", [][2]string{
			{"CNPJ", rt.CNPJ},
			{"xContato", rt.Contato},
			{"email", rt.Email},
			{"fone", rt.Telefone},
		})
	}

	return b.String()
}

func (g *IniGenerator) secaoUnidadeCarga(b *strings.Builder, nome string, uc ds.MDFeUnidadeCarga) {
	g.secao(b, nome, [][2]string{
		{"tpUnidCarga", strconv.Itoa(uc.TipoUnidade)},
		{"idUnidCarga", uc.Identificacao},
		{"qtdRat", valor(uc.QuantidadeRateada)},
	})
	for _, l := range uc.Lacres {
		g.secao(b, fmt.Sprintf("lac%s%03d", strings.TrimPrefix(nome, "inf"), l.Seq), [][2]string{{"nLacre", l.Numero}})
	}
}

// secao - escreve uma seção INI pulando pares com valor vazio
func (g *IniGenerator) secao(b *strings.Builder, nome string, pares [][2]string) {
	fmt.Fprintf(b, "[%s]\n", nome)
	for _, par := range pares {
		if par[1] == "" {
			continue
		}
		fmt.Fprintf(b, "%s=%s\n", par[0], par[1])
	}
	b.WriteString("\n")
}

func dataOuVazio(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006 15:04:05")
}

func valor(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func tipoEmitenteOuPadrao(doc *ds.MDFe) int {
	if doc.Emitente != nil && doc.Emitente.TipoEmitente > 0 {
		return doc.Emitente.TipoEmitente
	}
	return 2
}

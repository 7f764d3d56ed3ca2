package mdfe

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/ds"
)

// ItemIgnorado - item de coleção filha descartado durante a composição.
// Política deliberadamente leniente: itens incompletos e referências não
// resolvidas não derrubam a gravação, viram avisos que o chamador pode
// inspecionar.
type ItemIgnorado struct {
	Colecao string `json:"colecao"`
	Indice  int    `json:"indice"`
	Motivo  string `json:"motivo"`
}

// Composer - reconstrói as coleções filhas do documento a partir do payload.
// Cada coleção é substituída integralmente: zera e remonta com Seq a partir
// de 1, nunca faz diff incremental.
type Composer struct {
	store Store
}

func NewComposer(store Store) *Composer {
	return &Composer{store: store}
}

// Compor - monta todas as coleções filhas e regenera os espelhos JSON.
// Devolve os itens ignorados para o chamador registrar/retornar.
func (c *Composer) Compor(doc *ds.MDFe, p *DocumentoPayload) []ItemIgnorado {
	var ignorados []ItemIgnorado

	ignorados = append(ignorados, c.comporReboques(doc, p.Reboques)...)
	ignorados = append(ignorados, c.comporMunicipiosCarregamento(doc, p.MunicipiosCarregamento)...)
	ignorados = append(ignorados, c.comporMunicipiosDescarregamento(doc, p.MunicipiosDescarregamento)...)
	ignorados = append(ignorados, c.comporValesPedagio(doc, p.ValesPedagio)...)
	ignorados = append(ignorados, c.comporPagamentos(doc, p.Pagamentos)...)
	ignorados = append(ignorados, c.comporAutorizados(doc, p.Autorizados)...)
	ignorados = append(ignorados, c.comporRespTecnico(doc, p.RespTecnico)...)
	ignorados = append(ignorados, c.comporUnidadesTransporte(doc, p.UnidadesTransporte)...)
	ignorados = append(ignorados, c.comporUnidadesCarga(doc, p.UnidadesCarga)...)
	ignorados = append(ignorados, c.comporProdutosPerigosos(doc, p.ProdutosPerigosos)...)

	c.regenerarEspelhos(doc)

	for _, ig := range ignorados {
		logrus.Warnf("mdfe: item ignorado em %s[%d]: %s", ig.Colecao, ig.Indice, ig.Motivo)
	}
	return ignorados
}

func (c *Composer) comporReboques(doc *ds.MDFe, ids []uint) []ItemIgnorado {
	var ignorados []ItemIgnorado
	doc.Reboques = nil

	seq := 0
	for i, id := range ids {
		veiculo, err := c.store.GetVeiculo(id)
		if err != nil {
			ignorados = append(ignorados, ItemIgnorado{"reboques", i, fmt.Sprintf("veículo %d não encontrado", id)})
			continue
		}
		seq++
		doc.Reboques = append(doc.Reboques, ds.MDFeReboque{
			Seq:       seq,
			VeiculoID: veiculo.ID,
			Placa:     veiculo.Placa,
			Tara:      veiculo.Tara,
			UF:        veiculo.UF,
		})
	}
	return ignorados
}

func (c *Composer) comporMunicipiosCarregamento(doc *ds.MDFe, entradas []LocalidadeInput) []ItemIgnorado {
	var ignorados []ItemIgnorado
	doc.MunicipiosCarregamento = nil

	seq := 0
	for i, e := range entradas {
		nome, motivo := c.resolverMunicipio(e)
		if motivo != "" {
			ignorados = append(ignorados, ItemIgnorado{"municipios_carregamento", i, motivo})
			continue
		}
		seq++
		doc.MunicipiosCarregamento = append(doc.MunicipiosCarregamento, ds.MDFeMunicipioCarregamento{
			Seq:        seq,
			CodigoIBGE: e.CodigoIBGE,
			Nome:       nome,
		})
	}
	return ignorados
}

func (c *Composer) comporMunicipiosDescarregamento(doc *ds.MDFe, entradas []LocalidadeInput) []ItemIgnorado {
	var ignorados []ItemIgnorado
	doc.MunicipiosDescarregamento = nil

	seq := 0
	for i, e := range entradas {
		nome, motivo := c.resolverMunicipio(e)
		if motivo != "" {
			ignorados = append(ignorados, ItemIgnorado{"municipios_descarregamento", i, motivo})
			continue
		}
		seq++
		doc.MunicipiosDescarregamento = append(doc.MunicipiosDescarregamento, ds.MDFeMunicipioDescarregamento{
			Seq:        seq,
			CodigoIBGE: e.CodigoIBGE,
			Nome:       nome,
		})
	}
	return ignorados
}

// resolverMunicipio - resolve a localidade pela tabela IBGE; o nome canônico
// do cadastro prevalece sobre o informado.
func (c *Composer) resolverMunicipio(e LocalidadeInput) (nome, motivo string) {
	if e.CodigoIBGE <= 0 {
		return "", "código IBGE ausente"
	}
	m, err := c.store.GetMunicipioPorCodigo(e.CodigoIBGE)
	if err != nil {
		return "", fmt.Sprintf("município %d não cadastrado", e.CodigoIBGE)
	}
	return m.Nome, ""
}

func (c *Composer) comporValesPedagio(doc *ds.MDFe, entradas []ValePedagioInput) []ItemIgnorado {
	var ignorados []ItemIgnorado
	doc.ValesPedagio = nil

	seq := 0
	for i, e := range entradas {
		if e.CNPJFornecedor == "" || e.NumeroComprovante == "" || e.Valor <= 0 {
			ignorados = append(ignorados, ItemIgnorado{"vales_pedagio", i, "fornecedor, comprovante e valor são obrigatórios"})
			continue
		}
		tipo := e.TipoVale
		if tipo == 0 {
			tipo = 1
		}
		seq++
		doc.ValesPedagio = append(doc.ValesPedagio, ds.MDFeValePedagio{
			Seq:               seq,
			CNPJFornecedor:    e.CNPJFornecedor,
			CNPJPagador:       e.CNPJPagador,
			NumeroComprovante: e.NumeroComprovante,
			Valor:             e.Valor,
			TipoVale:          tipo,
		})
	}
	return ignorados
}

func (c *Composer) comporPagamentos(doc *ds.MDFe, entradas []PagamentoInput) []ItemIgnorado {
	var ignorados []ItemIgnorado
	doc.Pagamentos = nil

	seq := 0
	for i, e := range entradas {
		if e.ValorContrato <= 0 {
			ignorados = append(ignorados, ItemIgnorado{"pagamentos", i, "valor do contrato é obrigatório"})
			continue
		}
		seq++
		pag := ds.MDFePagamento{
			Seq:           seq,
			Nome:          e.Nome,
			CNPJCPF:       e.CNPJCPF,
			TipoPagamento: e.TipoPagamento,
			ValorContrato: e.ValorContrato,
			CodigoBanco:   e.CodigoBanco,
			CodigoAgencia: e.CodigoAgencia,
			CNPJIPEF:      e.CNPJIPEF,
			ChavePIX:      e.ChavePIX,
		}

		compSeq := 0
		for j, comp := range e.Componentes {
			if comp.Tipo <= 0 || comp.Valor <= 0 {
				ignorados = append(ignorados, ItemIgnorado{"pagamentos", i, fmt.Sprintf("componente %d sem tipo ou valor", j)})
				continue
			}
			compSeq++
			pag.Componentes = append(pag.Componentes, ds.MDFeComponentePagamento{
				Seq:   compSeq,
				Tipo:  comp.Tipo,
				Valor: comp.Valor,
			})
		}

		parcSeq := 0
		for j, parc := range e.Parcelas {
			if parc.Valor <= 0 {
				ignorados = append(ignorados, ItemIgnorado{"pagamentos", i, fmt.Sprintf("parcela %d sem valor", j)})
				continue
			}
			parcSeq++
			numero := parc.NumeroParcela
			if numero == 0 {
				numero = parcSeq
			}
			pag.Parcelas = append(pag.Parcelas, ds.MDFeParcelaPagamento{
				Seq:            parcSeq,
				NumeroParcela:  numero,
				DataVencimento: parc.DataVencimento,
				Valor:          parc.Valor,
			})
		}

		doc.Pagamentos = append(doc.Pagamentos, pag)
	}
	return ignorados
}

func (c *Composer) comporAutorizados(doc *ds.MDFe, documentos []string) []ItemIgnorado {
	var ignorados []ItemIgnorado
	doc.Autorizados = nil

	seq := 0
	for i, d := range documentos {
		if len(d) != 11 && len(d) != 14 {
			ignorados = append(ignorados, ItemIgnorado{"autorizados", i, "documento deve ser CPF (11) ou CNPJ (14)"})
			continue
		}
		seq++
		doc.Autorizados = append(doc.Autorizados, ds.MDFeAutorizado{Seq: seq, CNPJCPF: d})
	}
	return ignorados
}

func (c *Composer) comporRespTecnico(doc *ds.MDFe, e *RespTecnicoInput) []ItemIgnorado {
	doc.RespTecnico = nil
	if e == nil {
		return nil
	}
	if e.CNPJ == "" {
		return []ItemIgnorado{{"resp_tecnico", 0, "CNPJ do responsável técnico é obrigatório"}}
	}
	doc.RespTecnico = &ds.MDFeRespTecnico{
		CNPJ:     e.CNPJ,
		Contato:  e.Contato,
		Email:    e.Email,
		Telefone: e.Telefone,
		IDCSRT:   e.IDCSRT,
		HashCSRT: e.HashCSRT,
	}
	return nil
}

func (c *Composer) comporUnidadesTransporte(doc *ds.MDFe, entradas []UnidadeTransporteInput) []ItemIgnorado {
	var ignorados []ItemIgnorado
	doc.UnidadesTransporte = nil

	seq := 0
	for i, e := range entradas {
		if e.Identificacao == "" || e.TipoUnidade <= 0 {
			ignorados = append(ignorados, ItemIgnorado{"unidades_transporte", i, "identificação e tipo são obrigatórios"})
			continue
		}
		seq++
		ut := ds.MDFeUnidadeTransporte{
			Seq:               seq,
			TipoUnidade:       e.TipoUnidade,
			Identificacao:     e.Identificacao,
			QuantidadeRateada: e.QuantidadeRateada,
		}
		seqLacre := 0
		for _, lacre := range e.Lacres {
			if lacre == "" {
				continue
			}
			seqLacre++
			ut.Lacres = append(ut.Lacres, ds.MDFeLacreUnidadeTransporte{Seq: seqLacre, Numero: lacre})
		}
		seqUC := 0
		for _, uc := range e.UnidadesCarga {
			montada, motivo := montarUnidadeCarga(uc, seqUC+1)
			if motivo != "" {
				ignorados = append(ignorados, ItemIgnorado{"unidades_transporte", i, motivo})
				continue
			}
			seqUC++
			ut.UnidadesCarga = append(ut.UnidadesCarga, montada)
		}
		doc.UnidadesTransporte = append(doc.UnidadesTransporte, ut)
	}
	return ignorados
}

func (c *Composer) comporUnidadesCarga(doc *ds.MDFe, entradas []UnidadeCargaInput) []ItemIgnorado {
	var ignorados []ItemIgnorado
	doc.UnidadesCarga = nil

	seq := 0
	for i, e := range entradas {
		montada, motivo := montarUnidadeCarga(e, seq+1)
		if motivo != "" {
			ignorados = append(ignorados, ItemIgnorado{"unidades_carga", i, motivo})
			continue
		}
		seq++
		doc.UnidadesCarga = append(doc.UnidadesCarga, montada)
	}
	return ignorados
}

func montarUnidadeCarga(e UnidadeCargaInput, seq int) (ds.MDFeUnidadeCarga, string) {
	if e.Identificacao == "" || e.TipoUnidade <= 0 {
		return ds.MDFeUnidadeCarga{}, "unidade de carga sem identificação ou tipo"
	}
	uc := ds.MDFeUnidadeCarga{
		Seq:               seq,
		TipoUnidade:       e.TipoUnidade,
		Identificacao:     e.Identificacao,
		QuantidadeRateada: e.QuantidadeRateada,
	}
	seqLacre := 0
	for _, lacre := range e.Lacres {
		if lacre == "" {
			continue
		}
		seqLacre++
		uc.Lacres = append(uc.Lacres, ds.MDFeLacreUnidadeCarga{Seq: seqLacre, Numero: lacre})
	}
	return uc, ""
}

func (c *Composer) comporProdutosPerigosos(doc *ds.MDFe, entradas []ProdutoPerigosoInput) []ItemIgnorado {
	var ignorados []ItemIgnorado
	doc.ProdutosPerigosos = nil

	seq := 0
	for i, e := range entradas {
		if e.NumeroONU == "" || e.QuantidadeTotal == "" {
			ignorados = append(ignorados, ItemIgnorado{"produtos_perigosos", i, "número ONU e quantidade total são obrigatórios"})
			continue
		}
		seq++
		doc.ProdutosPerigosos = append(doc.ProdutosPerigosos, ds.MDFeProdutoPerigoso{
			Seq:                  seq,
			NumeroONU:            e.NumeroONU,
			NomeApropriado:       e.NomeApropriado,
			Classe:               e.Classe,
			GrupoEmbalagem:       e.GrupoEmbalagem,
			QuantidadeTotal:      e.QuantidadeTotal,
			QuantidadeTipoVolume: e.QuantidadeTipoVolume,
		})
	}
	return ignorados
}

// regenerarEspelhos - refaz as colunas JSON a partir das linhas relacionais.
// A fonte de verdade é sempre a linha relacional; o espelho existe só para
// leituras sem join e nunca é escrito por fora deste ponto.
func (c *Composer) regenerarEspelhos(doc *ds.MDFe) {
	type valeEspelho struct {
		Seq               int     `json:"seq"`
		CNPJFornecedor    string  `json:"cnpj_fornecedor"`
		NumeroComprovante string  `json:"numero_comprovante"`
		Valor             float64 `json:"valor"`
	}
	vales := make([]valeEspelho, 0, len(doc.ValesPedagio))
	for _, v := range doc.ValesPedagio {
		vales = append(vales, valeEspelho{v.Seq, v.CNPJFornecedor, v.NumeroComprovante, v.Valor})
	}
	doc.ValesPedagioJSON, _ = json.Marshal(vales)

	type componenteEspelho struct {
		Pagamento int     `json:"pagamento"`
		Tipo      int     `json:"tipo"`
		Valor     float64 `json:"valor"`
	}
	type pagamentoEspelho struct {
		Seq           int                 `json:"seq"`
		Nome          string              `json:"nome"`
		ValorContrato float64             `json:"valor_contrato"`
		Componentes   []componenteEspelho `json:"componentes"`
	}
	pagamentos := make([]pagamentoEspelho, 0, len(doc.Pagamentos))
	for _, p := range doc.Pagamentos {
		pe := pagamentoEspelho{Seq: p.Seq, Nome: p.Nome, ValorContrato: p.ValorContrato}
		for _, comp := range p.Componentes {
			pe.Componentes = append(pe.Componentes, componenteEspelho{p.Seq, comp.Tipo, comp.Valor})
		}
		pagamentos = append(pagamentos, pe)
	}
	doc.PagamentosJSON, _ = json.Marshal(pagamentos)

	type localidadeEspelho struct {
		Tipo       string `json:"tipo"` // carrega | descarrega
		Seq        int    `json:"seq"`
		CodigoIBGE int    `json:"codigo_ibge"`
		Nome       string `json:"nome"`
	}
	localidades := make([]localidadeEspelho, 0, len(doc.MunicipiosCarregamento)+len(doc.MunicipiosDescarregamento))
	for _, m := range doc.MunicipiosCarregamento {
		localidades = append(localidades, localidadeEspelho{"carrega", m.Seq, m.CodigoIBGE, m.Nome})
	}
	for _, m := range doc.MunicipiosDescarregamento {
		localidades = append(localidades, localidadeEspelho{"descarrega", m.Seq, m.CodigoIBGE, m.Nome})
	}
	doc.LocalidadesJSON, _ = json.Marshal(localidades)
}

package mdfe

import (
	"time"

	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/ds"
)

// DocumentoPayload - entrada completa para montagem de um MDFe.
// ID zero cria um documento novo; diferente de zero atualiza o existente
// (semântica de "salvar rascunho" em uma chamada só).
type DocumentoPayload struct {
	ID uint `json:"id"`

	EmitenteID    uint  `json:"emitente_id"`
	VeiculoID     uint  `json:"veiculo_id"`
	CondutorID    uint  `json:"condutor_id"`
	ContratanteID *uint `json:"contratante_id"`
	SeguradoraID  *uint `json:"seguradora_id"`

	Serie  int `json:"serie"`
	Numero int `json:"numero"` // zero = alocar o próximo da série

	TipoEmissao int `json:"tipo_emissao"`
	Ambiente    int `json:"ambiente"`

	DataEmissao      time.Time `json:"data_emissao"`
	DataInicioViagem time.Time `json:"data_inicio_viagem"`

	UFInicio *string `json:"uf_inicio"`
	UFFim    *string `json:"uf_fim"`

	CodigoMunicipioCarregamento    int    `json:"codigo_municipio_carregamento"`
	CodigoMunicipioDescarregamento int    `json:"codigo_municipio_descarregamento"`
	CEPCarregamento                string `json:"cep_carregamento"`
	CEPDescarregamento             string `json:"cep_descarregamento"`

	DescricaoProduto string  `json:"descricao_produto"`
	TipoCarga        int     `json:"tipo_carga"`
	PesoBrutoTotal   float64 `json:"peso_bruto_total"`
	ValorTotal       float64 `json:"valor_total"`
	UnidadeMedida    int     `json:"unidade_medida"`
	InfoAdicional    string  `json:"info_adicional"`
	InfoFisco        string  `json:"info_fisco"`

	ChavesCTe []string `json:"chaves_cte"`
	ChavesNFe []string `json:"chaves_nfe"`
	Rota      []string `json:"rota"`

	Reboques                  []uint                   `json:"reboques"` // ids de veículos
	MunicipiosCarregamento    []LocalidadeInput        `json:"municipios_carregamento"`
	MunicipiosDescarregamento []LocalidadeInput        `json:"municipios_descarregamento"`
	ValesPedagio              []ValePedagioInput       `json:"vales_pedagio"`
	Pagamentos                []PagamentoInput         `json:"pagamentos"`
	Autorizados               []string                 `json:"autorizados"` // CNPJ/CPF
	RespTecnico               *RespTecnicoInput        `json:"resp_tecnico"`
	UnidadesTransporte        []UnidadeTransporteInput `json:"unidades_transporte"`
	UnidadesCarga             []UnidadeCargaInput      `json:"unidades_carga"`
	ProdutosPerigosos         []ProdutoPerigosoInput   `json:"produtos_perigosos"`
}

// LocalidadeInput - referência a município por chave natural (código IBGE)
type LocalidadeInput struct {
	CodigoIBGE int    `json:"codigo_ibge"`
	Nome       string `json:"nome"`
}

type ValePedagioInput struct {
	CNPJFornecedor    string  `json:"cnpj_fornecedor"`
	CNPJPagador       string  `json:"cnpj_pagador"`
	NumeroComprovante string  `json:"numero_comprovante"`
	Valor             float64 `json:"valor"`
	TipoVale          int     `json:"tipo_vale"`
}

type ComponentePagamentoInput struct {
	Tipo  int     `json:"tipo"`
	Valor float64 `json:"valor"`
}

type ParcelaPagamentoInput struct {
	NumeroParcela  int       `json:"numero_parcela"`
	DataVencimento time.Time `json:"data_vencimento"`
	Valor          float64   `json:"valor"`
}

type PagamentoInput struct {
	Nome          string  `json:"nome"`
	CNPJCPF       string  `json:"cnpj_cpf"`
	TipoPagamento int     `json:"tipo_pagamento"`
	ValorContrato float64 `json:"valor_contrato"`

	CodigoBanco   string `json:"codigo_banco"`
	CodigoAgencia string `json:"codigo_agencia"`
	CNPJIPEF      string `json:"cnpj_ipef"`
	ChavePIX      string `json:"chave_pix"`

	Componentes []ComponentePagamentoInput `json:"componentes"`
	Parcelas    []ParcelaPagamentoInput    `json:"parcelas"`
}

type RespTecnicoInput struct {
	CNPJ     string `json:"cnpj"`
	Contato  string `json:"contato"`
	Email    string `json:"email"`
	Telefone string `json:"telefone"`
	IDCSRT   int    `json:"id_csrt"`
	HashCSRT string `json:"hash_csrt"`
}

type UnidadeCargaInput struct {
	TipoUnidade       int      `json:"tipo_unidade"`
	Identificacao     string   `json:"identificacao"`
	QuantidadeRateada float64  `json:"quantidade_rateada"`
	Lacres            []string `json:"lacres"`
}

type UnidadeTransporteInput struct {
	TipoUnidade       int                 `json:"tipo_unidade"`
	Identificacao     string              `json:"identificacao"`
	QuantidadeRateada float64             `json:"quantidade_rateada"`
	Lacres            []string            `json:"lacres"`
	UnidadesCarga     []UnidadeCargaInput `json:"unidades_carga"`
}

type ProdutoPerigosoInput struct {
	NumeroONU            string `json:"numero_onu"`
	NomeApropriado       string `json:"nome_apropriado"`
	Classe               string `json:"classe"`
	GrupoEmbalagem       string `json:"grupo_embalagem"`
	QuantidadeTotal      string `json:"quantidade_total"`
	QuantidadeTipoVolume string `json:"quantidade_tipo_volume"`
}

// Store - fronteira de persistência consumida pelo motor. Implementada pelo
// repositório GORM; nos testes, por um fake em memória.
type Store interface {
	GetEmitente(id uint) (*ds.Emitente, error)
	GetVeiculo(id uint) (*ds.Veiculo, error)
	GetCondutor(id uint) (*ds.Condutor, error)
	GetContratante(id uint) (*ds.Contratante, error)
	GetSeguradora(id uint) (*ds.Seguradora, error)
	GetMunicipioPorCodigo(codigoIBGE int) (*ds.Municipio, error)

	// MaxNumero retorna o maior número já atribuído para (emitente, série)
	// entre documentos não deletados, ou zero se não houver nenhum.
	MaxNumero(emitenteID uint, serie int) (int, error)

	GetMDFe(id uint) (*ds.MDFe, error)

	// SaveMDFe persiste o agregado substituindo integralmente as coleções
	// filhas. Deve devolver ErrNumeroDuplicado em violação do índice único
	// (emitente, série, número).
	SaveMDFe(doc *ds.MDFe) error
}

package ds

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Status do ciclo de vida do MDFe.
//
// rascunho/em_digitacao são os únicos estados editáveis localmente;
// autorizado é pré-condição para cancelar/encerrar.
const (
	MDFeStatusRascunho    = "rascunho"
	MDFeStatusEmDigitacao = "em_digitacao"
	MDFeStatusTransmitido = "transmitido"
	MDFeStatusAutorizado  = "autorizado"
	MDFeStatusRejeitado   = "rejeitado"
	MDFeStatusCancelado   = "cancelado"
	MDFeStatusEncerrado   = "encerrado"
)

// MDFe - manifesto eletrônico de documentos fiscais (agregado raiz).
//
// (EmitenteID, Serie, Numero) é único entre registros não deletados; a chave
// de acesso de 44 dígitos é gerada uma única vez após a numeração.
type MDFe struct {
	ID uint `json:"id" gorm:"primaryKey"`

	// Identificação
	Serie       int    `json:"serie" gorm:"not null;uniqueIndex:idx_mdfe_emitente_serie_numero,where:deleted_at IS NULL,priority:2"`
	Numero      int    `json:"numero" gorm:"not null;uniqueIndex:idx_mdfe_emitente_serie_numero,where:deleted_at IS NULL,priority:3"`
	ChaveAcesso string `json:"chave_acesso" gorm:"size:44;index"`
	TipoEmissao int    `json:"tipo_emissao" gorm:"default:1"` // 1=normal, 2=contingência
	Modal       int    `json:"modal" gorm:"default:1"`        // 1=rodoviário
	Ambiente    int    `json:"ambiente" gorm:"default:2"`     // 1=produção, 2=homologação

	// Datas
	DataEmissao      time.Time `json:"data_emissao"`
	DataInicioViagem time.Time `json:"data_inicio_viagem"`

	// Percurso
	UFInicio                       *string `json:"uf_inicio" gorm:"size:2"`
	UFFim                          *string `json:"uf_fim" gorm:"size:2"`
	CodigoMunicipioCarregamento    int     `json:"codigo_municipio_carregamento"`
	MunicipioCarregamento          string  `json:"municipio_carregamento" gorm:"size:60"`
	CodigoMunicipioDescarregamento int     `json:"codigo_municipio_descarregamento"`
	MunicipioDescarregamento       string  `json:"municipio_descarregamento" gorm:"size:60"`
	CEPCarregamento                string  `json:"cep_carregamento" gorm:"size:8"`
	CEPDescarregamento             string  `json:"cep_descarregamento" gorm:"size:8"`

	// Carga
	DescricaoProduto string  `json:"descricao_produto" gorm:"size:120"`
	TipoCarga        int     `json:"tipo_carga" gorm:"default:5"` // tabela SEFAZ (05=carga geral)
	PesoBrutoTotal   float64 `json:"peso_bruto_total"`
	ValorTotal       float64 `json:"valor_total"`
	UnidadeMedida    int     `json:"unidade_medida" gorm:"default:1"` // 1=KG, 2=TON
	InfoAdicional    string  `json:"info_adicional" gorm:"type:text"`
	InfoFisco        string  `json:"info_fisco" gorm:"type:text"`

	// Referências
	EmitenteID    uint        `json:"emitente_id" gorm:"not null;uniqueIndex:idx_mdfe_emitente_serie_numero,where:deleted_at IS NULL,priority:1"`
	Emitente      *Emitente   `json:"emitente,omitempty" gorm:"foreignKey:EmitenteID"`
	VeiculoID     uint        `json:"veiculo_id" gorm:"not null"`
	Veiculo       *Veiculo    `json:"veiculo,omitempty" gorm:"foreignKey:VeiculoID"`
	CondutorID    uint        `json:"condutor_id" gorm:"not null"`
	Condutor      *Condutor   `json:"condutor,omitempty" gorm:"foreignKey:CondutorID"`
	ContratanteID *uint       `json:"contratante_id"`
	Contratante   *Contratante `json:"contratante,omitempty" gorm:"foreignKey:ContratanteID"`
	SeguradoraID  *uint       `json:"seguradora_id"`
	Seguradora    *Seguradora `json:"seguradora,omitempty" gorm:"foreignKey:SeguradoraID"`

	// Snapshot de auditoria: congelado na montagem, nunca atualizado quando a
	// entidade fonte é editada depois.
	EmitenteRazaoSocial string `json:"emitente_razao_social" gorm:"size:120"`
	EmitenteCNPJ        string `json:"emitente_cnpj" gorm:"size:14"`
	EmitenteUF          string `json:"emitente_uf" gorm:"size:2"`
	VeiculoPlaca        string `json:"veiculo_placa" gorm:"size:8"`
	VeiculoTara         int    `json:"veiculo_tara"`
	VeiculoUF           string `json:"veiculo_uf" gorm:"size:2"`
	CondutorNome        string `json:"condutor_nome" gorm:"size:120"`
	CondutorCPF         string `json:"condutor_cpf" gorm:"size:11"`

	// Listas simples serializadas (uma entrada por linha)
	ChavesCTe string `json:"chaves_cte" gorm:"type:text"`
	ChavesNFe string `json:"chaves_nfe" gorm:"type:text"`
	Rota      string `json:"rota" gorm:"type:text"`

	// Espelhos JSON regenerados a partir das linhas relacionais a cada gravação
	ValesPedagioJSON datatypes.JSON `json:"vales_pedagio_json" gorm:"column:vales_pedagio_json"`
	PagamentosJSON   datatypes.JSON `json:"pagamentos_json" gorm:"column:pagamentos_json"`
	LocalidadesJSON  datatypes.JSON `json:"localidades_json" gorm:"column:localidades_json"`

	// Retorno da SEFAZ
	Protocolo       string     `json:"protocolo" gorm:"size:20"`
	Recibo          string     `json:"recibo" gorm:"size:20"`
	CodigoStatusSefaz int      `json:"codigo_status_sefaz"`
	MotivoSefaz     string     `json:"motivo_sefaz" gorm:"size:255"`
	DataTransmissao *time.Time `json:"data_transmissao"`
	DataAutorizacao *time.Time `json:"data_autorizacao"`

	Status     string          `json:"status" gorm:"size:20;not null;default:rascunho"`
	Transicoes []MDFeTransicao `json:"transicoes,omitempty" gorm:"foreignKey:MDFeID"`

	// Coleções filhas (ordenadas por Seq, substituídas integralmente a cada gravação)
	Reboques                  []MDFeReboque                  `json:"reboques,omitempty" gorm:"foreignKey:MDFeID"`
	MunicipiosCarregamento    []MDFeMunicipioCarregamento    `json:"municipios_carregamento,omitempty" gorm:"foreignKey:MDFeID"`
	MunicipiosDescarregamento []MDFeMunicipioDescarregamento `json:"municipios_descarregamento,omitempty" gorm:"foreignKey:MDFeID"`
	ValesPedagio              []MDFeValePedagio              `json:"vales_pedagio,omitempty" gorm:"foreignKey:MDFeID"`
	Pagamentos                []MDFePagamento                `json:"pagamentos,omitempty" gorm:"foreignKey:MDFeID"`
	Autorizados               []MDFeAutorizado               `json:"autorizados,omitempty" gorm:"foreignKey:MDFeID"`
	RespTecnico               *MDFeRespTecnico               `json:"resp_tecnico,omitempty" gorm:"foreignKey:MDFeID"`
	UnidadesTransporte        []MDFeUnidadeTransporte        `json:"unidades_transporte,omitempty" gorm:"foreignKey:MDFeID"`
	UnidadesCarga             []MDFeUnidadeCarga             `json:"unidades_carga,omitempty" gorm:"foreignKey:MDFeID"`
	ProdutosPerigosos         []MDFeProdutoPerigoso          `json:"produtos_perigosos,omitempty" gorm:"foreignKey:MDFeID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (MDFe) TableName() string { return "mdfes" }

// Editavel informa se o documento ainda aceita alterações locais.
func (m *MDFe) Editavel() bool {
	return m.Status == MDFeStatusRascunho || m.Status == MDFeStatusEmDigitacao
}

// MDFeTransicao - histórico de transições de status (append-only)
type MDFeTransicao struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	MDFeID     uint      `json:"mdfe_id" gorm:"index;not null"`
	DeStatus   string    `json:"de_status" gorm:"size:20"`
	ParaStatus string    `json:"para_status" gorm:"size:20;not null"`
	Motivo     string    `json:"motivo" gorm:"size:255"`
	CriadoEm   time.Time `json:"criado_em"`
}

func (MDFeTransicao) TableName() string { return "mdfe_transicoes" }

package ds

import "time"

// Coleções filhas do MDFe. Todas carregam Seq explícito começando em 1 e são
// reconstruídas do zero a cada gravação do documento.

// MDFeReboque - vínculo de reboque com snapshot dos campos de exibição
type MDFeReboque struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	MDFeID    uint   `json:"mdfe_id" gorm:"index;not null"`
	Seq       int    `json:"seq" gorm:"not null"`
	VeiculoID uint   `json:"veiculo_id" gorm:"not null"`
	Placa     string `json:"placa" gorm:"size:8"`
	Tara      int    `json:"tara"`
	UF        string `json:"uf" gorm:"size:2"`
}

func (MDFeReboque) TableName() string { return "mdfe_reboques" }

// MDFeMunicipioCarregamento - município de carregamento resolvido pela tabela IBGE
type MDFeMunicipioCarregamento struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	MDFeID     uint   `json:"mdfe_id" gorm:"index;not null"`
	Seq        int    `json:"seq" gorm:"not null"`
	CodigoIBGE int    `json:"codigo_ibge" gorm:"not null"`
	Nome       string `json:"nome" gorm:"size:60"`
}

func (MDFeMunicipioCarregamento) TableName() string { return "mdfe_municipios_carregamento" }

// MDFeMunicipioDescarregamento - município de descarregamento
type MDFeMunicipioDescarregamento struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	MDFeID     uint   `json:"mdfe_id" gorm:"index;not null"`
	Seq        int    `json:"seq" gorm:"not null"`
	CodigoIBGE int    `json:"codigo_ibge" gorm:"not null"`
	Nome       string `json:"nome" gorm:"size:60"`
}

func (MDFeMunicipioDescarregamento) TableName() string { return "mdfe_municipios_descarregamento" }

// MDFeValePedagio - comprovante de vale-pedágio antecipado
type MDFeValePedagio struct {
	ID                uint    `json:"id" gorm:"primaryKey"`
	MDFeID            uint    `json:"mdfe_id" gorm:"index;not null"`
	Seq               int     `json:"seq" gorm:"not null"`
	CNPJFornecedor    string  `json:"cnpj_fornecedor" gorm:"size:14;not null"`
	CNPJPagador       string  `json:"cnpj_pagador" gorm:"size:14"`
	NumeroComprovante string  `json:"numero_comprovante" gorm:"size:20;not null"`
	Valor             float64 `json:"valor" gorm:"not null"`
	TipoVale          int     `json:"tipo_vale" gorm:"default:1"` // 01=TAG, 02=cupom, 03=cartão
}

func (MDFeValePedagio) TableName() string { return "mdfe_vales_pedagio" }

// MDFePagamento - bloco de pagamento do frete (infPag)
type MDFePagamento struct {
	ID            uint    `json:"id" gorm:"primaryKey"`
	MDFeID        uint    `json:"mdfe_id" gorm:"index;not null"`
	Seq           int     `json:"seq" gorm:"not null"`
	Nome          string  `json:"nome" gorm:"size:120"`
	CNPJCPF       string  `json:"cnpj_cpf" gorm:"size:14"`
	TipoPagamento int     `json:"tipo_pagamento" gorm:"default:0"` // 0=à vista, 1=a prazo
	ValorContrato float64 `json:"valor_contrato" gorm:"not null"`

	// Dados bancários do destinatário do pagamento
	CodigoBanco   string `json:"codigo_banco" gorm:"size:5"`
	CodigoAgencia string `json:"codigo_agencia" gorm:"size:10"`
	CNPJIPEF      string `json:"cnpj_ipef" gorm:"size:14"`
	ChavePIX      string `json:"chave_pix" gorm:"size:77"`

	Componentes []MDFeComponentePagamento `json:"componentes,omitempty" gorm:"foreignKey:PagamentoID"`
	Parcelas    []MDFeParcelaPagamento    `json:"parcelas,omitempty" gorm:"foreignKey:PagamentoID"`
}

func (MDFePagamento) TableName() string { return "mdfe_pagamentos" }

// MDFeComponentePagamento - componente de custo do pagamento (comp)
type MDFeComponentePagamento struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	PagamentoID uint    `json:"pagamento_id" gorm:"index;not null"`
	Seq         int     `json:"seq" gorm:"not null"`
	Tipo        int     `json:"tipo" gorm:"not null"` // 01=vale-pedágio, 02=impostos, 03=despesas, 99=outros
	Valor       float64 `json:"valor" gorm:"not null"`
}

func (MDFeComponentePagamento) TableName() string { return "mdfe_componentes_pagamento" }

// MDFeParcelaPagamento - parcela do pagamento a prazo (infPrazo)
type MDFeParcelaPagamento struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	PagamentoID    uint      `json:"pagamento_id" gorm:"index;not null"`
	Seq            int       `json:"seq" gorm:"not null"`
	NumeroParcela  int       `json:"numero_parcela" gorm:"not null"`
	DataVencimento time.Time `json:"data_vencimento"`
	Valor          float64   `json:"valor" gorm:"not null"`
}

func (MDFeParcelaPagamento) TableName() string { return "mdfe_parcelas_pagamento" }

// MDFeAutorizado - CNPJ/CPF autorizado a baixar o XML (autXML)
type MDFeAutorizado struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	MDFeID  uint   `json:"mdfe_id" gorm:"index;not null"`
	Seq     int    `json:"seq" gorm:"not null"`
	CNPJCPF string `json:"cnpj_cpf" gorm:"size:14;not null"`
}

func (MDFeAutorizado) TableName() string { return "mdfe_autorizados" }

// MDFeRespTecnico - responsável técnico pelo sistema emissor (singleton por documento)
type MDFeRespTecnico struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	MDFeID   uint   `json:"mdfe_id" gorm:"uniqueIndex;not null"`
	CNPJ     string `json:"cnpj" gorm:"size:14;not null"`
	Contato  string `json:"contato" gorm:"size:60"`
	Email    string `json:"email" gorm:"size:60"`
	Telefone string `json:"telefone" gorm:"size:14"`
	IDCSRT   int    `json:"id_csrt"`
	HashCSRT string `json:"hash_csrt" gorm:"size:28"`
}

func (MDFeRespTecnico) TableName() string { return "mdfe_resp_tecnicos" }

// MDFeUnidadeTransporte - unidade de transporte declarada (infUnidTransp)
type MDFeUnidadeTransporte struct {
	ID               uint    `json:"id" gorm:"primaryKey"`
	MDFeID           uint    `json:"mdfe_id" gorm:"index;not null"`
	Seq              int     `json:"seq" gorm:"not null"`
	TipoUnidade      int     `json:"tipo_unidade" gorm:"not null"` // 1=rodoviário tração, 2=reboque, 3=navio...
	Identificacao    string  `json:"identificacao" gorm:"size:20;not null"`
	QuantidadeRateada float64 `json:"quantidade_rateada"`

	Lacres        []MDFeLacreUnidadeTransporte `json:"lacres,omitempty" gorm:"foreignKey:UnidadeTransporteID"`
	UnidadesCarga []MDFeUnidadeCarga           `json:"unidades_carga,omitempty" gorm:"foreignKey:UnidadeTransporteID"`
}

func (MDFeUnidadeTransporte) TableName() string { return "mdfe_unidades_transporte" }

// MDFeLacreUnidadeTransporte - lacre da unidade de transporte
type MDFeLacreUnidadeTransporte struct {
	ID                  uint   `json:"id" gorm:"primaryKey"`
	UnidadeTransporteID uint   `json:"unidade_transporte_id" gorm:"index;not null"`
	Seq                 int    `json:"seq" gorm:"not null"`
	Numero              string `json:"numero" gorm:"size:20;not null"`
}

func (MDFeLacreUnidadeTransporte) TableName() string { return "mdfe_lacres_unidade_transporte" }

// MDFeUnidadeCarga - unidade de carga (infUnidCarga); pode ser avulsa no
// documento ou aninhada numa unidade de transporte.
type MDFeUnidadeCarga struct {
	ID                  uint    `json:"id" gorm:"primaryKey"`
	MDFeID              *uint   `json:"mdfe_id" gorm:"index"`
	UnidadeTransporteID *uint   `json:"unidade_transporte_id" gorm:"index"`
	Seq                 int     `json:"seq" gorm:"not null"`
	TipoUnidade         int     `json:"tipo_unidade" gorm:"not null"` // 1=container, 2=ULD, 3=pallet...
	Identificacao       string  `json:"identificacao" gorm:"size:20;not null"`
	QuantidadeRateada   float64 `json:"quantidade_rateada"`

	Lacres []MDFeLacreUnidadeCarga `json:"lacres,omitempty" gorm:"foreignKey:UnidadeCargaID"`
}

func (MDFeUnidadeCarga) TableName() string { return "mdfe_unidades_carga" }

// MDFeLacreUnidadeCarga - lacre da unidade de carga
type MDFeLacreUnidadeCarga struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	UnidadeCargaID uint   `json:"unidade_carga_id" gorm:"index;not null"`
	Seq            int    `json:"seq" gorm:"not null"`
	Numero         string `json:"numero" gorm:"size:20;not null"`
}

func (MDFeLacreUnidadeCarga) TableName() string { return "mdfe_lacres_unidade_carga" }

// MDFeProdutoPerigoso - item de produto perigoso (peri)
type MDFeProdutoPerigoso struct {
	ID                  uint   `json:"id" gorm:"primaryKey"`
	MDFeID              uint   `json:"mdfe_id" gorm:"index;not null"`
	Seq                 int    `json:"seq" gorm:"not null"`
	NumeroONU           string `json:"numero_onu" gorm:"size:4;not null"`
	NomeApropriado      string `json:"nome_apropriado" gorm:"size:150"`
	Classe              string `json:"classe" gorm:"size:40"`
	GrupoEmbalagem      string `json:"grupo_embalagem" gorm:"size:6"`
	QuantidadeTotal     string `json:"quantidade_total" gorm:"size:20;not null"`
	QuantidadeTipoVolume string `json:"quantidade_tipo_volume" gorm:"size:60"`
}

func (MDFeProdutoPerigoso) TableName() string { return "mdfe_produtos_perigosos" }

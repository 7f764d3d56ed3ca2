package ds

import (
	"time"

	"gorm.io/gorm"
)

// Emitente - empresa emissora dos manifestos (fonte do snapshot no MDFe)
type Emitente struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	RazaoSocial     string         `json:"razao_social" gorm:"size:120;not null"`
	NomeFantasia    string         `json:"nome_fantasia" gorm:"size:120"`
	CNPJ            string         `json:"cnpj" gorm:"size:14;uniqueIndex;not null"`
	IE              string         `json:"ie" gorm:"size:20"`
	RNTRC           string         `json:"rntrc" gorm:"size:8"`
	Logradouro      string         `json:"logradouro" gorm:"size:120"`
	Numero          string         `json:"numero" gorm:"size:10"`
	Bairro          string         `json:"bairro" gorm:"size:60"`
	CodigoMunicipio int            `json:"codigo_municipio"`
	Municipio       string         `json:"municipio" gorm:"size:60"`
	UF              string         `json:"uf" gorm:"size:2;not null"`
	CEP             string         `json:"cep" gorm:"size:8"`
	TipoEmitente    int            `json:"tipo_emitente" gorm:"default:2"` // 1=prestador de serviço, 2=carga própria
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

// Veiculo - veículo da frota (tração ou reboque)
type Veiculo struct {
	ID                uint           `json:"id" gorm:"primaryKey"`
	Placa             string         `json:"placa" gorm:"size:8;uniqueIndex;not null"`
	Renavam           string         `json:"renavam" gorm:"size:11"`
	Tara              int            `json:"tara"`          // kg
	CapacidadeKG      int            `json:"capacidade_kg"` // kg
	CapacidadeM3      int            `json:"capacidade_m3"`
	TipoRodado        int            `json:"tipo_rodado"`    // tabela SEFAZ (01=truck, 02=toco...)
	TipoCarroceria    int            `json:"tipo_carroceria"` // tabela SEFAZ
	TipoUnidade       string         `json:"tipo_unidade" gorm:"size:10;default:tracao"` // tracao | reboque
	UF                string         `json:"uf" gorm:"size:2"`
	Marca             string         `json:"marca" gorm:"size:40"`
	Modelo            string         `json:"modelo" gorm:"size:60"`
	Ano               int            `json:"ano"`
	RNTRCProprietario string         `json:"rntrc_proprietario" gorm:"size:8"`
	Ativo             bool           `json:"ativo" gorm:"default:true"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`
}

// Condutor - motorista habilitado
type Condutor struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Nome      string         `json:"nome" gorm:"size:120;not null"`
	CPF       string         `json:"cpf" gorm:"size:11;uniqueIndex;not null"`
	CNH       string         `json:"cnh" gorm:"size:11"`
	Telefone  string         `json:"telefone" gorm:"size:20"`
	Ativo     bool           `json:"ativo" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// Contratante - contratante do serviço de transporte (opcional no MDFe)
type Contratante struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	RazaoSocial string         `json:"razao_social" gorm:"size:120;not null"`
	CNPJ        string         `json:"cnpj" gorm:"size:14"`
	CPF         string         `json:"cpf" gorm:"size:11"`
	UF          string         `json:"uf" gorm:"size:2"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// Seguradora - seguradora da carga (opcional no MDFe)
type Seguradora struct {
	ID                uint           `json:"id" gorm:"primaryKey"`
	RazaoSocial       string         `json:"razao_social" gorm:"size:120;not null"`
	CNPJ              string         `json:"cnpj" gorm:"size:14"`
	NumeroApolice     string         `json:"numero_apolice" gorm:"size:20"`
	NumeroAverbacao   string         `json:"numero_averbacao" gorm:"size:40"`
	ResponsavelSeguro int            `json:"responsavel_seguro" gorm:"default:1"` // 1=emitente, 2=contratante
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`
}

// Municipio - tabela IBGE usada na resolução de localidades por chave natural
type Municipio struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	CodigoIBGE int    `json:"codigo_ibge" gorm:"uniqueIndex;not null"`
	Nome       string `json:"nome" gorm:"size:60;not null"`
	UF         string `json:"uf" gorm:"size:2;not null"`
}

// Status possíveis de uma viagem
const (
	ViagemStatusPlanejada  = "planejada"
	ViagemStatusEmAndamento = "em_andamento"
	ViagemStatusConcluida  = "concluida"
)

// Viagem - viagem da frota (plumbing simples de CRUD)
type Viagem struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	VeiculoID    uint           `json:"veiculo_id" gorm:"not null"`
	Veiculo      *Veiculo       `json:"veiculo,omitempty" gorm:"foreignKey:VeiculoID"`
	CondutorID   uint           `json:"condutor_id" gorm:"not null"`
	Condutor     *Condutor      `json:"condutor,omitempty" gorm:"foreignKey:CondutorID"`
	OrigemCidade string         `json:"origem_cidade" gorm:"size:60"`
	OrigemUF     string         `json:"origem_uf" gorm:"size:2"`
	DestinoCidade string        `json:"destino_cidade" gorm:"size:60"`
	DestinoUF    string         `json:"destino_uf" gorm:"size:2"`
	DataSaida    *time.Time     `json:"data_saida"`
	DataChegada  *time.Time     `json:"data_chegada"`
	KmInicial    int            `json:"km_inicial"`
	KmFinal      int            `json:"km_final"`
	Status       string         `json:"status" gorm:"size:20;default:planejada"`
	Observacao   string         `json:"observacao" gorm:"type:text"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// Manutencao - registro de manutenção de veículo
type Manutencao struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	VeiculoID  uint           `json:"veiculo_id" gorm:"not null"`
	Veiculo    *Veiculo       `json:"veiculo,omitempty" gorm:"foreignKey:VeiculoID"`
	Tipo       string         `json:"tipo" gorm:"size:20"` // preventiva | corretiva
	Descricao  string         `json:"descricao" gorm:"type:text"`
	Oficina    string         `json:"oficina" gorm:"size:100"`
	Valor      float64        `json:"valor"`
	KmRegistro int            `json:"km_registro"`
	Data       time.Time      `json:"data"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

// Tipos de lançamento financeiro
const (
	LancamentoDespesa = "despesa"
	LancamentoReceita = "receita"
)

// Lancamento - lançamento financeiro (despesa/receita) da operação
type Lancamento struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Tipo      string         `json:"tipo" gorm:"size:10;not null"`
	Categoria string         `json:"categoria" gorm:"size:40"`
	Descricao string         `json:"descricao" gorm:"size:200"`
	Valor     float64        `json:"valor" gorm:"not null"`
	Data      time.Time      `json:"data" gorm:"not null"`
	VeiculoID *uint          `json:"veiculo_id"`
	ViagemID  *uint          `json:"viagem_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

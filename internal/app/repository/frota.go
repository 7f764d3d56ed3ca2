package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/ds"
)

// ==================== EMITENTES ====================

// GetEmitentes - lista de emitentes com busca opcional (exclui removidos)
func (r *Repository) GetEmitentes(search string) ([]ds.Emitente, error) {
	var emitentes []ds.Emitente

	query := r.db.Where("deleted_at IS NULL")

	if search != "" {
		searchLower := strings.ToLower(search)
		query = query.Where("LOWER(razao_social) LIKE ? OR cnpj LIKE ?",
			"%"+searchLower+"%", "%"+search+"%")
	}

	err := query.Order("razao_social").Find(&emitentes).Error
	if err != nil {
		return nil, err
	}

	return emitentes, nil
}

// GetEmitente - busca de emitente por ID
func (r *Repository) GetEmitente(id uint) (*ds.Emitente, error) {
	var emitente ds.Emitente
	err := r.db.Where("id = ?", id).First(&emitente).Error
	if err != nil {
		return nil, fmt.Errorf("emitente não encontrado")
	}
	return &emitente, nil
}

func (r *Repository) CreateEmitente(e *ds.Emitente) error {
	return r.db.Create(e).Error
}

func (r *Repository) UpdateEmitente(e *ds.Emitente) error {
	return r.db.Save(e).Error
}

func (r *Repository) DeleteEmitente(id uint) error {
	return r.db.Delete(&ds.Emitente{}, id).Error
}

// ==================== VEÍCULOS ====================

// GetVeiculos - lista de veículos com filtros opcionais por placa e tipo de unidade
func (r *Repository) GetVeiculos(search, tipoUnidade string) ([]ds.Veiculo, error) {
	var veiculos []ds.Veiculo

	query := r.db.Where("deleted_at IS NULL")

	if search != "" {
		query = query.Where("UPPER(placa) LIKE ?", "%"+strings.ToUpper(search)+"%")
	}
	if tipoUnidade != "" {
		query = query.Where("tipo_unidade = ?", tipoUnidade)
	}

	err := query.Order("placa").Find(&veiculos).Error
	return veiculos, err
}

// GetVeiculo - busca de veículo por ID
func (r *Repository) GetVeiculo(id uint) (*ds.Veiculo, error) {
	var veiculo ds.Veiculo
	err := r.db.Where("id = ?", id).First(&veiculo).Error
	if err != nil {
		return nil, fmt.Errorf("veículo não encontrado")
	}
	return &veiculo, nil
}

// GetVeiculoByPlaca - busca de veículo pela placa
func (r *Repository) GetVeiculoByPlaca(placa string) (*ds.Veiculo, error) {
	var veiculo ds.Veiculo
	err := r.db.Where("UPPER(placa) = ?", strings.ToUpper(placa)).First(&veiculo).Error
	if err != nil {
		return nil, fmt.Errorf("veículo não encontrado")
	}
	return &veiculo, nil
}

func (r *Repository) CreateVeiculo(v *ds.Veiculo) error {
	v.Placa = strings.ToUpper(v.Placa)
	return r.db.Create(v).Error
}

func (r *Repository) UpdateVeiculo(v *ds.Veiculo) error {
	v.Placa = strings.ToUpper(v.Placa)
	return r.db.Save(v).Error
}

func (r *Repository) DeleteVeiculo(id uint) error {
	return r.db.Delete(&ds.Veiculo{}, id).Error
}

// ==================== CONDUTORES ====================

func (r *Repository) GetCondutores(search string) ([]ds.Condutor, error) {
	var condutores []ds.Condutor

	query := r.db.Where("deleted_at IS NULL")

	if search != "" {
		searchLower := strings.ToLower(search)
		query = query.Where("LOWER(nome) LIKE ? OR cpf LIKE ?",
			"%"+searchLower+"%", "%"+search+"%")
	}

	err := query.Order("nome").Find(&condutores).Error
	return condutores, err
}

func (r *Repository) GetCondutor(id uint) (*ds.Condutor, error) {
	var condutor ds.Condutor
	err := r.db.Where("id = ?", id).First(&condutor).Error
	if err != nil {
		return nil, fmt.Errorf("condutor não encontrado")
	}
	return &condutor, nil
}

func (r *Repository) CreateCondutor(c *ds.Condutor) error {
	return r.db.Create(c).Error
}

func (r *Repository) UpdateCondutor(c *ds.Condutor) error {
	return r.db.Save(c).Error
}

func (r *Repository) DeleteCondutor(id uint) error {
	return r.db.Delete(&ds.Condutor{}, id).Error
}

// ==================== CONTRATANTES / SEGURADORAS ====================

func (r *Repository) GetContratantes(search string) ([]ds.Contratante, error) {
	var contratantes []ds.Contratante

	query := r.db.Where("deleted_at IS NULL")
	if search != "" {
		query = query.Where("LOWER(razao_social) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	err := query.Order("razao_social").Find(&contratantes).Error
	return contratantes, err
}

func (r *Repository) GetContratante(id uint) (*ds.Contratante, error) {
	var contratante ds.Contratante
	err := r.db.Where("id = ?", id).First(&contratante).Error
	if err != nil {
		return nil, fmt.Errorf("contratante não encontrado")
	}
	return &contratante, nil
}

func (r *Repository) CreateContratante(c *ds.Contratante) error {
	return r.db.Create(c).Error
}

func (r *Repository) UpdateContratante(c *ds.Contratante) error {
	return r.db.Save(c).Error
}

func (r *Repository) DeleteContratante(id uint) error {
	return r.db.Delete(&ds.Contratante{}, id).Error
}

func (r *Repository) GetSeguradoras(search string) ([]ds.Seguradora, error) {
	var seguradoras []ds.Seguradora

	query := r.db.Where("deleted_at IS NULL")
	if search != "" {
		query = query.Where("LOWER(razao_social) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	err := query.Order("razao_social").Find(&seguradoras).Error
	return seguradoras, err
}

func (r *Repository) GetSeguradora(id uint) (*ds.Seguradora, error) {
	var seguradora ds.Seguradora
	err := r.db.Where("id = ?", id).First(&seguradora).Error
	if err != nil {
		return nil, fmt.Errorf("seguradora não encontrada")
	}
	return &seguradora, nil
}

func (r *Repository) CreateSeguradora(s *ds.Seguradora) error {
	return r.db.Create(s).Error
}

func (r *Repository) UpdateSeguradora(s *ds.Seguradora) error {
	return r.db.Save(s).Error
}

func (r *Repository) DeleteSeguradora(id uint) error {
	return r.db.Delete(&ds.Seguradora{}, id).Error
}

// ==================== MUNICÍPIOS (tabela IBGE) ====================

// GetMunicipioPorCodigo - resolução de município pela chave natural IBGE
func (r *Repository) GetMunicipioPorCodigo(codigoIBGE int) (*ds.Municipio, error) {
	var municipio ds.Municipio
	err := r.db.Where("codigo_ibge = ?", codigoIBGE).First(&municipio).Error
	if err != nil {
		return nil, fmt.Errorf("município %d não encontrado", codigoIBGE)
	}
	return &municipio, nil
}

// GetMunicipios - lista de municípios por UF com busca opcional pelo nome
func (r *Repository) GetMunicipios(uf, search string) ([]ds.Municipio, error) {
	var municipios []ds.Municipio

	query := r.db.Model(&ds.Municipio{})
	if uf != "" {
		query = query.Where("uf = ?", strings.ToUpper(uf))
	}
	if search != "" {
		query = query.Where("LOWER(nome) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	err := query.Order("nome").Limit(200).Find(&municipios).Error
	return municipios, err
}

// SeedMunicipios - carga inicial da tabela IBGE (ignora códigos já existentes)
func (r *Repository) SeedMunicipios(municipios []ds.Municipio) error {
	for i := range municipios {
		var existente ds.Municipio
		if err := r.db.Where("codigo_ibge = ?", municipios[i].CodigoIBGE).First(&existente).Error; err == nil {
			continue
		}
		if err := r.db.Create(&municipios[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// ==================== VIAGENS ====================

func (r *Repository) GetViagens(status string, veiculoID uint) ([]ds.Viagem, error) {
	var viagens []ds.Viagem

	query := r.db.Preload("Veiculo").Preload("Condutor").Where("deleted_at IS NULL")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if veiculoID > 0 {
		query = query.Where("veiculo_id = ?", veiculoID)
	}

	err := query.Order("created_at DESC").Find(&viagens).Error
	return viagens, err
}

func (r *Repository) GetViagem(id uint) (*ds.Viagem, error) {
	var viagem ds.Viagem
	err := r.db.Preload("Veiculo").Preload("Condutor").
		Where("id = ? AND deleted_at IS NULL", id).First(&viagem).Error
	if err != nil {
		return nil, fmt.Errorf("viagem não encontrada")
	}
	return &viagem, nil
}

func (r *Repository) CreateViagem(v *ds.Viagem) error {
	return r.db.Create(v).Error
}

func (r *Repository) UpdateViagem(v *ds.Viagem) error {
	return r.db.Save(v).Error
}

func (r *Repository) DeleteViagem(id uint) error {
	return r.db.Delete(&ds.Viagem{}, id).Error
}

// ==================== MANUTENÇÕES ====================

func (r *Repository) GetManutencoes(veiculoID uint) ([]ds.Manutencao, error) {
	var manutencoes []ds.Manutencao

	query := r.db.Preload("Veiculo").Where("deleted_at IS NULL")
	if veiculoID > 0 {
		query = query.Where("veiculo_id = ?", veiculoID)
	}

	err := query.Order("data DESC").Find(&manutencoes).Error
	return manutencoes, err
}

func (r *Repository) GetManutencao(id uint) (*ds.Manutencao, error) {
	var manutencao ds.Manutencao
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&manutencao).Error
	if err != nil {
		return nil, fmt.Errorf("manutenção não encontrada")
	}
	return &manutencao, nil
}

func (r *Repository) CreateManutencao(m *ds.Manutencao) error {
	return r.db.Create(m).Error
}

func (r *Repository) UpdateManutencao(m *ds.Manutencao) error {
	return r.db.Save(m).Error
}

func (r *Repository) DeleteManutencao(id uint) error {
	return r.db.Delete(&ds.Manutencao{}, id).Error
}

// ==================== LANÇAMENTOS FINANCEIROS ====================

func (r *Repository) GetLancamentos(tipo string, dateFrom, dateTo *time.Time) ([]ds.Lancamento, error) {
	var lancamentos []ds.Lancamento

	query := r.db.Where("deleted_at IS NULL")
	if tipo != "" {
		query = query.Where("tipo = ?", tipo)
	}
	if dateFrom != nil {
		query = query.Where("data >= ?", *dateFrom)
	}
	if dateTo != nil {
		query = query.Where("data <= ?", *dateTo)
	}

	err := query.Order("data DESC").Find(&lancamentos).Error
	return lancamentos, err
}

func (r *Repository) CreateLancamento(l *ds.Lancamento) error {
	return r.db.Create(l).Error
}

func (r *Repository) DeleteLancamento(id uint) error {
	return r.db.Delete(&ds.Lancamento{}, id).Error
}

// ResumoFinanceiro - totais de receitas e despesas no período
type ResumoFinanceiro struct {
	TotalReceitas float64 `json:"total_receitas"`
	TotalDespesas float64 `json:"total_despesas"`
	Saldo         float64 `json:"saldo"`
}

// GetResumoFinanceiro - agregação de lançamentos por tipo no período
func (r *Repository) GetResumoFinanceiro(dateFrom, dateTo *time.Time) (ResumoFinanceiro, error) {
	var resumo ResumoFinanceiro

	soma := func(tipo string) (float64, error) {
		var total float64
		query := r.db.Model(&ds.Lancamento{}).
			Select("COALESCE(SUM(valor), 0)").
			Where("deleted_at IS NULL AND tipo = ?", tipo)
		if dateFrom != nil {
			query = query.Where("data >= ?", *dateFrom)
		}
		if dateTo != nil {
			query = query.Where("data <= ?", *dateTo)
		}
		err := query.Scan(&total).Error
		return total, err
	}

	var err error
	if resumo.TotalReceitas, err = soma(ds.LancamentoReceita); err != nil {
		return resumo, err
	}
	if resumo.TotalDespesas, err = soma(ds.LancamentoDespesa); err != nil {
		return resumo, err
	}
	resumo.Saldo = resumo.TotalReceitas - resumo.TotalDespesas
	return resumo, nil
}

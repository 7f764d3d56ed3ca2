package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/ds"
	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/mdfe"
)

// FiltroMDFe - filtros da listagem de manifestos
type FiltroMDFe struct {
	EmitenteID uint
	Status     string
	Serie      int
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int
	PageSize   int
}

// MaxNumero - maior número já atribuído para (emitente, série) entre
// documentos não deletados; zero quando ainda não há nenhum
func (r *Repository) MaxNumero(emitenteID uint, serie int) (int, error) {
	var max int
	err := r.db.Model(&ds.MDFe{}).
		Select("COALESCE(MAX(numero), 0)").
		Where("emitente_id = ? AND serie = ? AND deleted_at IS NULL", emitenteID, serie).
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}

// GetMDFe - carrega o agregado completo, com todas as coleções filhas
// aninhadas, para montagem, transmissão e geração de INI
func (r *Repository) GetMDFe(id uint) (*ds.MDFe, error) {
	var doc ds.MDFe
	err := r.db.
		Preload("Emitente").
		Preload("Veiculo").
		Preload("Condutor").
		Preload("Contratante").
		Preload("Seguradora").
		Preload("Transicoes", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Reboques", ordenadoPorSeq).
		Preload("MunicipiosCarregamento", ordenadoPorSeq).
		Preload("MunicipiosDescarregamento", ordenadoPorSeq).
		Preload("ValesPedagio", ordenadoPorSeq).
		Preload("Pagamentos", ordenadoPorSeq).
		Preload("Pagamentos.Componentes", ordenadoPorSeq).
		Preload("Pagamentos.Parcelas", ordenadoPorSeq).
		Preload("Autorizados", ordenadoPorSeq).
		Preload("RespTecnico").
		Preload("UnidadesTransporte", ordenadoPorSeq).
		Preload("UnidadesTransporte.Lacres", ordenadoPorSeq).
		Preload("UnidadesTransporte.UnidadesCarga", ordenadoPorSeq).
		Preload("UnidadesTransporte.UnidadesCarga.Lacres", ordenadoPorSeq).
		Preload("UnidadesCarga", func(db *gorm.DB) *gorm.DB {
			return db.Where("unidade_transporte_id IS NULL").Order("seq")
		}).
		Preload("UnidadesCarga.Lacres", ordenadoPorSeq).
		Preload("ProdutosPerigosos", ordenadoPorSeq).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&doc).Error
	if err != nil {
		return nil, fmt.Errorf("%w: manifesto %d", mdfe.ErrNotFound, id)
	}
	return &doc, nil
}

func ordenadoPorSeq(db *gorm.DB) *gorm.DB {
	return db.Order("seq")
}

// SaveMDFe - persiste o agregado numa transação: grava a raiz, apaga as
// coleções filhas existentes e regrava as atuais. Violação do índice único
// (emitente, série, número) vira mdfe.ErrNumeroDuplicado.
func (r *Repository) SaveMDFe(doc *ds.MDFe) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Save sem as associações: as coleções são reconstruídas à mão abaixo
		// para garantir a substituição integral (linhas velhas não sobram).
		if err := tx.Omit(clauseAssociations...).Save(doc).Error; err != nil {
			return err
		}

		if err := r.apagarFilhos(tx, doc.ID); err != nil {
			return err
		}
		if err := r.gravarFilhos(tx, doc); err != nil {
			return err
		}

		// Transições novas (sem ID) do histórico append-only
		for i := range doc.Transicoes {
			if doc.Transicoes[i].ID != 0 {
				continue
			}
			doc.Transicoes[i].MDFeID = doc.ID
			if err := tx.Create(&doc.Transicoes[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return mdfe.ErrNumeroDuplicado
	}
	return err
}

// clauseAssociations - associações omitidas no Save da raiz
var clauseAssociations = []string{
	"Emitente", "Veiculo", "Condutor", "Contratante", "Seguradora",
	"Transicoes", "Reboques", "MunicipiosCarregamento", "MunicipiosDescarregamento",
	"ValesPedagio", "Pagamentos", "Autorizados", "RespTecnico",
	"UnidadesTransporte", "UnidadesCarga", "ProdutosPerigosos",
}

func (r *Repository) apagarFilhos(tx *gorm.DB, mdfeID uint) error {
	// filhos de pagamentos
	var pagamentoIDs []uint
	if err := tx.Model(&ds.MDFePagamento{}).Where("mdfe_id = ?", mdfeID).Pluck("id", &pagamentoIDs).Error; err != nil {
		return err
	}
	if len(pagamentoIDs) > 0 {
		if err := tx.Where("pagamento_id IN ?", pagamentoIDs).Delete(&ds.MDFeComponentePagamento{}).Error; err != nil {
			return err
		}
		if err := tx.Where("pagamento_id IN ?", pagamentoIDs).Delete(&ds.MDFeParcelaPagamento{}).Error; err != nil {
			return err
		}
	}

	// filhos de unidades de transporte e de carga
	var utIDs []uint
	if err := tx.Model(&ds.MDFeUnidadeTransporte{}).Where("mdfe_id = ?", mdfeID).Pluck("id", &utIDs).Error; err != nil {
		return err
	}
	var ucIDs []uint
	q := tx.Model(&ds.MDFeUnidadeCarga{}).Where("mdfe_id = ?", mdfeID)
	if len(utIDs) > 0 {
		q = tx.Model(&ds.MDFeUnidadeCarga{}).Where("mdfe_id = ? OR unidade_transporte_id IN ?", mdfeID, utIDs)
	}
	if err := q.Pluck("id", &ucIDs).Error; err != nil {
		return err
	}
	if len(ucIDs) > 0 {
		if err := tx.Where("unidade_carga_id IN ?", ucIDs).Delete(&ds.MDFeLacreUnidadeCarga{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", ucIDs).Delete(&ds.MDFeUnidadeCarga{}).Error; err != nil {
			return err
		}
	}
	if len(utIDs) > 0 {
		if err := tx.Where("unidade_transporte_id IN ?", utIDs).Delete(&ds.MDFeLacreUnidadeTransporte{}).Error; err != nil {
			return err
		}
	}

	for _, model := range []interface{}{
		&ds.MDFeReboque{},
		&ds.MDFeMunicipioCarregamento{},
		&ds.MDFeMunicipioDescarregamento{},
		&ds.MDFeValePedagio{},
		&ds.MDFePagamento{},
		&ds.MDFeAutorizado{},
		&ds.MDFeRespTecnico{},
		&ds.MDFeUnidadeTransporte{},
		&ds.MDFeProdutoPerigoso{},
	} {
		if err := tx.Where("mdfe_id = ?", mdfeID).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) gravarFilhos(tx *gorm.DB, doc *ds.MDFe) error {
	for i := range doc.Reboques {
		doc.Reboques[i].ID = 0
		doc.Reboques[i].MDFeID = doc.ID
		if err := tx.Create(&doc.Reboques[i]).Error; err != nil {
			return err
		}
	}
	for i := range doc.MunicipiosCarregamento {
		doc.MunicipiosCarregamento[i].ID = 0
		doc.MunicipiosCarregamento[i].MDFeID = doc.ID
		if err := tx.Create(&doc.MunicipiosCarregamento[i]).Error; err != nil {
			return err
		}
	}
	for i := range doc.MunicipiosDescarregamento {
		doc.MunicipiosDescarregamento[i].ID = 0
		doc.MunicipiosDescarregamento[i].MDFeID = doc.ID
		if err := tx.Create(&doc.MunicipiosDescarregamento[i]).Error; err != nil {
			return err
		}
	}
	for i := range doc.ValesPedagio {
		doc.ValesPedagio[i].ID = 0
		doc.ValesPedagio[i].MDFeID = doc.ID
		if err := tx.Create(&doc.ValesPedagio[i]).Error; err != nil {
			return err
		}
	}
	for i := range doc.Pagamentos {
		p := &doc.Pagamentos[i]
		componentes, parcelas := p.Componentes, p.Parcelas
		p.ID = 0
		p.MDFeID = doc.ID
		p.Componentes, p.Parcelas = nil, nil
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		for j := range componentes {
			componentes[j].ID = 0
			componentes[j].PagamentoID = p.ID
			if err := tx.Create(&componentes[j]).Error; err != nil {
				return err
			}
		}
		for j := range parcelas {
			parcelas[j].ID = 0
			parcelas[j].PagamentoID = p.ID
			if err := tx.Create(&parcelas[j]).Error; err != nil {
				return err
			}
		}
		p.Componentes, p.Parcelas = componentes, parcelas
	}
	for i := range doc.Autorizados {
		doc.Autorizados[i].ID = 0
		doc.Autorizados[i].MDFeID = doc.ID
		if err := tx.Create(&doc.Autorizados[i]).Error; err != nil {
			return err
		}
	}
	if doc.RespTecnico != nil {
		doc.RespTecnico.ID = 0
		doc.RespTecnico.MDFeID = doc.ID
		if err := tx.Create(doc.RespTecnico).Error; err != nil {
			return err
		}
	}
	for i := range doc.UnidadesTransporte {
		ut := &doc.UnidadesTransporte[i]
		lacres, cargas := ut.Lacres, ut.UnidadesCarga
		ut.ID = 0
		ut.MDFeID = doc.ID
		ut.Lacres, ut.UnidadesCarga = nil, nil
		if err := tx.Create(ut).Error; err != nil {
			return err
		}
		for j := range lacres {
			lacres[j].ID = 0
			lacres[j].UnidadeTransporteID = ut.ID
			if err := tx.Create(&lacres[j]).Error; err != nil {
				return err
			}
		}
		for j := range cargas {
			if err := r.gravarUnidadeCarga(tx, &cargas[j], nil, &ut.ID); err != nil {
				return err
			}
		}
		ut.Lacres, ut.UnidadesCarga = lacres, cargas
	}
	for i := range doc.UnidadesCarga {
		if err := r.gravarUnidadeCarga(tx, &doc.UnidadesCarga[i], &doc.ID, nil); err != nil {
			return err
		}
	}
	for i := range doc.ProdutosPerigosos {
		doc.ProdutosPerigosos[i].ID = 0
		doc.ProdutosPerigosos[i].MDFeID = doc.ID
		if err := tx.Create(&doc.ProdutosPerigosos[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) gravarUnidadeCarga(tx *gorm.DB, uc *ds.MDFeUnidadeCarga, mdfeID, utID *uint) error {
	lacres := uc.Lacres
	uc.ID = 0
	uc.MDFeID = mdfeID
	uc.UnidadeTransporteID = utID
	uc.Lacres = nil
	if err := tx.Create(uc).Error; err != nil {
		return err
	}
	for j := range lacres {
		lacres[j].ID = 0
		lacres[j].UnidadeCargaID = uc.ID
		if err := tx.Create(&lacres[j]).Error; err != nil {
			return err
		}
	}
	uc.Lacres = lacres
	return nil
}

// GetMDFes - listagem paginada de manifestos com filtros
func (r *Repository) GetMDFes(filtro FiltroMDFe) ([]ds.MDFe, int64, error) {
	var docs []ds.MDFe
	var total int64

	query := r.db.Model(&ds.MDFe{}).Where("deleted_at IS NULL")

	if filtro.EmitenteID > 0 {
		query = query.Where("emitente_id = ?", filtro.EmitenteID)
	}
	if filtro.Status != "" {
		query = query.Where("status = ?", filtro.Status)
	}
	if filtro.Serie > 0 {
		query = query.Where("serie = ?", filtro.Serie)
	}
	if filtro.DateFrom != nil {
		query = query.Where("data_emissao >= ?", *filtro.DateFrom)
	}
	if filtro.DateTo != nil {
		query = query.Where("data_emissao <= ?", *filtro.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filtro.Page
	if page < 1 {
		page = 1
	}
	pageSize := filtro.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	err := query.Preload("Emitente").Preload("Veiculo").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&docs).Error
	if err != nil {
		return nil, 0, err
	}

	return docs, total, nil
}

// DeleteMDFe - remoção lógica do manifesto. Documentos autorizados precisam
// ser cancelados antes; os demais estados aceitam a remoção direta.
func (r *Repository) DeleteMDFe(id uint) error {
	var doc ds.MDFe
	if err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&doc).Error; err != nil {
		return fmt.Errorf("%w: manifesto %d", mdfe.ErrNotFound, id)
	}
	if doc.Status == ds.MDFeStatusAutorizado {
		return fmt.Errorf("%w: manifesto autorizado não pode ser removido, cancele antes", mdfe.ErrTransicaoInvalida)
	}
	return r.db.Delete(&ds.MDFe{}, id).Error
}

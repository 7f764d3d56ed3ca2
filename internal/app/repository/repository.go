package repository

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/ds"
)

type Repository struct {
	db *gorm.DB
}

func New(dsn string) (*Repository, error) {
	// TranslateError converte violações de unicidade do driver em
	// gorm.ErrDuplicatedKey, usado pela camada de montagem do MDFe.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	return &Repository{
		db: db,
	}, nil
}

// Migrate aplica o auto-migrate de todos os modelos do sistema
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(
		&ds.User{},
		&ds.Emitente{},
		&ds.Veiculo{},
		&ds.Condutor{},
		&ds.Contratante{},
		&ds.Seguradora{},
		&ds.Municipio{},
		&ds.Viagem{},
		&ds.Manutencao{},
		&ds.Lancamento{},
		&ds.MDFe{},
		&ds.MDFeTransicao{},
		&ds.MDFeReboque{},
		&ds.MDFeMunicipioCarregamento{},
		&ds.MDFeMunicipioDescarregamento{},
		&ds.MDFeValePedagio{},
		&ds.MDFePagamento{},
		&ds.MDFeComponentePagamento{},
		&ds.MDFeParcelaPagamento{},
		&ds.MDFeAutorizado{},
		&ds.MDFeRespTecnico{},
		&ds.MDFeUnidadeTransporte{},
		&ds.MDFeLacreUnidadeTransporte{},
		&ds.MDFeUnidadeCarga{},
		&ds.MDFeLacreUnidadeCarga{},
		&ds.MDFeProdutoPerigoso{},
	)
}

// ==================== USUÁRIOS ====================

// CreateUser - criação de usuário
func (r *Repository) CreateUser(user *ds.User) error {
	if user.UUID == "" {
		user.UUID = uuid.New().String()
	}
	return r.db.Create(user).Error
}

// GetUserByLogin - busca de usuário pelo login
func (r *Repository) GetUserByLogin(login string) (ds.User, error) {
	var user ds.User
	err := r.db.Where("login = ?", login).First(&user).Error
	if err != nil {
		return ds.User{}, fmt.Errorf("usuário não encontrado")
	}
	return user, nil
}

// GetUser - busca de usuário por ID
func (r *Repository) GetUser(id int) (ds.User, error) {
	var user ds.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return ds.User{}, fmt.Errorf("usuário não encontrado")
	}
	return user, nil
}

// GetUserByUUID - busca de usuário por UUID
func (r *Repository) GetUserByUUID(userUUID string) (ds.User, error) {
	var user ds.User
	err := r.db.Where("uuid = ?", userUUID).First(&user).Error
	if err != nil {
		return ds.User{}, fmt.Errorf("usuário não encontrado")
	}
	return user, nil
}

// UpdateUser - atualização de usuário
func (r *Repository) UpdateUser(user *ds.User) error {
	return r.db.Save(user).Error
}

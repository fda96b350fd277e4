package mysql

import (
	"context"

	"gorm.io/gorm"

	clientDomain "biblioteca-backend/internal/domain/client"
)

type ClientRepository struct{ db *gorm.DB }

func NewClientRepository(db *gorm.DB) *ClientRepository { return &ClientRepository{db: db} }

func (r *ClientRepository) Create(ctx context.Context, c *clientDomain.Client) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ClientRepository) Save(ctx context.Context, c *clientDomain.Client) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *ClientRepository) Delete(ctx context.Context, c *clientDomain.Client) error {
	return r.db.WithContext(ctx).Delete(c).Error
}

func (r *ClientRepository) GetByID(ctx context.Context, id uint64) (*clientDomain.Client, error) {
	var out clientDomain.Client
	res := r.db.WithContext(ctx).First(&out, id)
	return &out, res.Error
}

func (r *ClientRepository) GetByClientID(ctx context.Context, clientID string) (*clientDomain.Client, error) {
	var out clientDomain.Client
	res := r.db.WithContext(ctx).Where("client_id = ?", clientID).First(&out)
	return &out, res.Error
}

func (r *ClientRepository) GetByCPF(ctx context.Context, cpf string) (*clientDomain.Client, error) {
	var out clientDomain.Client
	res := r.db.WithContext(ctx).Where("cpf = ?", cpf).First(&out)
	return &out, res.Error
}

func (r *ClientRepository) GetByEmail(ctx context.Context, email string) (*clientDomain.Client, error) {
	var out clientDomain.Client
	res := r.db.WithContext(ctx).Where("email = ?", email).First(&out)
	return &out, res.Error
}

func (r *ClientRepository) List(ctx context.Context, libraryID uint64) ([]clientDomain.Client, error) {
	var out []clientDomain.Client
	q := r.db.WithContext(ctx).Order("full_name ASC")
	if libraryID != 0 {
		q = q.Where("library_id = ?", libraryID)
	}
	res := q.Find(&out)
	return out, res.Error
}

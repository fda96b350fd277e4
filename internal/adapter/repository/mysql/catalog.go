package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	catalogDomain "biblioteca-backend/internal/domain/catalog"
)

type BookRepository struct{ db *gorm.DB }

func NewBookRepository(db *gorm.DB) *BookRepository { return &BookRepository{db: db} }

func (r *BookRepository) Create(ctx context.Context, b *catalogDomain.Book) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookRepository) Save(ctx context.Context, b *catalogDomain.Book) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *BookRepository) Delete(ctx context.Context, b *catalogDomain.Book) error {
	return r.db.WithContext(ctx).Delete(b).Error
}

func (r *BookRepository) GetByBookID(ctx context.Context, bookID string) (*catalogDomain.Book, error) {
	var out catalogDomain.Book
	res := r.db.WithContext(ctx).Where("book_id = ?", bookID).First(&out)
	return &out, res.Error
}

func (r *BookRepository) List(ctx context.Context, f catalogDomain.BookFilter) ([]catalogDomain.Book, error) {
	var out []catalogDomain.Book
	q := r.db.WithContext(ctx).Order("title ASC")
	if f.LibraryID != 0 {
		q = q.Where("library_id = ?", f.LibraryID)
	}
	if f.Title != "" {
		q = q.Where("title LIKE ?", "%"+f.Title+"%")
	}
	if f.Author != "" {
		q = q.Where("author LIKE ?", "%"+f.Author+"%")
	}
	if f.ISBN != "" {
		q = q.Where("isbn = ?", f.ISBN)
	}
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	res := q.Find(&out)
	return out, res.Error
}

type CategoryRepository struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) *CategoryRepository { return &CategoryRepository{db: db} }

func (r *CategoryRepository) Create(ctx context.Context, c *catalogDomain.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CategoryRepository) Save(ctx context.Context, c *catalogDomain.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CategoryRepository) Delete(ctx context.Context, c *catalogDomain.Category) error {
	return r.db.WithContext(ctx).Delete(c).Error
}

func (r *CategoryRepository) GetByID(ctx context.Context, id uint64) (*catalogDomain.Category, error) {
	var out catalogDomain.Category
	res := r.db.WithContext(ctx).First(&out, id)
	return &out, res.Error
}

func (r *CategoryRepository) List(ctx context.Context, libraryID uint64) ([]catalogDomain.Category, error) {
	var out []catalogDomain.Category
	q := r.db.WithContext(ctx).Order("name ASC")
	if libraryID != 0 {
		q = q.Where("library_id = ?", libraryID)
	}
	res := q.Find(&out)
	return out, res.Error
}

type CopyRepository struct{ db *gorm.DB }

func NewCopyRepository(db *gorm.DB) *CopyRepository { return &CopyRepository{db: db} }

func (r *CopyRepository) Create(ctx context.Context, c *catalogDomain.Copy) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CopyRepository) Save(ctx context.Context, c *catalogDomain.Copy) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CopyRepository) Delete(ctx context.Context, c *catalogDomain.Copy) error {
	return r.db.WithContext(ctx).Delete(c).Error
}

func (r *CopyRepository) GetByCopyID(ctx context.Context, copyID string) (*catalogDomain.Copy, error) {
	var out catalogDomain.Copy
	res := r.db.WithContext(ctx).Preload("Book").Where("copy_id = ?", copyID).First(&out)
	return &out, res.Error
}

// GetByCopyIDForUpdate takes a FOR UPDATE row lock; only meaningful inside a
// transaction (see GormUoW.WithinCopyTx).
func (r *CopyRepository) GetByCopyIDForUpdate(ctx context.Context, copyID string) (*catalogDomain.Copy, error) {
	var out catalogDomain.Copy
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Book").
		Where("copy_id = ?", copyID).
		First(&out)
	return &out, res.Error
}

func (r *CopyRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*catalogDomain.Copy, error) {
	var out catalogDomain.Copy
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Book").
		First(&out, id)
	return &out, res.Error
}

func (r *CopyRepository) NextNumber(ctx context.Context, bookID uint64) (int, error) {
	var max int
	res := r.db.WithContext(ctx).
		Model(&catalogDomain.Copy{}).
		Where("book_id = ?", bookID).
		Select("COALESCE(MAX(number), 0)").
		Scan(&max)
	return max + 1, res.Error
}

func (r *CopyRepository) ListByBook(ctx context.Context, bookID uint64) ([]catalogDomain.Copy, error) {
	var out []catalogDomain.Copy
	res := r.db.WithContext(ctx).Where("book_id = ?", bookID).Order("number ASC").Find(&out)
	return out, res.Error
}

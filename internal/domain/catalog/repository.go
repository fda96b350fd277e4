package catalog

import "context"

// BookFilter narrows List; zero values mean "no filter".
type BookFilter struct {
	LibraryID  uint64
	Title      string
	Author     string
	ISBN       string
	CategoryID uint64
}

type BookRepository interface {
	Create(ctx context.Context, b *Book) error
	GetByBookID(ctx context.Context, bookID string) (*Book, error)
	List(ctx context.Context, f BookFilter) ([]Book, error)
	Save(ctx context.Context, b *Book) error
	Delete(ctx context.Context, b *Book) error
}

type CategoryRepository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, id uint64) (*Category, error)
	List(ctx context.Context, libraryID uint64) ([]Category, error)
	Save(ctx context.Context, c *Category) error
	Delete(ctx context.Context, c *Category) error
}

type CopyRepository interface {
	Create(ctx context.Context, c *Copy) error
	GetByCopyID(ctx context.Context, copyID string) (*Copy, error)
	// GetByCopyIDForUpdate locks the copy row for the enclosing transaction.
	GetByCopyIDForUpdate(ctx context.Context, copyID string) (*Copy, error)
	// GetByIDForUpdate is the numeric-key variant used when only the FK is at hand.
	GetByIDForUpdate(ctx context.Context, id uint64) (*Copy, error)
	NextNumber(ctx context.Context, bookID uint64) (int, error)
	ListByBook(ctx context.Context, bookID uint64) ([]Copy, error)
	Save(ctx context.Context, c *Copy) error
	Delete(ctx context.Context, c *Copy) error
}

package catalog

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domainCatalog "biblioteca-backend/internal/domain/catalog"
	domainLoan "biblioteca-backend/internal/domain/loan"
	"biblioteca-backend/pkg/id"
)

type Usecase struct {
	books      domainCatalog.BookRepository
	categories domainCatalog.CategoryRepository
	copies     domainCatalog.CopyRepository
	loans      domainLoan.Repository
}

func NewUsecase(books domainCatalog.BookRepository, categories domainCatalog.CategoryRepository, copies domainCatalog.CopyRepository, loans domainLoan.Repository) *Usecase {
	return &Usecase{books: books, categories: categories, copies: copies, loans: loans}
}

// ---- books ----

type BookInput struct {
	Title         string  `json:"title" validate:"required,max=200"`
	Author        string  `json:"author" validate:"required,max=160"`
	ISBN          string  `json:"isbn" validate:"omitempty,min=10,max=17"`
	PublishedYear int     `json:"published_year" validate:"omitempty,gte=0,lte=2100"`
	CategoryID    *uint64 `json:"category_id"`
	LibraryID     uint64  `json:"library_id" validate:"required"`
}

func (u *Usecase) CreateBook(ctx context.Context, in BookInput) (*domainCatalog.Book, error) {
	b := &domainCatalog.Book{
		BookID:        id.NewID32(),
		Title:         in.Title,
		Author:        in.Author,
		ISBN:          in.ISBN,
		PublishedYear: in.PublishedYear,
		CategoryID:    in.CategoryID,
		LibraryID:     in.LibraryID,
	}
	if err := u.books.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (u *Usecase) GetBook(ctx context.Context, bookID string) (*domainCatalog.Book, error) {
	b, err := u.books.GetByBookID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainCatalog.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (u *Usecase) ListBooks(ctx context.Context, f domainCatalog.BookFilter) ([]domainCatalog.Book, error) {
	return u.books.List(ctx, f)
}

func (u *Usecase) UpdateBook(ctx context.Context, bookID string, in BookInput) (*domainCatalog.Book, error) {
	b, err := u.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	b.Title = in.Title
	b.Author = in.Author
	b.ISBN = in.ISBN
	b.PublishedYear = in.PublishedYear
	b.CategoryID = in.CategoryID
	if err := u.books.Save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (u *Usecase) DeleteBook(ctx context.Context, bookID string) error {
	b, err := u.GetBook(ctx, bookID)
	if err != nil {
		return err
	}
	return u.books.Delete(ctx, b)
}

// ---- categories ----

type CategoryInput struct {
	Name      string `json:"name" validate:"required,max=80"`
	LibraryID uint64 `json:"library_id" validate:"required"`
}

func (u *Usecase) CreateCategory(ctx context.Context, in CategoryInput) (*domainCatalog.Category, error) {
	c := &domainCatalog.Category{Name: in.Name, LibraryID: in.LibraryID}
	if err := u.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (u *Usecase) ListCategories(ctx context.Context, libraryID uint64) ([]domainCatalog.Category, error) {
	return u.categories.List(ctx, libraryID)
}

func (u *Usecase) UpdateCategory(ctx context.Context, catID uint64, in CategoryInput) (*domainCatalog.Category, error) {
	c, err := u.categories.GetByID(ctx, catID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainCatalog.ErrNotFound
		}
		return nil, err
	}
	c.Name = in.Name
	if err := u.categories.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (u *Usecase) DeleteCategory(ctx context.Context, catID uint64) error {
	c, err := u.categories.GetByID(ctx, catID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainCatalog.ErrNotFound
		}
		return err
	}
	return u.categories.Delete(ctx, c)
}

// ---- copies ----

type CopyInput struct {
	BookID     string     `json:"book_id" validate:"required,len=32"`
	Edition    string     `json:"edition" validate:"max=80"`
	AcquiredAt *time.Time `json:"acquired_at"`
}

type CopyUpdateInput struct {
	Edition string `json:"edition" validate:"max=80"`
	// Status may only be toggled between available and lost by staff;
	// borrowed is owned by the loan lifecycle.
	Status string `json:"status" validate:"omitempty,oneof=available lost"`
}

func (u *Usecase) CreateCopy(ctx context.Context, in CopyInput) (*domainCatalog.Copy, error) {
	b, err := u.GetBook(ctx, in.BookID)
	if err != nil {
		return nil, err
	}
	num, err := u.copies.NextNumber(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	c := &domainCatalog.Copy{
		CopyID:     id.NewID32(),
		BookID:     b.ID,
		Edition:    in.Edition,
		Number:     num,
		Status:     domainCatalog.CopyAvailable,
		LibraryID:  b.LibraryID,
		AcquiredAt: in.AcquiredAt,
	}
	if err := u.copies.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (u *Usecase) GetCopy(ctx context.Context, copyID string) (*domainCatalog.Copy, error) {
	c, err := u.copies.GetByCopyID(ctx, copyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainCatalog.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (u *Usecase) ListCopiesByBook(ctx context.Context, bookID string) ([]domainCatalog.Copy, error) {
	b, err := u.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return u.copies.ListByBook(ctx, b.ID)
}

// UpdateCopy lets staff edit the edition and flip available ↔ lost. Borrowed
// copies cannot be edited out from under their loan.
func (u *Usecase) UpdateCopy(ctx context.Context, copyID string, in CopyUpdateInput) (*domainCatalog.Copy, error) {
	c, err := u.GetCopy(ctx, copyID)
	if err != nil {
		return nil, err
	}
	if in.Status != "" {
		if c.Status == domainCatalog.CopyBorrowed {
			return nil, domainCatalog.ErrCopyBorrowed
		}
		c.Status = domainCatalog.CopyStatus(in.Status)
	}
	if in.Edition != "" {
		c.Edition = in.Edition
	}
	if err := u.copies.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCopy refuses while the copy is out on loan.
func (u *Usecase) DeleteCopy(ctx context.Context, copyID string) error {
	c, err := u.GetCopy(ctx, copyID)
	if err != nil {
		return err
	}
	if c.Status == domainCatalog.CopyBorrowed {
		return domainCatalog.ErrCopyBorrowed
	}
	n, err := u.loans.CountOngoingByCopy(ctx, c.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return domainCatalog.ErrCopyBorrowed
	}
	return u.copies.Delete(ctx, c)
}

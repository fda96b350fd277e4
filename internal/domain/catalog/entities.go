package catalog

import (
	"time"

	"gorm.io/gorm"
)

// CopyStatus is the closed set of physical-exemplar states. It is never
// written from free-form input; transitions go through the loan usecase or
// an explicit staff edit (lost).
type CopyStatus string

const (
	CopyAvailable CopyStatus = "available"
	CopyBorrowed  CopyStatus = "borrowed"
	CopyLost      CopyStatus = "lost"
)

func (s CopyStatus) Valid() bool {
	switch s {
	case CopyAvailable, CopyBorrowed, CopyLost:
		return true
	}
	return false
}

type Category struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"id"`
	Name      string    `gorm:"size:80;uniqueIndex:ux_categories_library_name,priority:2" json:"name"`
	LibraryID uint64    `gorm:"uniqueIndex:ux_categories_library_name,priority:1" json:"library_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Category) TableName() string { return "categories" }

type Book struct {
	ID            uint64         `gorm:"primaryKey;column:id" json:"-"`
	BookID        string         `gorm:"size:32;uniqueIndex:ux_books_book_id" json:"book_id"`
	Title         string         `gorm:"size:200;index:idx_books_title" json:"title"`
	Author        string         `gorm:"size:160;index:idx_books_author" json:"author"`
	ISBN          string         `gorm:"size:17" json:"isbn"`
	PublishedYear int            `json:"published_year"`
	CategoryID    *uint64        `gorm:"index:idx_books_category" json:"category_id"`
	LibraryID     uint64         `gorm:"index:idx_books_library" json:"library_id"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Book) TableName() string { return "books" }

type Copy struct {
	ID         uint64     `gorm:"primaryKey;column:id" json:"-"`
	CopyID     string     `gorm:"size:32;uniqueIndex:ux_copies_copy_id" json:"copy_id"`
	BookID     uint64     `gorm:"index:idx_copies_book" json:"-"`
	Book       *Book      `gorm:"belongsTo;foreignKey:BookID;references:ID" json:"book,omitempty"`
	Edition    string     `gorm:"size:80" json:"edition"`
	Number     int        `json:"number"`
	Status     CopyStatus `gorm:"size:12;default:'available'" json:"status"`
	LibraryID  uint64     `gorm:"index:idx_copies_library" json:"library_id"`
	AcquiredAt *time.Time `json:"acquired_at,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Copy) TableName() string { return "copies" }

package mysql

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"biblioteca-backend/internal/domain/access"
	userDomain "biblioteca-backend/internal/domain/user"
	"biblioteca-backend/pkg/id"
)

func TestClientRepo_Lookups(t *testing.T) {
	db := openTestDB(t)
	repo := NewClientRepository(db)
	ctx := context.Background()

	cl := seedClient(t, db, 1)

	byPublic, err := repo.GetByClientID(ctx, cl.ClientID)
	if err != nil {
		t.Fatalf("GetByClientID: %v", err)
	}
	if byPublic.ID != cl.ID {
		t.Fatalf("ids diverge: %d vs %d", byPublic.ID, cl.ID)
	}

	byCPF, err := repo.GetByCPF(ctx, cl.CPF)
	if err != nil {
		t.Fatalf("GetByCPF: %v", err)
	}
	if byCPF.ClientID != cl.ClientID {
		t.Fatalf("cpf lookup wrong client: %+v", byCPF)
	}

	byEmail, err := repo.GetByEmail(ctx, "maria@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail.ClientID != cl.ClientID {
		t.Fatalf("email lookup wrong client: %+v", byEmail)
	}
}

func TestClientRepo_SoftDeleteHidesClient(t *testing.T) {
	db := openTestDB(t)
	repo := NewClientRepository(db)
	ctx := context.Background()

	cl := seedClient(t, db, 1)
	if err := repo.Delete(ctx, cl); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByClientID(ctx, cl.ClientID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("deleted client still visible: %v", err)
	}
	list, err := repo.List(ctx, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("deleted client listed: %+v", list)
	}
}

func TestUserRepo_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &userDomain.User{
		UserID:       id.NewID32(),
		Name:         "João Bibliotecário",
		Email:        "joao@example.com",
		PasswordHash: "$2a$10$fakehash",
		Role:         access.RoleLibrarian,
		LibraryID:    1,
	}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}

	byID, err := repo.GetByUserID(ctx, u.UserID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if byID.Email != "joao@example.com" {
		t.Fatalf("user=%+v", byID)
	}

	byID.Name = "João B. Santos"
	if err := repo.Save(ctx, byID); err != nil {
		t.Fatalf("Save: %v", err)
	}
	byEmail, err := repo.GetByEmail(ctx, "joao@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail.Name != "João B. Santos" {
		t.Fatalf("update lost: %+v", byEmail)
	}
}

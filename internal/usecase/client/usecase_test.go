package client

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/gorm"

	domainClient "biblioteca-backend/internal/domain/client"
	infraauth "biblioteca-backend/internal/infrastructure/auth"
)

type mockRepo struct {
	CreateFn        func(ctx context.Context, c *domainClient.Client) error
	GetByClientIDFn func(ctx context.Context, clientID string) (*domainClient.Client, error)
	GetByCPFFn      func(ctx context.Context, cpf string) (*domainClient.Client, error)
	SaveFn          func(ctx context.Context, c *domainClient.Client) error
	DeleteFn        func(ctx context.Context, c *domainClient.Client) error
}

func (m *mockRepo) Create(ctx context.Context, c *domainClient.Client) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}

func (m *mockRepo) GetByID(context.Context, uint64) (*domainClient.Client, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRepo) GetByClientID(ctx context.Context, clientID string) (*domainClient.Client, error) {
	if m.GetByClientIDFn != nil {
		return m.GetByClientIDFn(ctx, clientID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRepo) GetByCPF(ctx context.Context, cpf string) (*domainClient.Client, error) {
	if m.GetByCPFFn != nil {
		return m.GetByCPFFn(ctx, cpf)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRepo) GetByEmail(context.Context, string) (*domainClient.Client, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRepo) List(context.Context, uint64) ([]domainClient.Client, error) { return nil, nil }

func (m *mockRepo) Save(ctx context.Context, c *domainClient.Client) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, c)
	}
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, c *domainClient.Client) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, c)
	}
	return nil
}

type recNotifier struct {
	bodies []string
}

func (n *recNotifier) NotifyLoanCreated(uint64, string, string, string)  {}
func (n *recNotifier) NotifyLoanReturned(uint64, string, string, string) {}
func (n *recNotifier) NotifyDirect(_ uint64, _, _, body string) {
	n.bodies = append(n.bodies, body)
}

func validInput() CreateClientInput {
	return CreateClientInput{
		FullName:  "Maria Silva",
		CPF:       "52998224725",
		Email:     "maria@example.com",
		LibraryID: 1,
	}
}

func TestCreate_GeneratesPasswordWhenAbsent(t *testing.T) {
	repo := &mockRepo{}
	note := &recNotifier{}
	uc := NewUsecase(repo, note)

	var created *domainClient.Client
	repo.CreateFn = func(_ context.Context, c *domainClient.Client) error {
		created = c
		return nil
	}

	dto, err := uc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if dto.GeneratedPassword == "" {
		t.Fatal("generated password missing from creation response")
	}
	if len(dto.GeneratedPassword) != 10 {
		t.Fatalf("generated password length=%d", len(dto.GeneratedPassword))
	}
	if !infraauth.CheckPassword(created.PasswordHash, dto.GeneratedPassword) {
		t.Fatal("stored hash does not match the generated password")
	}
	if len(note.bodies) != 1 || !strings.Contains(note.bodies[0], dto.GeneratedPassword) {
		t.Fatalf("welcome mail missing or without password: %v", note.bodies)
	}
}

func TestCreate_ExplicitPasswordIsNotEchoed(t *testing.T) {
	repo := &mockRepo{}
	note := &recNotifier{}
	uc := NewUsecase(repo, note)

	in := validInput()
	in.Password = "senha-escolhida"
	dto, err := uc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if dto.GeneratedPassword != "" {
		t.Fatal("explicit password must never be echoed back")
	}
	if len(note.bodies) != 0 {
		t.Fatal("no credential mail for explicit passwords")
	}
}

func TestCreate_CPFConflict(t *testing.T) {
	repo := &mockRepo{}
	uc := NewUsecase(repo, nil)
	repo.GetByCPFFn = func(context.Context, string) (*domainClient.Client, error) {
		return &domainClient.Client{ID: 1, CPF: "52998224725"}, nil
	}
	repo.CreateFn = func(context.Context, *domainClient.Client) error {
		t.Fatal("Create must not run on a CPF conflict")
		return nil
	}

	_, err := uc.Create(context.Background(), validInput())
	if !errors.Is(err, ErrCPFConflict) {
		t.Fatalf("err=%v, want ErrCPFConflict", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	uc := NewUsecase(&mockRepo{}, nil)
	_, err := uc.Get(context.Background(), "dddddddddddddddddddddddddddddddd")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
}

func TestUpdate_EditsContactFields(t *testing.T) {
	repo := &mockRepo{}
	uc := NewUsecase(repo, nil)
	existing := &domainClient.Client{
		ID: 7, ClientID: "dddddddddddddddddddddddddddddddd",
		FullName: "Maria Silva", CPF: "52998224725", Email: "maria@example.com", LibraryID: 1,
	}
	repo.GetByClientIDFn = func(context.Context, string) (*domainClient.Client, error) {
		return existing, nil
	}

	dto, err := uc.Update(context.Background(), existing.ClientID, UpdateClientInput{
		FullName: "Maria S. Santos", Phone: "11999990000", Email: "maria.s@example.com",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if dto.FullName != "Maria S. Santos" || dto.Phone != "11999990000" {
		t.Fatalf("dto=%+v", dto)
	}
	// CPF is immutable through Update
	if dto.CPF != "52998224725" {
		t.Fatalf("cpf changed: %s", dto.CPF)
	}
}

func TestDelete_NotFound(t *testing.T) {
	uc := NewUsecase(&mockRepo{}, nil)
	if err := uc.Delete(context.Background(), "dddddddddddddddddddddddddddddddd"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
}

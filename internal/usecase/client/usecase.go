package client

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domainClient "biblioteca-backend/internal/domain/client"
	infraauth "biblioteca-backend/internal/infrastructure/auth"
	"biblioteca-backend/internal/notify"
	"biblioteca-backend/pkg/id"
)

var (
	ErrNotFound    = errors.New("client: not found")
	ErrCPFConflict = errors.New("client: cpf already registered")
)

type Usecase struct {
	repo     domainClient.Repository
	notifier notify.Notifier
}

func NewUsecase(repo domainClient.Repository, n notify.Notifier) *Usecase {
	if n == nil {
		n = notify.Noop{}
	}
	return &Usecase{repo: repo, notifier: n}
}

type CreateClientInput struct {
	FullName  string `json:"full_name" validate:"required,max=160"`
	CPF       string `json:"cpf" validate:"required,cpf"`
	Phone     string `json:"phone" validate:"max=20"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"omitempty,min=6"`
	LibraryID uint64 `json:"library_id" validate:"required"`
}

type UpdateClientInput struct {
	FullName string `json:"full_name" validate:"required,max=160"`
	Phone    string `json:"phone" validate:"max=20"`
	Email    string `json:"email" validate:"required,email"`
}

// ClientDTO carries GeneratedPassword exactly once: on the creation response
// for accounts provisioned without an explicit password.
type ClientDTO struct {
	ClientID          string `json:"client_id"`
	FullName          string `json:"full_name"`
	CPF               string `json:"cpf"`
	Phone             string `json:"phone"`
	Email             string `json:"email"`
	LibraryID         uint64 `json:"library_id"`
	GeneratedPassword string `json:"generated_password,omitempty"`
}

func toDTO(c *domainClient.Client) *ClientDTO {
	return &ClientDTO{
		ClientID:  c.ClientID,
		FullName:  c.FullName,
		CPF:       c.CPF,
		Phone:     c.Phone,
		Email:     c.Email,
		LibraryID: c.LibraryID,
	}
}

// Create provisions a member. When no password is supplied one is generated,
// returned once in the DTO and mailed best-effort.
func (u *Usecase) Create(ctx context.Context, in CreateClientInput) (*ClientDTO, error) {
	if _, err := u.repo.GetByCPF(ctx, in.CPF); err == nil {
		return nil, ErrCPFConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	password := in.Password
	generated := password == ""
	if generated {
		password = id.NewID32()[:10]
	}
	hash, err := infraauth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	c := &domainClient.Client{
		ClientID:     id.NewID32(),
		FullName:     in.FullName,
		CPF:          in.CPF,
		Phone:        in.Phone,
		Email:        in.Email,
		PasswordHash: hash,
		LibraryID:    in.LibraryID,
	}
	if err := u.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	dto := toDTO(c)
	if generated {
		dto.GeneratedPassword = password
		body := fmt.Sprintf("Olá %s,\n\nSeu cadastro foi criado. Senha de acesso: %s\n", c.FullName, password)
		u.notifier.NotifyDirect(c.LibraryID, c.Email, "Bem-vindo à biblioteca", body)
	}
	return dto, nil
}

func (u *Usecase) Get(ctx context.Context, clientID string) (*ClientDTO, error) {
	c, err := u.repo.GetByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toDTO(c), nil
}

func (u *Usecase) List(ctx context.Context, libraryID uint64) ([]ClientDTO, error) {
	cs, err := u.repo.List(ctx, libraryID)
	if err != nil {
		return nil, err
	}
	out := make([]ClientDTO, 0, len(cs))
	for i := range cs {
		out = append(out, *toDTO(&cs[i]))
	}
	return out, nil
}

func (u *Usecase) Update(ctx context.Context, clientID string, in UpdateClientInput) (*ClientDTO, error) {
	c, err := u.repo.GetByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	c.FullName = in.FullName
	c.Phone = in.Phone
	c.Email = in.Email
	if err := u.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return toDTO(c), nil
}

func (u *Usecase) Delete(ctx context.Context, clientID string) error {
	c, err := u.repo.GetByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return u.repo.Delete(ctx, c)
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"biblioteca-backend/internal/domain/access"
	domainClient "biblioteca-backend/internal/domain/client"
	domainUser "biblioteca-backend/internal/domain/user"
	infraauth "biblioteca-backend/internal/infrastructure/auth"
	"biblioteca-backend/internal/notify"
	"biblioteca-backend/pkg/id"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrInvalidResetToken  = errors.New("auth: invalid or expired reset token")
)

const (
	resetKeyPrefix = "pwreset:"
	resetTTL       = 30 * time.Minute
)

type Usecase struct {
	users    domainUser.Repository
	clients  domainClient.Repository
	tokens   *infraauth.TokenService
	rdb      *redis.Client
	notifier notify.Notifier
}

func NewUsecase(users domainUser.Repository, clients domainClient.Repository, tokens *infraauth.TokenService, rdb *redis.Client, n notify.Notifier) *Usecase {
	if n == nil {
		n = notify.Noop{}
	}
	return &Usecase{users: users, clients: clients, tokens: tokens, rdb: rdb, notifier: n}
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SessionDTO struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	Name  string `json:"name"`
}

// LoginUser authenticates a staff user. Lookup failure and password failure
// produce the same error so the endpoint does not leak which emails exist.
func (u *Usecase) LoginUser(ctx context.Context, in LoginInput) (*SessionDTO, error) {
	usr, err := u.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !infraauth.CheckPassword(usr.PasswordHash, in.Password) {
		return nil, ErrInvalidCredentials
	}

	tok, err := u.tokens.Issue(access.Actor{
		PublicID:  usr.UserID,
		Type:      access.ActorUser,
		Role:      usr.Role,
		LibraryID: usr.LibraryID,
	})
	if err != nil {
		return nil, err
	}
	return &SessionDTO{Token: tok, Role: string(usr.Role), Name: usr.Name}, nil
}

// LoginClient authenticates a library member (used for the public
// self-service view and the loan-confirmation step-up).
func (u *Usecase) LoginClient(ctx context.Context, in LoginInput) (*SessionDTO, error) {
	cl, err := u.clients.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !infraauth.CheckPassword(cl.PasswordHash, in.Password) {
		return nil, ErrInvalidCredentials
	}

	tok, err := u.tokens.Issue(access.Actor{
		PublicID:  cl.ClientID,
		Type:      access.ActorClient,
		Role:      access.RoleMember,
		LibraryID: cl.LibraryID,
	})
	if err != nil {
		return nil, err
	}
	return &SessionDTO{Token: tok, Role: string(access.RoleMember), Name: cl.FullName}, nil
}

// ForgotPassword issues a reset token for a staff user. It succeeds silently
// for unknown emails; the token travels only by email.
func (u *Usecase) ForgotPassword(ctx context.Context, email string) error {
	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	token := id.NewID32()
	if err := u.rdb.Set(ctx, resetKeyPrefix+token, usr.UserID, resetTTL).Err(); err != nil {
		return err
	}

	body := fmt.Sprintf("Olá %s,\n\nUse o código abaixo para redefinir sua senha (válido por 30 minutos):\n\n%s\n", usr.Name, token)
	u.notifier.NotifyDirect(usr.LibraryID, usr.Email, "Redefinição de senha", body)
	return nil
}

// ResetPassword consumes a reset token and stores the new hash.
func (u *Usecase) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := u.rdb.GetDel(ctx, resetKeyPrefix+token).Result()
	if err == redis.Nil {
		return ErrInvalidResetToken
	}
	if err != nil {
		return err
	}

	usr, err := u.users.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}
	hash, err := infraauth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	usr.PasswordHash = hash
	return u.users.Save(ctx, usr)
}

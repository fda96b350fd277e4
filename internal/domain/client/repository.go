package client

import "context"

type Repository interface {
	Create(ctx context.Context, c *Client) error
	GetByID(ctx context.Context, id uint64) (*Client, error)
	GetByClientID(ctx context.Context, clientID string) (*Client, error)
	GetByCPF(ctx context.Context, cpf string) (*Client, error)
	GetByEmail(ctx context.Context, email string) (*Client, error)
	List(ctx context.Context, libraryID uint64) ([]Client, error)
	Save(ctx context.Context, c *Client) error
	Delete(ctx context.Context, c *Client) error
}

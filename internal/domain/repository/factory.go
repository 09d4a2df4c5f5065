package repository

import "context"

// Factory describes access to different domain repositories.
type Factory interface {
	Users() UserRepository
	Orders() OrderRepository
	Statuses() StatusRepository
	HealthCheck(ctx context.Context) error
	Close()
}

package domain

import "context"

type Service interface {
	Stats(ctx context.Context) (Stats, error)
}

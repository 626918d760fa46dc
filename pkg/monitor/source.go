package monitor

import (
	"context"

	"github.com/chain-guardian/pkg/upstream"
)

// Source delivers one round of upstream data. *upstream.Client implements it.
//
//go:generate mockgen -destination=mocks/mock_source.go -package=mocks -source=source.go Source
type Source interface {
	FetchAll(ctx context.Context) upstream.Result
}

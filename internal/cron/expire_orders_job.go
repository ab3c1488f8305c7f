package cron

import (
	"context"

	pkgerrors "github.com/rasoilink/rasoilink-backend/pkg/errors"
	"github.com/rasoilink/rasoilink-backend/pkg/logger"
)

type orderCloser interface {
	CloseExpired(ctx context.Context) (int, error)
}

// ExpireOrdersJobParams configure the group order expiry sweep.
type ExpireOrdersJobParams struct {
	Logger *logger.Logger
	Orders orderCloser
}

type expireOrdersJob struct {
	logg   *logger.Logger
	orders orderCloser
}

// NewExpireOrdersJob builds the job that closes forming group orders
// past their close time.
func NewExpireOrdersJob(params ExpireOrdersJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "group order service is required")
	}
	return &expireOrdersJob{logg: params.Logger, orders: params.Orders}, nil
}

func (j *expireOrdersJob) Name() string { return "expire-orders" }

func (j *expireOrdersJob) Run(ctx context.Context) error {
	closed, err := j.orders.CloseExpired(ctx)
	if err != nil {
		return err
	}
	ctx = j.logg.WithField(ctx, "closed", closed)
	j.logg.Info(ctx, "expiry sweep complete")
	return nil
}

package actions

import (
	"context"

	"gitlab.com/paramountdax-exchange/distribution_api/config"
	"gitlab.com/paramountdax-exchange/distribution_api/service"
)

// Actions structure
type Actions struct {
	ctx     context.Context
	cfg     config.Config
	service *service.Service
}

// NewActions constructor
func NewActions(cfg config.Config, srv *service.Service, ctx context.Context) *Actions {
	return &Actions{
		ctx:     ctx,
		cfg:     cfg,
		service: srv,
	}
}

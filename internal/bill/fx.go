package bill

import (
	"github.com/boqbill/boqbill/internal/bill/repository"
	"github.com/boqbill/boqbill/internal/bill/service"
	"go.uber.org/fx"
)

var Module = fx.Module("bill.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

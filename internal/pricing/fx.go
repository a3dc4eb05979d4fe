package pricing

import (
	"github.com/boqbill/boqbill/internal/pricing/repository"
	"github.com/boqbill/boqbill/internal/pricing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("pricing.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

package company

import (
	"github.com/boqbill/boqbill/internal/company/repository"
	"github.com/boqbill/boqbill/internal/company/service"
	"go.uber.org/fx"
)

var Module = fx.Module("company.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

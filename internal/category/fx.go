package category

import (
	"github.com/boqbill/boqbill/internal/category/repository"
	"github.com/boqbill/boqbill/internal/category/service"
	"go.uber.org/fx"
)

var Module = fx.Module("category.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

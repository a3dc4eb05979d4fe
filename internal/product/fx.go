package product

import (
	"github.com/boqbill/boqbill/internal/product/repository"
	"github.com/boqbill/boqbill/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

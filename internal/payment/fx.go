package payment

import (
	"github.com/boqbill/boqbill/internal/payment/repository"
	"github.com/boqbill/boqbill/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

package billtemplate

import (
	"github.com/boqbill/boqbill/internal/billtemplate/repository"
	"github.com/boqbill/boqbill/internal/billtemplate/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billtemplate.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

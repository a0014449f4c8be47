package service

import (
	"github.com/avdeevlv/go-pii-vault/internal/config"
	"github.com/avdeevlv/go-pii-vault/internal/crypto"
	"github.com/avdeevlv/go-pii-vault/internal/logger"
	"github.com/avdeevlv/go-pii-vault/internal/store"
)

type Services struct {
	AccountService AccountService
	FieldService   FieldService
}

// NewServices wires the service layer onto the resolved storage environment.
// A single cipher provider instance is shared by both services so they agree
// on the KDF parameters.
func NewServices(env *store.Environment, cfg config.App, logger *logger.Logger) *Services {
	provider := crypto.NewAESGCMProvider(cfg.KDFIterations)

	return &Services{
		AccountService: NewAccountService(env.Storages.AccountRepository, env.Storages.SessionRepository,
			env.KeyCache, provider, cfg, logger),
		FieldService: NewFieldService(env.Storages.FieldRepository, env.KeyCache, provider, logger),
	}
}

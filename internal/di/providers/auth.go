package providers

import (
	"github.com/samber/do/v2"

	"github.com/notesapp/notes-server/internal/auth"
	"github.com/notesapp/notes-server/internal/config"
	"github.com/notesapp/notes-server/internal/logger"
)

// AuthKey wraps the token key bytes.
type AuthKey []byte

// ProvideAuthKey uses TOKEN_KEY when configured, otherwise loads or generates
// {DataPath}/auth.key.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Auth.TokenKey != nil {
		log.Info("Token key loaded from configuration", "token_duration", cfg.Auth.TokenDuration)
		return AuthKey(cfg.Auth.TokenKey), nil
	}

	key, err := auth.LoadOrGenerateKey(cfg.Storage.DataPath)
	if err != nil {
		return nil, err
	}
	cfg.Auth.TokenKey = key

	log.Info("Token key loaded",
		"path", cfg.Storage.DataPath,
		"token_duration", cfg.Auth.TokenDuration,
	)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authKey := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService(authKey, cfg.Auth.TokenDuration)
}

// ProvidePasswordHasher provides the argon2id hasher.
func ProvidePasswordHasher(i do.Injector) (*auth.PasswordHasher, error) {
	return auth.NewPasswordHasher(auth.DefaultParams), nil
}

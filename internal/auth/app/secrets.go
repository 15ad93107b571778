package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/gatekeep/pkg/cryptox"
	"github.com/aussiebroadwan/gatekeep/pkg/jwtx"
)

// NewCodec builds the token codec from cfg. Missing secrets are generated
// when the environment allows it; tokens minted with them die with the
// process.
func NewCodec(cfg Config, logger *slog.Logger) (*jwtx.Codec, error) {
	access, err := secretOrEphemeral(cfg, cfg.AccessSecret, "JWT_SECRET_KEY", logger)
	if err != nil {
		return nil, err
	}
	refresh, err := secretOrEphemeral(cfg, cfg.RefreshSecret, "JWT_REFRESH_SECRET_KEY", logger)
	if err != nil {
		return nil, err
	}

	codec, err := jwtx.NewCodec(jwtx.Config{
		AccessSecret:  []byte(access),
		RefreshSecret: []byte(refresh),
		Algorithm:     cfg.Algorithm,
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token codec: %w", err)
	}

	logger.Info("token codec ready",
		"algorithm", codec.Alg(),
		"access_ttl", cfg.AccessTTL,
		"refresh_ttl", cfg.RefreshTTL,
	)
	return codec, nil
}

func secretOrEphemeral(cfg Config, secret, name string, logger *slog.Logger) (string, error) {
	if secret != "" {
		return secret, nil
	}
	if !cfg.AllowsEphemeralSecrets() {
		return "", fmt.Errorf("%s is not set", name)
	}

	generated, err := cryptox.GenerateToken(cryptox.TokenSize512)
	if err != nil {
		return "", err
	}
	logger.Warn("generated ephemeral signing secret, tokens will not survive a restart",
		"setting", name,
		"env", cfg.Env,
	)
	return generated, nil
}

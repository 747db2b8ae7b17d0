package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/fckoffmw/replay-service/internal/session"
	"github.com/fckoffmw/replay-service/pkg/env"
	pkghttp "github.com/fckoffmw/replay-service/pkg/http"
	"github.com/fckoffmw/replay-service/pkg/log"
	pkgstrings "github.com/fckoffmw/replay-service/pkg/strings"
)

const (
	// DestinationReplayService resolves its base URL from
	// REPLAY_SERVICE_URL.
	DestinationReplayService pkghttp.Destination = "replayService"

	defaultAPIBaseURL     = "http://localhost:8080/api/v1"
	defaultRequestTimeout = time.Minute
	appDirName            = "replay"
)

type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	IdentityMode   session.IdentityMode
	CredentialPath string
	CachePath      string
	LogLevel       log.Level
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	apiBaseURL, err := env.ParseDefault(serviceURLEnv(DestinationReplayService), defaultAPIBaseURL)
	if err != nil {
		return nil, err
	}

	requestTimeout, err := env.ParseDefault("REQUEST_TIMEOUT", defaultRequestTimeout)
	if err != nil {
		return nil, err
	}

	identityMode, err := env.ParseDefault("IDENTITY_MODE", string(session.IdentityModeLogin))
	if err != nil {
		return nil, err
	}
	mode := session.IdentityMode(identityMode)
	if mode != session.IdentityModeLogin && mode != session.IdentityModeEmail {
		return nil, fmt.Errorf("unknown identity mode %q", identityMode)
	}

	credentialPath, err := env.ParseOptional[string]("CREDENTIAL_PATH")
	if err != nil {
		return nil, err
	}
	if credentialPath == nil {
		defaultPath, err := defaultCredentialPath()
		if err != nil {
			return nil, err
		}
		credentialPath = &defaultPath
	}

	cachePath, err := env.ParseOptional[string]("CACHE_PATH")
	if err != nil {
		return nil, err
	}
	if cachePath == nil {
		defaultPath, err := defaultCachePath()
		if err != nil {
			return nil, err
		}
		cachePath = &defaultPath
	}

	logLevel, err := env.ParseDefault("LOG_LEVEL", "disabled")
	if err != nil {
		return nil, err
	}

	return &Config{
		APIBaseURL:     apiBaseURL,
		RequestTimeout: requestTimeout,
		IdentityMode:   mode,
		CredentialPath: *credentialPath,
		CachePath:      *cachePath,
		LogLevel:       log.ParseLevel(logLevel),
	}, nil
}

func serviceURLEnv(dest pkghttp.Destination) string {
	return fmt.Sprintf("%s_URL", pkgstrings.ToScreamingSnakeCase(string(dest)))
}

func defaultCredentialPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, appDirName, "credential"), nil
}

func defaultCachePath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve user cache dir: %w", err)
	}
	return filepath.Join(dir, appDirName, "listings.db"), nil
}

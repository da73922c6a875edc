package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix namespaces the environment variables read by parseEnv,
// e.g. GOPHAUTH_DATABASE_DSN.
const EnvPrefix = "GOPHAUTH_"

// parseEnv overlays values from GOPHAUTH_* environment variables. Keys are
// the lower-cased remainder of the variable name, matching the JSON keys.
// Unset variables leave the current value untouched; malformed values panic,
// as malformed JSON does.
func parseEnv(config *Config) {
	k := koanf.New(".")
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		panic(err)
	}

	strs := map[string]*string{
		"endpoint_addr_grpc": &config.EndpointAddrGRPC,
		"database_dsn":       &config.DatabaseDSN,
		"secret_key":         &config.SecretKey,
		"smtp_host":          &config.SMTPHost,
		"smtp_username":      &config.SMTPUsername,
		"smtp_password":      &config.SMTPPassword,
		"smtp_from":          &config.SMTPFrom,
	}
	for key, dst := range strs {
		if k.Exists(key) {
			*dst = k.String(key)
		}
	}

	if k.Exists("smtp_port") {
		config.SMTPPort = k.MustInt("smtp_port")
	}
	if k.Exists("mail_queue_size") {
		config.MailQueueSize = k.MustInt("mail_queue_size")
	}
	if k.Exists("shutdown_timeout") {
		d, err := time.ParseDuration(k.String("shutdown_timeout"))
		if err != nil {
			panic(err)
		}
		config.ShutdownTimeout = d
	}
}

package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string              gRPC bind address (e.g., ":50051")
//	-d string              PostgreSQL DSN
//	-s string              token signing secret (>= 32 bytes)
//	-smtp-host string      SMTP server; empty logs codes instead of mailing
//	-smtp-port int         SMTP port (465 = implicit TLS)
//	-smtp-user string      SMTP username
//	-smtp-password string  SMTP password
//	-smtp-from string      From header of reset mails
//	-q int                 mail queue size
//	-shutdown duration     graceful shutdown timeout (e.g., "10s")
//
// os.Args is first filtered to the flags recognized here with
// flagx.FilterArgs, so -c/-config and flags of other components do not
// cause parse errors.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-d", "-s", "-smtp-host", "-smtp-port", "-smtp-user",
		"-smtp-password", "-smtp-from", "-q", "-shutdown",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.SMTPHost, "smtp-host", config.SMTPHost, "SMTP host")
	fs.IntVar(&config.SMTPPort, "smtp-port", config.SMTPPort, "SMTP port")
	fs.StringVar(&config.SMTPUsername, "smtp-user", config.SMTPUsername, "SMTP username")
	fs.StringVar(&config.SMTPPassword, "smtp-password", config.SMTPPassword, "SMTP password")
	fs.StringVar(&config.SMTPFrom, "smtp-from", config.SMTPFrom, "SMTP sender address")
	fs.IntVar(&config.MailQueueSize, "q", config.MailQueueSize, "mail queue size")
	fs.DurationVar(&config.ShutdownTimeout, "shutdown", config.ShutdownTimeout, "graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}

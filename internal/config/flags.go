package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN
//	-environment runtime environment ("local" or "hosted")
//	-c/-config json file path with configs
//	-email-index-key email lookup digest key
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-session-duration session lifetime (e.g., "12h", "30m")
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-kdf-iterations PBKDF2 iteration count
//	-password-hash-cost bcrypt work factor
//	-sweep-interval expired session sweep interval
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var databaseDSN string
	var environment string
	var jsonConfigPath string
	var emailIndexKey string
	var tokenSignKey string
	var tokenIssuer string
	var sessionDuration time.Duration
	var requestTimeout time.Duration
	var kdfIterations int
	var passwordHashCost int
	var sweepInterval time.Duration

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&environment, "environment", "", "Runtime environment (local or hosted)")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&emailIndexKey, "email-index-key", "", "Email lookup digest key")
	flag.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	flag.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	flag.DurationVar(&sessionDuration, "session-duration", 0, "Session lifetime (e.g., 12h, 30m)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.IntVar(&kdfIterations, "kdf-iterations", 0, "PBKDF2 iteration count (0 = default)")
	flag.IntVar(&passwordHashCost, "password-hash-cost", 0, "bcrypt work factor (0 = default)")
	flag.DurationVar(&sweepInterval, "sweep-interval", 0, "Expired session sweep interval")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			EmailIndexKey:    emailIndexKey,
			TokenSignKey:     tokenSignKey,
			TokenIssuer:      tokenIssuer,
			SessionDuration:  sessionDuration,
			KDFIterations:    kdfIterations,
			PasswordHashCost: passwordHashCost,
		},
		Storage: Storage{
			Environment: environment,
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Workers: Workers{
			SweepInterval: sweepInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns the empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}

package config

import "time"

const defaultPort = 8080

var defaultDB = DB{
	Host:    "127.0.0.1",
	Port:    "5432",
	User:    "myuser",
	Pass:    "mypassword",
	Name:    "bidding",
	Migrate: true,
}

var defaultKafka = Kafka{
	OrdersTopic:        "orders",
	GroupID:            "service-bidding",
	NotificationsTopic: "courier-notifications",
}

var defaultFee = Fee{
	Version:           "v1",
	BaseFee:           5,
	PerKm:             1.5,
	FallbackFee:       20,
	UrgentMultiplier:  1.5,
	ExpressMultiplier: 2.0,
}

var defaultBids = BidBounds{
	OrderMin: 0.8,
	OrderMax: 2.5,
	P2PMin:   0.5,
	P2PMax:   3.0,
}

var defaultRateLimit = RateLimit{
	Enabled:    true,
	Rate:       5,
	Burst:      10,
	TTL:        5 * time.Minute,
	MaxBuckets: 10000,
}

var defaultNotify = NotifyRetry{
	MaxAttempts: 4,
	BaseDelay:   150 * time.Millisecond,
	MaxDelay:    time.Second,
}

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}

// DefaultDB returns the default database settings.
func DefaultDB() DB {
	return defaultDB
}

// DefaultFee returns the default fee rate table.
func DefaultFee() Fee {
	return defaultFee
}

// DefaultBids returns the default bid bounds.
func DefaultBids() BidBounds {
	return defaultBids
}

// DefaultRateLimit returns the default rate limit settings.
func DefaultRateLimit() RateLimit {
	return defaultRateLimit
}

// DefaultNotify returns the default notification retry settings.
func DefaultNotify() NotifyRetry {
	return defaultNotify
}

// Default returns a complete configuration built from the defaults.
func Default() Config {
	return Config{
		Port:             defaultPort,
		OperationTimeout: 3 * time.Second,
		Storage:          StoragePostgres,
		DB:               defaultDB,
		Kafka:            defaultKafka,
		Auth:             Auth{Secret: "dev-secret", Issuer: "marketplace-auth"},
		Fee:              defaultFee,
		Bids:             defaultBids,
		RateLimit:        defaultRateLimit,
		Notify:           defaultNotify,
		Log:              Log{Level: "info", Backend: "slog"},
		Pprof:            Pprof{Addr: "127.0.0.1:6060"},
	}
}

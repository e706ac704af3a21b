package config

import (
	"os"
	"strconv"
)

// Settings holds business configuration read once at startup. Services
// receive it by injection so tests can supply different limits without
// touching process environment.
type Settings struct {
	MaxDistinctPostNames int
	MaxOSCPerPostName    int

	PaymentEnabled         bool
	PaymentBaseFee         float64
	PaymentPlatformPercent float64
	PaymentCGSTPercent     float64
	PaymentSGSTPercent     float64
	PaymentSecret          string

	SchedulerIntervalMinutes int
}

// AppSettings is populated by LoadSettings during startup.
var AppSettings Settings

// LoadSettings reads all business configuration from the environment,
// applying documented defaults.
func LoadSettings() Settings {
	AppSettings = Settings{
		MaxDistinctPostNames: envInt("MAX_DISTINCT_POST_NAMES", 2),
		MaxOSCPerPostName:    envInt("MAX_OSC_PER_POST_NAME", 2),

		PaymentEnabled:         envBool("PAYMENT_ENABLED", true),
		PaymentBaseFee:         envFloat("PAYMENT_BASE_FEE", 500),
		PaymentPlatformPercent: envFloat("PAYMENT_PLATFORM_FEE_PERCENT", 2),
		PaymentCGSTPercent:     envFloat("PAYMENT_CGST_PERCENT", 9),
		PaymentSGSTPercent:     envFloat("PAYMENT_SGST_PERCENT", 9),
		PaymentSecret:          os.Getenv("PAYMENT_GATEWAY_SECRET"),

		SchedulerIntervalMinutes: envInt("POST_SCHEDULER_INTERVAL_MINUTES", 60),
	}
	return AppSettings
}

func envInt(key string, fallback int) int {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v >= 0 {
			return v
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}

package config

import (
	"os"
)

// Environment represents the current runtime environment
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment determines the current environment. CI=true wins over ENV.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}

	switch Environment(os.Getenv("ENV")) {
	case Production:
		return Production
	case Test:
		return Test
	default:
		return Development
	}
}

// IsProduction returns true if the current environment is production
func IsProduction() bool {
	return GetEnvironment() == Production
}

// usesSecrets reports whether sensitive values are read from docker secrets.
func (e Environment) usesSecrets() bool {
	return e != CI
}

// loadsDotEnv reports whether a local .env file is honoured.
func (e Environment) loadsDotEnv() bool {
	return e == Development || e == Test
}

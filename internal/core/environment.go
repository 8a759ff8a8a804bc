package core

// Environment names the deployment environment the agent runs in. It mainly
// drives logger setup and gin's mode.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

func (e Environment) String() string {
	return string(e)
}

func (e Environment) IsProduction() bool {
	return e == Production
}

// ParseEnvironment maps a raw APP_ENV value onto a known environment.
// Anything unrecognized falls back to Development so a missing or mistyped
// value never blocks startup.
func ParseEnvironment(v string) Environment {
	switch Environment(v) {
	case Production, Staging, Testing:
		return Environment(v)
	default:
		return Development
	}
}

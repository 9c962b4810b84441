package internal

// Option is a functional option for configuring the application run.
type Option func(*application)

type application struct {
	config *Config
}

// WithConfig sets the application configuration used by Run.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

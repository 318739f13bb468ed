// Package config defines process configuration and its loading.
//
// Configuration layers, lowest precedence first: built-in defaults, an
// optional YAML file named by MAINSTAGE_CONFIG, then MAINSTAGE_-prefixed
// environment variables.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath is the SQLite database file path.
	DBPath string `koanf:"db_path"`

	// CSRFKey is the 32-byte key for CSRF token generation. A default is
	// provided for development only.
	CSRFKey string `koanf:"csrf_key"`

	// TrustedOrigins lists hosts allowed to submit forms, checked by the CSRF
	// layer. Defaults cover local development; set the public hostname in
	// deployment.
	TrustedOrigins []string `koanf:"trusted_origins"`

	// SessionTTLMinutes bounds how long a login session stays valid.
	SessionTTLMinutes int `koanf:"session_ttl_minutes"`

	// AdminPasscode and ViewerPasscode seed the admin and viewer identities
	// on first run. Empty skips seeding that identity.
	AdminPasscode  string `koanf:"admin_passcode"`
	ViewerPasscode string `koanf:"viewer_passcode"`

	// TeamPasscodes maps team IDs to their shared passcodes, seeded on first
	// run. Usually set via the YAML config file.
	TeamPasscodes map[string]string `koanf:"team_passcodes"`

	// ResendAPIKey enables outbound email when set; empty uses the no-op sender.
	ResendAPIKey string `koanf:"resend_api_key"`

	// EmailFrom is the sender address for notification emails.
	EmailFrom string `koanf:"email_from"`

	// ReportNotifyAddr receives incident report notifications. Empty disables them.
	ReportNotifyAddr string `koanf:"report_notify_addr"`
}

// New creates a Config with development defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":8080",
		DBPath:            "mainstage.db",
		CSRFKey:           "dev-only-csrf-key-32-bytes-long!",
		TrustedOrigins:    []string{"localhost:8080", "127.0.0.1:8080"},
		SessionTTLMinutes: 12 * 60,
		TeamPasscodes:     map[string]string{},
		EmailFrom:         "Mainstage <noreply@mainstage.example>",
	}
}

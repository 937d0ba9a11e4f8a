package config

const (
	defaultAuxDir            = "~/.local/share/ladsync/aux"
	defaultStagingDir        = "~/.local/share/ladsync/staging"
	defaultLogDir            = "~/.local/share/ladsync/logs"
	defaultLAADSBaseURL      = "https://ladsweb.modaps.eosdis.nasa.gov"
	defaultUserAgent         = "ladsync/1.0"
	defaultViirsStartDate    = "2099-01-01"
	defaultRetryBudget       = 5
	defaultRetryDelaySeconds = 60
	defaultLagDays           = 2
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			AuxDir:     defaultAuxDir,
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
		},
		LAADS: LAADS{
			BaseURL:   defaultLAADSBaseURL,
			UserAgent: defaultUserAgent,
		},
		Resolver: Resolver{
			ViirsStartDate: defaultViirsStartDate,
		},
		Fetch: Fetch{
			RetryBudget:       defaultRetryBudget,
			RetryDelaySeconds: defaultRetryDelaySeconds,
			LagDays:           defaultLagDays,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

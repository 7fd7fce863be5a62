package config

const (
	defaultDataDir               = "~/.local/share/curator"
	defaultLogDir                = "~/.local/share/curator/logs"
	defaultLogRetentionDays      = 60
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultConsoleRequestTimeout = 30
	defaultSyncLimit             = 9999
	defaultHistoryKeepRuns       = 200
	defaultNotifyRequestTimeout  = 10
	defaultNotifyMinAttempted    = 1
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Console: Console{
			RequestTimeout: defaultConsoleRequestTimeout,
		},
		Sync: Sync{
			Limit: defaultSyncLimit,
		},
		History: History{
			Enabled:  true,
			KeepRuns: defaultHistoryKeepRuns,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Completion:     true,
			Errors:         true,
			MinAttempted:   defaultNotifyMinAttempted,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}

package settings

const (
	defaultDataDir           = "~/.local/share/chime"
	defaultLogDir            = "~/.local/share/chime/logs"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultTTSTimeout        = 30
	defaultPlayerBinary      = "mpg123"
	defaultPrinterGroup      = 1
	defaultRotationMinutes   = 30
	defaultBusyTimeout       = 30
	defaultLoadRetryInterval = 60
	defaultPollInterval      = 60
	defaultFetchLead         = 60
	defaultRolloverTime      = "01:00"
	defaultPostAnnouncePause = 1
)

// Default returns Settings populated with repository defaults.
func Default() Settings {
	return Settings{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		TTS: TTS{
			RequestTimeout: defaultTTSTimeout,
		},
		Player: Player{
			Binary: defaultPlayerBinary,
		},
		Colors: Colors{
			PrinterGroup:    defaultPrinterGroup,
			RotationMinutes: defaultRotationMinutes,
			BusyTimeout:     defaultBusyTimeout,
		},
		Loop: Loop{
			LoadRetryInterval: defaultLoadRetryInterval,
			PollInterval:      defaultPollInterval,
			FetchLead:         defaultFetchLead,
			RolloverTime:      defaultRolloverTime,
			PostAnnouncePause: defaultPostAnnouncePause,
		},
	}
}

package commands

// History display constants
const (
	// DefaultHistoryLimit is the default number of entries listed
	DefaultHistoryLimit = 20
	// MaxHistoryAnalysisRecords bounds the records read by 'history stats'
	MaxHistoryAnalysisRecords = 500
	// TimestampFormat is how run timestamps are listed
	TimestampFormat = "2006-01-02 15:04:05"
	// TopCommandsShown is the number of commands listed by 'history stats'
	TopCommandsShown = 5
)

// Error messages
const (
	ErrConfigLoaderUnavailable = "config loader unavailable"
	ErrHistoryDisabled         = "history is disabled in settings"
)

// Success messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgNoHistoryRecorded        = "No history recorded yet."
	MsgHistoryCleared           = "History cleared."
)

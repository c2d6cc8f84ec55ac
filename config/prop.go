package config

// RFC3339 Configuration
const (

	// serialization timezone: UTC, IANA name (e.g., Asia/Shanghai), fixed offset (e.g., +05:30, -0800) or offset in hours (e.g., 8) | UTC
	PropSerializationTimezone = "rfc3339.serialization-timezone"

	// emit fraction zero-padded to 3 digits and read fraction as decimal fraction of a second | false
	PropStandardFraction = "rfc3339.standard-fraction"

	// sign of the offset follows the total offset instead of the whole hours, '-00:30' is written as '-00:30' rather than '+00:30' | false
	PropTotalOffsetSign = "rfc3339.total-offset-sign"
)

// JSON Configuration
const (

	// how time.Time is written in json: rfc3339, unix-millis, unix-seconds, unix-positive-millis, unix-positive-seconds | rfc3339
	PropJsonDatePolicy = "json.date-policy"
)

// Logging Configuration
const (

	// log level | info
	PropLoggingLevel = "logging.level"

	// path to the rolling log file, logs are written to stderr if empty
	PropLoggingRollingFile = "logging.rolling.file"

	// max size of each log file in mb | 50
	PropLoggingRollingMaxSize = "logging.rolling.max-size"

	// max age of log files in days | 7
	PropLoggingRollingMaxAge = "logging.rolling.max-age"

	// max number of backup log files | 10
	PropLoggingRollingMaxBackups = "logging.rolling.max-backups"
)

func setDefaultProps(a *AppConfig) {
	a.SetDefProp(PropSerializationTimezone, "UTC")
	a.SetDefProp(PropStandardFraction, false)
	a.SetDefProp(PropTotalOffsetSign, false)
	a.SetDefProp(PropJsonDatePolicy, "rfc3339")
	a.SetDefProp(PropLoggingLevel, "info")
	a.SetDefProp(PropLoggingRollingMaxSize, 50)
	a.SetDefProp(PropLoggingRollingMaxAge, 7)
	a.SetDefProp(PropLoggingRollingMaxBackups, 10)
}

package utils

// EmptyString represents a reusable empty string constant.
const EmptyString = ""

// ErrorLogFormat defines the formatting string for error log messages.
const ErrorLogFormat = "Error: %v"

const (
	// ConfigFileName is the name of the configuration file looked up locally and globally.
	ConfigFileName = ".vpdoc.yaml"
	// GlobalConfigDirectoryName is the directory under the user home holding the global configuration.
	GlobalConfigDirectoryName = ".vpdoc"
	// DocIgnoreFileName lists additional exclude patterns inside the source folder.
	DocIgnoreFileName = ".docignore"
	// LockFileName is created inside the destination folder while a build or watch runs.
	LockFileName = ".vpdoc.lock"
	// GitDirectoryName marks the repository root when resolving the version.
	GitDirectoryName = ".git"

	// LoggerInitializationFailedMessageFormat is used when the logger cannot be built.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal application errors.
	ApplicationExecutionFailedMessage = "vpdoc failed"
)

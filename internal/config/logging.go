package config

import "github.com/rshade/ecolens/internal/logging"

// ToLoggingConfig converts the logging section to a logging.Config. A set
// File selects file output; otherwise logs go to stderr.
func (lc LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}
	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}

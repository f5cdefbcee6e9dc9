package hypertrack

import (
	"os"
	"strconv"

	"github.com/superx-labs/hypertrack/pkg/logger"
	zl "github.com/superx-labs/hypertrack/pkg/logger/zerolog"
)

// DefaultLog is the root logger, configured from environment variables.
var DefaultLog logger.Logger

const (
	defaultLogLevel      = "info"
	defaultLogTimeFormat = "2006-01-02 15:04:05"
	defaultLogColored    = "true"
	defaultLogJSON       = "false"
)

const (
	envLogLevel      = "HYPERTRACK_LOG_LEVEL"
	envLogTimeFormat = "HYPERTRACK_LOG_TIME_FORMAT"
	envLogColor      = "HYPERTRACK_LOG_COLOR"
	envLogJSON       = "HYPERTRACK_LOG_JSON"
)

func init() {
	log, err := initLogger()
	if err != nil {
		panic(err)
	}

	DefaultLog = zl.NewAdapter(log.Logger)
}

func initLogger() (*zl.Logger, error) {
	logLevel := getEnvWithDefault(envLogLevel, defaultLogLevel)
	logTimeFormat := getEnvWithDefault(envLogTimeFormat, defaultLogTimeFormat)

	logColored, err := parseBoolEnv(envLogColor, defaultLogColored)
	if err != nil {
		return nil, err
	}

	logJSON, err := parseBoolEnv(envLogJSON, defaultLogJSON)
	if err != nil {
		return nil, err
	}

	return zl.New(logLevel, logTimeFormat, logColored, logJSON)
}

func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func parseBoolEnv(key, defaultValue string) (bool, error) {
	value := getEnvWithDefault(key, defaultValue)
	return strconv.ParseBool(value)
}

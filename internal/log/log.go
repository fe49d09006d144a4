package log

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pavanmanishd/memheap/internal/config"
)

var (
	Logger *log.Logger
	once   sync.Once
)

// Init builds Logger from the log.* config keys. config.Init must run first.
func Init() {
	once.Do(func() {
		initialize()
	})
}

func initialize() {
	Logger = log.NewWithOptions(getLogOutput(), log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339Nano,
		Prefix:          "heapsim",
	})
	applyLevel()
	config.OnChange(applyLevel)
}

func applyLevel() {
	level := config.GetString("log.level")
	Logger.SetLevel(parseLevel(level))
	Logger.Debugf("log level: %v", level)
}

func parseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func getLogOutput() io.Writer {
	output := config.GetString("log.output")
	switch output {
	case "stdout":
		return os.Stdout
	case "stderr":
		return os.Stderr
	default:
		// Default to stderr if not specified
		return os.Stderr
	}
}

func HandleError(err error) {
	if err != nil {
		_, file, line, _ := runtime.Caller(1)
		logMessage := fmt.Sprintf("<%s:%s> %s", file, HighlightString(RED, strconv.Itoa(line)), err.Error())
		Logger.Error(logMessage)
	}
}

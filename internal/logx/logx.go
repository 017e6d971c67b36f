// Package logx is a small leveled logger in the style of the original
// MTSP solver's log.go: a package-level verbosity threshold and one
// Logf call per message, routed to per-level *log.Logger instances.
package logx

import (
	"log"
	"os"
)

const (
	LvlError = 1
	LvlInfo  = 2
	LvlDebug = 3
	LvlSpam  = 4
)

var (
	logErr   *log.Logger
	logInfo  *log.Logger
	logDebug *log.Logger
	logSpam  *log.Logger
	maxLvl   = LvlInfo
)

func init() {
	Init(LvlInfo)
}

// Init (re)creates the per-level loggers and sets the verbosity
// threshold. Messages above maxLvl are dropped by Logf.
func Init(verbosity int) {
	maxLvl = verbosity
	logErr = log.New(os.Stderr, "ERROR ", log.Ldate|log.Ltime|log.Lshortfile)
	logInfo = log.New(os.Stdout, "INFO  ", log.Ldate|log.Ltime)
	logDebug = log.New(os.Stdout, "DEBUG ", log.Ldate|log.Ltime|log.Lshortfile)
	logSpam = log.New(os.Stdout, "SPAM  ", log.Ldate|log.Ltime|log.Lshortfile)
}

// Logf prints a message at the given level if the configured verbosity
// allows it. Levels: 1=error, 2=info, 3=debug, 4=spam.
func Logf(level int, format string, args ...interface{}) {
	if level > maxLvl {
		return
	}
	switch level {
	case LvlError:
		logErr.Printf(format, args...)
	case LvlInfo:
		logInfo.Printf(format, args...)
	case LvlDebug:
		logDebug.Printf(format, args...)
	case LvlSpam:
		logSpam.Printf(format, args...)
	}
}

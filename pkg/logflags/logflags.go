// Package logflags maps the --log command line options to the loggers used
// by the rest of redbg.
package logflags

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

var pattern = false
var match = false
var terminal = false
var script = false

var logOut io.WriteCloser

func makeFlaggableLogger(flag bool, fields Fields) Logger {
	level := logrus.ErrorLevel
	if flag {
		level = logrus.DebugLevel
	}
	return makeLogger(level, fields)
}

func makeLogger(level logrus.Level, fields Fields) Logger {
	if loggerFactory != nil {
		return loggerFactory(level, fields, logOut)
	}
	logger := logrus.New()
	logger.Formatter = textFormatterInstance
	if logOut != nil {
		logger.Out = logOut
	}
	logger.Level = level
	return &logrusLogger{logger.WithFields(logrus.Fields(fields))}
}

// Pattern returns true if the pattern compiler should log.
func Pattern() bool {
	return pattern
}

// PatternLogger returns a logger for pattern compilation and caching.
func PatternLogger() Logger {
	return makeFlaggableLogger(pattern, Fields{"layer": "pattern"})
}

// Match returns true if pattern evaluation should be logged.
func Match() bool {
	return match
}

// MatchLogger returns a logger for pattern evaluation.
func MatchLogger() Logger {
	return makeFlaggableLogger(match, Fields{"layer": "match"})
}

// Terminal returns true if the interactive terminal should log.
func Terminal() bool {
	return terminal
}

// TerminalLogger returns a logger for the interactive terminal.
func TerminalLogger() Logger {
	return makeFlaggableLogger(terminal, Fields{"layer": "terminal"})
}

// Script returns true if the scripting environment should log.
func Script() bool {
	return script
}

// ScriptLogger returns a logger for the scripting environment.
func ScriptLogger() Logger {
	return makeFlaggableLogger(script, Fields{"layer": "script"})
}

var errLogstrWithoutLog = errors.New("--log-output specified without --log")

// Setup sets the component logging flags based on the contents of logstr and
// redirects the output to logDest, which can be a file path or a file
// descriptor number.
func Setup(logFlag bool, logstr, logDest string) error {
	if logDest != "" {
		n, err := strconv.Atoi(logDest)
		if err == nil {
			logOut = os.NewFile(uintptr(n), "redbg-logs")
		} else {
			fh, err := os.Create(logDest)
			if err != nil {
				return fmt.Errorf("could not create log file: %v", err)
			}
			logOut = fh
		}
	}
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	if !logFlag {
		log.SetOutput(ioutil.Discard)
		if logstr != "" {
			return errLogstrWithoutLog
		}
		return nil
	}
	if logstr == "" {
		logstr = "match"
	}
	for _, logcmd := range strings.Split(logstr, ",") {
		switch logcmd {
		case "pattern":
			pattern = true
		case "match":
			match = true
		case "terminal":
			terminal = true
		case "script":
			script = true
		}
	}
	return nil
}

// Close closes the file or file descriptor receiving the logs, if one was
// set up by Setup.
func Close() {
	if logOut != nil {
		logOut.Close()
	}
}

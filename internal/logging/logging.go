package logging

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the shared application logger.
var Logger = logrus.New()

var once sync.Once

// Init configures the shared logger. When logFile is non-empty, output is
// rotated with lumberjack and mirrored to stderr; otherwise it goes to
// stderr only.
func Init(logFile string) {
	once.Do(func() {
		Logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
		Logger.SetLevel(logrus.InfoLevel)

		if logFile == "" {
			Logger.SetOutput(os.Stderr)
			return
		}

		rotated := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		Logger.SetOutput(io.MultiWriter(os.Stderr, rotated))
	})
}

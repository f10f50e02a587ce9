package debug

import (
	"os"
	"path/filepath"

	"github.com/natefinch/lumberjack"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultPath is used when NewLogger is given an empty path.
const DefaultPath = "debug.log"

// NewLogger returns a JSON logger appending to path. Debug entries are kept
// only when verbose is set. The returned close function flushes and closes
// the file.
func NewLogger(path string, verbose bool) (*zap.Logger, func() error, error) {
	if path == "" {
		path = DefaultPath
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, errors.Wrap(err, "failed to create log directory")
		}
	}

	sink := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
	}

	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encoder := zap.NewProductionEncoderConfig()
	encoder.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoder), zapcore.AddSync(sink), level)
	log := zap.New(core)

	closeFn := func() error {
		_ = log.Sync()
		return sink.Close()
	}
	return log, closeFn, nil
}

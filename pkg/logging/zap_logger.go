// Copyright 2025 The Sigstore Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"os"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ Logger = (*ZapLogger)(nil)

// ZapLogger adapts a zap logger to Logger.
type ZapLogger struct {
	s     *zap.SugaredLogger
	level LogLevel
}

// NewZapLogger builds a JSON zap logger writing to opts.Output (os.Stderr
// when nil) at opts.Level.
func NewZapLogger(opts LoggerOptions) *ZapLogger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(enc),
		zapcore.Lock(zapcore.AddSync(out)),
		levelEnabler(opts.Level),
	)
	return WrapZap(zap.New(core), opts.Level)
}

// WrapZap adapts an existing zap logger. level is what GetLevel reports;
// filtering is left to z's core.
func WrapZap(z *zap.Logger, level LogLevel) *ZapLogger {
	return &ZapLogger{s: z.Sugar(), level: level}
}

func levelEnabler(level LogLevel) zapcore.LevelEnabler {
	return zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		if level == LevelSilent {
			return false
		}
		return l >= toZapLevel(level)
	})
}

func toZapLevel(level LogLevel) zapcore.Level {
	switch level {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelWarn:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

// Debug logs a message at debug level.
func (l *ZapLogger) Debug(format string, args ...interface{}) { l.s.Debugf(format, args...) }

// Debugln logs a line at debug level.
func (l *ZapLogger) Debugln(msg string) { l.s.Debug(msg) }

// Info logs a message at info level.
func (l *ZapLogger) Info(format string, args ...interface{}) { l.s.Infof(format, args...) }

// Infoln logs a line at info level.
func (l *ZapLogger) Infoln(msg string) { l.s.Info(msg) }

// Warn logs a message at warn level.
func (l *ZapLogger) Warn(format string, args ...interface{}) { l.s.Warnf(format, args...) }

// Warnln logs a line at warn level.
func (l *ZapLogger) Warnln(msg string) { l.s.Warn(msg) }

// Error logs a message at error level.
func (l *ZapLogger) Error(format string, args ...interface{}) { l.s.Errorf(format, args...) }

// Errorln logs a line at error level.
func (l *ZapLogger) Errorln(msg string) { l.s.Error(msg) }

// GetLevel returns the configured level.
func (l *ZapLogger) GetLevel() LogLevel { return l.level }

// WithField returns a child logger with key=value attached.
func (l *ZapLogger) WithField(key string, value interface{}) Logger {
	return &ZapLogger{s: l.s.With(key, value), level: l.level}
}

// WithFields returns a child logger with fields attached in key order.
func (l *ZapLogger) WithFields(fields map[string]interface{}) Logger {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	kv := make([]interface{}, 0, 2*len(keys))
	for _, k := range keys {
		kv = append(kv, k, fields[k])
	}
	return &ZapLogger{s: l.s.With(kv...), level: l.level}
}

// Sync flushes buffered entries.
func (l *ZapLogger) Sync() error {
	return l.s.Sync()
}

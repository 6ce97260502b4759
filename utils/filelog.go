/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package utils

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

// File logging writes <dir>/<YYYY-MM-DD>/<level>.log next to the console
// output. Guarded by loggerRegistryMu.
var (
	fileLogEnabled    = EnvDefaultBool("FILE_LOG_ENABLED", false)
	fileLogDir        = EnvDefaultString("FILE_LOG_DIR", "logs")
	fileLogMaxAgeDays = EnvDefaultInt("FILE_LOG_MAX_AGE_DAYS", 7)
	fileLogFormat     = EnvDefaultString("FILE_LOG_FORMAT", "text")
	fileLogHooks      = map[string]logrus.Hook{}
)

var (
	fileWritersMu sync.Mutex
	fileWriters   = map[string]*dailyLevelWriter{}
)

// ConfigureFileLog turns on file logging for every registered and future
// logger. An empty dir or a non-positive maxAgeDays keeps the current value.
// Loggers already writing to files keep their directory.
func ConfigureFileLog(dir string, maxAgeDays int) {
	loggerRegistryMu.Lock()
	defer loggerRegistryMu.Unlock()
	if dir != "" {
		fileLogDir = dir
	}
	if maxAgeDays > 0 {
		fileLogMaxAgeDays = maxAgeDays
	}
	fileLogEnabled = true
	for name, l := range loggerRegistry {
		attachFileLog(name, l)
	}
}

// ConfigureFileLogFormat selects "text" or "json" for log files opened from
// now on.
func ConfigureFileLogFormat(format string) {
	loggerRegistryMu.Lock()
	defer loggerRegistryMu.Unlock()
	fileLogFormat = strings.ToLower(strings.TrimSpace(format))
}

// DisableFileLog detaches the file hooks and closes the open log files.
func DisableFileLog() {
	loggerRegistryMu.Lock()
	for name, hook := range fileLogHooks {
		if l, ok := loggerRegistry[name]; ok {
			removeHook(l, hook)
		}
		delete(fileLogHooks, name)
	}
	fileLogEnabled = false
	loggerRegistryMu.Unlock()
	CloseFileLogs()
}

// CloseFileLogs closes the open log files. They are reopened on the next
// write.
func CloseFileLogs() {
	fileWritersMu.Lock()
	defer fileWritersMu.Unlock()
	for _, w := range fileWriters {
		_ = w.Close()
	}
}

func attachFileLog(name string, l *logrus.Logger) {
	if _, ok := fileLogHooks[name]; ok {
		return
	}
	fileLogHooks[name] = AddDailyRollingFileHook(l, name, fileLogDir, fileLogMaxAgeDays)
}

func removeHook(l *logrus.Logger, hook logrus.Hook) {
	hooks := make(logrus.LevelHooks)
	for lvl, hs := range l.Hooks {
		for _, h := range hs {
			if h != hook {
				hooks[lvl] = append(hooks[lvl], h)
			}
		}
	}
	l.ReplaceHooks(hooks)
}

// AddDailyRollingFileHook sends the entries of l to one daily rolling file
// per level under dir. Fatal and panic entries go to error.log.
func AddDailyRollingFileHook(l *logrus.Logger, name, dir string, maxAgeDays int) logrus.Hook {
	errorWriter := sharedFileWriter(dir, "error", maxAgeDays)
	hook := &levelWriterHook{
		writers: map[logrus.Level]io.Writer{
			logrus.TraceLevel: sharedFileWriter(dir, "trace", maxAgeDays),
			logrus.DebugLevel: sharedFileWriter(dir, "debug", maxAgeDays),
			logrus.InfoLevel:  sharedFileWriter(dir, "info", maxAgeDays),
			logrus.WarnLevel:  sharedFileWriter(dir, "warn", maxAgeDays),
			logrus.ErrorLevel: errorWriter,
			logrus.FatalLevel: errorWriter,
			logrus.PanicLevel: errorWriter,
		},
		formatter: fileFormatter(name),
	}
	l.AddHook(hook)
	return hook
}

func fileFormatter(name string) logrus.Formatter {
	if fileLogFormat == "json" {
		return &JSONLogFormatter{LoggerName: name}
	}
	return &Log4jColorFormatter{LoggerName: name, NameWidth: 10, NoColor: true}
}

// sharedFileWriter returns the writer of dir/level, shared by all loggers.
func sharedFileWriter(dir, level string, maxAgeDays int) *dailyLevelWriter {
	fileWritersMu.Lock()
	defer fileWritersMu.Unlock()
	key := filepath.Join(dir, level)
	if w, ok := fileWriters[key]; ok {
		return w
	}
	w := newDailyLevelWriter(dir, level, maxAgeDays)
	fileWriters[key] = w
	return w
}

type levelWriterHook struct {
	writers   map[logrus.Level]io.Writer
	formatter logrus.Formatter
}

func (h *levelWriterHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *levelWriterHook) Fire(entry *logrus.Entry) error {
	w, ok := h.writers[entry.Level]
	if !ok {
		return nil
	}
	b, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// dailyLevelWriter appends to baseDir/<date>/<level>.log, switching file when
// the date changes and removing date directories older than maxAgeDays.
type dailyLevelWriter struct {
	baseDir    string
	level      string
	maxAgeDays int
	now        func() time.Time

	mu      sync.Mutex
	curDate string
	file    *os.File
}

func newDailyLevelWriter(baseDir, level string, maxAgeDays int) *dailyLevelWriter {
	return &dailyLevelWriter{baseDir: baseDir, level: level, maxAgeDays: maxAgeDays, now: time.Now}
}

func (w *dailyLevelWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	date := w.now().Format(dateLayout)
	if w.file == nil || date != w.curDate {
		if err := w.open(date); err != nil {
			return 0, err
		}
	}
	return w.file.Write(p)
}

func (w *dailyLevelWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

func (w *dailyLevelWriter) open(date string) error {
	if w.file != nil {
		_ = w.file.Close()
		w.file = nil
	}
	dir := filepath.Join(w.baseDir, date)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(dir, w.level+".log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	rolled := w.curDate != date
	w.file = f
	w.curDate = date
	if rolled {
		w.cleanup(date)
	}
	return nil
}

func (w *dailyLevelWriter) cleanup(today string) {
	if w.maxAgeDays <= 0 {
		return
	}
	day, err := time.ParseInLocation(dateLayout, today, time.Local)
	if err != nil {
		return
	}
	cutoff := day.AddDate(0, 0, -w.maxAgeDays)
	entries, err := os.ReadDir(w.baseDir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		d, err := time.ParseInLocation(dateLayout, e.Name(), time.Local)
		if err != nil || !d.Before(cutoff) {
			continue
		}
		_ = os.RemoveAll(filepath.Join(w.baseDir, e.Name()))
	}
}

// EnvDefaultInt parses the environment value of key, or returns def.
func EnvDefaultInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Options 日志初始化选项
type Options struct {
	Level     string // debug, info, warn, error
	Format    string // text, json
	Output    string // stdout, stderr, file
	FilePath  string // Output为file时的日志文件路径
	AddSource bool   // 是否输出调用位置
}

var (
	mu     sync.RWMutex
	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
)

// Init 初始化全局日志器
func Init(opts Options) error {
	var w io.Writer
	switch opts.Output {
	case "", "stdout":
		w = os.Stdout
	case "stderr":
		w = os.Stderr
	case "file":
		if opts.FilePath == "" {
			return fmt.Errorf("log output is file but file_path is empty")
		}
		if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
	default:
		return fmt.Errorf("unknown log output: %s", opts.Output)
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     parseLevel(opts.Level),
		AddSource: opts.AddSource,
	}

	var handler slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	mu.Lock()
	logger = slog.New(handler)
	mu.Unlock()
	return nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debug 输出Debug级别日志，键值对参数自动脱敏
func Debug(msg string, args ...any) {
	get().Debug(msg, SanitizeArgs(args...)...)
}

// Info 输出Info级别日志
func Info(msg string, args ...any) {
	get().Info(msg, SanitizeArgs(args...)...)
}

// Warn 输出Warn级别日志
func Warn(msg string, args ...any) {
	get().Warn(msg, SanitizeArgs(args...)...)
}

// Error 输出Error级别日志
func Error(msg string, args ...any) {
	get().Error(msg, SanitizeArgs(args...)...)
}

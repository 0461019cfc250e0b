// 包 logger：统一初始化与获取日志器；级别与格式由环境变量控制
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// 进程级默认日志器
var current atomic.Pointer[slog.Logger]

// ParseLevel：解析级别文本，未知值回退到 info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// New：按格式与级别构造日志器；format 为 json 时输出 JSON，否则为文本
func New(w io.Writer, format string, lvl slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Setup：读取 LOG_LEVEL、LOG_FORMAT 初始化默认日志器
// 约束：输出固定为标准错误
func Setup() *slog.Logger {
	l := New(os.Stderr, os.Getenv("LOG_FORMAT"), ParseLevel(os.Getenv("LOG_LEVEL")))
	Use(l)
	return l
}

// Use：替换默认日志器，测试中用于静默或捕获输出
func Use(l *slog.Logger) {
	if l != nil {
		current.Store(l)
	}
}

// L：获取默认日志器；未初始化时回退到 Setup
func L() *slog.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	return Setup()
}

package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"github.com/vpnforge/vpnforge/internal/constants"
)

// Initialize sets up the global slog logger based on the environment
func Initialize(env constants.Environment, level slog.Level) *slog.Logger {
	return InitializeWithWriter(os.Stderr, env, level)
}

// InitializeWithWriter is Initialize with an explicit destination.
func InitializeWithWriter(w io.Writer, env constants.Environment, level slog.Level) *slog.Logger {
	var handler slog.Handler

	if env == constants.Production {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(w, &tint.Options{
			Level:       level,
			TimeFormat:  time.TimeOnly,
			ReplaceAttr: replaceAttrForDev,
			NoColor:     os.Getenv("NO_COLOR") != "",
		})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("logger initialized", "env", env, "level", level)

	return logger
}

// replaceAttrForDev flattens map attributes into key=value pairs so the
// "context" maps logged around external calls stay readable on one line.
func replaceAttrForDev(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindAny {
		return a
	}
	switch a.Value.Any().(type) {
	case map[string]string, map[string]any:
		return slog.String(a.Key, flattenMapAttr(a.Key, a.Value.Any()))
	}
	return a
}

func flattenMapAttr(prefix string, value any) string {
	var parts []string

	join := func(k string) string {
		if prefix == "" || prefix == "context" {
			return k
		}
		return prefix + "." + k
	}

	switch m := value.(type) {
	case map[string]string:
		for k, v := range m {
			parts = append(parts, join(k)+"="+v)
		}
	case map[string]any:
		for k, v := range m {
			switch nested := v.(type) {
			case map[string]string, map[string]any:
				parts = append(parts, flattenMapAttr(join(k), nested))
			default:
				parts = append(parts, fmt.Sprintf("%s=%v", join(k), v))
			}
		}
	default:
		return fmt.Sprintf("%v", value)
	}

	sort.Strings(parts)
	return strings.Join(parts, " ")
}

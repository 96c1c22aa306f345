package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyPath       = "path"
	KeyRule       = "rule"
	KeyPlugin     = "plugin"
	KeyDataKey    = "data_key"
	KeyVariant    = "variant"
	KeyFiles      = "files"
	KeyBytes      = "bytes"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Rule(r string) slog.Attr         { return slog.String(KeyRule, r) }
func Plugin(name string) slog.Attr    { return slog.String(KeyPlugin, name) }
func DataKey(k string) slog.Attr      { return slog.String(KeyDataKey, k) }
func Variant(v string) slog.Attr      { return slog.String(KeyVariant, v) }
func Files(n int) slog.Attr           { return slog.Int(KeyFiles, n) }
func Bytes(n int64) slog.Attr         { return slog.Int64(KeyBytes, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Duration(d time.Duration) slog.Attr {
	return DurationMS(float64(d.Microseconds()) / 1000)
}
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

package util

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strconv"
	"strings"
)

// SiteKey composes a call-site identity. The file component is reduced to
// "<parent dir>/<base>" so keys stay stable across checkouts.
func SiteKey(file, function string, line, column int) string {
	var b strings.Builder
	b.Grow(len(file) + len(function) + 24)
	b.WriteString(shortFile(file))
	b.WriteByte('_')
	b.WriteString(shortFunc(function))
	b.WriteByte('_')
	b.WriteString(strconv.Itoa(line))
	b.WriteByte('_')
	b.WriteString(strconv.Itoa(column))
	return b.String()
}

// Digest returns the first 16 hex chars of sha256(s).
func Digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}

func shortFile(file string) string {
	if file == "" {
		return "unknown"
	}
	file = filepath.ToSlash(file)
	base := filepath.Base(file)
	dir := filepath.Base(filepath.Dir(file))
	if dir == "." || dir == "/" {
		return base
	}
	return dir + "/" + base
}

// shortFunc strips the import path, keeping "pkg.Func" or "pkg.(*T).Method".
func shortFunc(fn string) string {
	if fn == "" {
		return "unknown"
	}
	if i := strings.LastIndexByte(fn, '/'); i >= 0 {
		fn = fn[i+1:]
	}
	return fn
}

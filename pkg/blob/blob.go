// Package blob stores the portal's binary resources (CV files, client
// logos) behind a medium-agnostic interface. Keys are slash-separated
// logical paths: files/<client>/<position>/<filename>, logos/<client>.png.
package blob

import (
	"context"
	"io"
	"regexp"
	"strings"
)

// Store is the binary half of the tenant store. Delete of a missing key is
// not an error, so migration retries converge.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	Copy(ctx context.Context, src, dst string) error
	List(ctx context.Context, prefix string) ([]string, error)
}

const maxNameLen = 200

var unsafeChars = regexp.MustCompile(`[/\\<>:"|?*\x00-\x1f]`)

// SanitizeName makes a user-supplied name safe as a single key segment:
// path separators and control characters become underscores and the length
// is capped. Empty input falls back to "unnamed".
func SanitizeName(name string) string {
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.TrimSpace(name)
	// "." and ".." collapse under path cleaning; never emit them as segments.
	if name == "" || strings.Trim(name, ".") == "" {
		name = "unnamed"
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}
	return name
}

// FileKey builds the blob key for an uploaded candidate file.
func FileKey(client, position, filename string) string {
	return "files/" + SanitizeName(client) + "/" + SanitizeName(position) + "/" + SanitizeName(filename)
}

// FilePrefix addresses every file blob under one position.
func FilePrefix(client, position string) string {
	return "files/" + SanitizeName(client) + "/" + SanitizeName(position) + "/"
}

// ClientFilePrefix addresses every file blob under one client.
func ClientFilePrefix(client string) string {
	return "files/" + SanitizeName(client) + "/"
}

// LogoKey builds the blob key for a client logo.
func LogoKey(client string) string {
	return "logos/" + SanitizeName(client) + ".png"
}

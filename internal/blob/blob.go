// Package blob stores uploaded files (couple documents and gallery images).
package blob

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
)

// Store persists a file under key and returns the URL clients use to read it.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

// InlineStore keeps nothing server side: the returned URL is a data: URL
// carrying the file itself. It is the fallback when no bucket is configured.
type InlineStore struct{}

func (InlineStore) Put(_ context.Context, key, contentType string, data []byte) (string, error) {
	if key == "" {
		return "", fmt.Errorf("blob key is required")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func (InlineStore) Delete(context.Context, string) error {
	return nil
}

// Key builds an object key of the form prefix/id/name with the file name
// reduced to a safe subset.
func Key(prefix, id, name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	safe := strings.Trim(b.String(), ".-")
	if safe == "" {
		safe = "file"
	}
	return prefix + "/" + id + "/" + safe
}

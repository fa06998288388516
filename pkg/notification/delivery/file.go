package delivery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kishhcodes/cloudgate/pkg/notification"
	"github.com/kishhcodes/cloudgate/pkg/notification/sanitization"
)

// RetryableError marks a delivery failure the caller may retry (a
// transient filesystem error), as opposed to a permanent misconfiguration.
type RetryableError struct {
	Cause error
}

func (e *RetryableError) Error() string { return e.Cause.Error() }
func (e *RetryableError) Unwrap() error { return e.Cause }

// FileSender writes each notification as a timestamped file under dir, one
// file per channel per message. It exists for local development and test
// environments where a Slack workspace is not available.
type FileSender struct {
	dir string
}

var _ notification.Sender = (*FileSender)(nil)

// NewFileSender returns a FileSender rooted at dir. dir is created on first
// Send if it does not already exist.
func NewFileSender(dir string) *FileSender {
	return &FileSender{dir: dir}
}

func (f *FileSender) Send(ctx context.Context, channel, message string) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return &RetryableError{Cause: fmt.Errorf("failed to create output directory: %w", err)}
	}

	name := fmt.Sprintf("%s-%s.txt", sanitizeChannelName(channel), time.Now().UTC().Format("20060102T150405.000000000"))
	path := filepath.Join(f.dir, name)
	tmp := path + ".tmp"

	content := sanitization.Sanitize(message)
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return &RetryableError{Cause: fmt.Errorf("failed to write temporary file: %w", err)}
	}
	if err := os.Rename(tmp, path); err != nil {
		return &RetryableError{Cause: fmt.Errorf("failed to finalize notification file: %w", err)}
	}
	return nil
}

func sanitizeChannelName(channel string) string {
	out := make([]rune, 0, len(channel))
	for _, r := range channel {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "channel"
	}
	return string(out)
}

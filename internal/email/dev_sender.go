package email

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// DevSender writes each message as an .html body plus .json metadata file.
type DevSender struct {
	dir string
	now func() time.Time
}

// NewDevSender creates a sender rooted at dir; dir is created on first send.
func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir, now: time.Now}
}

// Send implements Sender.
func (d *DevSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create dir: %v", ErrSendFailed, err)
	}

	now := d.now()
	base := filepath.Join(d.dir, fmt.Sprintf("%s_%s", now.Format("2006_01_02_150405.000000"), safeName(msg.Tag, msg.To)))

	if err := os.WriteFile(base+".html", []byte(msg.HTMLBody), 0o644); err != nil {
		return fmt.Errorf("%w: write html: %v", ErrSendFailed, err)
	}

	meta, err := json.MarshalIndent(struct {
		Message
		Timestamp string `json:"timestamp"`
	}{Message: msg, Timestamp: now.Format(time.RFC3339)}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal metadata: %v", ErrSendFailed, err)
	}
	if err := os.WriteFile(base+".json", meta, 0o644); err != nil {
		return fmt.Errorf("%w: write metadata: %v", ErrSendFailed, err)
	}
	return nil
}

func safeName(parts ...string) string {
	joined := strings.Join(parts, "_")
	joined = unsafeFilenameChars.ReplaceAllString(strings.ReplaceAll(joined, "@", "_at_"), "")
	if len(joined) > 100 {
		joined = joined[:100]
	}
	if joined == "" {
		return "email"
	}
	return strings.ToLower(joined)
}

var _ Sender = (*DevSender)(nil)

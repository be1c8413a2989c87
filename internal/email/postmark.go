package email

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mrz1836/postmark"
)

// PostmarkConfig holds provider credentials and sender identity.
type PostmarkConfig struct {
	ServerToken  string
	AccountToken string
	From         string
	ReplyTo      string
}

// PostmarkSender sends messages through Postmark's transactional API.
type PostmarkSender struct {
	client *postmark.Client
	from   string
	reply  string
}

// NewPostmarkSender builds a sender; httpClient may be nil.
func NewPostmarkSender(cfg PostmarkConfig, httpClient *http.Client) (*PostmarkSender, error) {
	if cfg.ServerToken == "" {
		return nil, errors.New("postmark server token must not be empty")
	}
	if cfg.From == "" {
		return nil, errors.New("postmark sender address must not be empty")
	}

	client := postmark.NewClient(cfg.ServerToken, cfg.AccountToken)
	if httpClient != nil {
		client.HTTPClient = httpClient
	}
	return &PostmarkSender{client: client, from: cfg.From, reply: cfg.ReplyTo}, nil
}

// Send implements Sender.
func (s *PostmarkSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:       s.from,
		ReplyTo:    s.reply,
		To:         msg.To,
		Subject:    msg.Subject,
		Tag:        msg.Tag,
		HTMLBody:   msg.HTMLBody,
		TrackOpens: true,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("%w: postmark error %d: %s", ErrSendFailed, resp.ErrorCode, resp.Message)
	}
	return nil
}

var _ Sender = (*PostmarkSender)(nil)

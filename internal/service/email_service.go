package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"os"
	"strings"

	"github.com/fadilmartias/resume-screener/internal/config"
	"github.com/fadilmartias/resume-screener/internal/logger"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

var ErrInvalidRecipient = errors.New("invalid email recipient")

type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// GmailSender sends plain text mail through the Gmail API with a stored
// OAuth token.
type GmailSender struct {
	service *gmail.Service
	from    string
	log     *zap.Logger
}

var _ EmailSender = (*GmailSender)(nil)

func NewGmailSender(ctx context.Context, cfg *config.EmailConfig, log *zap.Logger) (*GmailSender, error) {
	b, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(b, gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}
	tok, err := tokenFromFile(cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read oauth token %s: %w", cfg.TokenFile, err)
	}

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(oauthConfig.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail client: %w", err)
	}
	return &GmailSender{service: srv, from: cfg.From, log: logger.OrNop(log)}, nil
}

func (s *GmailSender) Send(ctx context.Context, to, subject, body string) error {
	to = strings.TrimSpace(to)
	if to == "" || !strings.Contains(to, "@") || strings.ContainsAny(to, "\r\n") {
		return fmt.Errorf("%w: %q", ErrInvalidRecipient, to)
	}

	msg := &gmail.Message{Raw: base64.URLEncoding.EncodeToString(buildMessage(to, subject, body))}
	if _, err := s.service.Users.Messages.Send(s.from, msg).Context(ctx).Do(); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	s.log.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func buildMessage(to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", strings.ReplaceAll(subject, "\n", " ")) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

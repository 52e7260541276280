package mail

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"os"
	"strings"

	"github.com/devbush/vid2brief/internal/domain"
	"github.com/devbush/vid2brief/internal/ports"
)

// Sender delivers generated digests over SMTP.
type Sender struct {
	host     string
	port     int
	from     string
	to       []string
	password string

	// sendMail is swapped out in tests.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSender creates a mail notifier. Any missing field leaves the
// sender unconfigured and SendReport becomes unreachable through the
// watcher.
func NewSender(host string, port int, from string, to []string, password string) *Sender {
	return &Sender{
		host:     host,
		port:     port,
		from:     from,
		to:       to,
		password: password,
		sendMail: smtp.SendMail,
	}
}

func (s *Sender) Configured() bool {
	return s.host != "" && s.port > 0 && s.from != "" && len(s.to) > 0 && s.password != ""
}

// SendReport mails the document at documentPath.
func (s *Sender) SendReport(ctx context.Context, video *domain.Video, documentPath string) error {
	if !s.Configured() {
		return fmt.Errorf("mail settings incomplete")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := os.ReadFile(documentPath)
	if err != nil {
		return fmt.Errorf("read report for mail: %w", err)
	}

	subject := fmt.Sprintf("视频摘要: %s", video.Title)
	msg := buildMessage(s.from, s.to, subject, string(body))

	addr := net.JoinHostPort(s.host, fmt.Sprintf("%d", s.port))
	auth := smtp.PlainAuth("", s.from, s.password, s.host)
	if err := s.sendMail(addr, auth, s.from, s.to, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// buildMessage renders an RFC 5322 message with the markdown body
// wrapped in a minimal HTML envelope.
func buildMessage(from string, to []string, subject, markdown string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString("<html><body><pre style=\"font-family: inherit; white-space: pre-wrap\">")
	b.WriteString(htmlEscape(markdown))
	b.WriteString("</pre></body></html>\r\n")
	return []byte(b.String())
}

func htmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

var _ ports.Notifier = (*Sender)(nil)

// Package sender 提供 SMTP 邮件发送实现
package sender

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/wyfcoding/autopartsmall/internal/notification/domain"
	"github.com/wyfcoding/autopartsmall/pkg/logger"
	"github.com/wyfcoding/autopartsmall/pkg/metrics"
)

// SMTPSender 通过 SMTP 发送邮件；mock 模式只记录日志（dev）
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
	mock     bool
	metrics  *metrics.Metrics
}

// NewSMTPSender 创建 SMTP 发送器
func NewSMTPSender(host string, port int, username, password, from string, mock bool, m *metrics.Metrics) domain.Sender {
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		mock:     mock,
		metrics:  m,
	}
}

// Send 发送单封邮件
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	msg := []byte("From: " + s.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		body + "\r\n")

	if s.mock {
		logger.Info(ctx, "Mock email send", "to", to, "subject", subject)
		if s.metrics != nil {
			s.metrics.EmailsSentTotal.Inc()
		}
		return nil
	}

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := smtp.SendMail(addr, auth, s.from, []string{to}, msg); err != nil {
		if s.metrics != nil {
			s.metrics.EmailsFailedTotal.Inc()
		}
		logger.Error(ctx, "Failed to send email", "to", to, "subject", subject, "error", err)
		return err
	}

	if s.metrics != nil {
		s.metrics.EmailsSentTotal.Inc()
	}
	logger.Info(ctx, "Email sent", "to", to, "subject", subject)
	return nil
}

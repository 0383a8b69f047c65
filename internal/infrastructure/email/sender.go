package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const sendGridEndpoint = "https://api.sendgrid.com/v3/mail/send"

type EmailSender struct {
	apiKey      string
	senderEmail string
	senderName  string
	frontend    string
	endpoint    string
	client      *http.Client
}

func NewEmailSender(apiKey, senderEmail, frontend string) *EmailSender {
	return &EmailSender{
		apiKey:      apiKey,
		senderEmail: senderEmail,
		senderName:  "Glass Bird",
		frontend:    frontend,
		endpoint:    sendGridEndpoint,
		client:      &http.Client{Timeout: 15 * time.Second},
	}
}

// WithEndpoint points the sender at a different mail API, used by tests.
func (s *EmailSender) WithEndpoint(endpoint string) *EmailSender {
	s.endpoint = endpoint
	return s
}

// SendGrid request format
type sgEmail struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}
type sgContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}
type sgPersonalization struct {
	To []sgEmail `json:"to"`
}
type sgRequest struct {
	Personalizations []sgPersonalization `json:"personalizations"`
	From             sgEmail             `json:"from"`
	Subject          string              `json:"subject"`
	Content          []sgContent         `json:"content"`
}

const confirmTemplate = `<html>
<body style="font-family: Arial, sans-serif; background-color: #f4f7fb; color: #1b263b;">
	<div style="max-width: 600px; margin: 40px auto; background: #ffffff; padding: 30px; border-radius: 12px; text-align: center;">
		<h3>Welcome to Glass Bird, %s!</h3>
		<p>Confirm your email address to start learning.</p>
		<a href="%s" style="display: inline-block; margin: 24px 0; padding: 14px 28px; background: #3a86ff; color: #ffffff; text-decoration: none; border-radius: 6px;">Confirm email</a>
		<p style="font-size: 12px; color: #888888;">If you did not sign up, ignore this message.</p>
	</div>
</body>
</html>`

func (s *EmailSender) SendConfirmationEmail(ctx context.Context, toEmail, name, token string) error {
	link := fmt.Sprintf("%s/confirm-email?token=%s", s.frontend, token)

	body := sgRequest{
		Personalizations: []sgPersonalization{{To: []sgEmail{{Email: toEmail, Name: name}}}},
		From: sgEmail{
			Email: s.senderEmail,
			Name:  s.senderName,
		},
		Subject: "Confirm your Glass Bird account",
		Content: []sgContent{{Type: "text/html", Value: fmt.Sprintf(confirmTemplate, name, link)}},
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewBuffer(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// SendGrid answers 202 on success
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sendgrid error: status=%d body=%s", resp.StatusCode, body)
	}
	return nil
}

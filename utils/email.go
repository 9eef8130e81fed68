package utils

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// statusEmailSubjects maps lifecycle statuses to notification subjects.
// Statuses without an entry send no mail.
var statusEmailSubjects = map[string]string{
	"confirmed":     "Your preorder is confirmed",
	"shipping":      "Your preorder is on the way",
	"delivered":     "Your preorder has been delivered",
	"cancelled":     "Your preorder has been cancelled",
	"refund_issued": "Your refund has been issued",
}

// sendMail sends an HTML email using the configured SMTP account.
func sendMail(to, subject, body string) error {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}

	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("SMTP_FROM"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(os.Getenv("SMTP_HOST"), port, os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD"))
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

func statusEmailBody(code, status string) string {
	return fmt.Sprintf("<p>Hello,</p><p>Your preorder <b>%s</b> is now <b>%s</b>.</p><p>- OrchardKart</p>", code, status)
}

func refundEmailBody(code string, amount int64) string {
	return fmt.Sprintf("<p>Hello,</p><p>A refund of <b>₹%.2f</b> for preorder <b>%s</b> has been issued.</p><p>- OrchardKart</p>",
		float64(amount)/100, code)
}

// NotifyPreorderStatus emails the customer about a lifecycle transition.
// Best effort: failures are logged and never block the transition.
func NotifyPreorderStatus(to, code, status string) {
	subject, ok := statusEmailSubjects[status]
	if !ok {
		return
	}
	if err := sendMail(to, subject, statusEmailBody(code, status)); err != nil {
		LogError("Failed to send status email for preorder %s: %v", code, err)
	}
}

// NotifyRefundIssued emails the customer the refunded amount in rupees.
func NotifyRefundIssued(to, code string, amount int64) {
	if err := sendMail(to, "Your refund has been issued", refundEmailBody(code, amount)); err != nil {
		LogError("Failed to send refund email for preorder %s: %v", code, err)
	}
}

// internal/service/message.go
package service

import (
	"fmt"
	"html"
	"strings"

	"github.com/meirhagag/needme/internal/models"
	"github.com/meirhagag/needme/internal/notifier"
)

const defaultSubjectTitle = "new request"

// BuildMessage renders the notification sent to one shortlisted provider.
// The reply-to is the requester, so a provider answering the mail reaches
// them directly.
func BuildMessage(req *models.MatchRequest, to string) notifier.Message {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = defaultSubjectTitle
	}

	lines := []string{
		fmt.Sprintf("Category: %s", req.Category),
	}
	if req.Subcategory != "" {
		lines = append(lines, fmt.Sprintf("Subcategory: %s", req.Subcategory))
	}
	if req.Region != "" {
		lines = append(lines, fmt.Sprintf("Region: %s", req.Region))
	}
	if req.BudgetMax != nil {
		lines = append(lines, fmt.Sprintf("Budget up to: %d", *req.BudgetMax))
	}
	if req.Description != "" {
		lines = append(lines, "", req.Description)
	}

	contact := contactLines(req)
	if len(contact) > 0 {
		lines = append(lines, "", "Contact:")
		lines = append(lines, contact...)
	}

	text := strings.Join(lines, "\n")
	return notifier.Message{
		To:       to,
		Subject:  fmt.Sprintf("NeedMe: %s", title),
		TextBody: text,
		HTMLBody: renderHTML(title, lines),
		ReplyTo:  strings.TrimSpace(req.RequesterEmail),
	}
}

func contactLines(req *models.MatchRequest) []string {
	var lines []string
	if req.RequesterName != "" {
		lines = append(lines, fmt.Sprintf("  Name: %s", req.RequesterName))
	}
	if req.RequesterEmail != "" {
		lines = append(lines, fmt.Sprintf("  Email: %s", req.RequesterEmail))
	}
	if req.RequesterPhone != "" {
		lines = append(lines, fmt.Sprintf("  Phone: %s", req.RequesterPhone))
	}
	return lines
}

func renderHTML(title string, lines []string) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family:Arial,sans-serif">`)
	b.WriteString(fmt.Sprintf("<h2>%s</h2>", html.EscapeString(title)))
	for _, line := range lines {
		if line == "" {
			b.WriteString("<br>")
			continue
		}
		b.WriteString(fmt.Sprintf("<p>%s</p>", html.EscapeString(line)))
	}
	b.WriteString("</div>")
	return b.String()
}

package service

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/ideahub-dev/ideahub/internal/domain"
	"github.com/ideahub-dev/ideahub/internal/logger"
	"github.com/ideahub-dev/ideahub/internal/sanitize"
)

// Notification emails embed the idea body. It is authored as markdown, so it
// is rendered to HTML first and sanitized before templating.

var emailTmpl = template.Must(template.New("email").Parse(`<html>
<head><meta charset="UTF-8"><title>{{.Heading}}</title></head>
<body style="font-family: Arial, sans-serif; color: #555;">
  <div style="max-width: 600px; margin: 0 auto; padding: 30px; background-color: #fff;">
    <h1 style="text-align: center;">{{.Heading}}</h1>
    <div>
      <div style="font-size: 20px; margin-bottom: 10px;">{{.Title}}</div>
      <div style="color: #777; margin-bottom: 10px;">{{.Body}}</div>
      <div style="color: #777;">
        {{range .Details}}<div><strong>{{.Label}}:</strong> {{.Value}}</div>
        {{end}}
      </div>
    </div>
    <div style="text-align: center; font-size: 14px; color: #999; margin-top: 30px;">{{.Footer}}</div>
  </div>
</body>
</html>`))

type emailDetail struct {
	Label string
	Value string
}

type emailData struct {
	Heading string
	Title   string
	Body    template.HTML
	Details []emailDetail
	Footer  string
}

func renderMarkdownBody(markdown string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		logger.Log.Warn("markdown rendering failed, falling back to plain text", "error", err)
		return template.HTML(template.HTMLEscapeString(markdown))
	}
	return template.HTML(sanitize.HTML(buf.String()))
}

func renderEmail(data emailData) string {
	var buf bytes.Buffer
	if err := emailTmpl.Execute(&buf, data); err != nil {
		logger.Log.Error("email template rendering failed", "error", err)
		return ""
	}
	return buf.String()
}

func composeNewPostEmail(post *domain.Post, author *domain.User, category *domain.Category) (subject, text, html string) {
	subject = "New Idea Submitted"
	text = fmt.Sprintf("A new idea has been submitted by %s from %s", author.Name, author.Department)

	html = renderEmail(emailData{
		Heading: subject,
		Title:   post.Title,
		Body:    renderMarkdownBody(post.Description),
		Details: []emailDetail{
			{"Category", category.Name},
			{"Author", author.Name},
			{"Department", author.Department},
			{"Author Email", author.Email},
			{"Date", post.CreatedAt.Format("2006-01-02 15:04")},
		},
		Footer: fmt.Sprintf("This email was sent because %s submitted a new idea.", author.Email),
	})
	return subject, text, html
}

func composeNewCommentEmail(post *domain.Post, comment *domain.Comment, commentAuthor *domain.User) (subject, text, html string) {
	// an anonymous commenter stays anonymous in the notification too
	displayName := commentAuthor.Name
	displayDepartment := commentAuthor.Department
	if comment.AuthorHidden {
		displayName = AnonymousName
		displayDepartment = HiddenDepartment
	}

	subject = fmt.Sprintf("%s commented on your idea", orAUser(comment.AuthorHidden, displayName))
	text = fmt.Sprintf("%s from %s commented on your idea %q", displayName, displayDepartment, post.Title)

	html = renderEmail(emailData{
		Heading: "New Comment",
		Title:   post.Title,
		Body:    renderMarkdownBody(comment.Text),
		Details: []emailDetail{
			{"Author", displayName},
			{"Department", displayDepartment},
			{"Date", comment.CreatedAt.Format("2006-01-02 15:04")},
		},
		Footer: fmt.Sprintf("This email was sent because %s commented on your idea.", orAUser(comment.AuthorHidden, displayName)),
	})
	return subject, text, html
}

func orAUser(hidden bool, name string) string {
	if hidden || strings.TrimSpace(name) == "" {
		return "A user"
	}
	return name
}

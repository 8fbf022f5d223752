package mailer

import (
	"bytes"
	"html/template"
)

// Detail is one labelled row in the details block of an email.
type Detail struct {
	Label string
	Value string
}

// Content describes one transactional email before rendering.
type Content struct {
	Heading   string
	Greeting  string
	Intro     string
	Details   []Detail
	NextSteps []string
	LinkURL   string
	LinkLabel string
	Footer    string
}

// All completion emails share one layout; the role-specific parts are the
// heading, intro, and next steps supplied by the caller.
var layout = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
<head>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
  .container { max-width: 600px; margin: 0 auto; padding: 20px; }
  .header { background: #2563eb; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
  .content { background: #f8fafc; padding: 20px; border-radius: 0 0 8px 8px; }
  .details { background: white; padding: 20px; border-radius: 8px; margin: 20px 0; }
  .button { display: inline-block; padding: 12px 24px; background: #2563eb; color: white; text-decoration: none; border-radius: 6px; margin-top: 20px; }
  .footer { text-align: center; margin-top: 20px; color: #666; font-size: 14px; }
</style>
</head>
<body>
<div class="container">
  <div class="header"><h1>{{.Heading}}</h1></div>
  <div class="content">
    {{if .Greeting}}<p>Dear {{.Greeting}},</p>{{end}}
    <p>{{.Intro}}</p>
    <div class="details">
      {{range .Details}}<p><strong>{{.Label}}:</strong> {{.Value}}</p>{{end}}
    </div>
    {{if .NextSteps}}
    <p>Next Steps:</p>
    <ul>
      {{range .NextSteps}}<li>{{.}}</li>{{end}}
    </ul>
    {{end}}
    {{if .LinkURL}}<a href="{{.LinkURL}}" class="button">{{.LinkLabel}}</a>{{end}}
  </div>
  <div class="footer"><p>{{.Footer}}</p></div>
</div>
</body>
</html>`))

// Render produces the HTML body for a Content.
func Render(content Content) (string, error) {
	var buf bytes.Buffer
	if err := layout.Execute(&buf, content); err != nil {
		return "", err
	}
	return buf.String(), nil
}

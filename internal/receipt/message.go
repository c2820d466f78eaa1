// Package receipt renders and delivers the confirmation email sent after a
// project-close submission.
package receipt

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/rotisserie/eris"

	"github.com/vestahome/designer-hub/internal/model"
)

// DefaultSiteURL is used when no site URL is configured.
const DefaultSiteURL = "https://vestahome.design"

const dateLayout = "Monday, January 2, 2006 at 3:04 PM MST"

// Message is a rendered receipt.
type Message struct {
	Subject  string
	HTMLBody string
	TextBody string
}

type view struct {
	ProjectID      string
	Market         string
	Address        string
	SubmitterEmail string
	Date           string
	FormURL        string
	Year           int
}

var htmlTmpl = htmltemplate.Must(htmltemplate.New("receipt.html").Parse(`<div style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; max-width: 560px; margin: 0 auto; color: #2C2C2C;">
  <div style="border-bottom: 1px solid #E5DFD8; padding: 24px 0 16px;">
    <span style="font-family: Georgia, serif; font-size: 18px;">Vesta Design Studio</span>
  </div>
  <div style="padding: 32px 0;">
    <h1 style="font-family: Georgia, serif; font-size: 24px; font-weight: normal; margin: 0 0 8px;">Project Close Form Submitted</h1>
    <p style="color: #9A9590; font-size: 14px; margin: 0 0 24px;">Your project debrief has been recorded successfully.</p>
    <div style="background: #F3EDE7; border-radius: 8px; padding: 20px; margin-bottom: 24px;">
      <table style="width: 100%; font-size: 14px; border-collapse: collapse;">
        <tr><td style="color: #9A9590; width: 120px;">Project ID</td><td style="font-weight: 500;">{{.ProjectID}}</td></tr>
        {{- if .Market}}
        <tr><td style="color: #9A9590;">Market</td><td>{{.Market}}</td></tr>
        {{- end}}
        {{- if .Address}}
        <tr><td style="color: #9A9590;">Address</td><td>{{.Address}}</td></tr>
        {{- end}}
        <tr><td style="color: #9A9590;">Submitted by</td><td>{{.SubmitterEmail}}</td></tr>
        <tr><td style="color: #9A9590;">Date</td><td>{{.Date}}</td></tr>
      </table>
    </div>
    <a href="{{.FormURL}}" style="display: inline-block; background: #2C2C2C; color: #FAF8F5; text-decoration: none; padding: 12px 24px; border-radius: 6px; font-size: 14px;">Submit Another Form</a>
  </div>
  <div style="border-top: 1px solid #E5DFD8; padding: 16px 0; color: #9A9590; font-size: 12px;">&copy; {{.Year}} Vesta Home &middot; vestahome.design</div>
</div>
`))

var textTmpl = texttemplate.Must(texttemplate.New("receipt.txt").Parse(`Project Close Form Submitted

Project ID: {{.ProjectID}}
{{if .Market}}Market: {{.Market}}
{{end}}{{if .Address}}Address: {{.Address}}
{{end}}Submitted by: {{.SubmitterEmail}}
Date: {{.Date}}

Submit another form: {{.FormURL}}`))

// Subject returns the receipt subject line for a project.
func Subject(projectID string) string {
	return "Project Close Confirmation — " + projectID
}

// Render builds the receipt for r. A zero SubmittedAt renders as now. Dates
// are shown in loc, or UTC when loc is nil.
func Render(r model.Receipt, siteURL string, loc *time.Location) (Message, error) {
	if siteURL == "" {
		siteURL = DefaultSiteURL
	}
	if loc == nil {
		loc = time.UTC
	}
	at := r.SubmittedAt
	if at.IsZero() {
		at = time.Now()
	}
	at = at.In(loc)

	v := view{
		ProjectID:      r.ProjectID,
		Market:         r.Market,
		Address:        r.Address,
		SubmitterEmail: r.SubmitterEmail,
		Date:           at.Format(dateLayout),
		FormURL:        strings.TrimRight(siteURL, "/") + "/project-close",
		Year:           time.Now().In(loc).Year(),
	}

	var html, text bytes.Buffer
	if err := htmlTmpl.Execute(&html, v); err != nil {
		return Message{}, eris.Wrap(err, "receipt: render html")
	}
	if err := textTmpl.Execute(&text, v); err != nil {
		return Message{}, eris.Wrap(err, "receipt: render text")
	}

	return Message{
		Subject:  Subject(r.ProjectID),
		HTMLBody: html.String(),
		TextBody: text.String(),
	}, nil
}

// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// DeadlineReminderData holds data for assignment reminder email templates.
type DeadlineReminderData struct {
	SiteName    string
	CourseTitle string
	SectionName string
	Deadline    time.Time
}

// BuildDeadlineReminder creates an assignment reminder email with both
// HTML and text bodies.
func BuildDeadlineReminder(data DeadlineReminderData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("%s: %q is due soon", data.CourseTitle, data.SectionName),
		TextBody: buildReminderText(data),
		HTMLBody: buildReminderHTML(data),
	}
}

func (d DeadlineReminderData) deadlineLabel() string {
	return d.Deadline.Format("Monday, 2 January 2006 at 15:04 MST")
}

func buildReminderText(data DeadlineReminderData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("The assignment %q in %s is due on %s.\n\n",
		data.SectionName, data.CourseTitle, data.deadlineLabel()))
	buf.WriteString("Sign in to review the assignment and submit your work before the deadline.\n\n")
	buf.WriteString(fmt.Sprintf("— %s\n", data.SiteName))
	return buf.String()
}

func buildReminderHTML(data DeadlineReminderData) string {
	tmpl := template.Must(template.New("reminder").Funcs(template.FuncMap{
		"deadline": DeadlineReminderData.deadlineLabel,
	}).Parse(reminderHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

const reminderHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Assignment Reminder</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);">
          <!-- Header -->
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #4f46e5;">{{.SiteName}}</h1>
            </td>
          </tr>

          <!-- Content -->
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 24px; font-size: 16px; color: #374151; line-height: 1.5;">
                An assignment is due soon in <strong>{{.CourseTitle}}</strong>:
              </p>

              <div style="background-color: #f3f4f6; border-radius: 8px; padding: 24px; text-align: center; margin-bottom: 24px;">
                <span style="font-size: 20px; font-weight: 700; color: #1f2937;">{{.SectionName}}</span>
              </div>

              <p style="margin: 0; font-size: 14px; color: #6b7280; text-align: center;">
                Due {{deadline .}}
              </p>
            </td>
          </tr>

          <!-- Footer -->
          <tr>
            <td style="padding: 24px 32px; background-color: #f9fafb; border-top: 1px solid #e5e7eb; border-radius: 0 0 8px 8px;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af; text-align: center;">
                Sign in to review the assignment and submit your work before the deadline.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`

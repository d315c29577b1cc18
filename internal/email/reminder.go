package email

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// Tag names shared by the dispatcher and the webhook receiver.
const (
	TagEventID          = "eventId"
	TagNotificationType = "notificationType"
)

var reminderTmpl = template.Must(template.New("reminder").Parse(`<h3>[JobTrack] Schedule reminder</h3>
<p><strong>{{.CompanyName}}</strong> - {{.Position}}: {{.DaysLeft}} {{if eq .DaysLeft 1}}day{{else}}days{{end}} left.</p>
<p>When: {{.When}}</p>
<hr />
<p><a href="{{.Link}}">View details</a></p>
`))

// Reminder holds the values shown in a reminder email.
type Reminder struct {
	CompanyName   string
	Position      string
	DaysBefore    int
	ScheduledAt   time.Time
	ApplicationID string
	SiteURL       string
	Location      *time.Location
}

// Subject is e.g. "[JobTrack] D-3 Reminder: Acme - Backend Engineer".
func (r Reminder) Subject() string {
	return fmt.Sprintf("[JobTrack] D-%d Reminder: %s - %s", r.DaysBefore, r.CompanyName, r.Position)
}

// HTML renders the message body. The scheduled time is shown in r.Location.
func (r Reminder) HTML() (string, error) {
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}
	var buf bytes.Buffer
	err := reminderTmpl.Execute(&buf, struct {
		CompanyName string
		Position    string
		DaysLeft    int
		When        string
		Link        string
	}{
		CompanyName: r.CompanyName,
		Position:    r.Position,
		DaysLeft:    r.DaysBefore,
		When:        r.ScheduledAt.In(loc).Format("2006-01-02 15:04 MST"),
		Link:        r.SiteURL + "/applications/" + r.ApplicationID,
	})
	if err != nil {
		return "", fmt.Errorf("render reminder: %w", err)
	}
	return buf.String(), nil
}

package notifications

import (
	"bytes"
	"html/template"
)

const appointmentEmailTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Dear {{.PatientName}},</p>
  <p>{{.Headline}}</p>
  <ul>
    <li>Doctor: {{.DoctorName}}</li>
    <li>Date: {{.Date}}</li>
    <li>Time: {{.StartTime}} - {{.EndTime}}</li>
    <li>Consultation fee: {{.Fee}}</li>
    <li>Status: {{.StatusLabel}}</li>
    <li>Booking reference: {{.AppointmentID}}</li>
  </ul>
  <p>Please arrive ten minutes early and bring a valid ID.</p>
  <p>Aura Health</p>
</body>
</html>`

var appointmentEmailTmpl = template.Must(template.New("appointment_email").Parse(appointmentEmailTemplate))

type appointmentEmailData struct {
	PatientName   string
	Headline      string
	DoctorName    string
	Date          string
	StartTime     string
	EndTime       string
	Fee           float64
	StatusLabel   string
	AppointmentID string
}

func buildAppointmentEmailHTML(data appointmentEmailData) (string, error) {
	var buf bytes.Buffer
	if err := appointmentEmailTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

package mail

import (
	"bytes"
	"fmt"
	"html/template"
)

var reservationTmpl = template.Must(template.New("reservation").Parse(`<p>Hello {{.Name}},</p>
<p>Your reservation for {{.Guests}} on {{.Date}} at {{.Time}} is now <strong>{{.Status}}</strong>.</p>
<p>Thank you for choosing us.</p>`))

var contactReplyTmpl = template.Must(template.New("contact").Parse(`<p>Hello {{.Name}},</p>
<p>Thanks for reaching out about "{{.Subject}}".</p>
<p>{{.Reply}}</p>`))

// ReservationStatus is the data for a reservation status email.
type ReservationStatus struct {
	Name   string
	Date   string
	Time   string
	Guests int32
	Status string
}

// RenderReservationStatus returns the subject and HTML body.
func RenderReservationStatus(d ReservationStatus) (string, string, error) {
	var buf bytes.Buffer
	if err := reservationTmpl.Execute(&buf, d); err != nil {
		return "", "", fmt.Errorf("render reservation mail: %w", err)
	}
	return "Reservation " + d.Status, buf.String(), nil
}

// ContactReply is the data for a reply to a contact message.
type ContactReply struct {
	Name    string
	Subject string
	Reply   string
}

func RenderContactReply(d ContactReply) (string, string, error) {
	var buf bytes.Buffer
	if err := contactReplyTmpl.Execute(&buf, d); err != nil {
		return "", "", fmt.Errorf("render contact reply: %w", err)
	}
	return "Re: " + d.Subject, buf.String(), nil
}

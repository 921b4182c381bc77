package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Template names a template set under pkg/mailer/templates; Data fills it.
// Subject/Text/HTML are used directly when Template is empty.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "verify_otp"
	Data     map[string]any `json:"data,omitempty"`
}

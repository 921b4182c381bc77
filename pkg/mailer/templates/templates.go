package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// Template names.
const (
	VerifyOTP = "verify_otp"
)

// OTPData fills the verify_otp template set.
type OTPData struct {
	Name      string    `json:"Name"`
	Code      string    `json:"Code"`
	AppName   string    `json:"AppName"`
	ExpiresIn string    `json:"ExpiresIn"` // e.g. "10 minutes"
	SentAt    time.Time `json:"SentAt"`
}

// ToMap converts OTPData for use as EmailJob.Data.
func ToMap(d OTPData) map[string]any {
	return map[string]any{
		"Name":      d.Name,
		"Code":      d.Code,
		"AppName":   d.AppName,
		"ExpiresIn": d.ExpiresIn,
		"SentAt":    d.SentAt,
	}
}

// renderFile loads and renders a single template file from the embedded FS.
// isHTML selects html/template (escaping) over text/template.
func renderFile(filename string, isHTML bool, data any) (string, error) {
	var (
		buf bytes.Buffer
		err error
	)
	if isHTML {
		tpl, e := htmpl.New(filename).ParseFS(FS, filename)
		if e != nil {
			return "", fmt.Errorf("parse html %q: %w", filename, e)
		}
		err = tpl.Execute(&buf, data)
	} else {
		tpl, e := texttpl.New(filename).ParseFS(FS, filename)
		if e != nil {
			return "", fmt.Errorf("parse text %q: %w", filename, e)
		}
		err = tpl.Execute(&buf, data)
	}
	if err != nil {
		return "", fmt.Errorf("exec %q: %w", filename, err)
	}
	return buf.String(), nil
}

// Render loads and renders subject, text, and html templates for the given
// base name. Expects: <name>.subject.tmpl, <name>.text.tmpl, <name>.html.tmpl
func Render(name string, data any) (subject string, text string, html string, err error) {
	subject, err = renderFile(name+".subject.tmpl", false, data)
	if err != nil {
		return "", "", "", err
	}
	text, err = renderFile(name+".text.tmpl", false, data)
	if err != nil {
		return "", "", "", err
	}
	html, err = renderFile(name+".html.tmpl", true, data)
	if err != nil {
		return "", "", "", err
	}
	return subject, text, html, nil
}

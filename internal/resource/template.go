package resource

import "time"

// Template is a notification template (email/SMS) from the admin module.
type Template struct {
	ID        string    `json:"id" validate:"required"`
	Name      string    `json:"name" validate:"required"`
	Channel   string    `json:"channel" validate:"required,oneof=email sms"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body" validate:"required"`
	Active    bool      `json:"active"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t Template) EntityID() string { return t.ID }

// TemplatePayload is the client-supplied body for creating or updating a
// template.
type TemplatePayload struct {
	Name    string `json:"name" validate:"required"`
	Channel string `json:"channel" validate:"required,oneof=email sms"`
	Subject string `json:"subject"`
	Body    string `json:"body" validate:"required"`
	Active  bool   `json:"active"`
}

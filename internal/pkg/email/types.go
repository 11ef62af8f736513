package email

// Email is a single outbound message.
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// TemplateData is the payload rendered into the HTML templates.
type TemplateData struct {
	UserName   string
	Subject    string
	Message    string
	ActionURL  string
	ActionText string
}

// Config for the SMTP provider.
type Config struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	FromEmail    string
	FromName     string
	Enabled      bool
}

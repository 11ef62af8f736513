package email

import (
	"bytes"
	"fmt"
	"html/template"
)

const baseTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>{{.Subject}}</h2>
  <p>Hi {{.UserName}},</p>
  <p>{{.Message}}</p>
  {{if .ActionURL}}<p><a href="{{.ActionURL}}">{{.ActionText}}</a></p>{{end}}
  <p>— The TutorLink team</p>
</body>
</html>`

var builtinTemplates = map[string]string{
	"session_confirmed": baseTemplate,
	"session_reminder":  baseTemplate,
	"generic":           baseTemplate,
}

// TemplateManager renders the built-in HTML templates.
type TemplateManager struct {
	templates map[string]*template.Template
}

func NewTemplateManager() (*TemplateManager, error) {
	tm := &TemplateManager{templates: make(map[string]*template.Template)}
	for name, text := range builtinTemplates {
		t, err := template.New(name).Parse(text)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		tm.templates[name] = t
	}
	return tm, nil
}

func (tm *TemplateManager) Render(name string, data TemplateData) (string, error) {
	t, ok := tm.templates[name]
	if !ok {
		t = tm.templates["generic"]
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

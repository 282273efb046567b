package usecase

import (
	"strings"
	"text/template"

	"github.com/fadilmartias/resume-screener/internal/model"
)

type TemplateData struct {
	Name        string
	Role        string
	CompanyName string
}

type emailTemplate struct {
	subject *template.Template
	body    *template.Template
}

func mustTemplate(subject, body string) emailTemplate {
	return emailTemplate{
		subject: template.Must(template.New("subject").Parse(subject)),
		body:    template.Must(template.New("body").Parse(body)),
	}
}

var emailTemplates = map[model.Verdict]emailTemplate{
	model.VerdictShortlist: mustTemplate(
		"Interview Opportunity - {{.Role}} at {{.CompanyName}}",
		`Dear {{.Name}},

Congratulations! We are pleased to inform you that you have been shortlisted for the next round of the {{.Role}} position at {{.CompanyName}}. Our team will contact you shortly to schedule an interview.

Best regards,
{{.CompanyName}} Recruitment Team`),
	model.VerdictReview: mustTemplate(
		"Your application for {{.Role}} at {{.CompanyName}}",
		`Dear {{.Name}},

Thank you for your interest in the {{.Role}} position at {{.CompanyName}}. Your application is under review and we will get back to you soon.

Best regards,
{{.CompanyName}} Recruitment Team`),
	model.VerdictReject: mustTemplate(
		"Update on your application for {{.Role}} at {{.CompanyName}}",
		`Dear {{.Name}},

Thank you for taking the time to apply for the {{.Role}} position at {{.CompanyName}}. After careful consideration we have decided to move forward with other candidates. We will keep your details on file for future openings.

Best regards,
{{.CompanyName}} Recruitment Team`),
}

func renderTemplate(v model.Verdict, data TemplateData) (subject, body string) {
	if strings.TrimSpace(data.Name) == "" {
		data.Name = "Candidate"
	}
	if strings.TrimSpace(data.Role) == "" {
		data.Role = "Position"
	}
	if strings.TrimSpace(data.CompanyName) == "" {
		data.CompanyName = "Our Company"
	}

	tpl := emailTemplates[v]
	var s, b strings.Builder
	_ = tpl.subject.Execute(&s, data)
	_ = tpl.body.Execute(&b, data)
	return s.String(), b.String()
}

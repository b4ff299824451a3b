package pipeline

import (
	"strings"
	"text/template"

	"github.com/sells-group/campaign-cli/internal/model"
)

// OfferLine is the fixed value proposition in every draft.
const OfferLine = "we could cut your outreach time by ~40% using our lightweight AI-assisted CRM"

var emailTemplate = template.Must(template.New("email").Parse(`
Hi {{.FirstName}}{{if .Company}} at {{.Company}}{{end}},

{{.Intro}}

Based on what {{or .Company "you"}} seem to focus on, I think {{.Offer}}.

If you're open to it, I can share a 5-minute walkthrough tailored for {{or .Company .FirstName}}.

Best,
{{.Sender}}
`))

type emailData struct {
	FirstName string
	Company   string
	Intro     string
	Offer     string
	Sender    string
}

// DraftEmail renders the outreach body for a lead.
func DraftEmail(lead model.Lead, intro, senderName string) string {
	first := "there"
	if fields := strings.Fields(lead.Name); len(fields) > 0 {
		first = fields[0]
	}

	var b strings.Builder
	// The template is static and every field is a string, so Execute cannot fail.
	_ = emailTemplate.Execute(&b, emailData{
		FirstName: first,
		Company:   lead.Company,
		Intro:     intro,
		Offer:     OfferLine,
		Sender:    senderName,
	})
	return strings.TrimSpace(b.String())
}

package grouping

import (
	"bytes"
	"net/mail"
	"strings"
	texttmpl "text/template"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/roster"
)

var summaryTemplate = texttmpl.Must(texttmpl.New("summary").Funcs(texttmpl.FuncMap{
	"names": studentNames,
}).Parse(`Hello {{if .Recipient.Name}}{{.Recipient.Name}}{{else}}there{{end}},

{{.Result.Placed}} of {{.Result.RosterSize}} students of class {{.Result.ClassID}} were split into {{len .Result.Groups}} groups.
{{range .Result.Groups}}
{{.Name}}: {{names .Members}}{{end}}
{{if .Result.Unplaced}}
{{len .Result.Unplaced}} students could not be placed: {{names .Result.Unplaced}}
{{end}}`))

type summaryData struct {
	Recipient mail.Address
	Result    Result
}

func studentNames(students []roster.Student) string {
	names := make([]string, 0, len(students))
	for _, s := range students {
		if s.Name != "" {
			names = append(names, s.Name)
		} else {
			names = append(names, s.ID)
		}
	}
	return strings.Join(names, ", ")
}

// notify emails the summary of a run to every recipient, with the groups
// attached when an Exporter is configured.
func (svc *Service) notify(res Result, recipients []mail.Address) {
	if svc.mailSvc == nil {
		return
	}

	var attachment *bytes.Buffer
	if svc.exporter != nil {
		attachment = new(bytes.Buffer)
		if err := svc.exporter.Export(attachment, res.ClassID, res.Groups, res.Unplaced); err != nil {
			svc.log.Error("exporting groups for summary email", err)
			attachment = nil
		}
	}

	messages := make([]*core.EmailMessage, 0, len(recipients))
	for _, to := range recipients {
		msg := &core.EmailMessage{
			To:           []mail.Address{to},
			Subject:      "New groups for class " + res.ClassID,
			Template:     summaryTemplate,
			TemplateData: summaryData{Recipient: to, Result: res},
		}
		if attachment != nil {
			err := msg.Attach(bytes.NewReader(attachment.Bytes()), svc.exporter.Filename(res.ClassID), svc.exporter.ContentType())
			if err != nil {
				svc.log.Error("attaching groups to summary email", err)
			}
		}
		messages = append(messages, msg)
	}
	svc.mailSvc.SendMessages(messages...)
}

package booking

import (
	"bytes"
	"html/template"
)

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<p>Ayubowan {{.GuestName}},</p>
<p>Your {{.Kind}} booking <strong>{{.ID}}</strong> for {{.Date}}{{if .Time}} at {{.Time}}{{end}} is <strong>{{.Status}}</strong>.</p>
{{if .VehicleType}}<p>Vehicle: {{.VehicleType}}, distance {{.Distance}} km.</p>{{end}}
<p>Total: USD {{.Price}}, deposit due: USD {{.Deposit}}.</p>`))

// ConfirmationBody renders the confirmation mail for b.
func ConfirmationBody(b Record) (string, error) {
	var buf bytes.Buffer
	err := confirmationTmpl.Execute(&buf, map[string]any{
		"GuestName":   b.GuestName,
		"Kind":        b.Kind,
		"ID":          b.ID,
		"Date":        b.Date,
		"Time":        b.Time,
		"Status":      b.Status,
		"VehicleType": b.VehicleType,
		"Distance":    FormatAmount(b.DistanceKm),
		"Price":       b.Price.StringFixed(2),
		"Deposit":     b.Deposit.StringFixed(2),
	})
	return buf.String(), err
}

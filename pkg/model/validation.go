package model

import (
	"strings"
)

// RequiredMessagePrefix opens the blocking message listing missing fields.
const RequiredMessagePrefix = "Preencha os campos obrigatórios: "

// InvalidEmailMessage is reported when the email lacks an "@".
const InvalidEmailMessage = "Informe um email válido."

var requiredFields = []struct {
	field ScalarField
	label string
}{
	{FieldName, "Nome"},
	{FieldEmail, "Email"},
	{FieldPhone, "Telefone"},
	{FieldObjective, "Objetivo"},
}

// Validate checks the record before export. It returns nil or a
// *ValidationError listing every missing required field.
func Validate(rec Record) error {
	verr := &ValidationError{}

	var missing []string
	for _, req := range requiredFields {
		if strings.TrimSpace(rec.Scalar(req.field)) == "" {
			missing = append(missing, req.label)
			verr.add(string(req.field), "campo obrigatório")
		}
	}
	if len(missing) > 0 {
		verr.Form = append(verr.Form, RequiredMessagePrefix+strings.Join(missing, ", ")+".")
	}

	if email := strings.TrimSpace(rec.Email); email != "" && !strings.Contains(email, "@") {
		verr.add(string(FieldEmail), InvalidEmailMessage)
		verr.Form = append(verr.Form, InvalidEmailMessage)
	}

	if len(verr.Fields) == 0 {
		return nil
	}
	return verr
}

// Validate checks the current record.
func (f *Form) Validate() error {
	return Validate(f.record)
}

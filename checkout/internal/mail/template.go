package mail

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"
)

type OrderMailData struct {
	OrderID      string
	Name         string
	Email        string
	TotalAmount  decimal.Decimal
	IsNewAccount bool
	TempPassword string
}

var customerTemplate = template.Must(template.New("customer").Parse(`
<h2>Thank you for your order, {{.Name}}!</h2>
<p>Your order <strong>{{.OrderID}}</strong> has been placed and is now pending.</p>
<p>Order total: <strong>{{.TotalAmount}}</strong></p>
{{if .IsNewAccount}}
<p>We created an account for you so you can track your order.</p>
<p>Email: <strong>{{.Email}}</strong><br>
Temporary password: <strong>{{.TempPassword}}</strong></p>
<p>Please sign in and change your password.</p>
{{end}}
`))

var operatorTemplate = template.Must(template.New("operator").Parse(`
<h2>New order {{.OrderID}}</h2>
<p>Customer: {{.Name}} ({{.Email}})</p>
<p>Total: <strong>{{.TotalAmount}}</strong></p>
`))

func CustomerOrderMail(data OrderMailData) (string, string, error) {
	content := strings.Builder{}
	if err := customerTemplate.Execute(&content, data); err != nil {
		return "", "", fmt.Errorf("failed rendering customer mail with error=%w", err)
	}
	subject := fmt.Sprintf("Order confirmation %s", data.OrderID)
	return subject, content.String(), nil
}

func OperatorOrderMail(data OrderMailData) (string, string, error) {
	content := strings.Builder{}
	if err := operatorTemplate.Execute(&content, data); err != nil {
		return "", "", fmt.Errorf("failed rendering operator mail with error=%w", err)
	}
	subject := fmt.Sprintf("New order %s from %s", data.OrderID, data.Name)
	return subject, content.String(), nil
}

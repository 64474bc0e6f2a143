package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/divan/num2words"
	"github.com/shopspring/decimal"
)

var reminderTmpl = template.Must(template.New("reminder").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Payment Reminder</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #ffda03; padding: 20px; text-align: center; border-radius: 8px; }
        .content { padding: 20px; background: #f9f9f9; border-radius: 8px; margin: 20px 0; }
        .amount { font-size: 24px; font-weight: bold; color: #d32f2f; }
        .due-date { font-size: 18px; color: #666; }
        .footer { text-align: center; color: #666; font-size: 14px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Payment Reminder</h1>
        </div>
        <div class="content">
            <p>Dear {{.ClientName}},</p>
            <p>This is a friendly reminder that you have an outstanding payment:</p>
            <p><strong>Amount Due:</strong> <span class="amount">{{.Amount}}</span> ({{.AmountInWords}})</p>
            <p><strong>Due Date:</strong> <span class="due-date">{{.DueDate}}</span></p>
            {{if .Description}}<p><strong>Description:</strong> {{.Description}}</p>{{end}}
            <p>Please process this payment at your earliest convenience. If you have any questions or concerns, please don't hesitate to contact me.</p>
            <p>Thank you for your business!</p>
        </div>
        <div class="footer">
            <p>This is an automated payment reminder. Please do not reply to this email.</p>
        </div>
    </div>
</body>
</html>
`))

type reminderData struct {
	ClientName    string
	Amount        string
	AmountInWords string
	DueDate       string
	Description   string
}

func renderReminderHTML(clientName string, amount decimal.Decimal, dueDate time.Time, description string) (string, error) {
	var buf bytes.Buffer
	err := reminderTmpl.Execute(&buf, reminderData{
		ClientName:    clientName,
		Amount:        "$" + amount.StringFixed(2),
		AmountInWords: amountInWords(amount),
		DueDate:       dueDate.Format("January 2, 2006"),
		Description:   description,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// amountInWords spells out the dollar part, check style: "five hundred and
// 25/100 dollars".
func amountInWords(amount decimal.Decimal) string {
	cents := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return fmt.Sprintf("%s and %02d/100 dollars", num2words.Convert(int(cents/100)), cents%100)
}

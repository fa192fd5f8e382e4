package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"gopkg.in/gomail.v2"

	"tradelink/config"
)

type EmailData struct {
	Subject   string
	To        []string
	Template  string
	Data      interface{}
	Year      int
	FromName  string
	FromEmail string
}

// Embedded email templates
var emailTemplates = map[string]string{
	"seller_new_lead": `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { color: #2c3e50; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        .content { margin: 20px 0; }
        .lead-box { background: #f8f9fa; border-radius: 4px; padding: 15px; margin: 20px 0; }
        .cta { display: inline-block; padding: 10px 20px; background-color: #3498db; color: white; text-decoration: none; border-radius: 4px; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <h2>New Buyer Inquiry in {{.Category}}</h2>
    </div>

    <div class="content">
        <p>Hello,</p>
        <p>A buyer just submitted an inquiry in a category you sell in:</p>

        <div class="lead-box">
            <p><strong>Category:</strong> {{.Category}}</p>
            <p><strong>Quantity:</strong> {{.Quantity}}</p>
            <p>{{.Message}}</p>
        </div>

        <p>Leads are available to a limited number of sellers. Log in to purchase access before it closes.</p>
    </div>

    <div class="footer">
        <p>© {{.Year}} TradeLink. All rights reserved.</p>
    </div>
</body>
</html>`,

	"buyer_ack": `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { color: #2c3e50; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        .content { margin: 20px 0; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <h2>Thank You for Your Inquiry</h2>
    </div>

    <div class="content">
        <p>Hello,</p>
        <p>We received your inquiry for <strong>{{.ProductTitle}}</strong> and shared it with matching suppliers in the {{.Category}} category.</p>
        <p>Interested suppliers will reach out to you directly. No further action is needed.</p>
    </div>

    <div class="footer">
        <p>If you didn't submit this inquiry, you can safely ignore this email.</p>
        <p>© {{.Year}} TradeLink. All rights reserved.</p>
    </div>
</body>
</html>`,
}

func SendEmail(data EmailData) error {
	if data.FromEmail == "" {
		data.FromEmail = config.AppConfig.FromEmail
	}
	if data.FromName == "" {
		data.FromName = "TradeLink"
	}
	if data.Year == 0 {
		data.Year = time.Now().Year()
	}

	tmplContent, ok := emailTemplates[data.Template]
	if !ok {
		return fmt.Errorf("template '%s' not found", data.Template)
	}

	tmpl, err := template.New("email").Parse(tmplContent)
	if err != nil {
		return fmt.Errorf("error parsing template: %v", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data.Data); err != nil {
		return fmt.Errorf("error executing template: %v", err)
	}

	smtpPort, err := strconv.Atoi(config.AppConfig.SMTPPort)
	if err != nil {
		return fmt.Errorf("invalid SMTP_PORT: %v", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", data.FromName, data.FromEmail))
	m.SetHeader("To", data.To...)
	m.SetHeader("Subject", data.Subject)
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(
		config.AppConfig.SMTPHost,
		smtpPort,
		config.AppConfig.SMTPUsername,
		config.AppConfig.SMTPPassword,
	)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}

	return nil
}

// SendSellerNewLeadEmail notifies one seller about a fresh inquiry. Contact
// details are never included; the email only carries the lead summary.
func SendSellerNewLeadEmail(email, category, message string, quantity int) error {
	data := EmailData{
		Subject:  "New buyer inquiry in " + category,
		To:       []string{email},
		Template: "seller_new_lead",
		Year:     time.Now().Year(),
		Data: struct {
			Subject  string
			Category string
			Message  string
			Quantity int
			Year     int
		}{
			Subject:  "New buyer inquiry in " + category,
			Category: category,
			Message:  message,
			Quantity: quantity,
			Year:     time.Now().Year(),
		},
	}

	return SendEmail(data)
}

// SendBuyerAckEmail thanks the buyer after their inquiry was distributed
func SendBuyerAckEmail(email, productTitle, category string) error {
	data := EmailData{
		Subject:  "We received your inquiry",
		To:       []string{email},
		Template: "buyer_ack",
		Year:     time.Now().Year(),
		Data: struct {
			Subject      string
			ProductTitle string
			Category     string
			Year         int
		}{
			Subject:      "We received your inquiry",
			ProductTitle: productTitle,
			Category:     category,
			Year:         time.Now().Year(),
		},
	}

	return SendEmail(data)
}

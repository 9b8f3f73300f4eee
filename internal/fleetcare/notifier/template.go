package notifier

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	"text/template"
	"time"

	"github.com/shopspring/decimal"

	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/model"
)

// Mail is a rendered customer e-mail. Body is the plain text alternative of
// HTML.
type Mail struct {
	From    string
	To      string
	Subject string
	Body    string
	HTML    string
}

// Recipient identifies who receives customer e-mails.
type Recipient struct {
	Name    string
	Address string
}

const sender = "FGL Rastreamento <fgl.rastreamento@gmail.com>"

const duplicateBody = `FGL Rastreamento - Segunda Via

Olá {{.Name}},

Conforme solicitado, segue a segunda via do seu boleto:

Detalhes do Boleto
Mês/Ano: {{period .Bill.Month}}
Valor: R$ {{brl .Bill.Value}}
Vencimento: {{date .Bill.DueDate}}
Código de Barras: {{.Bill.Code}}

Você pode pagar este boleto em qualquer banco, lotérica ou através do internet banking.

Em caso de dúvidas, entre em contato conosco.

Atenciosamente,
Equipe FGL Rastreamento
`

const approvalBody = `Cotação Aprovada!

Olá {{.Name}},

Temos uma ótima notícia! Sua cotação foi aprovada:

APROVADO
Veículo: {{.Quote.Model}}
Placa: {{.Quote.Plate}}
Plano: Proteção 20mil
Valor Mensal: R$ 89,90

Seu veículo foi aprovado para nosso plano de proteção com cobertura de até R$ 20.000,00.

Em breve entraremos em contato para finalizar a contratação.

Atenciosamente,
Equipe FGL Rastreamento
`

const duplicateHTML = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2563eb;">FGL Rastreamento - Segunda Via</h2>
  <p>Olá {{.Name}},</p>
  <p>Conforme solicitado, segue a segunda via do seu boleto:</p>
  <div style="background: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3>Detalhes do Boleto</h3>
    <p><strong>Mês/Ano:</strong> {{period .Bill.Month}}</p>
    <p><strong>Valor:</strong> R$ {{brl .Bill.Value}}</p>
    <p><strong>Vencimento:</strong> {{date .Bill.DueDate}}</p>
    <p><strong>Código de Barras:</strong> {{.Bill.Code}}</p>
  </div>
  <p>Você pode pagar este boleto em qualquer banco, lotérica ou através do internet banking.</p>
  <p>Em caso de dúvidas, entre em contato conosco.</p>
  <p>Atenciosamente,<br>
  <strong>Equipe FGL Rastreamento</strong></p>
</div>
`

const approvalHTML = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #16a34a;">🎉 Cotação Aprovada!</h2>
  <p>Olá {{.Name}},</p>
  <p>Temos uma ótima notícia! Sua cotação foi aprovada:</p>
  <div style="background: #dcfce7; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #16a34a;">
    <h3 style="color: #16a34a; margin-top: 0;">✅ APROVADO</h3>
    <p><strong>Veículo:</strong> {{.Quote.Model}}</p>
    <p><strong>Placa:</strong> {{.Quote.Plate}}</p>
    <p><strong>Plano:</strong> Proteção 20mil</p>
    <p><strong>Valor Mensal:</strong> R$ 89,90</p>
  </div>
  <p>Seu veículo foi aprovado para nosso plano de proteção com cobertura de até R$ 20.000,00.</p>
  <p>Em breve entraremos em contato para finalizar a contratação.</p>
  <p>Atenciosamente,<br>
  <strong>Equipe FGL Rastreamento</strong></p>
</div>
`

var monthNames = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// funcs is shared by the text and HTML templates.
var funcs = map[string]any{
	"brl":    formatBRL,
	"date":   func(t time.Time) string { return t.Format("02/01/2006") },
	"period": formatPeriod,
}

// formatPeriod spells a YYYY-MM billing period out in Portuguese.
func formatPeriod(month string) string {
	t, err := time.Parse(model.BillingPeriodLayout, month)
	if err != nil {
		return month
	}
	return fmt.Sprintf("%s de %d", monthNames[t.Month()-1], t.Year())
}

// mailTemplate is one mail in both renditions. Values in the HTML part are
// escaped, so customer input such as a plate cannot inject markup.
type mailTemplate struct {
	text *template.Template
	html *htmltemplate.Template
}

func newMailTemplate(name, text, html string) mailTemplate {
	return mailTemplate{
		text: template.Must(template.New(name).Funcs(funcs).Parse(text)),
		html: htmltemplate.Must(htmltemplate.New(name).Funcs(funcs).Parse(html)),
	}
}

// Template renders the customer e-mails sent for each notification kind.
type Template struct {
	to        Recipient
	duplicate mailTemplate
	approval  mailTemplate
}

func NewTemplate(to Recipient) *Template {
	return &Template{
		to:        to,
		duplicate: newMailTemplate("duplicate", duplicateBody, duplicateHTML),
		approval:  newMailTemplate("approval", approvalBody, approvalHTML),
	}
}

func (t *Template) Render(n *model.Notification) (*Mail, error) {
	var (
		subject string
		tmpl    mailTemplate
		data    any
	)

	switch p := n.Payload.(type) {
	case *model.DuplicateArtifact:
		subject = "Segunda Via do Boleto - " + p.Month
		tmpl = t.duplicate
		data = struct {
			Name string
			Bill *model.DuplicateArtifact
		}{t.to.Name, p}
	case *model.Quote:
		subject = "Cotação Aprovada - FGL Rastreamento"
		tmpl = t.approval
		data = struct {
			Name  string
			Quote *model.Quote
		}{t.to.Name, p}
	default:
		return nil, fmt.Errorf("no mail template for %s payload %T", n.Kind, n.Payload)
	}

	var text, html bytes.Buffer
	if err := tmpl.text.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("failed to render %s mail: %w", n.Kind, err)
	}
	if err := tmpl.html.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("failed to render %s html mail: %w", n.Kind, err)
	}

	return &Mail{From: sender, To: t.to.Address, Subject: subject, Body: text.String(), HTML: html.String()}, nil
}

// formatBRL formats d with two decimals, a comma separator and dotted thousands.
func formatBRL(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	out := b.String() + "," + frac
	if neg {
		out = "-" + out
	}
	return out
}

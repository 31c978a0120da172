// Package notify sends transactional mails for validated work entries and
// generated invoices. Delivery failures are logged, never propagated as
// business errors by callers.
package notify

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/laurent7850/The-event/internal/application/invoicing"
	"github.com/laurent7850/The-event/internal/application/tracking"
	"github.com/laurent7850/The-event/internal/domain/entity"
	"github.com/laurent7850/The-event/pkg/logger"
)

var (
	_ tracking.Notifier  = (*MailNotifier)(nil)
	_ invoicing.Notifier = (*MailNotifier)(nil)
)

// MailNotifier sends notification mails over SMTP.
type MailNotifier struct {
	dialer *gomail.Dialer
	from   string
	admin  string
	log    *logger.Logger
}

// NewMailNotifier builds the notifier. admin receives validation notices.
func NewMailNotifier(host string, port int, username, password, from, admin string, log *logger.Logger) *MailNotifier {
	return &MailNotifier{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		admin:  admin,
		log:    log,
	}
}

// WorkEntryValidated notifies the admin mailbox that an entry was validated.
func (n *MailNotifier) WorkEntryValidated(_ context.Context, e *entity.WorkEntry, client *entity.Client) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.admin)
	m.SetHeader("Subject", fmt.Sprintf("Prestation validée — %s (%s)", client.Name, e.Date.Format("02/01/2006")))
	m.SetBody("text/plain", fmt.Sprintf(
		"La prestation du %s pour %s a été validée.\n\nHeures: %s\nTarif appliqué: %s €/h\nMontant: %s €\n",
		e.Date.Format("02/01/2006"), client.Name,
		e.ComputedHours.StringFixed(2), snapshotString(e), e.Amount().StringFixed(2),
	))

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("notify: send validation mail: %w", err)
	}
	return nil
}

// InvoiceGenerated notifies the client's billing address, falling back to
// the admin mailbox when the client has none.
func (n *MailNotifier) InvoiceGenerated(_ context.Context, inv *entity.Invoice, client *entity.Client) error {
	to := client.BillingEmail
	if to == "" {
		to = n.admin
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Facture %s — %s", inv.PeriodLabel(), client.Name))
	body := fmt.Sprintf(
		"Votre facture pour la période %s est disponible.\n\nMontant total: %s €\n",
		inv.PeriodLabel(), inv.TotalAmount.StringFixed(2),
	)
	if inv.PDFLink != "" {
		body += fmt.Sprintf("\nTéléchargement: %s\n", inv.PDFLink)
	}
	m.SetBody("text/plain", body)

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("notify: send invoice mail: %w", err)
	}
	return nil
}

func snapshotString(e *entity.WorkEntry) string {
	if e.TariffSnapshot == nil {
		return "—"
	}
	return e.TariffSnapshot.StringFixed(2)
}

// NoopNotifier discards all notifications. Used when SMTP is not configured.
type NoopNotifier struct{}

var (
	_ tracking.Notifier  = NoopNotifier{}
	_ invoicing.Notifier = NoopNotifier{}
)

func (NoopNotifier) WorkEntryValidated(context.Context, *entity.WorkEntry, *entity.Client) error {
	return nil
}

func (NoopNotifier) InvoiceGenerated(context.Context, *entity.Invoice, *entity.Client) error {
	return nil
}

// Package notify delivers post-import summary emails via Resend.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/FACorreiaa/stockflow/internal/domain/reconcile/executor"
)

// EmailNotifier sends import run summaries to a fixed recipient.
type EmailNotifier struct {
	client *resend.Client
	from   string
	to     string
	logger *slog.Logger
}

// NewEmailNotifier creates a notifier. Callers should skip construction when
// no API key is configured.
func NewEmailNotifier(apiKey, from, to string, logger *slog.Logger) *EmailNotifier {
	return &EmailNotifier{
		client: resend.NewClient(apiKey),
		from:   from,
		to:     to,
		logger: logger,
	}
}

// SendImportSummary emails the run outcome, including per-item failures so
// the recipient can fix them manually.
func (n *EmailNotifier) SendImportSummary(ctx context.Context, documentName string, summary executor.Summary) error {
	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{n.to},
		Subject: fmt.Sprintf("Import finished: %s", documentName),
		Html:    renderSummaryHTML(documentName, summary),
	}

	sent, err := n.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send import summary email: %w", err)
	}
	n.logger.Debug("import summary sent", "email_id", sent.Id, "document", documentName)
	return nil
}

func renderSummaryHTML(documentName string, summary executor.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Import report for %s</h2>", documentName)
	fmt.Fprintf(&b, "<p>Created: %d<br>Updated: %d<br>Failed: %d</p>",
		summary.CreatedCount, summary.UpdatedCount, len(summary.Failures))

	if len(summary.Failures) > 0 {
		b.WriteString("<h3>Failures</h3><ul>")
		for _, f := range summary.Failures {
			fmt.Fprintf(&b, "<li><strong>%s</strong>: %s</li>", f.Name, f.Error)
		}
		b.WriteString("</ul>")
	}
	return b.String()
}

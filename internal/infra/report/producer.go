package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	domain "sentinela_corte_bot/internal/domain/report"
	"sentinela_corte_bot/internal/infra/database"
	"sentinela_corte_bot/internal/infra/mailer"

	"github.com/sirupsen/logrus"
)

const topProducts = 5

// SalesQuerier is the slice of the sales repository the producer needs.
type SalesQuerier interface {
	QueryRange(ctx context.Context, filename string, start, end time.Time) (*database.Table, error)
}

// Mailer is the transport the producer dispatches through.
type Mailer interface {
	SendHTML(subject, html string, to, cc, bcc []string, attachments []mailer.Attachment, priorityHigh bool) error
}

// EmailProducer builds the cut report (HTML body + CSV attachments)
// and sends it by e-mail. It implements domain report.Producer.
type EmailProducer struct {
	sales        SalesQuerier
	mail         Mailer
	logger       *logrus.Logger
	templatePath string
	to, cc, bcc  []string
}

func NewEmailProducer(sales SalesQuerier, mail Mailer, logger *logrus.Logger, templatePath string, to, cc, bcc []string) *EmailProducer {
	return &EmailProducer{
		sales:        sales,
		mail:         mail,
		logger:       logger,
		templatePath: templatePath,
		to:           to,
		cc:           cc,
		bcc:          bcc,
	}
}

// ProduceAndSend runs the report queries for the period, renders the
// e-mail and dispatches it with the tabular attachments.
func (p *EmailProducer) ProduceAndSend(ctx context.Context, now time.Time, period domain.Period) error {
	p.logger.Infof("Building report for %q...", period.Label)

	yStart, yEnd := domain.YesterdayWindow(now)

	bmkYesterday, err := p.sales.QueryRange(ctx, database.SQLBenchmark, yStart, yEnd)
	if err != nil {
		return fmt.Errorf("benchmark (yesterday): %w", err)
	}
	bmkMonth, err := p.sales.QueryRange(ctx, database.SQLBenchmark, period.Start, period.End)
	if err != nil {
		return fmt.Errorf("benchmark (month): %w", err)
	}
	synthYesterday, err := p.sales.QueryRange(ctx, database.SQLSyntheticDay, yStart, yEnd)
	if err != nil {
		return fmt.Errorf("synthetic (yesterday): %w", err)
	}
	synthMonth, err := p.sales.QueryRange(ctx, database.SQLSyntheticMonth, period.Start, period.End)
	if err != nil {
		return fmt.Errorf("synthetic (month): %w", err)
	}
	analyticMonth, err := p.sales.QueryRange(ctx, database.SQLAnalyticMonth, period.Start, period.End)
	if err != nil {
		return fmt.Errorf("analytic (month): %w", err)
	}

	subject := Subject(now, period.IsClosing)
	html, err := p.renderBody(subject, period, bmkYesterday, bmkMonth, synthYesterday, synthMonth)
	if err != nil {
		return err
	}

	attachments := []mailer.Attachment{
		csvAttachment(AttachmentName(now, period.IsClosing, "Sintetico Ontem", "csv"), synthYesterday),
		csvAttachment(AttachmentName(now, period.IsClosing, "Sintetico Mes", "csv"), synthMonth),
		csvAttachment(AttachmentName(now, period.IsClosing, "Analitico Mes", "csv"), analyticMonth),
	}

	if err := p.mail.SendHTML(subject, html, p.to, p.cc, p.bcc, attachments, true); err != nil {
		return fmt.Errorf("send report: %w", err)
	}
	p.logger.Infof("Report %q sent to %d recipient(s).", subject, len(p.to)+len(p.cc)+len(p.bcc))
	return nil
}

func (p *EmailProducer) renderBody(subject string, period domain.Period, bmkYesterday, bmkMonth, synthYesterday, synthMonth *database.Table) (string, error) {
	template, err := os.ReadFile(p.templatePath)
	if err != nil {
		return "", fmt.Errorf("read template: %w", err)
	}

	monthShort := strings.NewReplacer("Fechamento - ", "", "Mês Atual - ", "").Replace(period.Label)

	var parts []string
	parts = append(parts, "<h3 class='subtitle subtitle-small sectionHeader' style='margin-top:2px'>Indicadores de Corte (Meta fixa 0,03%)</h3>")
	parts = append(parts, indicatorTable(bmkYesterday, "Ontem"))
	parts = append(parts, indicatorTable(bmkMonth, period.Label))
	parts = append(parts, topProductsByBranch(synthYesterday, "Top 5 por Filial - Ontem", topProducts))
	parts = append(parts, topProductsByBranch(synthMonth, "Top 5 por Filial - "+monthShort, topProducts))

	footer := "Este e-mail é gerado automaticamente. Não responda."
	return RenderTemplate(string(template), subject, strings.Join(parts, ""), footer), nil
}

// csvAttachment serializes a query result as a CSV attachment.
func csvAttachment(filename string, table *database.Table) mailer.Attachment {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write(table.Columns)
	for i := range table.Rows {
		record := make([]string, len(table.Columns))
		for j := range table.Columns {
			record[j] = table.String(i, j)
		}
		_ = w.Write(record)
	}
	w.Flush()

	return mailer.Attachment{
		Filename:    filename,
		ContentType: "text/csv",
		Content:     buf.Bytes(),
	}
}

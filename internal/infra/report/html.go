package report

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	domain "sentinela_corte_bot/internal/domain/report"
	"sentinela_corte_bot/internal/infra/database"

	"github.com/shopspring/decimal"
)

// MoedaBR formats a value as Brazilian currency: R$ 1.234,56.
func MoedaBR(v decimal.Decimal) string {
	s := v.StringFixed(2) // e.g. -1234.56
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	parts := strings.SplitN(s, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var grouped []string
	for len(intPart) > 3 {
		grouped = append([]string{intPart[len(intPart)-3:]}, grouped...)
		intPart = intPart[:len(intPart)-3]
	}
	grouped = append([]string{intPart}, grouped...)

	out := "R$ " + strings.Join(grouped, ".") + "," + fracPart
	if neg {
		out = "R$ -" + strings.TrimPrefix(out, "R$ ")
	}
	return out
}

// BranchLabel maps a branch code to its display name.
func BranchLabel(code string) string {
	labels := map[string]string{
		"1": "FARMAUM PB",
		"2": "FARMAUM RN",
		"3": "BRASIL",
	}
	if label, ok := labels[code]; ok {
		return label
	}
	return code
}

// Subject builds the e-mail subject for a cycle.
func Subject(now time.Time, isClosing bool) string {
	if isClosing {
		prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 0, -1)
		return "Sentinela · Corte · Fechamento - " + domain.MonthNamePT(prev)
	}
	return "Sentinela · Corte - " + now.Format("02/01/2006 15:04")
}

// AttachmentName builds a datestamped attachment filename.
func AttachmentName(now time.Time, isClosing bool, dataset, ext string) string {
	stamp := now.Format("02012006")
	if isClosing {
		prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 0, -1)
		monthName := strings.ReplaceAll(domain.MonthNamePT(prev), "/", " ")
		return fmt.Sprintf("Sentinela Corte Fechamento %s %s %s.%s", monthName, dataset, stamp, ext)
	}
	return fmt.Sprintf("Sentinela Corte %s %s.%s", dataset, stamp, ext)
}

// RenderTemplate fills the e-mail shell placeholders.
func RenderTemplate(template, title, content, footer string) string {
	out := strings.ReplaceAll(template, "{{TITLE}}", html.EscapeString(title))
	out = strings.ReplaceAll(out, "{{CONTENT}}", content)
	out = strings.ReplaceAll(out, "{{FOOTER}}", html.EscapeString(footer))
	return out
}

func sectionHeader(title string) string {
	return fmt.Sprintf("<h3 class='subtitle subtitle-small sectionHeader'>%s</h3>", html.EscapeString(title))
}

// indicatorTable renders the per-branch benchmark block.
func indicatorTable(table *database.Table, title string) string {
	var rows []string
	codCol := table.ColIndex("CODFILIAL")
	cutCol := table.ColIndex("PVENDA_CORTE")
	pctCol := table.ColIndex("PCT_PERIODO_CORTE")
	devCol := table.ColIndex("DESVIO_CORTE")
	favCol := table.ColIndex("FATURAMENTO")

	for i := range table.Rows {
		cod := table.String(i, codCol)
		branch := BranchLabel(cod)
		if cod == "TOTAL" {
			branch = "TOTAL"
		}

		pct := table.String(i, pctCol)
		if pct == "" {
			pct = "0,00%"
		}
		deviation := table.String(i, devCol)
		if deviation == "" {
			deviation = "0%"
		}

		var classes []string
		if strings.Contains(strings.ToUpper(deviation), "ACIMA") {
			classes = append(classes, "bad")
		}
		if cod == "TOTAL" {
			classes = append(classes, "total-row")
		}
		clsAttr := ""
		if len(classes) > 0 {
			clsAttr = fmt.Sprintf(" class=\"%s\"", strings.Join(classes, " "))
		}

		rows = append(rows, fmt.Sprintf(
			"<tr%s><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
			clsAttr,
			html.EscapeString(branch),
			MoedaBR(table.Decimal(i, cutCol)),
			html.EscapeString(pct),
			html.EscapeString(deviation),
			MoedaBR(table.Decimal(i, favCol)),
		))
	}

	return sectionHeader(title) +
		"<div class='tblWrap'><table class='data'>" +
		"<tr><th>Filial</th><th>Valor Cortado (R$)</th><th>Corte no período (%)</th><th>Desvio vs. Meta</th><th>Faturado (R$)</th></tr>" +
		strings.Join(rows, "") +
		"</table></div>"
}

type productAgg struct {
	code        string
	description string
	units       decimal.Decimal
	orders      decimal.Decimal
	value       decimal.Decimal
}

// topProductsByBranch renders the top-N cut products per branch,
// ranked by cut value.
func topProductsByBranch(table *database.Table, title string, topN int) string {
	if table.Empty() {
		return sectionHeader(title) + "<p class='muted' style='text-align:center'>Sem dados.</p>"
	}

	codCol := table.ColIndex("CODFILIAL")
	prodCol := table.ColIndex("CODPROD")
	descCol := table.ColIndex("DESCRICAO")
	qtCol := table.ColIndex("QT_CORTE")
	pedCol := table.ColIndex("COUNT_PED_CORTE")
	valCol := table.ColIndex("PVENDA_CORTE")

	byBranch := make(map[string]map[string]*productAgg)
	for i := range table.Rows {
		branch := table.String(i, codCol)
		prod := table.String(i, prodCol)
		if byBranch[branch] == nil {
			byBranch[branch] = make(map[string]*productAgg)
		}
		agg := byBranch[branch][prod]
		if agg == nil {
			agg = &productAgg{code: prod, description: table.String(i, descCol)}
			byBranch[branch][prod] = agg
		}
		agg.units = agg.units.Add(table.Decimal(i, qtCol))
		agg.orders = agg.orders.Add(table.Decimal(i, pedCol))
		agg.value = agg.value.Add(table.Decimal(i, valCol))
	}

	branches := make([]string, 0, len(byBranch))
	for b := range byBranch {
		branches = append(branches, b)
	}
	sort.Strings(branches)

	blocks := []string{sectionHeader(title)}
	for _, branch := range branches {
		products := make([]*productAgg, 0, len(byBranch[branch]))
		for _, agg := range byBranch[branch] {
			products = append(products, agg)
		}
		sort.Slice(products, func(a, b int) bool {
			return products[a].value.GreaterThan(products[b].value)
		})
		if len(products) > topN {
			products = products[:topN]
		}

		rows := []string{"<tr><th>Código</th><th>Descrição</th><th>Qt Und</th><th>Qt Ped</th><th>Valor</th></tr>"}
		for _, p := range products {
			rows = append(rows, fmt.Sprintf(
				"<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
				html.EscapeString(p.code),
				html.EscapeString(p.description),
				p.units.Round(0).String(),
				p.orders.Round(0).String(),
				MoedaBR(p.value),
			))
		}

		blocks = append(blocks, fmt.Sprintf(
			"<h4 class='subtitle subtitle-mini' style='margin-top:6px'>%s</h4>"+
				"<div class='tblWrap'><table class='data'>%s</table></div>",
			html.EscapeString(BranchLabel(branch)),
			strings.Join(rows, ""),
		))
	}
	return strings.Join(blocks, "")
}

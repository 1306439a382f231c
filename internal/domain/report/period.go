package report

import (
	"fmt"
	"time"
)

// Period is the month block a report cycle covers.
type Period struct {
	Start     time.Time
	End       time.Time
	IsClosing bool
	Label     string
}

var monthNamesPT = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// MonthNamePT returns the Portuguese "Month/Year" label for t.
func MonthNamePT(t time.Time) string {
	return fmt.Sprintf("%s/%d", monthNamesPT[t.Month()-1], t.Year())
}

// MonthWindow maps "now" to the reporting period.
// On day 1 the period is the entire previous month and the cycle is a
// closing (fechamento). On any other day it is the current month from
// day 1 through the end of today.
func MonthWindow(now time.Time) Period {
	loc := now.Location()

	if now.Day() == 1 {
		lastOfPrev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, 0, -1)
		return Period{
			Start:     time.Date(lastOfPrev.Year(), lastOfPrev.Month(), 1, 0, 0, 0, 0, loc),
			End:       time.Date(lastOfPrev.Year(), lastOfPrev.Month(), lastOfPrev.Day(), 23, 59, 59, 0, loc),
			IsClosing: true,
			Label:     "Fechamento - " + MonthNamePT(lastOfPrev),
		}
	}

	return Period{
		Start:     time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc),
		End:       now,
		IsClosing: false,
		Label:     "Mês Atual - " + MonthNamePT(now),
	}
}

// YesterdayWindow returns the full previous calendar day, computed
// regardless of day-of-month.
func YesterdayWindow(now time.Time) (start, end time.Time) {
	y := now.AddDate(0, 0, -1)
	start = time.Date(y.Year(), y.Month(), y.Day(), 0, 0, 0, 0, now.Location())
	end = time.Date(y.Year(), y.Month(), y.Day(), 23, 59, 59, 0, now.Location())
	return start, end
}

// ClosingKey identifies the month a day-1 closing run covers ("YYYY-MM"
// of the previous month).
func ClosingKey(now time.Time) string {
	prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 0, -1)
	return fmt.Sprintf("%04d-%02d", prev.Year(), int(prev.Month()))
}

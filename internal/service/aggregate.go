package service

import (
	"fmt"
	"time"

	"github.com/saadjs/nutri/internal/model"
)

// Totals sums field*quantity over entries.
func Totals(entries []model.FoodEntry) model.Totals {
	var t model.Totals
	for _, e := range entries {
		t.Calories += e.Calories * e.Quantity
		t.Protein += e.Protein * e.Quantity
		t.Carbs += e.Carbs * e.Quantity
		t.Fat += e.Fat * e.Quantity
	}
	return t
}

func DailyTotals(ledger model.Ledger, dateKey string) model.Totals {
	return Totals(ledger.Entries(dateKey))
}

type RangeReport struct {
	FromDate        string            `json:"fromDate"`
	ToDate          string            `json:"toDate"`
	Days            []model.DayTotals `json:"days"`
	Total           model.Totals      `json:"total"`
	DaysWithEntries int               `json:"daysWithEntries"`
}

// RangeTotals rolls the ledger up per calendar day over [from, to], both inclusive.
func RangeTotals(ledger model.Ledger, from, to time.Time) (*RangeReport, error) {
	from = beginningOfDay(from)
	to = beginningOfDay(to)
	if from.After(to) {
		return nil, fmt.Errorf("from date must be <= to date")
	}

	report := &RangeReport{
		FromDate: DateKey(from),
		ToDate:   DateKey(to),
	}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := DateKey(d)
		entries := ledger.Entries(key)
		day := model.DayTotals{
			Date:    key,
			HasData: len(entries) > 0,
			Totals:  Totals(entries),
		}
		if day.HasData {
			report.DaysWithEntries++
		}
		report.Total.Calories += day.Calories
		report.Total.Protein += day.Protein
		report.Total.Carbs += day.Carbs
		report.Total.Fat += day.Fat
		report.Days = append(report.Days, day)
	}
	return report, nil
}

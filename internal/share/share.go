// Package share turns a daily summary into an opaque string that fits in a
// URL query parameter, and back.
package share

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/saadjs/nutri/internal/model"
)

var ErrInvalidData = errors.New("invalid share data")

type payload struct {
	Date        string              `json:"date"`
	FoodItems   []model.FoodEntry   `json:"foodItems"`
	Totals      *model.Totals       `json:"totals"`
	Goals       *model.SummaryGoals `json:"goals"`
	WaterIntake float64             `json:"waterIntake"`
}

// Encode serialises summary as JSON, base64 and query escaping, in that order.
func Encode(summary model.DailySummary) (string, error) {
	raw, err := json.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("encode share summary: %w", err)
	}
	return url.QueryEscape(base64.StdEncoding.EncodeToString(raw)), nil
}

// Decode reverses Encode. It also accepts data whose query escaping was
// already undone by the HTTP layer.
func Decode(data string) (model.DailySummary, error) {
	data = strings.TrimSpace(data)
	if data == "" {
		return model.DailySummary{}, fmt.Errorf("%w: empty", ErrInvalidData)
	}
	unescaped, err := url.PathUnescape(data)
	if err != nil {
		return model.DailySummary{}, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	raw, err := base64.StdEncoding.DecodeString(unescaped)
	if err != nil {
		return model.DailySummary{}, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}

	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return model.DailySummary{}, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	if strings.TrimSpace(p.Date) == "" {
		return model.DailySummary{}, fmt.Errorf("%w: missing date", ErrInvalidData)
	}
	if p.Totals == nil {
		return model.DailySummary{}, fmt.Errorf("%w: missing totals", ErrInvalidData)
	}
	if p.Goals == nil {
		return model.DailySummary{}, fmt.Errorf("%w: missing goals", ErrInvalidData)
	}

	items := p.FoodItems
	if items == nil {
		items = []model.FoodEntry{}
	}
	return model.DailySummary{
		Date:        p.Date,
		FoodItems:   items,
		Totals:      *p.Totals,
		Goals:       *p.Goals,
		WaterIntake: p.WaterIntake,
	}, nil
}

// Link builds the public share URL for summary.
func Link(baseURL string, summary model.DailySummary) (string, error) {
	data, err := Encode(summary)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(baseURL, "/") + "/share?data=" + data, nil
}

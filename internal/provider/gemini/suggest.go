package gemini

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/saadjs/nutri/internal/log"
	"github.com/saadjs/nutri/internal/model"
)

const (
	weekDays         = 7
	weekPlanInFlight = 3
)

// SuggestDayPlan asks for one day of meals near the given goals.
func (c *Client) SuggestDayPlan(ctx context.Context, goals model.BaseGoals) (model.SuggestedPlan, error) {
	return c.suggestDay(ctx, dayPlanText(goals))
}

// SuggestWeekPlan asks for seven day plans, at most three at a time. Any
// failed day fails the whole week.
func (c *Client) SuggestWeekPlan(ctx context.Context, goals model.BaseGoals) ([]model.SuggestedPlan, error) {
	plans := make([]model.SuggestedPlan, weekDays)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(weekPlanInFlight)
	for i := 0; i < weekDays; i++ {
		i := i
		g.Go(func() error {
			prompt := dayPlanText(goals) + fmt.Sprintf(weekDayHint, i+1, i+1)
			plan, err := c.suggestDay(gctx, prompt)
			if err != nil {
				return fmt.Errorf("day %d: %w", i+1, err)
			}
			plans[i] = plan
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.logger().Warn("week plan failed", log.FieldOperation, log.OpSuggest, log.FieldError, err)
		return nil, err
	}
	return plans, nil
}

func (c *Client) suggestDay(ctx context.Context, prompt string) (model.SuggestedPlan, error) {
	text, err := c.generate(ctx, "meal plan", textRequest(prompt, dayPlanSchema()))
	if err != nil {
		return nil, err
	}
	return parseDayPlan("meal plan", text)
}

package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/saadjs/nutri/internal/log"
	"github.com/saadjs/nutri/internal/model"
)

// EstimateFromText estimates the nutrition of a free-form meal description.
func (c *Client) EstimateFromText(ctx context.Context, description string) (model.NutritionEstimate, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return model.NutritionEstimate{}, fmt.Errorf("meal description is required")
	}
	text, err := c.generate(ctx, "text estimate", textRequest(fmt.Sprintf(textEstimatePrompt, description), estimateSchema()))
	if err != nil {
		return model.NutritionEstimate{}, err
	}
	return parseEstimate("text estimate", text)
}

// EstimateFromImage estimates the nutrition of the food in a photo.
func (c *Client) EstimateFromImage(ctx context.Context, image []byte, mimeType string) (model.NutritionEstimate, error) {
	if len(image) == 0 {
		return model.NutritionEstimate{}, fmt.Errorf("image is required")
	}
	mimeType = strings.TrimSpace(mimeType)
	if !strings.HasPrefix(mimeType, "image/") {
		return model.NutritionEstimate{}, fmt.Errorf("unsupported image type %q", mimeType)
	}
	req := generateRequest{
		Contents: []content{{
			Role: "user",
			Parts: []part{
				{InlineData: &inlineData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(image)}},
				{Text: imageEstimatePrompt},
			},
		}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   estimateSchema(),
		},
	}
	text, err := c.generate(ctx, "image estimate", req)
	if err != nil {
		return model.NutritionEstimate{}, err
	}
	return parseEstimate("image estimate", text)
}

// SearchByName lists common variations of a food. Non-empty results are
// cached per normalized query; callers always get their own copy.
func (c *Client) SearchByName(ctx context.Context, query string) ([]model.NutritionEstimate, error) {
	key := strings.ToLower(strings.TrimSpace(query))
	if key == "" {
		return nil, fmt.Errorf("search query is required")
	}
	if c.SearchCache != nil {
		if cached, ok := c.SearchCache.Get(key); ok {
			c.logger().Debug("search cache hit", log.FieldOperation, log.OpSearch, log.FieldQuery, key)
			return cloneEstimates(cached), nil
		}
	}

	text, err := c.generate(ctx, "search", textRequest(fmt.Sprintf(searchPrompt, strings.TrimSpace(query)), estimateListSchema()))
	if err != nil {
		return nil, err
	}
	results, err := parseEstimateList("search", text)
	if err != nil {
		return nil, err
	}
	if c.SearchCache != nil && len(results) > 0 {
		c.SearchCache.Set(key, cloneEstimates(results))
	}
	return results, nil
}

func cloneEstimates(in []model.NutritionEstimate) []model.NutritionEstimate {
	out := make([]model.NutritionEstimate, len(in))
	copy(out, in)
	return out
}

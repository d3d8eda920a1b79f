package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/saadjs/nutri/internal/cache"
	"github.com/saadjs/nutri/internal/model"
)

func reply(text string) []byte {
	body, _ := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}},
		},
	})
	return body
}

func newTestClient(ts *httptest.Server) *Client {
	return &Client{
		APIKey:      "demo",
		Model:       "test-model",
		BaseURL:     ts.URL,
		HTTPClient:  ts.Client(),
		SearchCache: cache.NewLRUCache[[]model.NutritionEstimate](10, time.Hour),
	}
}

func TestEstimateFromTextParsesResponse(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/test-model:generateContent" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "demo" {
			t.Errorf("missing api key header")
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.GenerationConfig == nil || req.GenerationConfig.ResponseMimeType != "application/json" {
			t.Errorf("expected json response mime type")
		}
		if !strings.Contains(req.Contents[0].Parts[0].Text, "two boiled eggs") {
			t.Errorf("expected description in prompt")
		}
		_, _ = w.Write(reply("Sure! {\"name\": \"Boiled eggs\", \"calories\": 156, \"protein\": 12.6, \"carbs\": 1.1, \"fat\": 10.6, \"servingSize\": \"2 large éggs\"} enjoy"))
	}))
	defer ts.Close()

	est, err := newTestClient(ts).EstimateFromText(context.Background(), "two boiled eggs")
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if est.Name != "Boiled eggs" || est.Calories != 156 || est.Protein != 12.6 {
		t.Fatalf("unexpected estimate: %+v", est)
	}
	if est.ServingSize != "2 large ggs" {
		t.Fatalf("expected non-ASCII stripped from serving size, got %q", est.ServingSize)
	}
}

func TestEstimateRejectsMalformedPayload(t *testing.T) {
	t.Parallel()

	bodies := []string{
		"I could not identify that meal.",
		`{"name": "Toast", "calories": "lots", "protein": 1, "carbs": 2, "fat": 3}`,
		`{"name": "Toast", "protein": 1, "carbs": 2, "fat": 3}`,
		`{"name": "Toast", "calories": -5, "protein": 1, "carbs": 2, "fat": 3}`,
	}
	for _, body := range bodies {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(reply(body))
		}))
		_, err := newTestClient(ts).EstimateFromText(context.Background(), "toast")
		ts.Close()

		var perr *EstimateParseError
		if !errors.As(err, &perr) {
			t.Fatalf("body %q: expected EstimateParseError, got %v", body, err)
		}
	}
}

func TestEstimateDefaultsNameAndServing(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(reply(`{"name": "", "calories": 10, "protein": 0, "carbs": 2, "fat": 0, "servingSize": "—"}`))
	}))
	defer ts.Close()

	est, err := newTestClient(ts).EstimateFromText(context.Background(), "mystery")
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if est.Name != "Unknown Meal" || est.ServingSize != "1 serving" {
		t.Fatalf("unexpected defaults: %+v", est)
	}
}

func TestStatusCodesMapToErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		want   error
	}{
		{http.StatusServiceUnavailable, ErrOverloaded},
		{http.StatusNotFound, ErrServiceNotFound},
	}
	for _, tc := range tests {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		_, err := newTestClient(ts).EstimateFromText(context.Background(), "rice")
		ts.Close()
		if !errors.Is(err, tc.want) {
			t.Fatalf("status %d: expected %v, got %v", tc.status, tc.want, err)
		}
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()
	_, err := newTestClient(ts).EstimateFromText(context.Background(), "rice")
	if err == nil || errors.Is(err, ErrOverloaded) || !strings.Contains(err.Error(), "status 500") {
		t.Fatalf("expected generic status error, got %v", err)
	}
}

func TestMissingAPIKey(t *testing.T) {
	t.Parallel()

	c := &Client{}
	if _, err := c.SearchByName(context.Background(), "rice"); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestEstimateFromImageSendsInlineData(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		inline := req.Contents[0].Parts[0].InlineData
		if inline == nil || inline.MimeType != "image/png" || inline.Data != "iVBORw==" {
			t.Errorf("unexpected inline data: %+v", inline)
		}
		_, _ = w.Write(reply(`{"name": "Pizza slice", "calories": 285, "protein": 12, "carbs": 36, "fat": 10, "servingSize": "1 slice"}`))
	}))
	defer ts.Close()

	est, err := newTestClient(ts).EstimateFromImage(context.Background(), []byte{0x89, 0x50, 0x4e, 0x47}, "image/png")
	if err != nil {
		t.Fatalf("estimate image: %v", err)
	}
	if est.Name != "Pizza slice" {
		t.Fatalf("unexpected estimate: %+v", est)
	}
	if _, err := newTestClient(ts).EstimateFromImage(context.Background(), []byte("x"), "text/plain"); err == nil {
		t.Fatalf("expected non-image mime type to fail")
	}
}

func TestSearchByNameCachesNonEmptyResults(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req generateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if strings.Contains(req.Contents[0].Parts[0].Text, "unobtainium") {
			_, _ = w.Write(reply(`[]`))
			return
		}
		_, _ = w.Write(reply(`[{"name": "Brown rice", "calories": 112, "protein": 2.3, "carbs": 23.5, "fat": 0.8, "servingSize": "100g"},
{"name": "White rice", "calories": 130, "protein": 2.7, "carbs": 28, "fat": 0.3, "servingSize": "100g"}]`))
	}))
	defer ts.Close()
	c := newTestClient(ts)

	first, err := c.SearchByName(context.Background(), "Rice")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 results, got %+v", first)
	}
	first[0].Name = "mutated"

	second, err := c.SearchByName(context.Background(), "  rice ")
	if err != nil {
		t.Fatalf("search again: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected cached second search, got %d calls", calls.Load())
	}
	if second[0].Name != "Brown rice" {
		t.Fatalf("cache handed out shared data: %+v", second[0])
	}

	for i := 0; i < 2; i++ {
		empty, err := c.SearchByName(context.Background(), "unobtainium")
		if err != nil || len(empty) != 0 {
			t.Fatalf("expected empty results, got %+v %v", empty, err)
		}
	}
	if calls.Load() != 3 {
		t.Fatalf("expected empty results not to be cached, got %d calls", calls.Load())
	}
}

const dayPlanJSON = `{
  "Breakfast": [{"name": "Oatmeal", "calories": 150, "protein": 5, "carbs": 27, "fat": 3, "servingSize": "1 cup cooked"}],
  "Lunch": [{"name": "Chicken salad", "calories": 350, "protein": 35, "carbs": 15, "fat": 12, "servingSize": "1 large bowl"}],
  "Dinner": [{"name": "Salmon with rice", "calories": 450, "protein": 35, "carbs": 40, "fat": 18, "servingSize": "6oz salmon + 1 cup rice"}],
  "Snack": []
}`

func TestSuggestDayPlan(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if !strings.Contains(req.Contents[0].Parts[0].Text, "1800 calories") {
			t.Errorf("expected goals in prompt: %s", req.Contents[0].Parts[0].Text)
		}
		_, _ = w.Write(reply(dayPlanJSON))
	}))
	defer ts.Close()

	plan, err := newTestClient(ts).SuggestDayPlan(context.Background(), model.BaseGoals{Calories: 1800, Protein: 140, Carbs: 180, Fat: 60})
	if err != nil {
		t.Fatalf("suggest day: %v", err)
	}
	if len(plan[model.MealBreakfast]) != 1 || plan[model.MealDinner][0].Name != "Salmon with rice" {
		t.Fatalf("unexpected plan: %+v", plan)
	}
	if plan[model.MealSnack] == nil || len(plan[model.MealSnack]) != 0 {
		t.Fatalf("expected empty snack list, got %+v", plan[model.MealSnack])
	}
}

func TestSuggestDayPlanRequiresEveryMeal(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(reply(`{"Breakfast": [], "Lunch": []}`))
	}))
	defer ts.Close()

	_, err := newTestClient(ts).SuggestDayPlan(context.Background(), model.BaseGoals{Calories: 2000})
	var perr *EstimateParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected EstimateParseError, got %v", err)
	}
}

func TestSuggestWeekPlanBoundsConcurrency(t *testing.T) {
	t.Parallel()

	var inFlight, peak, calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		inFlight.Add(-1)
		_, _ = w.Write(reply(dayPlanJSON))
	}))
	defer ts.Close()

	plans, err := newTestClient(ts).SuggestWeekPlan(context.Background(), model.BaseGoals{Calories: 2000})
	if err != nil {
		t.Fatalf("suggest week: %v", err)
	}
	if len(plans) != 7 || calls.Load() != 7 {
		t.Fatalf("expected 7 plans from 7 calls, got %d plans %d calls", len(plans), calls.Load())
	}
	for i, p := range plans {
		if len(p[model.MealLunch]) != 1 {
			t.Fatalf("day %d missing lunch: %+v", i+1, p)
		}
	}
	if peak.Load() > 3 {
		t.Fatalf("expected at most 3 requests in flight, saw %d", peak.Load())
	}
}

func TestSuggestWeekPlanFailsAsAWhole(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if strings.Contains(req.Contents[0].Parts[0].Text, "day 5 of") {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write(reply(dayPlanJSON))
	}))
	defer ts.Close()

	plans, err := newTestClient(ts).SuggestWeekPlan(context.Background(), model.BaseGoals{Calories: 2000})
	if !errors.Is(err, ErrOverloaded) {
		t.Fatalf("expected overloaded error, got %v", err)
	}
	if plans != nil {
		t.Fatalf("expected no partial plans, got %d", len(plans))
	}
}

func TestChatSendsHistoryAndInstruction(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.SystemInstruction == nil || !strings.Contains(req.SystemInstruction.Parts[0].Text, "nutrition") {
			t.Errorf("expected system instruction")
		}
		if len(req.Contents) != 3 || req.Contents[1].Role != "model" || req.Contents[2].Parts[0].Text != "And dinner?" {
			t.Errorf("unexpected contents: %+v", req.Contents)
		}
		_, _ = w.Write(reply("  Try grilled fish with vegetables.  "))
	}))
	defer ts.Close()

	answer, err := newTestClient(ts).Chat(context.Background(), []ChatMessage{
		{Role: "user", Text: "Ideas for lunch?"},
		{Role: "model", Text: "A lentil salad."},
	}, "And dinner?")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if answer != "Try grilled fish with vegetables." {
		t.Fatalf("unexpected answer %q", answer)
	}
}

func TestExtractJSONSkipsBracesInStrings(t *testing.T) {
	t.Parallel()

	got, ok := extractJSON(`prefix {"name": "Curly } fries", "x": {"y": 1}} trailing }`, '{', '}')
	if !ok || got != `{"name": "Curly } fries", "x": {"y": 1}}` {
		t.Fatalf("unexpected extraction %q ok=%v", got, ok)
	}
	if _, ok := extractJSON(`{"open": 1`, '{', '}'); ok {
		t.Fatalf("expected unbalanced input to fail")
	}
}

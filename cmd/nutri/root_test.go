package nutri

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("%v failed: %v\n%s", args, err, out)
	}
	return out
}

func newTestDBPath(t *testing.T) string {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("NUTRI_DB_PATH", "")
	path := filepath.Join(t.TempDir(), "nutri.db")
	mustRun(t, "--db", path, "init")
	return path
}

// addedID pulls the id out of "Added entry <id>".
func addedID(t *testing.T, out string) string {
	t.Helper()
	fields := strings.Fields(strings.TrimSpace(out))
	if len(fields) == 0 {
		t.Fatalf("no id in %q", out)
	}
	return fields[len(fields)-1]
}

func TestRootHelp(t *testing.T) {
	out := mustRun(t, "--help")
	if !strings.Contains(out, "nutri") {
		t.Fatalf("expected help output, got %q", out)
	}
}

func TestInitCommandIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nutri.db")
	for i := 0; i < 2; i++ {
		out, err := runCLI(t, "--db", path, "init")
		if err != nil {
			t.Fatalf("init run %d failed: %v", i+1, err)
		}
		if !strings.Contains(out, path) {
			t.Fatalf("expected db path in output, got %q", out)
		}
	}
}

func TestVersion(t *testing.T) {
	out := mustRun(t, "version")
	if !strings.HasPrefix(out, "nutri dev") {
		t.Fatalf("unexpected version output %q", out)
	}
}

func TestEntryLifecycle(t *testing.T) {
	db := newTestDBPath(t)

	out := mustRun(t, "--db", db, "entry", "add",
		"--name", "Oatmeal", "--calories", "150", "--protein", "5", "--carbs", "27", "--fat", "3",
		"--meal", "breakfast", "--quantity", "2", "--serving", "1 cup", "--date", "2026-10-13")
	id := addedID(t, out)

	out = mustRun(t, "--db", db, "entry", "list", "--date", "2026-10-13")
	if !strings.Contains(out, "Oatmeal") || !strings.Contains(out, "\t300\t") || !strings.Contains(out, "1 cup") {
		t.Fatalf("unexpected list output:\n%s", out)
	}

	mustRun(t, "--db", db, "entry", "update", id, "--date", "2026-10-13", "--quantity", "1")
	out = mustRun(t, "--db", db, "today", "--date", "2026-10-13")
	if !strings.Contains(out, "Intake: 150 kcal") || !strings.Contains(out, "Goal: 2000 kcal") {
		t.Fatalf("unexpected today output:\n%s", out)
	}

	mustRun(t, "--db", db, "entry", "rm", id, "--date", "2026-10-13")
	if _, err := runCLI(t, "--db", db, "entry", "rm", id, "--date", "2026-10-13"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found on second remove, got %v", err)
	}
}

func TestEntryAddRejectsBadInput(t *testing.T) {
	db := newTestDBPath(t)

	_, err := runCLI(t, "--db", db, "entry", "add", "--name", "Toast", "--calories", "100", "--meal", "brunch", "--date", "2026-10-13")
	if err == nil || !strings.Contains(err.Error(), "invalid --meal") {
		t.Fatalf("expected meal error, got %v", err)
	}
	_, err = runCLI(t, "--db", db, "entry", "add", "--name", "Toast", "--calories", "-5", "--meal", "lunch", "--date", "2026-10-13")
	if err == nil || !strings.Contains(err.Error(), "calories must be >= 0") {
		t.Fatalf("expected calories error, got %v", err)
	}
	_, err = runCLI(t, "--db", db, "entry", "add", "--name", "Toast", "--calories", "5", "--meal", "lunch", "--date", "10/13/2026")
	if err == nil || !strings.Contains(err.Error(), "YYYY-MM-DD") {
		t.Fatalf("expected date error, got %v", err)
	}
}

func TestPlanLogKeepsPlan(t *testing.T) {
	db := newTestDBPath(t)

	mustRun(t, "--db", db, "plan", "add",
		"--name", "Salmon", "--calories", "450", "--protein", "35", "--carbs", "0", "--fat", "18",
		"--meal", "dinner", "--quantity", "1", "--serving", "6oz", "--date", "2026-10-14")

	out := mustRun(t, "--db", db, "plan", "log", "--date", "2026-10-14")
	if !strings.Contains(out, "Logged 1 planned entries") {
		t.Fatalf("unexpected log output %q", out)
	}
	out = mustRun(t, "--db", db, "plan", "list", "--date", "2026-10-14")
	if !strings.Contains(out, "Salmon") || !strings.Contains(out, "Total: 450 kcal") {
		t.Fatalf("expected plan to remain:\n%s", out)
	}
	out = mustRun(t, "--db", db, "entry", "list", "--date", "2026-10-14")
	if !strings.Contains(out, "Salmon") {
		t.Fatalf("expected salmon logged:\n%s", out)
	}

	out = mustRun(t, "--db", db, "plan", "log", "--date", "2026-10-15")
	if !strings.Contains(out, "Nothing planned") {
		t.Fatalf("unexpected empty-plan output %q", out)
	}
}

func TestGoalsAndBalancing(t *testing.T) {
	db := newTestDBPath(t)

	if _, err := runCLI(t, "--db", db, "goal", "set"); err == nil {
		t.Fatalf("expected goal set without flags to fail")
	}
	mustRun(t, "--db", db, "goal", "set", "--calories", "1800", "--water", "2500")
	out := mustRun(t, "--db", db, "goal", "show")
	if !strings.Contains(out, "Calories: 1800 kcal") || !strings.Contains(out, "Water: 2500 ml") || !strings.Contains(out, "Protein: 150.0g") {
		t.Fatalf("unexpected goals:\n%s", out)
	}

	out = mustRun(t, "--db", db, "balance", "on")
	if !strings.Contains(out, "Weekly balancing on") {
		t.Fatalf("unexpected balance output %q", out)
	}
	out = mustRun(t, "--db", db, "balance", "show")
	if !strings.Contains(out, "Weekly balancing: on") {
		t.Fatalf("unexpected balance show:\n%s", out)
	}
	mustRun(t, "--db", db, "balance", "off")
	out = mustRun(t, "--db", db, "balance", "show")
	if !strings.Contains(out, "No adjustments") {
		t.Fatalf("expected adjustments cleared:\n%s", out)
	}

	out = mustRun(t, "--db", db, "onboard")
	if !strings.Contains(out, "Onboarding complete: true") {
		t.Fatalf("unexpected onboard output:\n%s", out)
	}
}

func TestWaterNeverNegative(t *testing.T) {
	db := newTestDBPath(t)

	mustRun(t, "--db", db, "water", "add", "500", "--date", "2026-10-13")
	out := mustRun(t, "--db", db, "water", "rm", "800", "--date", "2026-10-13")
	if !strings.Contains(out, "Water on 2026-10-13: 0 / 2000 ml") {
		t.Fatalf("unexpected water output %q", out)
	}
}

func TestProgressAndShare(t *testing.T) {
	db := newTestDBPath(t)

	out := mustRun(t, "--db", db, "progress", "--view", "protein")
	if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) != 8 {
		t.Fatalf("expected header plus 7 days, got:\n%s", out)
	}
	if _, err := runCLI(t, "--db", db, "progress", "--view", "sugar"); err == nil {
		t.Fatalf("expected bad view to fail")
	}
	progressView = "calories"

	out = mustRun(t, "--db", db, "share", "--date", "2026-10-13", "--base-url", "https://nutri.example")
	if !strings.HasPrefix(out, "https://nutri.example/share?data=") {
		t.Fatalf("unexpected share link %q", out)
	}
}

func TestAICommandsNeedAPIKey(t *testing.T) {
	db := newTestDBPath(t)

	for _, args := range [][]string{
		{"estimate", "text", "two eggs"},
		{"estimate", "search", "rice"},
		{"ask", "what is a good snack?"},
		{"plan", "suggest", "--dry-run"},
	} {
		_, err := runCLI(t, append([]string{"--db", db}, args...)...)
		if err == nil || !strings.Contains(err.Error(), "GEMINI_API_KEY") {
			t.Fatalf("%v: expected missing key error, got %v", args, err)
		}
	}
}

func TestConfigListMasksKey(t *testing.T) {
	db := newTestDBPath(t)
	t.Setenv("GEMINI_API_KEY", "secret-key-1234")

	out := mustRun(t, "--db", db, "config", "list")
	if strings.Contains(out, "secret-key") || !strings.Contains(out, "gemini_api_key=****1234") {
		t.Fatalf("expected masked key:\n%s", out)
	}
	if !strings.Contains(out, "db_path="+db) {
		t.Fatalf("expected db path:\n%s", out)
	}
}

func TestBarcodeLookupAndLog(t *testing.T) {
	db := newTestDBPath(t)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v2/product/5012345678900.json":
			_, _ = w.Write([]byte(`{"status": 1, "product": {"product_name": "Granola Bar", "serving_quantity": 40, "nutriments": {"energy-kcal_serving": 180, "proteins_serving": 4, "carbohydrates_serving": 26, "fat_serving": 7}}}`))
		case "/cgi/search.pl":
			_, _ = w.Write([]byte(`{"products": [{"product_name": "Granola Bar", "nutriments": {"energy-kcal_100g": 450}}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()
	t.Setenv("OPENFOODFACTS_BASE_URL", ts.URL)
	t.Cleanup(func() {
		estimateLog = false
		estimateMeal = "snack"
		estimateDate = ""
		searchSource = "gemini"
	})

	out := mustRun(t, "--db", db, "estimate", "barcode", "5012345678900", "--log", "--meal", "lunch", "--date", "2026-10-13")
	if !strings.Contains(out, "Granola Bar") || !strings.Contains(out, "Added entry") {
		t.Fatalf("unexpected barcode output:\n%s", out)
	}
	out = mustRun(t, "--db", db, "entry", "list", "--date", "2026-10-13")
	if !strings.Contains(out, "Granola Bar") || !strings.Contains(out, "40 g") {
		t.Fatalf("expected logged granola bar:\n%s", out)
	}

	out = mustRun(t, "--db", db, "estimate", "search", "granola", "--source", "openfoodfacts")
	if !strings.Contains(out, "Granola Bar\t100g\t450") {
		t.Fatalf("unexpected search output:\n%s", out)
	}

	if _, err := runCLI(t, "--db", db, "estimate", "barcode", "999"); err == nil {
		t.Fatalf("expected unknown barcode to fail")
	}
}

package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"

	"trivia-survival/elimination"
	"trivia-survival/middleware"
	"trivia-survival/services"
	"trivia-survival/testutil"
)

var start = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func setupApp(t *testing.T) (*fiber.App, *services.EliminationService) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	svc := services.NewEliminationService(db, elimination.DefaultRules())
	svc.Clock = clockwork.NewFakeClockAt(start.Add(25 * time.Hour))
	svc.Log = slog.New(slog.NewTextHandler(io.Discard, nil))

	app := fiber.New()
	app.Use(middleware.ServiceTokenMiddleware("secret"))
	SetupSurvivalRoutes(app, svc)
	return app, svc
}

func do(t *testing.T, app *fiber.App, method, path string, out interface{}) int {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer secret")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("Failed to decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func TestTriggerTournamentElimination(t *testing.T) {
	app, svc := setupApp(t)
	tour := testutil.CreateTournament(t, svc.DB, "Trivia Royale", start)
	testutil.CreateParticipants(t, svc.DB, tour.ID, 8)

	var body struct {
		Success    bool     `json:"success"`
		Status     string   `json:"status"`
		Eliminated int      `json:"eliminated"`
		Victims    []string `json:"victims"`
	}
	status := do(t, app, http.MethodPost, "/survival/tournaments/"+tour.ID+"/eliminate", &body)
	if status != fiber.StatusOK {
		t.Fatalf("Expected status 200, got %d", status)
	}
	if !body.Success || body.Status != "completed" || body.Eliminated != 2 || len(body.Victims) != 2 {
		t.Errorf("unexpected body %+v", body)
	}

	status = do(t, app, http.MethodPost, "/survival/tournaments/"+tour.ID+"/eliminate", &body)
	if status != fiber.StatusOK || body.Status != "already_processed" {
		t.Errorf("repeat: status %d, body %+v", status, body)
	}
}

func TestTriggerTournamentElimination_NotFound(t *testing.T) {
	app, _ := setupApp(t)

	var body map[string]interface{}
	status := do(t, app, http.MethodPost, "/survival/tournaments/"+testutil.ID(7, 1)+"/eliminate", &body)
	if status != fiber.StatusNotFound {
		t.Errorf("Expected status 404, got %d", status)
	}
	if body["success"] != false {
		t.Errorf("unexpected body %v", body)
	}
}

func TestTriggerDailyElimination(t *testing.T) {
	app, svc := setupApp(t)

	var empty struct {
		Success bool              `json:"success"`
		Message string            `json:"message"`
		Runs    []json.RawMessage `json:"runs"`
	}
	if status := do(t, app, http.MethodPost, "/survival/eliminate", &empty); status != fiber.StatusOK {
		t.Fatalf("Expected status 200, got %d", status)
	}
	if !empty.Success || empty.Message != "No active tournament" || len(empty.Runs) != 0 {
		t.Errorf("unexpected body %+v", empty)
	}

	tour := testutil.CreateTournament(t, svc.DB, "Daily", start)
	testutil.CreateParticipants(t, svc.DB, tour.ID, 4)

	var body struct {
		Success bool                  `json:"success"`
		Runs    []services.RunSummary `json:"runs"`
	}
	if status := do(t, app, http.MethodPost, "/survival/eliminate", &body); status != fiber.StatusOK {
		t.Fatalf("Expected status 200, got %d", status)
	}
	if len(body.Runs) != 1 || body.Runs[0].TournamentID != tour.ID || body.Runs[0].Eliminated != 1 {
		t.Errorf("unexpected runs %+v", body.Runs)
	}
}

func TestPreviewAndRecords(t *testing.T) {
	app, svc := setupApp(t)
	tour := testutil.CreateTournament(t, svc.DB, "Peek", start)
	testutil.CreateParticipants(t, svc.DB, tour.ID, 4)

	var preview services.PreviewResult
	if status := do(t, app, http.MethodGet, "/survival/tournaments/"+tour.ID+"/preview", &preview); status != fiber.StatusOK {
		t.Fatalf("Expected status 200, got %d", status)
	}
	if preview.Quota != 1 || len(preview.Standings) != 4 {
		t.Errorf("unexpected preview %+v", preview)
	}

	var records []map[string]interface{}
	do(t, app, http.MethodGet, "/survival/tournaments/"+tour.ID+"/eliminations", &records)
	if len(records) != 0 {
		t.Fatalf("preview wrote %d records", len(records))
	}

	do(t, app, http.MethodPost, "/survival/tournaments/"+tour.ID+"/eliminate", nil)
	do(t, app, http.MethodGet, "/survival/tournaments/"+tour.ID+"/eliminations", &records)
	if len(records) != 1 || records[0]["day_number"] != float64(1) {
		t.Errorf("unexpected records %v", records)
	}
}

func TestHealth(t *testing.T) {
	app, _ := setupApp(t)

	var body map[string]string
	if status := do(t, app, http.MethodGet, "/health", &body); status != fiber.StatusOK {
		t.Fatalf("Expected status 200, got %d", status)
	}
	if body["status"] != "ok" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestRoutesRequireToken(t *testing.T) {
	app, _ := setupApp(t)

	req := httptest.NewRequest(http.MethodPost, "/survival/eliminate", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", resp.StatusCode)
	}
}

package web_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/vbonduro/boatlog/internal/db"
	"github.com/vbonduro/boatlog/internal/service"
	"github.com/vbonduro/boatlog/internal/store"
	"github.com/vbonduro/boatlog/internal/web"
)

// newTestServer sets up a real web.Server backed by in-memory SQLite.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	database, err := db.OpenForTesting()
	if err != nil {
		t.Fatalf("OpenForTesting: %v", err)
	}

	logger := slog.Default()
	svc := web.Services{
		Bookings:  service.NewBookingService(store.NewBookingStore(database), logger),
		Inventory: service.NewInventoryService(store.NewInventoryStore(database), service.DefaultLowStockThreshold, logger),
		Logs:      service.NewLogService(store.NewLogStore(database), logger),
	}
	srv := httptest.NewServer(web.NewServer(svc, database, nil, logger))
	t.Cleanup(func() {
		srv.Close()
		_ = database.Close()
	})
	return srv
}

// do sends body as JSON (when non-nil) and returns the status and raw body.
func do(t *testing.T, srv *httptest.Server, method, path string, body any) (int, []byte) {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, srv.URL+path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return v
}

func expectStatus(t *testing.T, got, want int, body []byte) {
	t.Helper()
	if got != want {
		t.Fatalf("expected %d, got %d: %s", want, got, body)
	}
}

func expectError(t *testing.T, body []byte, want string) {
	t.Helper()
	got := decode[map[string]string](t, body)["error"]
	if got != want {
		t.Errorf("error = %q, want %q", got, want)
	}
}

func TestIntegration_Healthz(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	srv := newTestServer(t)

	status, body := do(t, srv, http.MethodGet, "/healthz", nil)
	expectStatus(t, status, http.StatusOK, body)
}

func TestIntegration_BookingLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	srv := newTestServer(t)

	status, body := do(t, srv, http.MethodPost, "/bookings", map[string]any{
		"person":     "Mama",
		"start_date": "2024-07-01",
		"end_date":   "2024-07-10",
	})
	expectStatus(t, status, http.StatusCreated, body)
	created := decode[map[string]any](t, body)
	if created["status"] != "confirmed" {
		t.Errorf("status = %v, want confirmed", created["status"])
	}
	if created["start_date"] != "2024-07-01" || created["end_date"] != "2024-07-10" {
		t.Errorf("unexpected dates: %v", created)
	}
	if created["comment"] != nil {
		t.Errorf("comment = %v, want null", created["comment"])
	}

	status, body = do(t, srv, http.MethodPost, "/bookings", map[string]any{
		"person":     "Tata",
		"start_date": "2024-07-05",
		"end_date":   "2024-07-06",
		"status":     "confirmed",
	})
	expectStatus(t, status, http.StatusConflict, body)
	expectError(t, body, "Boat is not available for the selected dates")

	status, body = do(t, srv, http.MethodPost, "/bookings", map[string]any{
		"person":     "Tata",
		"start_date": "2024-07-05",
		"end_date":   "2024-07-06",
		"status":     "pending",
	})
	expectStatus(t, status, http.StatusCreated, body)
	pending := decode[map[string]any](t, body)

	// Confirming the pending booking would double-book the boat.
	status, body = do(t, srv, http.MethodPut, "/bookings/"+idOf(pending), map[string]any{"status": "confirmed"})
	expectStatus(t, status, http.StatusConflict, body)

	status, body = do(t, srv, http.MethodPut, "/bookings/"+idOf(created), map[string]any{"comment": "we bring the dog"})
	expectStatus(t, status, http.StatusOK, body)
	updated := decode[map[string]any](t, body)
	if updated["comment"] != "we bring the dog" || updated["person"] != "Mama" || updated["end_date"] != "2024-07-10" {
		t.Errorf("unexpected update result: %v", updated)
	}

	status, body = do(t, srv, http.MethodGet, "/bookings?person=Tata", nil)
	expectStatus(t, status, http.StatusOK, body)
	if got := decode[[]map[string]any](t, body); len(got) != 1 {
		t.Errorf("person filter returned %d bookings, want 1", len(got))
	}

	status, body = do(t, srv, http.MethodGet, "/bookings/availability?startDate=2024-07-11&endDate=2024-07-12", nil)
	expectStatus(t, status, http.StatusOK, body)
	if !decode[map[string]bool](t, body)["available"] {
		t.Errorf("expected 2024-07-11..12 to be available")
	}

	status, body = do(t, srv, http.MethodDelete, "/bookings/"+idOf(created), nil)
	expectStatus(t, status, http.StatusOK, body)
	if msg := decode[map[string]string](t, body)["message"]; msg != "Booking deleted successfully" {
		t.Errorf("message = %q", msg)
	}

	status, body = do(t, srv, http.MethodGet, "/bookings/"+idOf(created), nil)
	expectStatus(t, status, http.StatusNotFound, body)
	expectError(t, body, "Booking not found")
}

func TestIntegration_BookingValidation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	srv := newTestServer(t)

	tests := []struct {
		name    string
		body    any
		wantErr string
	}{
		{
			name:    "missing end date",
			body:    map[string]any{"person": "Mama", "start_date": "2024-07-01"},
			wantErr: "Person, start date, and end date are required",
		},
		{
			name:    "missing fields reported before bad person",
			body:    map[string]any{"person": "Ghost"},
			wantErr: "Person, start date, and end date are required",
		},
		{
			name:    "unknown person",
			body:    map[string]any{"person": "Ghost", "start_date": "2024-07-01", "end_date": "2024-07-02"},
			wantErr: "Invalid person. Must be one of: Mama, Tata, Matiz, Mroziak, Pela",
		},
		{
			name:    "unknown status",
			body:    map[string]any{"person": "Pela", "start_date": "2024-07-01", "end_date": "2024-07-02", "status": "maybe"},
			wantErr: "Invalid status. Must be one of: confirmed, pending, cancelled",
		},
		{
			name:    "inverted range",
			body:    map[string]any{"person": "Pela", "start_date": "2024-07-10", "end_date": "2024-07-01"},
			wantErr: "Start date must be before or equal to end date",
		},
		{
			name:    "malformed date",
			body:    map[string]any{"person": "Pela", "start_date": "July 1st", "end_date": "2024-07-01"},
			wantErr: "Invalid start_date. Expected YYYY-MM-DD",
		},
		{
			name:    "malformed json",
			body:    `{"person":`,
			wantErr: "Invalid request body",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, srv, http.MethodPost, "/bookings", tt.body)
			expectStatus(t, status, http.StatusBadRequest, body)
			expectError(t, body, tt.wantErr)
		})
	}

	status, body := do(t, srv, http.MethodGet, "/bookings", nil)
	expectStatus(t, status, http.StatusOK, body)
	if strings.TrimSpace(string(body)) != "[]" {
		t.Errorf("rejected bookings must not be stored, got %s", body)
	}
}

func TestIntegration_BadIDs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	srv := newTestServer(t)

	tests := []struct {
		method, path, wantErr string
	}{
		{http.MethodGet, "/bookings/abc", "Invalid booking ID"},
		{http.MethodDelete, "/bookings/1.5", "Invalid booking ID"},
		{http.MethodGet, "/inventory/x", "Invalid inventory item ID"},
		{http.MethodPatch, "/inventory/x/toggle-to-buy", "Invalid inventory item ID"},
		{http.MethodGet, "/logs/-", "Invalid log ID"},
	}
	for _, tt := range tests {
		status, body := do(t, srv, tt.method, tt.path, nil)
		expectStatus(t, status, http.StatusBadRequest, body)
		expectError(t, body, tt.wantErr)
	}
}

func TestIntegration_InventoryLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	srv := newTestServer(t)

	status, body := do(t, srv, http.MethodPost, "/inventory", map[string]any{
		"name":     "Gas canister",
		"quantity": "3",
		"unit":     "pieces",
		"category": "Galley",
	})
	expectStatus(t, status, http.StatusCreated, body)
	gas := decode[map[string]any](t, body)
	if gas["quantity"] != 3.0 || gas["to_buy"] != false {
		t.Errorf("unexpected item: %v", gas)
	}

	status, body = do(t, srv, http.MethodPost, "/inventory", map[string]any{
		"name":     "Rope",
		"quantity": 40,
		"unit":     "meters",
	})
	expectStatus(t, status, http.StatusCreated, body)

	status, body = do(t, srv, http.MethodGet, "/inventory?lowStock=5", nil)
	expectStatus(t, status, http.StatusOK, body)
	low := decode[[]map[string]any](t, body)
	if len(low) != 1 || low[0]["name"] != "Gas canister" {
		t.Errorf("lowStock=5 returned %v", low)
	}

	status, body = do(t, srv, http.MethodGet, "/inventory?lowStock=abc", nil)
	expectStatus(t, status, http.StatusOK, body)
	if got := decode[[]map[string]any](t, body); len(got) != 1 {
		t.Errorf("non-numeric lowStock should use the default threshold, got %v", got)
	}

	status, body = do(t, srv, http.MethodPatch, "/inventory/"+idOf(gas)+"/toggle-to-buy", nil)
	expectStatus(t, status, http.StatusOK, body)
	if decode[map[string]any](t, body)["to_buy"] != true {
		t.Errorf("toggle did not set to_buy")
	}

	status, body = do(t, srv, http.MethodGet, "/inventory/to-buy", nil)
	expectStatus(t, status, http.StatusOK, body)
	if got := decode[[]map[string]any](t, body); len(got) != 1 || got[0]["name"] != "Gas canister" {
		t.Errorf("to-buy list = %v", got)
	}

	status, body = do(t, srv, http.MethodPut, "/inventory/"+idOf(gas), map[string]any{"quantity": 8, "unit": "barrels"})
	expectStatus(t, status, http.StatusBadRequest, body)
	expectError(t, body, "Invalid unit type. Must be one of: pieces, grams, kg, liters, ml, bottles, cans, packages, meters, cm")

	status, body = do(t, srv, http.MethodPut, "/inventory/"+idOf(gas), map[string]any{"quantity": 8})
	expectStatus(t, status, http.StatusOK, body)
	if got := decode[map[string]any](t, body); got["quantity"] != 8.0 || got["unit"] != "pieces" {
		t.Errorf("unexpected update result: %v", got)
	}

	status, body = do(t, srv, http.MethodPut, "/inventory/999", map[string]any{"quantity": 1})
	expectStatus(t, status, http.StatusNotFound, body)

	status, body = do(t, srv, http.MethodDelete, "/inventory/"+idOf(gas), nil)
	expectStatus(t, status, http.StatusOK, body)

	status, body = do(t, srv, http.MethodGet, "/inventory/"+idOf(gas), nil)
	expectStatus(t, status, http.StatusNotFound, body)
	expectError(t, body, "Inventory item not found")
}

func TestIntegration_InventoryValidation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	srv := newTestServer(t)

	tests := []struct {
		name    string
		body    any
		wantErr string
	}{
		{"missing quantity", map[string]any{"name": "Bread", "unit": "pieces"}, "Name, quantity, and unit are required"},
		{"blank quantity", map[string]any{"name": "Bread", "quantity": "", "unit": "pieces"}, "Name, quantity, and unit are required"},
		{"missing unit", map[string]any{"name": "Bread", "quantity": 1}, "Name, quantity, and unit are required"},
		{"negative quantity", map[string]any{"name": "Bread", "quantity": -1, "unit": "pieces"}, "Quantity must not be negative"},
		{"non-numeric quantity", map[string]any{"name": "Bread", "quantity": "lots", "unit": "pieces"}, "Quantity must be a number"},
		{"bad unit", map[string]any{"name": "Bread", "quantity": 1, "unit": "loaves"}, "Invalid unit type. Must be one of: pieces, grams, kg, liters, ml, bottles, cans, packages, meters, cm"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, srv, http.MethodPost, "/inventory", tt.body)
			expectStatus(t, status, http.StatusBadRequest, body)
			expectError(t, body, tt.wantErr)
		})
	}

	// Zero is a valid quantity.
	status, body := do(t, srv, http.MethodPost, "/inventory", map[string]any{"name": "Salt", "quantity": 0, "unit": "grams"})
	expectStatus(t, status, http.StatusCreated, body)
}

func TestIntegration_InventoryClearExpiryDate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	srv := newTestServer(t)

	status, body := do(t, srv, http.MethodPost, "/inventory", map[string]any{
		"name":        "Milk",
		"quantity":    2,
		"unit":        "liters",
		"expiry_date": "2024-09-01",
	})
	expectStatus(t, status, http.StatusCreated, body)
	milk := decode[map[string]any](t, body)
	if milk["expiry_date"] != "2024-09-01" {
		t.Fatalf("expiry_date = %v", milk["expiry_date"])
	}

	// Omitting the field leaves it alone.
	status, body = do(t, srv, http.MethodPut, "/inventory/"+idOf(milk), map[string]any{"quantity": 1})
	expectStatus(t, status, http.StatusOK, body)
	if got := decode[map[string]any](t, body); got["expiry_date"] != "2024-09-01" {
		t.Errorf("expiry_date changed by unrelated update: %v", got["expiry_date"])
	}

	status, body = do(t, srv, http.MethodPut, "/inventory/"+idOf(milk), map[string]any{"expiry_date": ""})
	expectStatus(t, status, http.StatusOK, body)
	if got := decode[map[string]any](t, body); got["expiry_date"] != nil {
		t.Errorf("expiry_date not cleared: %v", got["expiry_date"])
	}

	status, body = do(t, srv, http.MethodGet, "/inventory/"+idOf(milk), nil)
	expectStatus(t, status, http.StatusOK, body)
	if got := decode[map[string]any](t, body); got["expiry_date"] != nil {
		t.Errorf("stored expiry_date = %v, want null", got["expiry_date"])
	}
}

func TestIntegration_ConcurrentToggle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	srv := newTestServer(t)

	status, body := do(t, srv, http.MethodPost, "/inventory", map[string]any{"name": "Water", "quantity": 6, "unit": "bottles"})
	expectStatus(t, status, http.StatusCreated, body)
	id := idOf(decode[map[string]any](t, body))

	const n = 8
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, _ := http.NewRequest(http.MethodPatch, srv.URL+"/inventory/"+id+"/toggle-to-buy", nil)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Errorf("toggle: %v", err)
				return
			}
			_ = resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Errorf("toggle status %d", resp.StatusCode)
			}
		}()
	}
	wg.Wait()

	status, body = do(t, srv, http.MethodGet, "/inventory/"+id, nil)
	expectStatus(t, status, http.StatusOK, body)
	if decode[map[string]any](t, body)["to_buy"] != false {
		t.Errorf("an even number of toggles must restore to_buy=false")
	}
}

func TestIntegration_LogLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	srv := newTestServer(t)

	status, body := do(t, srv, http.MethodPost, "/logs", map[string]any{"title": "Trip", "content": "Calm"})
	expectStatus(t, status, http.StatusBadRequest, body)
	expectError(t, body, "Title, content, and date are required")

	status, body = do(t, srv, http.MethodPost, "/logs", map[string]any{
		"title":   "Sunset sail",
		"content": "Light westerly, back by nine.",
		"date":    "2024-07-20",
		"weather": "sunny",
	})
	expectStatus(t, status, http.StatusCreated, body)
	entry := decode[map[string]any](t, body)
	if entry["location"] != nil || entry["weather"] != "sunny" {
		t.Errorf("unexpected entry: %v", entry)
	}

	status, body = do(t, srv, http.MethodPost, "/logs", map[string]any{
		"title":   "Morning swim",
		"content": "Anchored in the bay.",
		"date":    "2024-07-25",
	})
	expectStatus(t, status, http.StatusCreated, body)

	status, body = do(t, srv, http.MethodGet, "/logs", nil)
	expectStatus(t, status, http.StatusOK, body)
	logs := decode[[]map[string]any](t, body)
	if len(logs) != 2 || logs[0]["title"] != "Morning swim" {
		t.Errorf("logs must be newest first, got %v", logs)
	}

	status, body = do(t, srv, http.MethodPut, "/logs/"+idOf(entry), map[string]any{"title": "  "})
	expectStatus(t, status, http.StatusBadRequest, body)
	expectError(t, body, "title must not be blank")

	status, body = do(t, srv, http.MethodPut, "/logs/"+idOf(entry), map[string]any{"location": "Mamry"})
	expectStatus(t, status, http.StatusOK, body)
	if got := decode[map[string]any](t, body); got["location"] != "Mamry" || got["title"] != "Sunset sail" {
		t.Errorf("unexpected update result: %v", got)
	}

	status, body = do(t, srv, http.MethodDelete, "/logs/"+idOf(entry), nil)
	expectStatus(t, status, http.StatusOK, body)
	if msg := decode[map[string]string](t, body)["message"]; msg != "Log deleted successfully" {
		t.Errorf("message = %q", msg)
	}

	status, body = do(t, srv, http.MethodGet, "/logs/"+idOf(entry), nil)
	expectStatus(t, status, http.StatusNotFound, body)
	expectError(t, body, "Log not found")
}

func TestIntegration_RequestIDEchoed(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/logs", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("X-Request-Id", "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /logs: %v", err)
	}
	_ = resp.Body.Close()

	if got := resp.Header.Get("X-Request-Id"); got != "abc-123" {
		t.Errorf("X-Request-Id = %q, want abc-123", got)
	}
	if got := resp.Header.Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
}

func idOf(v map[string]any) string {
	id, _ := v["id"].(float64)
	return strconv.FormatInt(int64(id), 10)
}

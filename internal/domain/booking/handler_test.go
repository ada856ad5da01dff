package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/bookwell/bookwell-api/internal/middleware"
	"github.com/bookwell/bookwell-api/internal/pkg/wallclock"
)

// stubAuth injects a fixed actor the way the JWT middleware would.
func stubAuth(actor Actor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.ActorIDKey, actor.ID)
			ctx = context.WithValue(ctx, middleware.RoleKey, actor.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newTestServer(t *testing.T, f *fixture, actor Actor) *httptest.Server {
	t.Helper()
	handler := NewHandler(f.service)
	srv := httptest.NewServer(handler.Routes(stubAuth(actor)))
	t.Cleanup(srv.Close)
	return srv
}

func proposeBody(t *testing.T, resourceID uuid.UUID, dates []string, start, end string) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"resource_id": resourceID.String(),
		"dates":       dates,
		"start_time":  start,
		"end_time":    end,
	})
	if err != nil {
		t.Fatal(err)
	}
	return bytes.NewBuffer(body)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	defer resp.Body.Close()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return env
}

func TestHandlerProposeCreated(t *testing.T) {
	f := newFixture(t)
	srv := newTestServer(t, f, f.requester)

	resp, err := http.Post(srv.URL+"/", "application/json",
		proposeBody(t, f.res.ID, []string{"2026-09-07"}, "09:00", "10:00"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	env := decodeEnvelope(t, resp)
	if !env.Success {
		t.Fatal("expected success envelope")
	}
	var got BookingResponse
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode booking: %v", err)
	}
	if got.Status != string(StatusPending) {
		t.Errorf("status = %s, want pending", got.Status)
	}
	if got.RequesterID != f.requester.ID.String() {
		t.Errorf("requester = %s, want %s", got.RequesterID, f.requester.ID)
	}
}

func TestHandlerProposeValidation(t *testing.T) {
	f := newFixture(t)
	srv := newTestServer(t, f, f.requester)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing dates", map[string]any{
			"resource_id": f.res.ID.String(), "start_time": "09:00", "end_time": "10:00",
		}},
		{"bad time format", map[string]any{
			"resource_id": f.res.ID.String(), "dates": []string{"2026-09-07"},
			"start_time": "9am", "end_time": "10:00",
		}},
		{"bad date format", map[string]any{
			"resource_id": f.res.ID.String(), "dates": []string{"07/09/2026"},
			"start_time": "09:00", "end_time": "10:00",
		}},
		{"bad resource id", map[string]any{
			"resource_id": "not-a-uuid", "dates": []string{"2026-09-07"},
			"start_time": "09:00", "end_time": "10:00",
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, _ := json.Marshal(tc.body)
			resp, err := http.Post(srv.URL+"/", "application/json", bytes.NewBuffer(body))
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusUnprocessableEntity && resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 or 422", resp.StatusCode)
			}
		})
	}
}

func TestHandlerProposeSlotTaken(t *testing.T) {
	f := newFixture(t)
	srv := newTestServer(t, f, f.requester)

	first, err := f.service.Propose(context.Background(),
		f.proposeInput([]string{"2026-09-07"}, "09:00", "10:00"))
	if err != nil {
		t.Fatal(err)
	}

	resp, err := http.Post(srv.URL+"/", "application/json",
		proposeBody(t, f.res.ID, []string{"2026-09-07"}, "09:30", "10:30"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}

	env := decodeEnvelope(t, resp)
	if env.Error == nil || env.Error.Code != "SLOT_TAKEN" {
		t.Fatalf("error = %+v, want SLOT_TAKEN", env.Error)
	}
	if env.Error.Details["conflicting_booking_id"] != first.ID.String() {
		t.Errorf("conflicting id = %s, want %s", env.Error.Details["conflicting_booking_id"], first.ID)
	}
}

func TestHandlerProposeDateBlocked(t *testing.T) {
	f := newFixture(t)
	srv := newTestServer(t, f, f.requester)
	f.blocked.Block(f.res.ID, wallclock.MustDate("2026-09-07"), "Maintenance")

	resp, err := http.Post(srv.URL+"/", "application/json",
		proposeBody(t, f.res.ID, []string{"2026-09-07"}, "09:00", "10:00"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}

	env := decodeEnvelope(t, resp)
	if env.Error == nil || env.Error.Code != "DATE_BLOCKED" {
		t.Fatalf("error = %+v, want DATE_BLOCKED", env.Error)
	}
	if env.Error.Details["date"] != "2026-09-07" || env.Error.Details["reason"] != "Maintenance" {
		t.Errorf("details = %v", env.Error.Details)
	}
}

func TestHandlerConfirmInvalidTransition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.service.Propose(ctx, f.proposeInput([]string{"2026-09-07"}, "09:00", "10:00"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.service.Cancel(ctx, f.requester, b.ID, ""); err != nil {
		t.Fatal(err)
	}

	srv := newTestServer(t, f, f.owner)
	resp, err := http.Post(srv.URL+"/"+b.ID.String()+"/confirm", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}

	env := decodeEnvelope(t, resp)
	if env.Error == nil || env.Error.Code != "INVALID_TRANSITION" {
		t.Fatalf("error = %+v, want INVALID_TRANSITION", env.Error)
	}
	if env.Error.Details["from"] != "cancelled" || env.Error.Details["to"] != "confirmed" {
		t.Errorf("details = %v", env.Error.Details)
	}
}

func TestHandlerCancelWithReason(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.service.Propose(ctx, f.proposeInput([]string{"2026-09-07"}, "09:00", "10:00"))
	if err != nil {
		t.Fatal(err)
	}

	srv := newTestServer(t, f, f.requester)
	body := bytes.NewBufferString(`{"reason":"changed plans"}`)
	resp, err := http.Post(srv.URL+"/"+b.ID.String()+"/cancel", "application/json", body)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	env := decodeEnvelope(t, resp)
	var got BookingResponse
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Status != string(StatusCancelled) || got.CancelReason != "changed plans" {
		t.Errorf("got status %s reason %q", got.Status, got.CancelReason)
	}
}

func TestHandlerGetForbiddenForStranger(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.service.Propose(ctx, f.proposeInput([]string{"2026-09-07"}, "09:00", "10:00"))
	if err != nil {
		t.Fatal(err)
	}

	srv := newTestServer(t, f, Actor{ID: uuid.New(), Role: "requester"})
	resp, err := http.Get(srv.URL + "/" + b.ID.String())
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
}

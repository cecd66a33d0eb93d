package atptour

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/courtdata/atp-proxy/internal/usecase"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
	})
}

func TestFetchCalendar_ParsesEntries(t *testing.T) {
	t.Parallel()

	var gotUA string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		if r.URL.Path != "/en/-/tournaments/calendar/tour" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("year") != "2025" {
			t.Errorf("unexpected year %q", r.URL.Query().Get("year"))
		}
		_, _ = w.Write([]byte(`{
			"TournamentDates": [
				{"Tournaments": [
					{"Id": 580, "Name": "Australian Open", "Location": "Melbourne, Australia", "Type": "GS", "SglDrawSize": 128, "DblDrawSize": 64},
					{"Id": "339", "Name": "Brisbane International", "Type": "250"}
				]},
				{"Tournaments": [
					{"Id": 520, "Name": "Roland Garros", "Type": "GS", "SglDrawSize": 128}
				]}
			]
		}`))
	}))

	entries, raw, err := client.FetchCalendar(context.Background(), 2025)
	if err != nil {
		t.Fatalf("fetch calendar: %v", err)
	}
	if len(raw) == 0 {
		t.Fatal("raw body should be returned for archiving")
	}
	if gotUA == "" {
		t.Fatal("user-agent header must be set")
	}

	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got=%d", len(entries))
	}
	first := entries[0]
	if first.TournamentID != "580" {
		t.Fatalf("numeric id should normalize to string, got=%q", first.TournamentID)
	}
	if first.Name != "Australian Open" || first.SglDrawSize != 128 || first.SeasonYear != 2025 {
		t.Fatalf("entry mapped wrong: %+v", first)
	}
	if entries[1].TournamentID != "339" {
		t.Fatalf("string id mangled: %q", entries[1].TournamentID)
	}
}

func TestFetchCalendar_StatusMapping(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, _, err := client.FetchCalendar(context.Background(), 2025)
	if !errors.Is(err, usecase.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got=%v", err)
	}
}

func TestFetchCalendar_ShapeChanged(t *testing.T) {
	t.Parallel()

	t.Run("not json", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html>blocked</html>"))
		}))

		_, _, err := client.FetchCalendar(context.Background(), 2025)
		if !errors.Is(err, usecase.ErrUpstreamShapeChanged) {
			t.Fatalf("expected ErrUpstreamShapeChanged, got=%v", err)
		}
	})

	t.Run("missing TournamentDates", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"Message": "moved"}`))
		}))

		_, _, err := client.FetchCalendar(context.Background(), 2025)
		if !errors.Is(err, usecase.ErrUpstreamShapeChanged) {
			t.Fatalf("expected ErrUpstreamShapeChanged, got=%v", err)
		}
	})
}

func TestFetchMatch(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/-/Hawkeye/MatchStats/Complete/2025/451/ms001":
			_, _ = w.Write([]byte(`{"Match": {"MatchId": "ms001"}}`))
		case "/-/Hawkeye/MatchStats/Complete/2025/451/ms002":
			_, _ = w.Write([]byte("not json"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	payload, found, err := client.FetchMatch(context.Background(), 2025, "451", "ms001")
	if err != nil || !found {
		t.Fatalf("existing match: found=%t err=%v", found, err)
	}
	if payload["Match"] == nil {
		t.Fatalf("payload lost: %+v", payload)
	}

	_, found, err = client.FetchMatch(context.Background(), 2025, "451", "ms099")
	if err != nil || found {
		t.Fatalf("missing match should be a miss, found=%t err=%v", found, err)
	}

	_, _, err = client.FetchMatch(context.Background(), 2025, "451", "ms002")
	if !errors.Is(err, usecase.ErrUpstreamShapeChanged) {
		t.Fatalf("undecodable success should be shape drift, got=%v", err)
	}
}

func TestFetchHeadToHead_StatusMapping(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/en/-/tour/Head2HeadSearch/GetHead2HeadData/DH58/J0AU":
			_, _ = w.Write([]byte(`{"playerLeft": {"PlayerId": "DH58"}, "Tournaments": []}`))
		case "/en/-/tour/Head2HeadSearch/GetHead2HeadData/XX00/YY00":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))

	payload, raw, err := client.FetchHeadToHead(context.Background(), "DH58", "J0AU")
	if err != nil {
		t.Fatalf("fetch h2h: %v", err)
	}
	if len(raw) == 0 || payload["playerLeft"] == nil {
		t.Fatalf("payload or raw missing: raw=%d payload=%+v", len(raw), payload)
	}

	_, _, err = client.FetchHeadToHead(context.Background(), "XX00", "YY00")
	if !errors.Is(err, usecase.ErrPlayerNotFound) {
		t.Fatalf("404 should map to ErrPlayerNotFound, got=%v", err)
	}

	_, _, err = client.FetchHeadToHead(context.Background(), "AA11", "BB22")
	if !errors.Is(err, usecase.ErrUpstreamUnavailable) {
		t.Fatalf("500 should map to ErrUpstreamUnavailable, got=%v", err)
	}
}

func TestClient_CircuitBreakerShedsAfterTransportFailures(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // every request now fails at transport level

	client := NewClient(ClientConfig{BaseURL: server.URL})

	var lastErr error
	for i := 0; i < 10; i++ {
		_, _, lastErr = client.FetchCalendar(context.Background(), 2025)
	}
	if !errors.Is(lastErr, usecase.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable after repeated failures, got=%v", lastErr)
	}
}

package nominatim

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jgoikoetxea/mileatlas/internal/core/domain"
)

func TestGeocode_CityResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Path; got != "/reverse" {
			t.Errorf("path = %q, want /reverse", got)
		}
		if got := r.URL.Query().Get("format"); got != "jsonv2" {
			t.Errorf("format = %q, want jsonv2", got)
		}
		if got := r.Header.Get("User-Agent"); got != "mileatlas/1.0" {
			t.Errorf("user-agent = %q", got)
		}
		fmt.Fprint(w, `{"address":{"country":"Deutschland","city":"Berlin"}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, 4)
	res, err := c.Geocode(context.Background(), 52.52, 13.405)
	if err != nil {
		t.Fatal(err)
	}
	if res.Country != "Germany" {
		t.Errorf("country = %q, want Germany (normalized)", res.Country)
	}
	if res.City != "Berlin" || res.Confidence != 0.90 {
		t.Errorf("got %q/%f, want Berlin/0.90", res.City, res.Confidence)
	}
}

func TestGeocode_TownAndVillageFallback(t *testing.T) {
	cases := []struct {
		name     string
		payload  string
		wantCity string
		wantConf float64
	}{
		{"town", `{"address":{"country":"France","town":"Giverny"}}`, "Giverny", 0.90},
		{"village", `{"address":{"country":"France","village":"Oradour"}}`, "Oradour", 0.90},
		{"none", `{"address":{"country":"France"}}`, "Other France", 0.60},
	}

	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, tc.payload)
		}))

		c := NewClient(srv.URL, time.Second, 4)
		res, err := c.Geocode(context.Background(), 48.0, 2.0)
		srv.Close()
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if res.City != tc.wantCity || res.Confidence != tc.wantConf {
			t.Errorf("%s: got %q/%f, want %q/%f",
				tc.name, res.City, res.Confidence, tc.wantCity, tc.wantConf)
		}
	}
}

func TestGeocode_NoResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":"Unable to geocode"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, 4)
	_, err := c.Geocode(context.Background(), 0, 0)
	if !errors.Is(err, domain.ErrGeocodeNoResult) {
		t.Errorf("expected ErrGeocodeNoResult, got %v", err)
	}
}

func TestGeocode_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, 4)
	_, err := c.Geocode(context.Background(), 52.52, 13.405)
	if !errors.Is(err, domain.ErrGeocodeTransport) {
		t.Errorf("expected ErrGeocodeTransport, got %v", err)
	}
}

func TestGeocode_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"address":`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, 4)
	_, err := c.Geocode(context.Background(), 52.52, 13.405)
	if !errors.Is(err, domain.ErrGeocodeTransport) {
		t.Errorf("expected ErrGeocodeTransport, got %v", err)
	}
}

func TestGeocode_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, `{"address":{"country":"Germany"}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 20*time.Millisecond, 4)
	_, err := c.Geocode(context.Background(), 52.52, 13.405)
	if !errors.Is(err, domain.ErrGeocodeTimeout) {
		t.Errorf("expected ErrGeocodeTimeout, got %v", err)
	}
}

func TestGeocode_ConnectionRefused(t *testing.T) {
	// A server that is already closed refuses connections.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, time.Second, 4)
	_, err := c.Geocode(context.Background(), 52.52, 13.405)
	if !errors.Is(err, domain.ErrGeocodeTransport) {
		t.Errorf("expected ErrGeocodeTransport, got %v", err)
	}
}

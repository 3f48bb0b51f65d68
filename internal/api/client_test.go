package api

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/glundgren93/railboard/internal/model"
)

func TestPlaces_Request(t *testing.T) {
	var got *http.Request
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_ = json.NewEncoder(gz).Encode(model.PlacesResponse{Places: []model.Place{
			stopArea(lyon, "Lyon Part-Dieu"),
		}})
		_ = gz.Close()
	}, time.Second)

	places, err := client.Places(context.Background(), "Lyon Part-Dieu")
	if err != nil {
		t.Fatalf("Places() error: %v", err)
	}

	if got.URL.Path != "/coverage/sncf/places" {
		t.Errorf("path = %q, want /coverage/sncf/places", got.URL.Path)
	}
	if q := got.URL.Query().Get("q"); q != "Lyon Part-Dieu" {
		t.Errorf("q = %q, want Lyon Part-Dieu", q)
	}
	if typ := got.URL.Query().Get("type[]"); typ != "stop_area" {
		t.Errorf("type[] = %q, want stop_area", typ)
	}
	if h := got.Header.Get("Authorization"); h != "secret-key" {
		t.Errorf("Authorization = %q, want the API key", h)
	}
	if h := got.Header.Get("Accept-Encoding"); h != "gzip" {
		t.Errorf("Accept-Encoding = %q, want gzip", h)
	}

	if len(places) != 1 || places[0].StopArea == nil || places[0].StopArea.ID != lyon {
		t.Errorf("places = %+v, want one Lyon Part-Dieu stop area", places)
	}
}

func TestPlaces_Malformed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"places": [{"id": "stop_area:SNCF:877`)
	}, time.Second)

	_, err := client.Places(context.Background(), "Lyon")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("error = %v, want ErrMalformedResponse", err)
	}
}

func TestPlaces_BadGzipOnSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"places": []}`)
	}, time.Second)

	_, err := client.Places(context.Background(), "Lyon")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("error = %v, want ErrMalformedResponse", err)
	}
}

func TestPlaces_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "<html>Service Unavailable</html>")
	}, time.Second)

	_, err := client.Places(context.Background(), "Lyon")
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("error = %v, want ErrProviderUnavailable", err)
	}
	var pe *ProviderError
	if !errors.As(err, &pe) || pe.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("error = %v, want a 503 ProviderError", err)
	}
}

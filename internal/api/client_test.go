package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestContext_DecodesDevices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/context" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"devices":[{"id":"dev1","name":"Canon"},{"id":"dev2","name":"Epson"}]}`))
	}))
	defer srv.Close()

	resp, err := New(srv.URL).Context(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Devices) != 2 {
		t.Fatalf("expected 2 devices, got %d", len(resp.Devices))
	}
	if resp.Devices[0].ID != "dev1" || resp.Devices[0].Name != "Canon" {
		t.Fatalf("unexpected first device: %+v", resp.Devices[0])
	}
}

func TestFiles_DecodesList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/files" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`[{"name":"scan1.jpg","sizeString":"1.2 MB"}]`))
	}))
	defer srv.Close()

	files, err := New(srv.URL).Files(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 1 || files[0].Name != "scan1.jpg" || files[0].SizeString != "1.2 MB" {
		t.Fatalf("unexpected files: %+v", files)
	}
}

func TestFile_ReturnsRawBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/files/scan1.jpg" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte("jpegbytes"))
	}))
	defer srv.Close()

	data, err := New(srv.URL).File(context.Background(), "scan1.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "jpegbytes" {
		t.Fatalf("unexpected body: %q", data)
	}
}

func TestScan_SendsA4Geometry(t *testing.T) {
	var got ScanRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/scan" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Write([]byte(`{"file":{"name":"scan-0001.jpg"}}`))
	}))
	defer srv.Close()

	result, err := New(srv.URL).Scan(context.Background(), NewA4Request("dev1", 200, "Color", "high"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := got.Params
	if p.DeviceID != "dev1" || p.Resolution != 200 || p.Mode != "Color" {
		t.Fatalf("unexpected params: %+v", p)
	}
	if p.Width != 210 || p.Height != 297 || p.PageWidth != 210 || p.PageHeight != 297 {
		t.Fatalf("expected A4 geometry, got %+v", p)
	}
	if p.Top != 0 || p.Left != 0 {
		t.Fatalf("expected zero origin, got %+v", p)
	}
	if got.Pipeline != "JPG | @:pipeline.high-quality" {
		t.Fatalf("unexpected pipeline: %q", got.Pipeline)
	}
	if result.File == nil || result.File.Name != "scan-0001.jpg" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestStatusError_CarriesCodeAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("device busy"))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Files(context.Background())
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Code != http.StatusInternalServerError || statusErr.Body != "device busy" {
		t.Fatalf("unexpected status error: %+v", statusErr)
	}
}

func TestConnectionError_IsNotAStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // unreachable on purpose

	_, err := New(srv.URL).Files(context.Background())
	if err == nil {
		t.Fatal("expected an error from a closed server")
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		t.Fatalf("expected a transport error, got status %d", statusErr.Code)
	}
}

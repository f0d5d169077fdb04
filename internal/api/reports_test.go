package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestListReports_QueryParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reports" {
			t.Errorf("expected /reports, got %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("page") != "2" || q.Get("limit") != "12" || q.Get("type") != "basic" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{{"_id": "r1", "type": "basic", "status": "signed"}},
			"total": 13, "page": 2, "pages": 2,
		})
	}))
	defer server.Close()

	client := NewAuthenticatedClient(server.URL, newTestSession(t))
	page, err := client.ListReports(ReportListParams{Page: 2, Limit: 12, Type: ReportTypeBasic})
	if err != nil {
		t.Fatalf("ListReports failed: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != "r1" {
		t.Errorf("unexpected items: %+v", page.Items)
	}
	if page.Total != 13 {
		t.Errorf("unexpected total: %d", page.Total)
	}
}

func TestCreateReport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/reports" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		var draft ReportDraft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			t.Fatalf("failed to decode draft: %v", err)
		}
		if draft.Type != ReportTypeRigorous || draft.CompanyID != "c1" {
			t.Errorf("unexpected draft: %+v", draft)
		}
		if draft.Data["psi_palancas"] != "aprobado" {
			t.Errorf("unexpected data: %+v", draft.Data)
		}

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"_id": "r9", "reportNumber": 142, "type": "rigorous", "status": "draft"})
	}))
	defer server.Close()

	client := NewAuthenticatedClient(server.URL, newTestSession(t))
	report, err := client.CreateReport(ReportDraft{
		Type:      ReportTypeRigorous,
		CompanyID: "c1",
		Patient:   Patient{Name: "Pedro Soto", RUT: "12.345.678-9"},
		Data:      map[string]string{"psi_palancas": "aprobado"},
	})
	if err != nil {
		t.Fatalf("CreateReport failed: %v", err)
	}
	if report.ID != "r9" || report.ReportNumber != 142 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestSignReport(t *testing.T) {
	signed := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/reports/r1/sign" {
			signed = true
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewAuthenticatedClient(server.URL, newTestSession(t))
	if err := client.SignReport("r1"); err != nil {
		t.Fatalf("SignReport failed: %v", err)
	}
	if !signed {
		t.Error("sign endpoint was not called")
	}
}

func TestReportPDF_DownloadsRelativeURL(t *testing.T) {
	pdfBytes := []byte("%PDF-1.4 fake")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/reports/r1/pdf":
			_ = json.NewEncoder(w).Encode(map[string]string{"url": "/files/informe-142.pdf"})
		case "/files/informe-142.pdf":
			if r.Header.Get("Authorization") != "Bearer tok.abc.123" {
				t.Errorf("download must carry the bearer token")
			}
			_, _ = w.Write(pdfBytes)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	sess := newTestSession(t)
	if err := sess.SetToken("tok.abc.123"); err != nil {
		t.Fatalf("SetToken failed: %v", err)
	}

	dest := filepath.Join(t.TempDir(), "informe.pdf")
	client := NewAuthenticatedClient(server.URL, sess)
	if err := client.ReportPDF("r1", dest); err != nil {
		t.Fatalf("ReportPDF failed: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("failed to read downloaded file: %v", err)
	}
	if string(data) != string(pdfBytes) {
		t.Errorf("downloaded content mismatch")
	}
}

func TestWorkOrderDraft_Validate(t *testing.T) {
	draft := WorkOrderDraft{PatientRUT: "1-9", PatientName: "Pedro", Branch: "Santiago"}
	if err := draft.Validate(); err != nil {
		t.Errorf("expected valid draft, got %v", err)
	}

	incomplete := WorkOrderDraft{PatientName: "Pedro"}
	if err := incomplete.Validate(); err == nil {
		t.Error("expected error for missing fields")
	}
}

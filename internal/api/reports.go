package api

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/kd-consultores/katy-agent/internal/session"
)

// Report types as the backend names them
const (
	ReportTypeBasic    = "basic"
	ReportTypeRigorous = "rigorous"
)

// Patient identifies the evaluated worker
type Patient struct {
	Name string `json:"name"`
	RUT  string `json:"rut,omitempty"`
	Age  string `json:"edad,omitempty"`
	Job  string `json:"cargo,omitempty"`
}

// Signature records whether and when a report was signed
type Signature struct {
	Signed   bool   `json:"signed"`
	SignedAt string `json:"signedAt,omitempty"`
	Name     string `json:"name,omitempty"`
	RUT      string `json:"rut,omitempty"`
}

// Report is a psychosensometric evaluation report
type Report struct {
	ID           string            `json:"_id"`
	ReportNumber int               `json:"reportNumber,omitempty"`
	Type         string            `json:"type"`
	Status       string            `json:"status"`
	Company      *session.Company  `json:"company,omitempty"`
	Patient      *Patient          `json:"patient,omitempty"`
	Signature    *Signature        `json:"signature,omitempty"`
	Data         map[string]string `json:"data,omitempty"`
	CreatedAt    string            `json:"createdAt,omitempty"`
	UpdatedAt    string            `json:"updatedAt,omitempty"`
}

// ReportDraft is the creation payload. Data carries the per-test
// results (psi_palancas, s_audicion_od, epworth, ...); the backend
// validates the set it expects for the report type.
type ReportDraft struct {
	Type      string            `json:"type"`
	CompanyID string            `json:"companyId"`
	Patient   Patient           `json:"patient"`
	Data      map[string]string `json:"data,omitempty"`
}

// ReportPage is one page of a report listing
type ReportPage struct {
	Items []Report `json:"items"`
	Total int      `json:"total"`
	Page  int      `json:"page"`
	Pages int      `json:"pages"`
}

// ReportListParams filters a report listing
type ReportListParams struct {
	Page      int
	Limit     int
	Type      string
	CompanyID string
}

func (p ReportListParams) query() string {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Type != "" {
		q.Set("type", p.Type)
	}
	if p.CompanyID != "" {
		q.Set("company", p.CompanyID)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// ListReports retrieves a page of reports. For client accounts the
// backend scopes the listing to the caller's company.
func (ac *AuthenticatedClient) ListReports(params ReportListParams) (*ReportPage, error) {
	var page ReportPage
	if err := ac.getJSON("/reports"+params.query(), &page); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return &page, nil
}

// GetReport retrieves a single report
func (ac *AuthenticatedClient) GetReport(id string) (*Report, error) {
	var report Report
	if err := ac.getJSON("/reports/"+url.PathEscape(id), &report); err != nil {
		return nil, fmt.Errorf("failed to fetch report: %w", err)
	}
	return &report, nil
}

// CreateReport creates a report and returns the stored document
func (ac *AuthenticatedClient) CreateReport(draft ReportDraft) (*Report, error) {
	req, err := ac.newJSONRequest(http.MethodPost, "/reports", draft)
	if err != nil {
		return nil, err
	}
	var report Report
	if err := ac.doJSON(req, &report); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return &report, nil
}

// UpdateReport replaces the mutable fields of a report
func (ac *AuthenticatedClient) UpdateReport(id string, draft ReportDraft) (*Report, error) {
	req, err := ac.newJSONRequest(http.MethodPut, "/reports/"+url.PathEscape(id), draft)
	if err != nil {
		return nil, err
	}
	var report Report
	if err := ac.doJSON(req, &report); err != nil {
		return nil, fmt.Errorf("failed to update report: %w", err)
	}
	return &report, nil
}

// SignReport attaches the evaluator's stored signature to a report
func (ac *AuthenticatedClient) SignReport(id string) error {
	req, err := ac.newJSONRequest(http.MethodPost, "/reports/"+url.PathEscape(id)+"/sign", map[string]string{})
	if err != nil {
		return err
	}
	if err := ac.doJSON(req, nil); err != nil {
		return fmt.Errorf("failed to sign report: %w", err)
	}
	return nil
}

type pdfResponse struct {
	URL string `json:"url"`
}

// ReportPDF asks the backend to render the report PDF and downloads it
// to destPath
func (ac *AuthenticatedClient) ReportPDF(id, destPath string) error {
	var pdf pdfResponse
	if err := ac.getJSON("/reports/"+url.PathEscape(id)+"/pdf", &pdf); err != nil {
		return fmt.Errorf("failed to generate PDF: %w", err)
	}
	return ac.downloadFile(pdf.URL, destPath)
}

// downloadFile fetches a backend-relative or absolute URL into a local
// file. The PDF endpoints return relative paths that resolve against
// the server origin.
func (ac *AuthenticatedClient) downloadFile(rawURL, destPath string) error {
	if rawURL == "" {
		return fmt.Errorf("server returned no document URL")
	}

	base, err := url.Parse(ac.client.baseURL)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}
	ref, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid document URL: %w", err)
	}
	full := base.ResolveReference(ref)

	req, err := http.NewRequest(http.MethodGet, full.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := ac.do(req)
	if err != nil {
		return fmt.Errorf("failed to download document: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}

	data, err := readLimitedResponse(resp.Body, MaxResponseSize)
	if err != nil {
		return err
	}
	if err := os.WriteFile(destPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", destPath, err)
	}
	return nil
}

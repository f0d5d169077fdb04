package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// WorkOrder is the legacy evaluation record kept for old clients
type WorkOrder struct {
	ID          string     `json:"_id"`
	PatientRUT  string     `json:"patientRut"`
	PatientName string     `json:"patientName"`
	Branch      string     `json:"branch"`
	Status      string     `json:"status"`
	EntryDate   string     `json:"entryDate,omitempty"`
	Signature   *Signature `json:"signature,omitempty"`
	CreatedAt   string     `json:"createdAt,omitempty"`
	UpdatedAt   string     `json:"updatedAt,omitempty"`
}

// WorkOrderDraft is the creation payload for a legacy work order
type WorkOrderDraft struct {
	PatientRUT  string `json:"patientRut"`
	PatientName string `json:"patientName"`
	Branch      string `json:"branch"`
	EntryDate   string `json:"entryDate,omitempty"`
	Status      string `json:"status,omitempty"`
}

// Validate rejects drafts the backend would bounce anyway
func (d WorkOrderDraft) Validate() error {
	if d.PatientRUT == "" || d.PatientName == "" || d.Branch == "" {
		return fmt.Errorf("patient RUT, patient name and branch are required")
	}
	return nil
}

// WorkOrderPage is one page of the legacy work order listing
type WorkOrderPage struct {
	Rows  []WorkOrder `json:"rows"`
	Total int         `json:"total"`
	Page  int         `json:"page"`
	Pages int         `json:"pages"`
	Limit int         `json:"limit"`
}

// WorkOrderListParams filters the legacy listing
type WorkOrderListParams struct {
	Page   int
	Limit  int
	Status string
}

func (p WorkOrderListParams) query() string {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// ListWorkOrders retrieves a page of legacy work orders
func (ac *AuthenticatedClient) ListWorkOrders(params WorkOrderListParams) (*WorkOrderPage, error) {
	var page WorkOrderPage
	if err := ac.getJSON("/workorders"+params.query(), &page); err != nil {
		return nil, fmt.Errorf("failed to list work orders: %w", err)
	}
	return &page, nil
}

// GetWorkOrder retrieves a single work order
func (ac *AuthenticatedClient) GetWorkOrder(id string) (*WorkOrder, error) {
	var order WorkOrder
	if err := ac.getJSON("/workorders/"+url.PathEscape(id), &order); err != nil {
		return nil, fmt.Errorf("failed to fetch work order: %w", err)
	}
	return &order, nil
}

// CreateWorkOrder creates a legacy work order
func (ac *AuthenticatedClient) CreateWorkOrder(draft WorkOrderDraft) (*WorkOrder, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	req, err := ac.newJSONRequest(http.MethodPost, "/workorders", draft)
	if err != nil {
		return nil, err
	}
	var order WorkOrder
	if err := ac.doJSON(req, &order); err != nil {
		return nil, fmt.Errorf("failed to create work order: %w", err)
	}
	return &order, nil
}

// SignWorkOrder attaches the evaluator's signature to a work order
func (ac *AuthenticatedClient) SignWorkOrder(id string) error {
	req, err := ac.newJSONRequest(http.MethodPost, "/workorders/"+url.PathEscape(id)+"/sign", map[string]string{})
	if err != nil {
		return err
	}
	if err := ac.doJSON(req, nil); err != nil {
		return fmt.Errorf("failed to sign work order: %w", err)
	}
	return nil
}

// WorkOrderPDF renders a work order PDF (kind selects the legacy basic
// or rigorous layout) and downloads it to destPath
func (ac *AuthenticatedClient) WorkOrderPDF(id, kind, destPath string) error {
	path := "/workorders/" + url.PathEscape(id) + "/pdf"
	if kind != "" {
		path += "?type=" + url.QueryEscape(kind)
	}
	var pdf pdfResponse
	if err := ac.getJSON(path, &pdf); err != nil {
		return fmt.Errorf("failed to generate PDF: %w", err)
	}
	return ac.downloadFile(pdf.URL, destPath)
}

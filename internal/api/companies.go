package api

import (
	"fmt"
	"net/http"
	"net/url"
)

// CompanyWorker is a portal account attached to a company
type CompanyWorker struct {
	ID    string `json:"_id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Company is a client company record
type Company struct {
	ID        string          `json:"_id"`
	Name      string          `json:"name"`
	RUT       string          `json:"rut,omitempty"`
	Email     string          `json:"email,omitempty"`
	Phone     string          `json:"phone,omitempty"`
	Address   string          `json:"address,omitempty"`
	Country   string          `json:"country,omitempty"`
	Workers   []CompanyWorker `json:"workers,omitempty"`
	CreatedAt string          `json:"createdAt,omitempty"`
}

// ClientUserDraft is the portal account created alongside a company
type ClientUserDraft struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CompanyDraft is the company creation/update payload
type CompanyDraft struct {
	Name       string           `json:"name"`
	RUT        string           `json:"rut,omitempty"`
	Email      string           `json:"email,omitempty"`
	Phone      string           `json:"phone,omitempty"`
	Address    string           `json:"address,omitempty"`
	Country    string           `json:"country,omitempty"`
	ClientUser *ClientUserDraft `json:"clientUser,omitempty"`
}

// ListCompanies retrieves companies; limit 0 uses the backend default
func (ac *AuthenticatedClient) ListCompanies(limit int) ([]Company, error) {
	path := "/companies"
	if limit > 0 {
		path += fmt.Sprintf("?limit=%d", limit)
	}
	var companies []Company
	if err := ac.getJSON(path, &companies); err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

// GetCompany retrieves a single company
func (ac *AuthenticatedClient) GetCompany(id string) (*Company, error) {
	var company Company
	if err := ac.getJSON("/companies/"+url.PathEscape(id), &company); err != nil {
		return nil, fmt.Errorf("failed to fetch company: %w", err)
	}
	return &company, nil
}

// CreateCompany registers a company, optionally with its portal account
func (ac *AuthenticatedClient) CreateCompany(draft CompanyDraft) (*Company, error) {
	if draft.Name == "" {
		return nil, fmt.Errorf("company name is required")
	}
	req, err := ac.newJSONRequest(http.MethodPost, "/companies", draft)
	if err != nil {
		return nil, err
	}
	var company Company
	if err := ac.doJSON(req, &company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	return &company, nil
}

// UpdateCompany replaces the mutable fields of a company
func (ac *AuthenticatedClient) UpdateCompany(id string, draft CompanyDraft) (*Company, error) {
	req, err := ac.newJSONRequest(http.MethodPut, "/companies/"+url.PathEscape(id), draft)
	if err != nil {
		return nil, err
	}
	var company Company
	if err := ac.doJSON(req, &company); err != nil {
		return nil, fmt.Errorf("failed to update company: %w", err)
	}
	return &company, nil
}

// DeleteCompany removes a company
func (ac *AuthenticatedClient) DeleteCompany(id string) error {
	req, err := ac.newJSONRequest(http.MethodDelete, "/companies/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	if err := ac.doJSON(req, nil); err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}
	return nil
}

// SetCompanyClientPassword resets the password of the company's portal
// account
func (ac *AuthenticatedClient) SetCompanyClientPassword(id, password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	req, err := ac.newJSONRequest(http.MethodPatch, "/companies/"+url.PathEscape(id)+"/client/password", map[string]string{
		"password": password,
	})
	if err != nil {
		return err
	}
	if err := ac.doJSON(req, nil); err != nil {
		return fmt.Errorf("failed to update client password: %w", err)
	}
	return nil
}

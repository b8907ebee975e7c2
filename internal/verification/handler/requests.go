package handler

import (
	"veriflow/internal/verification/models"
	dErrors "veriflow/pkg/domain-errors"
)

// verificationRequest is the wire shape of a verification submission. Checks
// is optional; when empty the run covers all four kinds in canonical order.
type verificationRequest struct {
	CustomerID  string `json:"customer_id"`
	FullName    string `json:"full_name"`
	DateOfBirth string `json:"date_of_birth"`
	Nationality string `json:"nationality"`

	DocumentType       string `json:"document_type"`
	DocumentNumber     string `json:"document_number"`
	DocumentExpiryDate string `json:"document_expiry_date"`
	DocumentImageURL   string `json:"document_image_url"`

	SelfieURL  string `json:"selfie_url"`
	IDPhotoURL string `json:"id_photo_url"`

	Address   string `json:"address"`
	ProofType string `json:"proof_type"`
	ProofDate string `json:"proof_date"`
	ProofURL  string `json:"proof_url"`

	Checks []string `json:"checks"`
}

func (r *verificationRequest) validate() error {
	if r.CustomerID == "" {
		return dErrors.New(dErrors.CodeValidation, "customer_id is required")
	}
	if r.FullName == "" {
		return dErrors.New(dErrors.CodeValidation, "full_name is required")
	}
	return nil
}

// kinds parses the requested check names at the trust boundary. Duplicates
// are rejected since each kind runs at most once per submission.
func (r *verificationRequest) kinds() ([]models.CheckKind, error) {
	if len(r.Checks) == 0 {
		return models.AllChecks, nil
	}
	seen := make(map[models.CheckKind]bool, len(r.Checks))
	kinds := make([]models.CheckKind, 0, len(r.Checks))
	for _, s := range r.Checks {
		kind, err := models.ParseCheckKind(s)
		if err != nil {
			return nil, err
		}
		if seen[kind] {
			return nil, dErrors.New(dErrors.CodeValidation, "duplicate check kind: "+s)
		}
		seen[kind] = true
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func (r *verificationRequest) subject() models.Subject {
	return models.Subject{
		CustomerID:         r.CustomerID,
		FullName:           r.FullName,
		DateOfBirth:        r.DateOfBirth,
		Nationality:        r.Nationality,
		DocumentType:       r.DocumentType,
		DocumentNumber:     r.DocumentNumber,
		DocumentExpiryDate: r.DocumentExpiryDate,
		DocumentImageURL:   r.DocumentImageURL,
		SelfieURL:          r.SelfieURL,
		IDPhotoURL:         r.IDPhotoURL,
		Address:            r.Address,
		ProofType:          r.ProofType,
		ProofDate:          r.ProofDate,
		ProofURL:           r.ProofURL,
	}
}

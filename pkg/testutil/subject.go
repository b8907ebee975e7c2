// Package testutil provides fixture builders shared by the verification
// test suites.
package testutil

import (
	"time"

	"veriflow/internal/verification/models"
)

const dateLayout = "2006-01-02"

// SubjectBuilder builds a valid subject that passes every local precheck,
// with override hooks for the fields a test cares about.
type SubjectBuilder struct {
	subject models.Subject
}

// NewSubject creates a builder seeded with a fully valid subject relative to
// the given reference time: the document expires in a year and the address
// proof is ten days old.
func NewSubject(now time.Time) *SubjectBuilder {
	return &SubjectBuilder{
		subject: models.Subject{
			CustomerID:         "CUST-001",
			FullName:           "Ada Okafor",
			DateOfBirth:        "1990-04-12",
			Nationality:        "NG",
			DocumentType:       "passport",
			DocumentNumber:     "A12345678",
			DocumentExpiryDate: now.AddDate(1, 0, 0).Format(dateLayout),
			DocumentImageURL:   "https://cdn.example.com/doc.jpg",
			SelfieURL:          "https://cdn.example.com/selfie.jpg",
			IDPhotoURL:         "https://cdn.example.com/id-photo.jpg",
			Address:            "12 Marina Road, Lagos",
			ProofType:          "utility_bill",
			ProofDate:          now.AddDate(0, 0, -10).Format(dateLayout),
			ProofURL:           "https://cdn.example.com/proof.pdf",
		},
	}
}

func (b *SubjectBuilder) WithCustomerID(id string) *SubjectBuilder {
	b.subject.CustomerID = id
	return b
}

func (b *SubjectBuilder) WithFullName(name string) *SubjectBuilder {
	b.subject.FullName = name
	return b
}

func (b *SubjectBuilder) WithDocumentNumber(number string) *SubjectBuilder {
	b.subject.DocumentNumber = number
	return b
}

func (b *SubjectBuilder) WithDocumentExpiryDate(date string) *SubjectBuilder {
	b.subject.DocumentExpiryDate = date
	return b
}

func (b *SubjectBuilder) WithProofDate(date string) *SubjectBuilder {
	b.subject.ProofDate = date
	return b
}

func (b *SubjectBuilder) Build() models.Subject {
	return b.subject
}

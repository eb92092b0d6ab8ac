package entities

import (
	"time"
)

// DocumentCategory classifies an uploaded medical document
type DocumentCategory string

const (
	DocumentCategoryGeneral                DocumentCategory = "GENERAL"
	DocumentCategoryXRay                   DocumentCategory = "XRAY"
	DocumentCategoryMRICTScan              DocumentCategory = "MRI_CT_SCAN"
	DocumentCategoryUltrasoundReport       DocumentCategory = "ULTRASOUND_REPORT"
	DocumentCategoryECGEKGReport           DocumentCategory = "ECG_EKG_REPORT"
	DocumentCategoryLabTestReport          DocumentCategory = "LAB_TEST_REPORT"
	DocumentCategoryPrescription           DocumentCategory = "PRESCRIPTION"
	DocumentCategoryReferralLetter         DocumentCategory = "REFERRAL_LETTER"
	DocumentCategorySurgeryRecord          DocumentCategory = "SURGERY_RECORD"
	DocumentCategoryVaccinationCertificate DocumentCategory = "VACCINATION_CERTIFICATE"
	DocumentCategoryCovidTestResult        DocumentCategory = "COVID_TEST_RESULT"
	DocumentCategoryInsuranceDocument      DocumentCategory = "INSURANCE_DOCUMENT"
	DocumentCategoryOther                  DocumentCategory = "OTHER"
)

// IsValidDocumentCategory reports whether c is a known category.
func IsValidDocumentCategory(c DocumentCategory) bool {
	switch c {
	case DocumentCategoryGeneral, DocumentCategoryXRay, DocumentCategoryMRICTScan,
		DocumentCategoryUltrasoundReport, DocumentCategoryECGEKGReport,
		DocumentCategoryLabTestReport, DocumentCategoryPrescription,
		DocumentCategoryReferralLetter, DocumentCategorySurgeryRecord,
		DocumentCategoryVaccinationCertificate, DocumentCategoryCovidTestResult,
		DocumentCategoryInsuranceDocument, DocumentCategoryOther:
		return true
	}
	return false
}

// Document represents an uploaded medical document owned by a patient
type Document struct {
	ID          string           `json:"id" db:"id"`
	UserID      string           `json:"user_id" db:"user_id"`
	FileName    string           `json:"file_name" db:"file_name"`
	FilePath    string           `json:"file_path" db:"file_path"`
	FileType    string           `json:"file_type" db:"file_type"`
	FileSize    int64            `json:"file_size" db:"file_size"`
	Category    DocumentCategory `json:"category" db:"category"`
	Description string           `json:"description" db:"description"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" db:"updated_at"`
}

package domain

// Status values that set the learner flags. Matching is exact and
// case-sensitive.
const (
	StatusGraduate  = "Graduate"
	StatusCertified = "Certified"
)

// RawStatus is one row of the learner status roster.
type RawStatus struct {
	Email               string `json:"email"`
	GraduationStatus    string `json:"graduation_status"`
	CertificationStatus string `json:"certification_status"`
	SourceRow           int    `json:"source_row"`
}

// DimLearner describes one learner of the cohort. LearnerName is empty
// when the learner never appears in attendance data.
type DimLearner struct {
	LearnerID           int    `json:"learner_id" db:"learner_id"`
	Email               string `json:"email" db:"email"`
	LearnerName         string `json:"learner_name,omitempty" db:"learner_name"`
	GraduationStatus    string `json:"graduation_status" db:"graduation_status"`
	CertificationStatus string `json:"certification_status" db:"certification_status"`
	IsGraduated         bool   `json:"is_graduated" db:"is_graduated"`
	IsCertified         bool   `json:"is_certified" db:"is_certified"`
}

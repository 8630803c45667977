package model

type StudentStatus string

const (
	StudentStatusActive   StudentStatus = "active"
	StudentStatusInactive StudentStatus = "inactive"
)

// Student is owned by the enrolment module; finance only references it.
type Student struct {
	ID                 int64         `json:"id"`
	RegistrationNumber string        `json:"registration_number"`
	FirstName          string        `json:"first_name"`
	LastName           string        `json:"last_name"`
	Status             StudentStatus `json:"status"`
}

func (s *Student) FullName() string {
	if s == nil {
		return ""
	}
	return s.LastName + " " + s.FirstName
}

package domain

// Contact is the record exchanged with the contacts service.
// Field order is the wire order of the JSON encoding.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// SampleContact is the record sent by the write probe.
func SampleContact() Contact {
	return Contact{
		Name:  "John Doe",
		Email: "john@example.com",
		Phone: "1234567890",
	}
}

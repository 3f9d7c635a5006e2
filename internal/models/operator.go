package models

type Operator struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // don’t expose hash
	FirstName    string `json:"firstname"`
	LastName     string `json:"lastname"`
	Position     string `json:"position"`
}

// DisplayName is the label stamped on log rows written from this operator's session.
func (o Operator) DisplayName() string {
	return o.FirstName + " " + o.LastName
}

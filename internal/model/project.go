// Package model defines the records shared between the questionnaire,
// storage and notification layers.
package model

// Project is one row of the studio's project directory.
type Project struct {
	ID          string `json:"id"`
	Market      string `json:"market"`
	Address     string `json:"address"`
	SalesPerson string `json:"sales_person"`
	Designer    string `json:"designer"`
}

// Validate reports whether the project can be stored.
func (p Project) Validate() error {
	if p.ID == "" {
		return errMissingProjectID
	}
	return nil
}

package league

import "fmt"

// League is a competition whose fixtures can be followed.
type League struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	CountryCode string `json:"country_code"`
	IsDefault   bool   `json:"is_default"`
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.CountryCode == "" {
		return fmt.Errorf("league country code is required")
	}

	return nil
}

// Package output serializes run reports.
package output

import (
	"encoding/json"

	"github.com/mortadamoghazy/Integrated-Project/pkg/payfill/models"
)

// ToJSON serializes a run report, optionally indented.
func ToJSON(r *models.RunReport, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(r, "", "  ")
	}
	return json.Marshal(r)
}

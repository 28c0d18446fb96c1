package prospect

import (
	"strings"

	"github.com/sells-group/prospect-cli/pkg/attom"
)

// IsAbsentee reports whether the property is not owner-occupied. The provider
// spreads the signal across three fields, populated inconsistently from record
// to record, so any one positive signal is sufficient and none is
// authoritative over another:
//
//   - summary.absenteeInd: "ABSENTEE OWNER", "OWNER OCCUPIED", or the
//     single-letter codes "A"/"O"
//   - owner.absenteeOwnerStatus: "Absentee", "Owner Occupied", ...
//   - owner.ownerOccupied: "Y"/"N"
func IsAbsentee(p *attom.Property) bool {
	var ind, status, occupied string
	if p.Summary != nil && p.Summary.AbsenteeInd != nil {
		ind = strings.ToUpper(strings.TrimSpace(*p.Summary.AbsenteeInd))
	}
	if p.Owner != nil {
		if p.Owner.AbsenteeOwnerStatus != nil {
			status = strings.ToUpper(strings.TrimSpace(*p.Owner.AbsenteeOwnerStatus))
		}
		if p.Owner.OwnerOccupied != nil {
			occupied = strings.ToUpper(strings.TrimSpace(*p.Owner.OwnerOccupied))
		}
	}

	if strings.Contains(ind, "ABSENTEE") || ind == "A" {
		return true
	}
	if strings.Contains(status, "ABSENTEE") {
		return true
	}
	return occupied == "N"
}

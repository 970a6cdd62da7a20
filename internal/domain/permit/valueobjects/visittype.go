package valueobjects

import "fmt"

type VisitType string

const (
	VisitPreventiveMaintenance VisitType = "PREVENTIVE_MAINTENANCE"
	VisitAssessment            VisitType = "ASSESSMENT"
	VisitTroubleshoot          VisitType = "TROUBLESHOOT"
	VisitCablePulling          VisitType = "CABLE_PULLING"
	VisitAudit                 VisitType = "AUDIT"
	VisitInstallation          VisitType = "INSTALLATION"
	VisitGeneral               VisitType = "VISIT"
)

var visitTypeNames = map[VisitType]string{
	VisitPreventiveMaintenance: "Preventive Maintenance",
	VisitAssessment:            "Assessment",
	VisitTroubleshoot:          "Troubleshoot",
	VisitCablePulling:          "Cable Pulling",
	VisitAudit:                 "Audit",
	VisitInstallation:          "Installation",
	VisitGeneral:               "Visit",
}

func (v VisitType) String() string {
	return string(v)
}

func (v VisitType) IsValid() bool {
	_, ok := visitTypeNames[v]
	return ok
}

// DisplayName returns the label used in notifications.
func (v VisitType) DisplayName() string {
	return visitTypeNames[v]
}

func ParseVisitType(s string) (VisitType, error) {
	v := VisitType(s)
	if !v.IsValid() {
		return "", fmt.Errorf("invalid visit type: %s", s)
	}
	return v, nil
}

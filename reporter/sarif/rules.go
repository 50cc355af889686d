package sarif

import "github.com/Krantz-XRF/acyclic/detector"

// SARIF rule IDs
const (
	RuleIDRetainCycle = "AC0001"
)

const informationURI = "https://github.com/Krantz-XRF/acyclic"

// ruleIDs maps detector rule IDs to SARIF rule IDs
var ruleIDs = map[string]string{
	detector.RuleID: RuleIDRetainCycle,
}

// ToSARIFRuleID converts a detector rule ID to its SARIF rule ID.
// Unknown IDs are returned unchanged.
func ToSARIFRuleID(id string) string {
	if sarifID, ok := ruleIDs[id]; ok {
		return sarifID
	}
	return id
}

// BuildRules returns all rule descriptors
func BuildRules() []ReportingDescriptor {
	return []ReportingDescriptor{
		{
			ID:   RuleIDRetainCycle,
			Name: "SharedOwnershipCycle",
			ShortDescription: MessageString{
				Text: "Types hold shared-ownership references to each other in a cycle",
			},
			FullDescription: MessageString{
				Text: "A chain of fields holding shared-ownership pointers leads from a type back to itself. Objects in such a chain keep each other alive and are never released by reference counting alone.",
			},
			Help: MessageString{
				Text: "Break the cycle by turning one reference of the chain into a weak or non-owning reference.",
			},
			HelpURI: informationURI + "#" + RuleIDRetainCycle,
			DefaultConfiguration: Configuration{
				Level: "warning",
			},
		},
	}
}

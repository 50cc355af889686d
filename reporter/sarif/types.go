package sarif

// Document is the SARIF log written for one acyclic run
type Document struct {
	Version string `json:"version"` // always 2.1.0
	Schema  string `json:"$schema"`
	Runs    []Run  `json:"runs"`
}

// Run holds the cycles found by one invocation
type Run struct {
	Tool              Tool               `json:"tool"`
	Results           []Result           `json:"results"` // one per cycle
	AutomationDetails *AutomationDetails `json:"automationDetails,omitempty"`
}

// AutomationDetails groups runs across invocations
type AutomationDetails struct {
	ID string `json:"id,omitempty"` // "acyclic/analysis"
}

type Tool struct {
	Driver Driver `json:"driver"`
}

// Driver describes acyclic itself and the single rule it reports
type Driver struct {
	Name            string                `json:"name"`
	FullName        string                `json:"fullName,omitempty"`
	InformationURI  string                `json:"informationUri"`
	Version         string                `json:"version"` // "dev" for untagged builds
	SemanticVersion string                `json:"semanticVersion"`
	Rules           []ReportingDescriptor `json:"rules"`
}

// ReportingDescriptor describes the shared-ownership cycle rule
type ReportingDescriptor struct {
	ID                   string        `json:"id"`   // AC0001
	Name                 string        `json:"name"` // SharedOwnershipCycle
	ShortDescription     MessageString `json:"shortDescription"`
	FullDescription      MessageString `json:"fullDescription,omitempty"`
	Help                 MessageString `json:"help,omitempty"` // how to break a cycle
	HelpURI              string        `json:"helpUri,omitempty"`
	DefaultConfiguration Configuration `json:"defaultConfiguration"`
}

type MessageString struct {
	Text string `json:"text"`
}

type Configuration struct {
	Level string `json:"level"` // cycles are warnings
}

// Result is one cycle. Its primary location is the first access of the
// first link; related locations list every access along the chain.
type Result struct {
	RuleID              string            `json:"ruleId"`
	Message             Message           `json:"message"` // "circular reference detected: A -> B -> A"
	Locations           []Location        `json:"locations"`
	RelatedLocations    []Location        `json:"relatedLocations,omitempty"`
	Level               string            `json:"level,omitempty"`
	PartialFingerprints map[string]string `json:"partialFingerprints,omitempty"` // keyed by file and chain, not line
}

type Message struct {
	Text string `json:"text"`
}

// Location is a member access. Related locations carry an ID and a message
// naming the field, the function and the referenced type.
type Location struct {
	ID               int              `json:"id,omitempty"`
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
	Message          *Message         `json:"message,omitempty"`
}

type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           Region           `json:"region"`
}

// ArtifactLocation is the source file of an access
type ArtifactLocation struct {
	URI       string `json:"uri"` // relative to the working directory when possible
	URIBaseID string `json:"uriBaseId,omitempty"`
}

// Region is the position of the accessed member name
type Region struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
}

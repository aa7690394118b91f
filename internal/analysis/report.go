package analysis

// Count is one row of a frequency table.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DomainStates holds the state distribution of one entity domain.
type DomainStates struct {
	Domain string  `json:"domain"`
	States []Count `json:"states"`
}

// NumericItem is a named numeric reading parsed from a state string.
type NumericItem struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Summary describes a set of numeric readings.
type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"stddev"`
}

// NumericReport is a sorted list of readings with their summary.
type NumericReport struct {
	Items   []NumericItem `json:"items"`
	Summary Summary       `json:"summary"`
}

// Occupancy holds room occupancy and person presence.
type Occupancy struct {
	UnoccupiedRooms string  `json:"unoccupied_rooms"`
	PersonStates    []Count `json:"person_states"`
}

// ConnectivityRow is the connectivity readings of one device.
type ConnectivityRow struct {
	Device string   `json:"device"`
	Values []string `json:"values"`
}

// Connectivity is a device by sensor table. Missing readings are NotReported.
type Connectivity struct {
	Sensors []string          `json:"sensors"`
	Rows    []ConnectivityRow `json:"rows"`
}

// AVSensor is one audio/visual binary sensor.
type AVSensor struct {
	Device       string `json:"device"`
	Sensor       string `json:"sensor"`
	State        string `json:"state"`
	FriendlyName string `json:"friendly_name"`
}

// Location is an entity carrying GPS coordinates.
type Location struct {
	EntityID  string  `json:"entity_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Alert is an entity whose name or state matches an alert keyword.
type Alert struct {
	Entity string `json:"entity"`
	State  string `json:"state"`
}

// Alerts lists matching entities and their state counts, most frequent first.
type Alerts struct {
	Entities    []Alert `json:"entities"`
	StateCounts []Count `json:"state_counts"`
}

// Completeness compares all entity anchors with fully described records.
type Completeness struct {
	TotalEntities       int `json:"total_entities"`
	CompleteRecords     int `json:"complete_records"`
	MissingState        int `json:"missing_state"`
	MissingFriendlyName int `json:"missing_friendly_name"`
}

// NamingIssue is the naming audit result for one entity.
type NamingIssue struct {
	EntityID     string `json:"entity_id"`
	FriendlyName string `json:"friendly_name"`
	Issues       string `json:"issues"`
}

// Group is the entity ids of one domain.
type Group struct {
	Domain    string   `json:"domain"`
	EntityIDs []string `json:"entity_ids"`
}

// Report is the full analysis of one dump.
type Report struct {
	DeviceStates []DomainStates `json:"device_states"`
	EntityTypes  []Count        `json:"entity_types"`
	Battery      NumericReport  `json:"battery"`
	Occupancy    Occupancy      `json:"occupancy"`
	Activity     NumericReport  `json:"activity"`
	Connectivity Connectivity   `json:"connectivity"`
	AudioVisual  []AVSensor     `json:"audio_visual"`
	Locations    []Location     `json:"locations"`
	Alerts       Alerts         `json:"alerts"`
	States       []Count        `json:"states"`
	Completeness Completeness   `json:"completeness"`
	Naming       []NamingIssue  `json:"naming"`
	Groups       []Group        `json:"groups"`
}

// Section names accepted by Select.
const (
	SectionDeviceStates = "device_states"
	SectionEntityTypes  = "entity_types"
	SectionBattery      = "battery"
	SectionOccupancy    = "occupancy"
	SectionActivity     = "activity"
	SectionConnectivity = "connectivity"
	SectionAudioVisual  = "audio_visual"
	SectionLocations    = "locations"
	SectionAlerts       = "alerts"
	SectionStates       = "states"
	SectionCompleteness = "completeness"
	SectionNaming       = "naming"
	SectionGroups       = "groups"
)

// Sections lists every section in report order.
var Sections = []string{
	SectionDeviceStates,
	SectionEntityTypes,
	SectionBattery,
	SectionOccupancy,
	SectionActivity,
	SectionConnectivity,
	SectionAudioVisual,
	SectionLocations,
	SectionAlerts,
	SectionStates,
	SectionCompleteness,
	SectionNaming,
	SectionGroups,
}

// NotReported fills connectivity cells with no reading.
const NotReported = "Not Reported"

package analysis

import "regexp"

// Patterns run over the whole dump text. [^}]*? keeps a match inside one
// object; (?s) lets .*? cross lines where the dump spans several.
var (
	deviceStatePattern  = regexp.MustCompile(`entity_id\s*:\s*"([^"]+)"\s*,\s*state\s*:\s*"([^"]+)"`)
	entityIDPattern     = regexp.MustCompile(`entity_id\s*:\s*"([^"]+)"`)
	batteryPattern      = regexp.MustCompile(`(?s)entity_id\s*:\s*"([^"]+battery[^"]*)".*?state\s*:\s*"([^"]+)"`)
	unoccupiedPattern   = regexp.MustCompile(`entity_id\s*:\s*"sensor\.unoccupied_rooms"[^}]*?state\s*:\s*"([^"]*)"`)
	personPattern       = regexp.MustCompile(`entity_id\s*:\s*"person\.([^"]+)"[^}]*?state\s*:\s*"([^"]+)"`)
	activityPattern     = regexp.MustCompile(`entity_id\s*:\s*"sensor\.([^"]+)"[^}]*?state\s*:\s*"([^"]+)"[^}]*?friendly_name\s*:\s*"([^"]+)"`)
	connectivityPattern = regexp.MustCompile(`entity_id\s*:\s*"sensor\.([^"]*(?:ssid|bssid|connection_type))"[^}]*?state\s*:\s*"([^"]+)"[^}]*?friendly_name\s*:\s*"([^"]+)"`)
	avPattern           = regexp.MustCompile(`entity_id\s*:\s*"binary_sensor\.([^"]*(?:camera|audio_input|audio_output|focus))"[^}]*?state\s*:\s*"([^"]+)"[^}]*?friendly_name\s*:\s*"([^"]+)"`)
	gpsPattern          = regexp.MustCompile(`entity_id\s*:\s*"([^"]+)"[^}]*?latitude\s*:\s*(-?\d+\.\d+)[^}]*?longitude\s*:\s*(-?\d+\.\d+)`)
	namedStatePattern   = regexp.MustCompile(`entity_id\s*:\s*"([^"]+)"[^}]*?state\s*:\s*"([^"]+)"[^}]*?friendly_name\s*:\s*"([^"]+)"`)
	statePattern        = regexp.MustCompile(`entity_id\s*:\s*"([^"]+)"[^}]*?state\s*:\s*"([^"]+)"`)
	completePattern     = regexp.MustCompile(`(?s)entity_id\s*:\s*"([^"]+)"[^}]*?state\s*:\s*"([^"]+)"[^}]*?attributes\s*:\s*\{[^}]*?friendly_name\s*:\s*"([^"]+)"`)
	metadataPattern     = regexp.MustCompile(`(?s)entity_id\s*:\s*"([^"]+)"[^}]*?attributes\s*:\s*\{[^}]*?friendly_name\s*:\s*"([^"]+)"`)
	digitsPattern       = regexp.MustCompile(`\d+`)
)

// Keyword sets used to select entities for a section.
var (
	deviceDomains    = []string{"sensor", "binary_sensor", "light", "device_tracker"}
	activityKeywords = []string{"steps", "distance", "pace", "floors_ascended", "floors_descended"}
	alertKeywords    = []string{"focus", "idle", "alert", "attention", "unavailable", "unknown"}
)

// Package analysis computes exploratory reports over an entity state dump.
//
// Unlike the line-oriented extractor in package entity, the dump is scanned
// as one string with regular expressions. Each report needs only a few fields
// per entity and tolerates records that do not parse as a whole.
package analysis

import (
	"slices"
	"strconv"
	"strings"
	"unicode"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Analyze computes every report section for text.
func Analyze(text string) *Report {
	return &Report{
		DeviceStates: deviceStates(text),
		EntityTypes:  entityTypes(text),
		Battery:      battery(text),
		Occupancy:    occupancy(text),
		Activity:     activity(text),
		Connectivity: connectivity(text),
		AudioVisual:  audioVisual(text),
		Locations:    locations(text),
		Alerts:       alerts(text),
		States:       states(text),
		Completeness: completeness(text),
		Naming:       naming(text),
		Groups:       groups(text),
	}
}

// Domain returns the part of an entity id before the first dot.
func Domain(entityID string) string {
	domain, _, _ := strings.Cut(entityID, ".")
	return domain
}

func deviceStates(text string) []DomainStates {
	perDomain := newOrderedMap[*counter]()
	for _, m := range deviceStatePattern.FindAllStringSubmatch(text, -1) {
		domain := Domain(m[1])
		if !slices.Contains(deviceDomains, domain) {
			continue
		}
		c, ok := perDomain.get(domain)
		if !ok {
			c = newCounter()
			perDomain.set(domain, c)
		}
		c.add(m[2])
	}

	out := make([]DomainStates, 0, perDomain.len())
	for _, domain := range perDomain.keys {
		c, _ := perDomain.get(domain)
		out = append(out, DomainStates{Domain: domain, States: c.counts()})
	}
	return out
}

func entityTypes(text string) []Count {
	c := newCounter()
	for _, m := range entityIDPattern.FindAllStringSubmatch(text, -1) {
		c.add(Domain(m[1]))
	}
	return c.counts()
}

func battery(text string) NumericReport {
	var items []NumericItem
	for _, m := range batteryPattern.FindAllStringSubmatch(text, -1) {
		if v, ok := firstInt(m[2]); ok {
			items = append(items, NumericItem{Name: m[1], Value: v})
		}
	}
	slices.SortStableFunc(items, func(a, b NumericItem) int { return a.Value - b.Value })
	return NumericReport{Items: items, Summary: summarize(items)}
}

func occupancy(text string) Occupancy {
	occ := Occupancy{UnoccupiedRooms: "No data"}
	if m := unoccupiedPattern.FindStringSubmatch(text); m != nil {
		occ.UnoccupiedRooms = m[1]
	}

	c := newCounter()
	for _, m := range personPattern.FindAllStringSubmatch(text, -1) {
		c.add(m[2])
	}
	occ.PersonStates = c.counts()
	return occ
}

func activity(text string) NumericReport {
	var items []NumericItem
	for _, m := range activityPattern.FindAllStringSubmatch(text, -1) {
		if !containsAny(strings.ToLower(m[1]), activityKeywords) {
			continue
		}
		if v, ok := firstInt(m[2]); ok {
			items = append(items, NumericItem{Name: m[3], Value: v})
		}
	}
	slices.SortStableFunc(items, func(a, b NumericItem) int { return b.Value - a.Value })
	return NumericReport{Items: items, Summary: summarize(items)}
}

func connectivity(text string) Connectivity {
	devices := newOrderedMap[map[string]string]()
	sensors := newOrderedMap[struct{}]()

	for _, m := range connectivityPattern.FindAllStringSubmatch(text, -1) {
		sensor, state := m[1], m[2]
		device, ok := firstWord(m[3])
		if !ok {
			continue
		}
		row, ok := devices.get(device)
		if !ok {
			row = make(map[string]string)
			devices.set(device, row)
		}
		row[sensor] = state
		sensors.set(sensor, struct{}{})
	}

	out := Connectivity{Sensors: sensors.keys}
	for _, device := range devices.keys {
		row, _ := devices.get(device)
		values := make([]string, len(sensors.keys))
		for i, sensor := range sensors.keys {
			if v, ok := row[sensor]; ok {
				values[i] = v
			} else {
				values[i] = NotReported
			}
		}
		out.Rows = append(out.Rows, ConnectivityRow{Device: device, Values: values})
	}
	return out
}

func audioVisual(text string) []AVSensor {
	var out []AVSensor
	for _, m := range avPattern.FindAllStringSubmatch(text, -1) {
		device, ok := firstWord(m[3])
		if !ok {
			continue
		}
		out = append(out, AVSensor{Device: device, Sensor: m[1], State: m[2], FriendlyName: m[3]})
	}
	return out
}

func locations(text string) []Location {
	var out []Location
	for _, m := range gpsPattern.FindAllStringSubmatch(text, -1) {
		lat, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		lon, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			continue
		}
		out = append(out, Location{EntityID: m[1], Latitude: lat, Longitude: lon})
	}
	return out
}

func alerts(text string) Alerts {
	var out Alerts
	c := newCounter()
	for _, m := range namedStatePattern.FindAllStringSubmatch(text, -1) {
		entityID, state, name := m[1], m[2], m[3]
		if !containsAny(strings.ToLower(name), alertKeywords) && !containsAny(strings.ToLower(state), alertKeywords) {
			continue
		}
		out.Entities = append(out.Entities, Alert{Entity: Domain(entityID) + " " + name, State: state})
		c.add(state)
	}

	out.StateCounts = c.counts()
	slices.SortStableFunc(out.StateCounts, func(a, b Count) int { return b.Count - a.Count })
	return out
}

func states(text string) []Count {
	c := newCounter()
	for _, m := range statePattern.FindAllStringSubmatch(text, -1) {
		c.add(m[2])
	}
	return c.counts()
}

func completeness(text string) Completeness {
	complete := len(completePattern.FindAllStringIndex(text, -1))
	total := len(entityIDPattern.FindAllStringIndex(text, -1))
	return Completeness{
		TotalEntities:       total,
		CompleteRecords:     complete,
		MissingState:        total - complete,
		MissingFriendlyName: total - complete,
	}
}

func naming(text string) []NamingIssue {
	var out []NamingIssue
	for _, m := range metadataPattern.FindAllStringSubmatch(text, -1) {
		out = append(out, NamingIssue{EntityID: m[1], FriendlyName: m[2], Issues: auditName(m[1], m[2])})
	}
	return out
}

// auditName lists naming problems of a friendly name, or "OK".
func auditName(entityID, name string) string {
	var issues []string
	if strings.ContainsAny(name, "_-") {
		issues = append(issues, "Contains special characters")
	}
	if len(strings.Fields(name)) < 2 {
		issues = append(issues, "Too short")
	}
	if !strings.ContainsFunc(name, unicode.IsLetter) {
		issues = append(issues, "No letters")
	}
	if !strings.Contains(strings.ToLower(strings.TrimSpace(name)), Domain(entityID)) {
		issues = append(issues, "Type not in name")
	}
	if len(issues) == 0 {
		return "OK"
	}
	return strings.Join(issues, ", ")
}

func groups(text string) []Group {
	byDomain := newOrderedMap[[]string]()
	for _, m := range metadataPattern.FindAllStringSubmatch(text, -1) {
		domain := Domain(m[1])
		ids, _ := byDomain.get(domain)
		byDomain.set(domain, append(ids, m[1]))
	}

	out := make([]Group, 0, byDomain.len())
	for _, domain := range byDomain.keys {
		ids, _ := byDomain.get(domain)
		out = append(out, Group{Domain: domain, EntityIDs: ids})
	}
	return out
}

// summarize computes gonum statistics over the item values.
func summarize(items []NumericItem) Summary {
	if len(items) == 0 {
		return Summary{}
	}

	values := make([]float64, len(items))
	for i, item := range items {
		values[i] = float64(item.Value)
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	s := Summary{
		Count:  len(values),
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		Mean:   stat.Mean(values, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
	}
	if len(values) > 1 {
		s.StdDev = stat.StdDev(values, nil)
	}
	return s
}

func firstInt(s string) (int, bool) {
	digits := digitsPattern.FindString(s)
	if digits == "" {
		return 0, false
	}
	v, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return v, true
}

func firstWord(s string) (string, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

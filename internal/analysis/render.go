package analysis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/GriffinCanCode/roomdata/internal/ui"
	"github.com/bytedance/sonic"
)

// Tables renders the requested sections of r as terminal tables. An empty
// selection renders every section.
func (r *Report) Tables(selected []string) ([]ui.Section, error) {
	if len(selected) == 0 {
		selected = Sections
	}

	var out []ui.Section
	for _, name := range selected {
		switch name {
		case SectionDeviceStates:
			for _, d := range r.DeviceStates {
				out = append(out, ui.Section{
					Title:   fmt.Sprintf("%s Device State Distribution", capitalize(d.Domain)),
					Headers: []string{"State", "Count"},
					Rows:    countRows(d.States),
				})
			}
			if len(r.DeviceStates) == 0 {
				out = append(out, ui.Section{Title: "Device State Distribution"})
			}
		case SectionEntityTypes:
			out = append(out, ui.Section{
				Title:   "Entity Type Distribution",
				Headers: []string{"Entity Type", "Count"},
				Rows:    countRows(r.EntityTypes),
				Empty:   "No entity_ids were found with current patterns.",
			})
		case SectionBattery:
			out = append(out, numericSection("Device Battery Levels", "Device", "Battery Level (%)", r.Battery)...)
		case SectionOccupancy:
			out = append(out,
				ui.Section{
					Title:   "Unoccupied Rooms",
					Headers: []string{"Sensor", "State"},
					Rows:    [][]string{{"sensor.unoccupied_rooms", r.Occupancy.UnoccupiedRooms}},
				},
				ui.Section{
					Title:   "Person State Summary",
					Headers: []string{"State", "Count"},
					Rows:    countRows(r.Occupancy.PersonStates),
				},
			)
		case SectionActivity:
			out = append(out, numericSection("Sensor Activity Metrics", "Sensor", "Activity Value", r.Activity)...)
		case SectionConnectivity:
			var rows [][]string
			for _, row := range r.Connectivity.Rows {
				rows = append(rows, append([]string{row.Device}, row.Values...))
			}
			out = append(out, ui.Section{
				Title:   "Device Connectivity Status",
				Headers: append([]string{"Device"}, r.Connectivity.Sensors...),
				Rows:    rows,
			})
		case SectionAudioVisual:
			var rows [][]string
			for _, s := range r.AudioVisual {
				rows = append(rows, []string{s.Device, s.Sensor, s.State, s.FriendlyName})
			}
			out = append(out, ui.Section{
				Title:   "Audio/Visual Sensor Status",
				Headers: []string{"Device", "Sensor", "State", "Friendly Name"},
				Rows:    rows,
			})
		case SectionLocations:
			var rows [][]string
			for _, l := range r.Locations {
				rows = append(rows, []string{l.EntityID, formatFloat(l.Latitude), formatFloat(l.Longitude)})
			}
			out = append(out, ui.Section{
				Title:   "Geolocation of Entities",
				Headers: []string{"Entity ID", "Latitude", "Longitude"},
				Rows:    rows,
			})
		case SectionAlerts:
			out = append(out, ui.Section{
				Title:   "Alert and Focus State Distribution",
				Headers: []string{"State", "Count"},
				Rows:    countRows(r.Alerts.StateCounts),
			})
		case SectionStates:
			out = append(out, ui.Section{
				Title:   "Entity State Distribution Across All Entities",
				Headers: []string{"State", "Count"},
				Rows:    countRows(r.States),
			})
		case SectionCompleteness:
			c := r.Completeness
			out = append(out, ui.Section{
				Title:   "Data Completeness Audit",
				Headers: []string{"Metric", "Count"},
				Rows: [][]string{
					{"Total Entities", strconv.Itoa(c.TotalEntities)},
					{"Complete Records", strconv.Itoa(c.CompleteRecords)},
					{"Missing State", strconv.Itoa(c.MissingState)},
					{"Missing Friendly Name", strconv.Itoa(c.MissingFriendlyName)},
				},
			})
		case SectionNaming:
			var rows [][]string
			for _, n := range r.Naming {
				rows = append(rows, []string{n.EntityID, n.FriendlyName, n.Issues})
			}
			out = append(out, ui.Section{
				Title:   "Sensor Naming Audit",
				Headers: []string{"Entity ID", "Friendly Name", "Naming Issues"},
				Rows:    rows,
			})
		case SectionGroups:
			var rows [][]string
			for _, g := range r.Groups {
				rows = append(rows, []string{g.Domain, strconv.Itoa(len(g.EntityIDs)), strings.Join(g.EntityIDs, ", ")})
			}
			out = append(out, ui.Section{
				Title:   "Entities Grouped by Type",
				Headers: []string{"Type", "Count", "Entity IDs"},
				Rows:    rows,
			})
		default:
			return nil, fmt.Errorf("unknown section %q (valid: %s)", name, strings.Join(Sections, ", "))
		}
	}
	return out, nil
}

func numericSection(title, nameHeader, valueHeader string, r NumericReport) []ui.Section {
	var rows [][]string
	for _, item := range r.Items {
		rows = append(rows, []string{item.Name, strconv.Itoa(item.Value)})
	}
	sections := []ui.Section{{Title: title, Headers: []string{nameHeader, valueHeader}, Rows: rows}}
	if r.Summary.Count > 0 {
		s := r.Summary
		sections = append(sections, ui.Section{
			Title:   title + " Summary",
			Headers: []string{"Count", "Min", "Max", "Mean", "Median", "Std Dev"},
			Rows: [][]string{{
				strconv.Itoa(s.Count),
				formatFloat(s.Min),
				formatFloat(s.Max),
				formatFloat(s.Mean),
				formatFloat(s.Median),
				formatFloat(s.StdDev),
			}},
		})
	}
	return sections
}

func countRows(counts []Count) [][]string {
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{c.Label, strconv.Itoa(c.Count)})
	}
	return rows
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

var jsonAPI = sonic.Config{EscapeHTML: false}.Froze()

// JSON renders the whole report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	data, err := jsonAPI.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return append(data, '\n'), nil
}

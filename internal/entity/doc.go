// Package entity extracts entity records from loosely formatted dumps of
// Home Assistant state objects.
//
// The dumps are JavaScript-like object listings rather than valid JSON, so the
// extractor works line by line instead of parsing:
//   - a record opens on a line of the form entity_id: "<value>"
//   - an attributes block opens on a line starting with "attributes"
//   - braces are counted inside the attributes block only
//   - a record closes on a line that is exactly "}" or "},"
//
// Records that never close are dropped. Lines that do not fit the expected
// shape are skipped without error.
//
// Example Usage:
//
//	records, err := entity.ExtractFile("mockup-Room_entity_data.json")
//	if err != nil {
//	    return err
//	}
//	out, _ := entity.MarshalRecords(records)
package entity

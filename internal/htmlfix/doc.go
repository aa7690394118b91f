/*
Package htmlfix repairs JSON carried in HTML attributes.

Web components on the poster pages take structured data through attributes
such as visuals="[...]" or rooms="[...]". Hand-edited pages accumulate stray
whitespace and pretty-printed JSON in those values. The Fixer trims each
configured attribute, validates it and writes back the compact form. Values
that are not valid JSON are reported and left untouched.

# Targets

Which attributes are inspected is controlled by a tag to attribute list map:

	timeline-event-card: [visuals, key-elements]
	sticky-note:         [items]
	floor-plan:          [rooms]
	tech-diagram:        [nodes, connections]

LoadTargets reads an override from a YAML or TOML file.

# Check mode

Check runs XPath queries over a document and reports how many attribute
values are valid, invalid or not yet compact. It never modifies files.
*/
package htmlfix

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/GriffinCanCode/roomdata/internal/hass"
	"github.com/GriffinCanCode/roomdata/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newFetchCmd(a *app) *cobra.Command {
	var (
		url           string
		out           string
		filter        string
		locationsFile string
		mappingFile   string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch live entity states from Home Assistant",
		Long: `Fetch every entity state from the Home Assistant REST API, save the raw
response and print a domain breakdown and naming pattern report.

The access token is read from ROOMDATA_HASS_TOKEN.

Examples:
  roomdata fetch
  roomdata fetch --filter binary_sensor
  roomdata fetch --locations ENTITY-LOCATIONS.json --mapping ENTITY-LOCATION-MAPPING.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := hass.DefaultOptions(a.cfg.Hass.URL, a.cfg.Hass.Token)
			if cmd.Flags().Changed("url") {
				opts.URL = url
			}
			opts.Timeout = a.cfg.Hass.Timeout
			opts.RetryMax = a.cfg.Hass.Retries
			opts.RequestsPerSecond = a.cfg.Hass.RequestsPerSecond
			opts.Metrics = a.metrics
			opts.Logger = a.log

			client, err := hass.NewClient(opts)
			if err != nil {
				return err
			}

			a.log.Info("Connecting to Home Assistant", zap.String("url", opts.URL))
			entities, raw, err := client.States(cmd.Context())
			if err != nil {
				return err
			}
			if err := hass.WriteRaw(out, raw); err != nil {
				return err
			}
			a.log.Info("Saved raw entities", zap.String("path", out), zap.Int("entities", len(entities)))

			w := cmd.OutOrStdout()
			if err := printFetchReport(w, entities, filter); err != nil {
				return err
			}

			if locationsFile == "" {
				return nil
			}
			locations, err := hass.LoadLocations(locationsFile)
			if err != nil {
				return err
			}
			matches := hass.MatchLocations(entities, locations)
			if err := hass.WriteJSON(mappingFile, matches); err != nil {
				return err
			}
			fmt.Fprintf(w, "\nEntity-location matches: %d/%d entities matched\n", hass.MatchedEntities(matches), len(entities))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&url, "url", "", "Home Assistant API base URL (env ROOMDATA_HASS_URL)")
	flags.StringVar(&out, "out", "HA-ENTITIES-RAW.json", "file for the raw entity states")
	flags.StringVar(&filter, "filter", "", "entity id prefix for the naming pattern report (default sensor)")
	flags.StringVar(&locationsFile, "locations", "", "JSON array of {id, name} locations to match entities against")
	flags.StringVar(&mappingFile, "mapping", "ENTITY-LOCATION-MAPPING.json", "file for entity-location matches")
	return cmd
}

func printFetchReport(w io.Writer, entities []hass.Entity, filter string) error {
	groups := hass.GroupByDomain(entities)

	domainRows := make([][]string, 0, len(groups))
	domains := make([]string, 0, len(groups))
	for _, g := range groups {
		domains = append(domains, g.Domain)
		domainRows = append(domainRows, []string{g.Domain, strconv.Itoa(len(g.Entities)), g.Summary()})
	}

	var patternRows [][]string
	for _, p := range hass.NamingPatterns(entities, filter) {
		patternRows = append(patternRows, []string{p.Pattern, strconv.Itoa(p.Count)})
	}

	_, err := io.WriteString(w, ui.RenderSections([]ui.Section{
		{
			Title:   fmt.Sprintf("Entity Breakdown by Domain (%d entities)", len(entities)),
			Headers: []string{"Domain", "Entities", "IDs"},
			Rows:    domainRows,
		},
		{
			Title:   "Location Patterns (" + strings.Join(domains, ", ") + ")",
			Headers: []string{"Pattern", "Matches"},
			Rows:    patternRows,
		},
	}))
	return err
}

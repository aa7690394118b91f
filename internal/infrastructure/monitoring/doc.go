/*
Package monitoring provides metrics collection for roomdata runs.

# Overview

roomdata is a short-lived CLI, so metrics are not scraped from an endpoint.
Each run collects counters on a private Prometheus registry and, when a
metrics file is configured, writes them in the text exposition format for
the node exporter textfile collector.

# Features

- Extraction metrics (lines scanned, records emitted and dropped)
- Fixer metrics (attributes fixed, invalid attributes, files written)
- Home Assistant request metrics by status code
- Run duration per command

# Usage

	metrics := monitoring.NewMetrics()
	metrics.ObserveExtraction(stats.LinesScanned, stats.RecordsEmitted, stats.RecordsDropped)
	metrics.Finish("extract")
	if err := metrics.WriteTextfile(cfg.Metrics.File); err != nil {
		logger.Warn("metrics not written", zap.Error(err))
	}
*/
package monitoring

/*
Package types defines the data structures shared across tally.

# Overview

  - HistoryItem: one recorded change of the counter (event label, previous
    value, new value)
  - Snapshot: the durable subset of the counter state (value, step, history)

History slices are ordered newest first everywhere they appear.

# Field Tags

All types carry JSON and YAML tags. The JSON names (event, previous_value,
value) are also the CSV column names used for import and export.

	{
	  "value": 5,
	  "step": 5,
	  "history": [
	    {"event": "increment", "previous_value": 0, "value": 5}
	  ]
	}
*/
package types

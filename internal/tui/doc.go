/*
Package tui implements the terminal user interface for tally.

# Architecture

The TUI follows the Bubble Tea framework's Model-Update-View pattern, with
the counter reducer as the single source of truth:
  - Key presses are matched through the keybinds.Registry and turned into
    counter events
  - dispatch runs the event through counter.Reduce and stores the result
  - The returned effects are interpreted in effects.go

# Effects

Persist is written to the store before Update returns, so saves reach the
backend in the order the events happened. Schedule becomes tea.Tick.
Random steps, file reads and clipboard writes run as commands and report
back through eventMsg, statusMsg or errorMsg.

# Live sync

Run starts a second goroutine (errgroup) that reads Store.Watch and sends
snapshots written by other processes into the program as snapshotMsg.

# Modes

  - ModeNormal: counter view and history
  - ModeStepInput: editing the step
  - ModeModal: welcome, sign in and username dialogs
  - ModeFilePicker: choosing a CSV to import
  - ModeHistoryFilter: fuzzy filtering the history
  - ModeHelp: keybinding reference
*/
package tui

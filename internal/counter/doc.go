/*
Package counter holds the state machine behind tally.

Reduce is a pure function from (event, state) to (state, effects). It never
performs I/O. Anything with a side effect (persisting, timers, randomness,
reading files, the clipboard) is returned as an Effect value and carried out
by a driver: the TUI interprets effects asynchronously as Bubble Tea
commands, the CLI interprets them synchronously. Results re-enter Reduce as
ordinary events.

# History

A HistoryItem is only recorded when an event actually changes the value
(see AppendIfChanged). History is ordered newest first and is only ever
replaced wholesale: by ResetHistory, a CSV import or an external snapshot.

# Step input

ChangeStep accepts raw text. Empty text means 0, text outside [0, 100] is
clamped and reported, and anything that is not an integer is reported and
ignored. Reported errors schedule a ClearError 1500ms later. Timers are
never cancelled, so a ClearError can clear a newer error; this is accepted.

# Modals

Modal is a closed sum type (Welcome, FieldForm, AnotherFieldForm).
ModalEvent is only applied while a dialog is open, and field updates that do
not match the open variant are ignored.
*/
package counter

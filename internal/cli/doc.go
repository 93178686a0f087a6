// Package cli implements the non-interactive tally commands.
//
// Runner applies counter events and performs their effects inline. Timers
// and the file picker have no meaning outside the terminal UI and are
// dropped. Exports go to the command's output instead of the clipboard.
package cli

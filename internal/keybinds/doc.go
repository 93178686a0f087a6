/*
Package keybinds provides customizable keyboard binding management.

Bindings live in contexts (global, normal, step_input, modal, file_picker,
history_filter, help). Match looks in the active context first and falls
back to global.

User overrides are read from keybinds.json in the configuration directory.
The file may contain comments:

	// tally keybindings
	{
	  "version": "1.0",
	  "normal": {
	    "up": "increment",
	    "down": "decrement",
	    "k": "none"
	  }
	}

Ctrl/Alt+Up and Ctrl/Alt+Down are not registry bindings. The UI passes them
to the counter as raw key presses.
*/
package keybinds

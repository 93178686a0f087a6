package keybinds

// Action represents a user action that can be triggered by a keybinding
type Action string

// Context represents the context in which keybindings are active
type Context string

const (
	ContextGlobal        Context = "global"         // Available everywhere
	ContextNormal        Context = "normal"         // Counter view
	ContextStepInput     Context = "step_input"     // Editing the step
	ContextModal         Context = "modal"          // Any open modal
	ContextFilePicker    Context = "file_picker"    // CSV import picker
	ContextHistoryFilter Context = "history_filter" // Fuzzy history filter
	ContextHelp          Context = "help"           // Help overlay
)

const (
	// Global actions
	ActionQuit      Action = "quit"
	ActionQuitForce Action = "quit_force"

	// Counter actions
	ActionIncrement    Action = "increment"
	ActionDecrement    Action = "decrement"
	ActionReset        Action = "reset"
	ActionResetHistory Action = "reset_history"

	// Step actions
	ActionEditStep   Action = "edit_step"
	ActionResetStep  Action = "reset_step"
	ActionRandomStep Action = "random_step"

	// History actions
	ActionImportCSV     Action = "import_csv"
	ActionExportCSV     Action = "export_csv"
	ActionFilterHistory Action = "filter_history"
	ActionScrollUp      Action = "scroll_up"
	ActionScrollDown    Action = "scroll_down"

	// Modal launchers
	ActionOpenWelcome     Action = "open_welcome"
	ActionOpenFieldForm   Action = "open_field_form"
	ActionOpenAnotherForm Action = "open_another_form"
	ActionOpenHelp        Action = "open_help"

	// Modal and input actions
	ActionCloseModal Action = "close_modal"
	ActionNextField  Action = "next_field"
	ActionPrevField  Action = "prev_field"
	ActionTextSubmit Action = "text_submit"
	ActionTextCancel Action = "text_cancel"

	// ActionNone removes a default binding when used in keybinds.json
	ActionNone Action = "none"
)

// AllContexts lists every context in display order
var AllContexts = []Context{
	ContextGlobal,
	ContextNormal,
	ContextStepInput,
	ContextModal,
	ContextFilePicker,
	ContextHistoryFilter,
	ContextHelp,
}

// knownActions is used to validate user configuration
var knownActions = map[Action]bool{
	ActionQuit:            true,
	ActionQuitForce:       true,
	ActionIncrement:       true,
	ActionDecrement:       true,
	ActionReset:           true,
	ActionResetHistory:    true,
	ActionEditStep:        true,
	ActionResetStep:       true,
	ActionRandomStep:      true,
	ActionImportCSV:       true,
	ActionExportCSV:       true,
	ActionFilterHistory:   true,
	ActionScrollUp:        true,
	ActionScrollDown:      true,
	ActionOpenWelcome:     true,
	ActionOpenFieldForm:   true,
	ActionOpenAnotherForm: true,
	ActionOpenHelp:        true,
	ActionCloseModal:      true,
	ActionNextField:       true,
	ActionPrevField:       true,
	ActionTextSubmit:      true,
	ActionTextCancel:      true,
	ActionNone:            true,
}

// IsKnownAction reports whether action is one the UI understands
func IsKnownAction(action Action) bool {
	return knownActions[action]
}

// IsKnownContext reports whether context is one the UI uses
func IsKnownContext(context Context) bool {
	for _, c := range AllContexts {
		if c == context {
			return true
		}
	}
	return false
}

// Description returns a short label for help screens
func (a Action) Description() string {
	switch a {
	case ActionQuit:
		return "quit"
	case ActionQuitForce:
		return "force quit"
	case ActionIncrement:
		return "add step"
	case ActionDecrement:
		return "subtract step"
	case ActionReset:
		return "reset value"
	case ActionResetHistory:
		return "clear history"
	case ActionEditStep:
		return "edit step"
	case ActionResetStep:
		return "reset step"
	case ActionRandomStep:
		return "random step"
	case ActionImportCSV:
		return "import CSV"
	case ActionExportCSV:
		return "copy history as CSV"
	case ActionFilterHistory:
		return "filter history"
	case ActionScrollUp:
		return "scroll history up"
	case ActionScrollDown:
		return "scroll history down"
	case ActionOpenWelcome:
		return "welcome"
	case ActionOpenFieldForm:
		return "login form"
	case ActionOpenAnotherForm:
		return "username form"
	case ActionOpenHelp:
		return "help"
	case ActionCloseModal:
		return "close"
	case ActionNextField:
		return "next field"
	case ActionPrevField:
		return "previous field"
	case ActionTextSubmit:
		return "submit"
	case ActionTextCancel:
		return "cancel"
	}
	return string(a)
}

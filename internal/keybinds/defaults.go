package keybinds

// NewDefaultRegistry creates a registry with all default keybindings
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	registerGlobalBindings(r)
	registerNormalModeBindings(r)
	registerStepInputBindings(r)
	registerModalBindings(r)
	registerFilePickerBindings(r)
	registerHistoryFilterBindings(r)
	registerHelpBindings(r)

	return r
}

func registerGlobalBindings(r *Registry) {
	r.Register(ContextGlobal, "ctrl+c", ActionQuitForce)
}

// registerNormalModeBindings sets up the counter view. ctrl/alt+up/down
// are handled as raw key presses and are not listed here.
func registerNormalModeBindings(r *Registry) {
	r.RegisterMultiple(ContextNormal, []string{"+", "k"}, ActionIncrement)
	r.RegisterMultiple(ContextNormal, []string{"-", "j"}, ActionDecrement)
	r.Register(ContextNormal, "0", ActionReset)
	r.Register(ContextNormal, "X", ActionResetHistory)

	r.Register(ContextNormal, "s", ActionEditStep)
	r.Register(ContextNormal, "1", ActionResetStep)
	r.Register(ContextNormal, "r", ActionRandomStep)

	r.Register(ContextNormal, "i", ActionImportCSV)
	r.Register(ContextNormal, "e", ActionExportCSV)
	r.Register(ContextNormal, "/", ActionFilterHistory)
	r.Register(ContextNormal, "pgup", ActionScrollUp)
	r.Register(ContextNormal, "pgdown", ActionScrollDown)

	r.Register(ContextNormal, "w", ActionOpenWelcome)
	r.Register(ContextNormal, "f", ActionOpenFieldForm)
	r.Register(ContextNormal, "a", ActionOpenAnotherForm)
	r.Register(ContextNormal, "?", ActionOpenHelp)

	r.Register(ContextNormal, "q", ActionQuit)
}

func registerStepInputBindings(r *Registry) {
	r.Register(ContextStepInput, "enter", ActionTextSubmit)
	r.Register(ContextStepInput, "esc", ActionTextCancel)
}

func registerModalBindings(r *Registry) {
	r.Register(ContextModal, "esc", ActionCloseModal)
	r.Register(ContextModal, "tab", ActionNextField)
	r.Register(ContextModal, "shift+tab", ActionPrevField)
}

func registerFilePickerBindings(r *Registry) {
	r.Register(ContextFilePicker, "esc", ActionTextCancel)
}

func registerHistoryFilterBindings(r *Registry) {
	r.Register(ContextHistoryFilter, "enter", ActionTextSubmit)
	r.Register(ContextHistoryFilter, "esc", ActionTextCancel)
}

func registerHelpBindings(r *Registry) {
	r.RegisterMultiple(ContextHelp, []string{"esc", "?", "q"}, ActionCloseModal)
}

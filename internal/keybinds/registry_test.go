package keybinds

import (
	"reflect"
	"testing"
)

func TestRegistry_Match(t *testing.T) {
	r := NewDefaultRegistry()

	tests := []struct {
		name    string
		context Context
		key     string
		want    Action
		found   bool
	}{
		{"increment plus", ContextNormal, "+", ActionIncrement, true},
		{"increment k", ContextNormal, "k", ActionIncrement, true},
		{"decrement j", ContextNormal, "j", ActionDecrement, true},
		{"reset", ContextNormal, "0", ActionReset, true},
		{"reset history", ContextNormal, "X", ActionResetHistory, true},
		{"random step", ContextNormal, "r", ActionRandomStep, true},
		{"global fallback", ContextStepInput, "ctrl+c", ActionQuitForce, true},
		{"modal close", ContextModal, "esc", ActionCloseModal, true},
		{"modal tab", ContextModal, "tab", ActionNextField, true},
		{"normal key not in modal", ContextModal, "k", "", false},
		{"unbound", ContextNormal, "z", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Match(tt.context, tt.key)
			if ok != tt.found || got != tt.want {
				t.Errorf("Match(%s, %q) = %q, %v; want %q, %v", tt.context, tt.key, got, ok, tt.want, tt.found)
			}
		})
	}
}

func TestRegistry_ContextOverridesGlobal(t *testing.T) {
	r := NewRegistry()
	r.Register(ContextGlobal, "q", ActionQuit)
	r.Register(ContextHelp, "q", ActionCloseModal)

	if got, _ := r.Match(ContextHelp, "q"); got != ActionCloseModal {
		t.Errorf("help q = %q, want %q", got, ActionCloseModal)
	}
	if got, _ := r.Match(ContextNormal, "q"); got != ActionQuit {
		t.Errorf("normal q = %q, want %q", got, ActionQuit)
	}
}

func TestRegistry_GetBindingString(t *testing.T) {
	r := NewDefaultRegistry()

	if got := r.GetBindingString(ContextNormal, ActionIncrement); got != "+, k" {
		t.Errorf("GetBindingString(increment) = %q, want %q", got, "+, k")
	}
	if got := r.GetBindingString(ContextNormal, ActionQuitForce); got != "ctrl+c" {
		t.Errorf("GetBindingString(quit_force) = %q, want %q", got, "ctrl+c")
	}
	if got := r.GetBindingString(ContextNormal, ActionNextField); got != "unbound" {
		t.Errorf("GetBindingString(next_field) = %q, want unbound", got)
	}
}

func TestRegistry_ListBindings(t *testing.T) {
	r := NewRegistry()
	r.Register(ContextNormal, "k", ActionIncrement)
	r.Register(ContextNormal, "j", ActionDecrement)
	r.Register(ContextGlobal, "ctrl+c", ActionQuitForce)

	want := []Binding{
		{Key: "j", Action: ActionDecrement, Context: ContextNormal},
		{Key: "k", Action: ActionIncrement, Context: ContextNormal},
		{Key: "ctrl+c", Action: ActionQuitForce, Context: ContextGlobal},
	}
	if got := r.ListBindings(ContextNormal); !reflect.DeepEqual(got, want) {
		t.Errorf("ListBindings() = %v, want %v", got, want)
	}
}

func TestRegistry_CloneIsIndependent(t *testing.T) {
	r := NewDefaultRegistry()
	clone := r.Clone()
	clone.Unregister(ContextNormal, "k")

	if !r.HasBinding(ContextNormal, "k") {
		t.Error("unregister on clone changed the original")
	}
	if clone.HasBinding(ContextNormal, "k") {
		t.Error("clone still has k")
	}
}

func TestRegistry_Merge(t *testing.T) {
	r := NewDefaultRegistry()
	other := NewRegistry()
	other.Register(ContextNormal, "k", ActionDecrement)
	r.Merge(other)

	if got, _ := r.Match(ContextNormal, "k"); got != ActionDecrement {
		t.Errorf("after merge k = %q, want %q", got, ActionDecrement)
	}
}

func TestDefaultRegistry_AllActionsKnown(t *testing.T) {
	r := NewDefaultRegistry()
	for _, context := range AllContexts {
		for key, action := range r.bindings[context] {
			if !IsKnownAction(action) {
				t.Errorf("%s/%s bound to unknown action %q", context, key, action)
			}
		}
	}
}

package counter

// ModalKind identifies a modal variant
type ModalKind int

const (
	ModalWelcome ModalKind = iota
	ModalFieldForm
	ModalAnotherFieldForm
)

// String returns the kind name used in logs and keybind help
func (k ModalKind) String() string {
	switch k {
	case ModalWelcome:
		return "welcome"
	case ModalFieldForm:
		return "field_form"
	case ModalAnotherFieldForm:
		return "another_field_form"
	}
	return "unknown"
}

// Modal is the open dialog. The set of implementations is closed.
type Modal interface {
	Kind() ModalKind
	isModal()
}

// Welcome is a dialog with no fields
type Welcome struct{}

// FieldForm is the login/password example form
type FieldForm struct {
	Login    string
	Password string
}

// AnotherFieldForm is the username example form
type AnotherFieldForm struct {
	Username string
}

func (Welcome) Kind() ModalKind          { return ModalWelcome }
func (FieldForm) Kind() ModalKind        { return ModalFieldForm }
func (AnotherFieldForm) Kind() ModalKind { return ModalAnotherFieldForm }

func (Welcome) isModal()          {}
func (FieldForm) isModal()        {}
func (AnotherFieldForm) isModal() {}

// NewModal returns an empty dialog of the given kind
func NewModal(kind ModalKind) Modal {
	switch kind {
	case ModalFieldForm:
		return FieldForm{}
	case ModalAnotherFieldForm:
		return AnotherFieldForm{}
	default:
		return Welcome{}
	}
}

// ModalMsg is a field-level update for an open dialog
type ModalMsg interface {
	isModalMsg()
}

type LoginChanged struct{ Text string }
type PasswordChanged struct{ Text string }
type UsernameChanged struct{ Text string }

func (LoginChanged) isModalMsg()    {}
func (PasswordChanged) isModalMsg() {}
func (UsernameChanged) isModalMsg() {}

// UpdateModal applies msg to modal. Pairs that do not belong together
// return the modal unchanged.
func UpdateModal(msg ModalMsg, modal Modal) Modal {
	switch m := modal.(type) {
	case FieldForm:
		switch msg := msg.(type) {
		case LoginChanged:
			m.Login = msg.Text
			return m
		case PasswordChanged:
			m.Password = msg.Text
			return m
		}
	case AnotherFieldForm:
		if msg, ok := msg.(UsernameChanged); ok {
			m.Username = msg.Text
			return m
		}
	}
	return modal
}

package views

// ViewState holds the terminal size and status message shared by the
// browser and help views. View models embed it.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize records the current terminal dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage shows a status message, styled as an error when isErr is set
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage drops the status message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

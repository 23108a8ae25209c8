package feedback

import (
	"errors"
	"fmt"

	"qbank/client"
)

// Toast is a short-lived notification.
type Toast struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// ErrorBanner is the inline error area under a form. The zero value is hidden.
type ErrorBanner struct {
	Visible bool
	Message string
}

// ShowError builds a visible banner for err, or a hidden one when err is nil.
func ShowError(err error) ErrorBanner {
	if err == nil {
		return ErrorBanner{}
	}
	return ErrorBanner{Visible: true, Message: Message(err)}
}

// Message turns an error into the text an operator should see.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var te *client.TimeoutError
	if errors.As(err, &te) {
		return fmt.Sprintf("The server did not answer within %s. Please try again.", te.After)
	}
	var re *client.RequestError
	if errors.As(err, &re) {
		return re.Detail
	}
	return err.Error()
}

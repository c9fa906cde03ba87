package domain

// ResultKind classifies a failed Result.
type ResultKind string

const (
	KindNone        ResultKind = ""
	KindValidation  ResultKind = "validation"
	KindProvider    ResultKind = "provider"
	KindConsistency ResultKind = "consistency"
	KindKey         ResultKind = "key"
	KindUnavailable ResultKind = "unavailable"
)

// Result is the outcome of a session-mutating operation. Operations never return errors;
// every failure is classified here instead.
type Result struct {
	Success                   bool       `json:"success"`
	Kind                      ResultKind `json:"kind,omitempty"`
	Error                     string     `json:"error,omitempty"`
	Message                   string     `json:"message,omitempty"`
	RequiresEmailConfirmation bool       `json:"requires_email_confirmation,omitempty"`
}

func OK(message string) Result {
	return Result{Success: true, Message: message}
}

func Fail(kind ResultKind, msg string) Result {
	return Result{Success: false, Kind: kind, Error: msg}
}

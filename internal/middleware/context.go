package middleware

// Context keys used to store request metadata on echo.Context.
const (
	ContextKeySubject = "subject"
	ContextKeyRole    = "role"
)

func errorBody(message string) map[string]string {
	return map[string]string{"status": "error", "message": message}
}

package barrier

type argumentError struct{}

func (argumentError) Error() string { return "invalid argument" }
func (argumentError) Kind() string  { return "invalid_argument" }

type notSetError struct{}

func (notSetError) Error() string { return "barrier not set" }
func (notSetError) Kind() string  { return "invalid_state" }

var (
	// ErrInvalidArgument is returned when a count is outside its allowed range.
	ErrInvalidArgument = argumentError{}
	// ErrNotSet is returned when releasing a barrier whose count is already zero.
	ErrNotSet = notSetError{}
)

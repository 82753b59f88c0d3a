package model

// RequestStatus is the lifecycle of a single request.
type RequestStatus int

const (
	StatusEmpty RequestStatus = iota
	StatusLoading
	StatusSuccess
	StatusFailed
)

func (s RequestStatus) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// RequestState holds the outcome of a request as a value. Data is only
// meaningful when Status is StatusSuccess, Err only when StatusFailed.
type RequestState[T any] struct {
	Status RequestStatus
	Data   T
	Err    error
}

func Empty[T any]() RequestState[T]   { return RequestState[T]{Status: StatusEmpty} }
func Loading[T any]() RequestState[T] { return RequestState[T]{Status: StatusLoading} }

func Success[T any](data T) RequestState[T] {
	return RequestState[T]{Status: StatusSuccess, Data: data}
}

func Failed[T any](err error) RequestState[T] {
	return RequestState[T]{Status: StatusFailed, Err: err}
}

// Resolve converts a (value, error) pair from the API client.
func Resolve[T any](data T, err error) RequestState[T] {
	if err != nil {
		return Failed[T](err)
	}
	return Success(data)
}

func (r RequestState[T]) IsSuccess() bool { return r.Status == StatusSuccess }
func (r RequestState[T]) IsLoading() bool { return r.Status == StatusLoading }

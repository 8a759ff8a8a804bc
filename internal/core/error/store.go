package errx

import "net/http"

// WrapStore wraps a persistence bridge error with a consistent status and message.
func WrapStore(err error) error {
	if err == nil {
		return nil
	}
	return New(err, http.StatusBadGateway, StoreErrorMessage)
}

// WrapModel wraps a remote language model error. Call sites that follow the
// fail-soft policy log this and substitute a neutral default instead of
// propagating it.
func WrapModel(err error) error {
	if err == nil {
		return nil
	}
	return New(err, http.StatusBadGateway, ModelErrorMessage)
}

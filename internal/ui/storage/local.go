//go:build js && wasm

package storage

import (
	"fmt"
	"syscall/js"
)

// Local is a Store over window.localStorage.
type Local struct{}

func localStorage() (storage js.Value, err error) {
	// Touching localStorage throws a SecurityError when the browser blocks it.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrUnavailable, r)
		}
	}()
	storage = js.Global().Get("localStorage")
	if !storage.Truthy() {
		return js.Value{}, ErrUnavailable
	}
	return storage, nil
}

// Get implements Store.
func (Local) Get(key string) (value string, ok bool, err error) {
	storage, err := localStorage()
	if err != nil {
		return "", false, err
	}
	defer func() {
		if r := recover(); r != nil {
			value, ok, err = "", false, fmt.Errorf("%w: %v", ErrUnavailable, r)
		}
	}()
	v := storage.Call("getItem", key)
	if v.Type() != js.TypeString {
		return "", false, nil
	}
	return v.String(), true, nil
}

// Set implements Store.
func (Local) Set(key, value string) (err error) {
	storage, err := localStorage()
	if err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrUnavailable, r)
		}
	}()
	storage.Call("setItem", key, value)
	return nil
}

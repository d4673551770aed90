package domain

import "errors"

var ErrNotFound = errors.New("record not found")
var ErrEventNotFound = errors.New("event not found")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrNotLoggedIn = errors.New("login required")
var ErrAccessDenied = errors.New("admin access required")
var ErrEventFull = errors.New("event is already full")
var ErrAlreadyInCart = errors.New("event already in cart")
var ErrAlreadyRegistered = errors.New("already registered for event")
var ErrCartEmpty = errors.New("cart is empty")
var ErrConfirmationRequired = errors.New("confirmation required")
var ErrValidation = errors.New("validation failed")

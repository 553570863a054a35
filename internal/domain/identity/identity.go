package identity

import (
	"context"
	"errors"
	"time"
)

// Identity is the authenticated principal. Its ID namespaces the owner's profile and items.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (i *Identity) Valid() bool {
	return i != nil && i.ID != ""
}

// Account is the stored credential record behind an Identity.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

func (a *Account) Identity() Identity {
	return Identity{ID: a.ID, Email: a.Email}
}

type Repository interface {
	Create(ctx context.Context, account *Account) error
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}

// Code categorizes authentication failures.
type Code string

const (
	CodeInvalidCredential Code = "auth/invalid-credential"
	CodeUserNotFound      Code = "auth/user-not-found"
	CodeWrongPassword     Code = "auth/wrong-password"
	CodeEmailInUse        Code = "auth/email-already-in-use"
	CodeWeakPassword      Code = "auth/weak-password"
	CodeInvalidEmail      Code = "auth/invalid-email"
)

const MinPasswordLength = 6

type Error struct {
	Code Code
	Err  error
}

func NewError(code Code, err error) *Error {
	return &Error{Code: code, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Code) + ": " + e.Err.Error()
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf extracts the auth code from err, or "" when err is not an auth failure.
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// Message maps an auth failure to the text shown to the user.
func Message(err error) string {
	switch CodeOf(err) {
	case CodeInvalidCredential, CodeUserNotFound, CodeWrongPassword:
		return "Invalid email or password."
	case CodeEmailInUse:
		return "Email already in use."
	case CodeWeakPassword:
		return "Password too weak (min 6 characters)."
	default:
		return "An error occurred."
	}
}

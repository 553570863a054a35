package service

import "context"

// Connectivity reports whether the network is reachable before a mutation is attempted.
type Connectivity interface {
	Online(ctx context.Context) bool
}

type Clipboard interface {
	WriteText(text string) error
}

// AlwaysOnline is used by the server, which is online by definition while serving a request.
type AlwaysOnline struct{}

func (AlwaysOnline) Online(context.Context) bool { return true }

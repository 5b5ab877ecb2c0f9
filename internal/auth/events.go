// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

// Event is a state transition request. The set of events is closed:
// Initial, LoggedIn and LoggedOut.
type Event interface {
	event()
}

// Initial ends the bootstrap phase with the outcome of Initialize.
type Initial struct {
	Authenticated bool
	User          *User
}

// LoggedIn records a successful login. It reopens the bootstrap phase.
type LoggedIn struct {
	User *User
}

// LoggedOut drops the user.
type LoggedOut struct{}

func (Initial) event()   {}
func (LoggedIn) event()  {}
func (LoggedOut) event() {}

// Reduce applies ev to s and returns the new state. It does not modify s.
//
//	Initial:   Authenticated, User from the event; Initialized = true.
//	LoggedIn:  Authenticated = true, User from the event; Initialized = false.
//	LoggedOut: Authenticated = false, User = nil; Initialized unchanged.
func Reduce(s State, ev Event) State {
	s = s.clone()
	switch e := ev.(type) {
	case Initial:
		s.Authenticated = e.Authenticated
		s.User = copyUser(e.User)
		if !s.Authenticated {
			s.User = nil
		}
		s.Initialized = true
	case LoggedIn:
		s.Authenticated = true
		s.User = copyUser(e.User)
		s.Initialized = false
	case LoggedOut:
		s.Authenticated = false
		s.User = nil
	}
	return s
}

func copyUser(u *User) *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

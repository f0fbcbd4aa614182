package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/sessionkeeper/internal/client/api"
	"github.com/dmitrijs2005/sessionkeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the profile fields and a password and creates the
// account. It does not log in.
func (a *App) Register(ctx context.Context) error {
	var req api.RegisterRequest
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Enter first name", &req.FName},
		{"Enter last name", &req.LName},
		{"Enter email", &req.Email},
		{"Enter position", &req.Position},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	req.Password = string(password)

	if err := a.api.Register(ctx, req); err != nil {
		a.printf("Registration failed: %s\n", describe(err))
		return err
	}

	a.printf("Success! You can now log in.\n")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		a.printf("Login unsuccessful: %s\n", describe(err))
		return err
	}

	a.setUser(u)
	a.setMode(ModeOnline)
	a.printf("Login successful. Hello, %s %s\n", u.FName, u.LName)
	return nil
}

// WhoAmI asks the server to validate the session. A rejected session is
// forgotten locally.
func (a *App) WhoAmI(ctx context.Context) error {
	u, err := a.api.WhoAmI(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			a.setUser(nil)
			a.printf("Not logged in\n")
			return err
		}
		a.printf("Session check failed: %s\n", describe(err))
		return err
	}

	a.setUser(u)
	printUser(a.out, u)
	return nil
}

// Logout ends the session on the server and clears local state. Local state
// is cleared even when the server cannot be reached.
func (a *App) Logout(ctx context.Context) error {
	err := a.api.Logout(ctx)
	a.setUser(nil)
	if err != nil {
		a.printf("Logout failed on server: %s\n", describe(err))
		return err
	}
	a.printf("Logged out\n")
	return nil
}

func printUser(w io.Writer, u *api.User) {
	fmt.Fprintf(w, "id:       %d\n", u.ID)
	fmt.Fprintf(w, "name:     %s %s\n", u.FName, u.LName)
	fmt.Fprintf(w, "email:    %s\n", u.Email)
	fmt.Fprintf(w, "position: %s\n", u.Position)
}

func describe(err error) string {
	switch {
	case errors.Is(err, api.ErrUnavailable):
		return "server unavailable"
	case errors.Is(err, api.ErrNotFound):
		return "user not found"
	case errors.Is(err, api.ErrUnauthorized):
		return "invalid credentials"
	case errors.Is(err, api.ErrAlreadyExists):
		return "user already exists"
	case errors.Is(err, api.ErrBadRequest):
		return "invalid input"
	default:
		return err.Error()
	}
}

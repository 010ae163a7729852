package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/ecank/nebula/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a name, email and password and creates a cloud
// account backed by the record store.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.session.Register(ctx, name, email, string(password))
	if err != nil {
		if errors.Is(err, common.ErrConfigMissing) {
			log.Println("Record store is not configured, run 'config' first")
			return err
		}
		log.Printf("Registration unsuccessful: %s", err.Error())
		return err
	}

	fmt.Printf("Welcome, %s!\n", user.Name)
	return nil
}

// Login prompts for credentials and authenticates against the record store.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.session.Login(ctx, email, string(password))
	if err != nil {
		if errors.Is(err, common.ErrConfigMissing) {
			log.Println("Record store is not configured, run 'config' first")
			return err
		}
		log.Printf("Login unsuccessful: %s", err.Error())
		return err
	}

	fmt.Printf("Welcome back, %s!\n", user.Name)
	return nil
}

// DevLogin starts a local-only session with a generation API key and no
// cloud account. The library stays on the local database.
func (a *App) DevLogin(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter display name (optional)", os.Stdout)
	if err != nil {
		return err
	}
	apiKey, err := getSimpleText(a.reader, "Enter generation API key (optional, config/env key is used otherwise)", os.Stdout)
	if err != nil {
		return err
	}

	user, err := a.session.LoginDeveloper(ctx, name, apiKey)
	if err != nil {
		log.Printf("Developer login unsuccessful: %s", err.Error())
		return err
	}

	fmt.Printf("Developer session started as %s\n", user.Name)
	return nil
}

// Logout ends the session and clears the in-memory chat history.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		log.Printf("Logout failed: %s", err.Error())
		return err
	}
	a.chatHistory = nil
	fmt.Println("Logged out")
	return nil
}

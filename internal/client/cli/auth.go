package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/fieldtrack/internal/common"
)

func (a *App) login(ctx context.Context) {
	username, err := GetSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	sess, err := a.session.Login(ctx, username, password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorUnauthorized):
			fmt.Println("Login failed: wrong username or password.")
		case errors.Is(err, common.ErrorUnavailable):
			fmt.Println("Server unavailable. Captured data will sync after the next successful login.")
		default:
			fmt.Println("Login failed:", err)
		}
		return
	}
	fmt.Printf("Logged in as %s.\n", sess.Username)
}

func (a *App) logout(ctx context.Context) {
	if err := a.session.Logout(ctx); err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("Logged out. Local data is kept.")
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/maya-cli/internal/client/client"
	"github.com/dmitrijs2005/maya-cli/internal/client/models"
	"github.com/dmitrijs2005/maya-cli/internal/client/token"
	"github.com/dmitrijs2005/maya-cli/internal/common"
)

// Whoami prints the identity carried by the locally stored access token.
// It never calls the server.
func (a *App) Whoami(ctx context.Context) error {
	rec, err := a.authService.CurrentUser(ctx)
	if err != nil {
		printlnFn("Cannot read the stored session:", err)
		return err
	}
	if rec == nil {
		printlnFn("Not logged in.")
		return nil
	}

	accessToken := rec.AccessToken()
	if accessToken == "" {
		printlnFn("Stored session has no access token.")
		return nil
	}

	claims, err := token.Decode(accessToken)
	if err != nil {
		printlnFn("Stored token is not readable:", err)
		return err
	}

	printlnFn("Email:  " + claims.Email())
	printlnFn("UserID: " + claims.UserID)
	switch {
	case claims.Expired(time.Now()):
		printlnFn("Token:  expired")
	case claims.ExpiresAt != nil:
		printlnFn("Token:  valid until " + claims.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}

// Me fetches the account profile from the server and prints it.
func (a *App) Me(ctx context.Context) error {
	rec, err := a.authService.Me(ctx)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotLoggedIn):
			printlnFn("Not logged in.")
		case errors.Is(err, client.ErrUnauthorized):
			printlnFn("Session expired, log in again.")
		default:
			printlnFn("Could not fetch the profile:", err)
		}
		return err
	}

	printRecord(rec)
	return nil
}

// Profile reads name=value lines and merges them into the locally stored
// user record.
func (a *App) Profile(ctx context.Context) error {
	lines, err := getFields(a.reader)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		printlnFn("Nothing to update.")
		return nil
	}

	fields, err := models.RecordFromPairs(lines)
	if err != nil {
		printlnFn("Invalid field:", err)
		return err
	}

	merged, err := a.authService.UpdateProfile(ctx, fields)
	if err != nil {
		printlnFn("Profile update failed:", err)
		return err
	}

	printlnFn("Stored profile:")
	printRecord(merged)
	return nil
}

// printRecord renders a record as sorted "key: value" lines so output is
// stable between runs.
func printRecord(rec models.Record) {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		printlnFn(fmt.Sprintf("%s: %v", k, rec[k]))
	}
}

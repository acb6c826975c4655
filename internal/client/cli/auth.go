package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/accountkeeper/internal/client/client"
	"github.com/dmitrijs2005/accountkeeper/internal/common"
	pb "github.com/dmitrijs2005/accountkeeper/internal/proto"
)

// getSimpleText and getPassword are swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errPasswordMismatch = errors.New("passwords do not match")

func (a *App) prompt(text string) (string, error) {
	return getSimpleText(a.reader, text, a.out)
}

// Register asks for the account fields and an avatar path, then creates the
// account. It does not log in.
func (a *App) Register(ctx context.Context) error {
	var in client.RegisterInput
	var err error

	if in.UserName, err = a.prompt("Enter username"); err != nil {
		return err
	}
	if in.Email, err = a.prompt("Enter email"); err != nil {
		return err
	}
	if in.FullName, err = a.prompt("Enter full name"); err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	in.Password = string(password)

	avatarPath, err := a.prompt("Path to avatar image")
	if err != nil {
		return err
	}
	if in.Avatar, err = ReadImage(avatarPath); err != nil {
		return err
	}
	coverPath, err := a.prompt("Path to cover image (empty to skip)")
	if err != nil {
		return err
	}
	if in.CoverImage, err = ReadImage(coverPath); err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	user, err := a.client.Register(ctx, in)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s, you can log in now\n", user.Username)
	return nil
}

// Login accepts a username or an email address.
func (a *App) Login(ctx context.Context) error {
	identifier, err := a.prompt("Enter username or email")
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	user, err := a.client.Login(ctx, identifier, string(password))
	if err != nil {
		return err
	}

	a.userName = user.Username
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.client.Refresh(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Session refreshed")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	user, err := a.client.CurrentUser(ctx)
	if err != nil {
		return err
	}
	printUser(a, user)
	return nil
}

func (a *App) ChangePassword(ctx context.Context) error {
	oldPassword, err := getPassword(a.out, "Current password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(oldPassword)

	newPassword, err := getPassword(a.out, "New password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(newPassword)

	confirm, err := getPassword(a.out, "Repeat new password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if string(newPassword) != string(confirm) {
		return errPasswordMismatch
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.client.ChangePassword(ctx, string(oldPassword), string(newPassword), string(confirm)); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password changed")
	return nil
}

func (a *App) UpdateAccount(ctx context.Context) error {
	fullName, err := a.prompt("Enter full name")
	if err != nil {
		return err
	}
	email, err := a.prompt("Enter email")
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	user, err := a.client.UpdateAccount(ctx, fullName, email)
	if err != nil {
		return err
	}
	printUser(a, user)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	err := a.client.Logout(ctx)
	a.userName = ""
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) Ping(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.client.Ping(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Server is up")
	return nil
}

func printUser(a *App, u *pb.User) {
	fmt.Fprintf(a.out, "id:       %s\nusername: %s\nemail:    %s\nname:     %s\navatar:   %s\n",
		u.ID, u.Username, u.Email, u.FullName, u.Avatar)
	if u.CoverImage != "" {
		fmt.Fprintf(a.out, "cover:    %s\n", u.CoverImage)
	}
}

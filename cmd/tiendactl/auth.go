package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"tienda-console/internal/core/domain"
	"tienda-console/internal/core/services"

	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session in the state file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv("TIENDA_PASSWORD")
			}
			if password == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Contraseña: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return err
				}
				password = strings.TrimSpace(line)
			}

			sess, err := a.svc.Auth.Login(a.ctx(cmd), &services.LoginInput{Username: username, Password: password})
			if err != nil {
				if errors.Is(err, services.ErrInvalidCredentials) {
					return errors.New("usuario o contraseña incorrectos")
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Sesión iniciada como %s (%s)\n", sess.User.Nombre, sess.User.Rol)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (or TIENDA_PASSWORD)")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.svc.Auth.Logout(a.ctx(cmd)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "👋 Sesión cerrada")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.svc.Auth.Current(a.ctx(cmd))
			if err != nil {
				return err
			}
			if !sess.Authenticated() {
				return domain.ErrUnauthenticated
			}
			if !a.table() {
				return a.print(cmd, sess.User)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d, %s)\n", sess.User.Nombre, sess.User.ID, sess.User.Rol)
			return nil
		},
	}
}

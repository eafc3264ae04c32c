package main

import (
	"fmt"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
)

const (
	emailFlag    = "email"
	nameFlag     = "name"
	passwordFlag = "password"
)

var adminFlags = map[string]cobraflags.Flag{
	emailFlag: &cobraflags.StringFlag{
		Name:  emailFlag,
		Value: "",
		Usage: "Login email of the admin user (required)",
	},
	nameFlag: &cobraflags.StringFlag{
		Name:  nameFlag,
		Value: "",
		Usage: "Display name of the admin user",
	},
	passwordFlag: &cobraflags.StringFlag{
		Name:  passwordFlag,
		Value: "",
		Usage: "Password of the admin user (required)",
	},
}

func newAdminCommand() *cobra.Command {
	adminCmd := &cobra.Command{
		Use:   "admin [create]",
		Short: "Manage admin API users",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			email := adminFlags[emailFlag].GetString()
			name := adminFlags[nameFlag].GetString()
			password := adminFlags[passwordFlag].GetString()
			return withApp(func(a *app) error {
				user, err := a.admins.CreateAdmin(cmd.Context(), email, password, name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created admin %d <%s>\n", user.ID, user.Email)
				return nil
			})
		},
	}
	cobraflags.RegisterMap(createCmd, adminFlags)

	adminCmd.AddCommand(createCmd)
	return adminCmd
}

package cmd

import (
	"fmt"
	"log"

	"MuseFM/config"
	"MuseFM/db"
	"MuseFM/model"
	"MuseFM/repository"

	"github.com/spf13/cobra"
)

// grant-admin writes the role column directly, bypassing the HTTP surface.
// It is the recovery path when no admin account is left.
var grantAdminCmd = &cobra.Command{
	Use:   "grant-admin <email>",
	Short: "Grant the admin role to a user",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		email := args[0]

		cfg := config.Load()
		if err := db.ConnectDB(cfg); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.DB.Close()

		userRepo := repository.NewMySQLUserRepository(db.DB)
		user, err := userRepo.GetUserByEmail(email)
		if err != nil {
			log.Fatalf("Failed to look up user: %v", err)
		}
		if user == nil {
			log.Fatalf("No user with email %s", email)
		}

		if user.Role == model.RoleAdmin {
			fmt.Printf("%s is already an admin.\n", email)
			return
		}

		if err := userRepo.UpdateUserRole(user.ID, model.RoleAdmin); err != nil {
			log.Fatalf("Failed to update role: %v", err)
		}
		fmt.Printf("Granted admin role to %s (user ID %d).\n", email, user.ID)
	},
}

func init() {
	rootCmd.AddCommand(grantAdminCmd)
}

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/careview/careview/pkg/client"
)

func secondsToDuration(s int) time.Duration {
	return time.Duration(s) * time.Second
}

var registerCmd = &cobra.Command{
	Use:   "register <name> <email> <password>",
	Short: "Create an account and start a session",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newClient().Register(cmd.Context(), args[0], args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Printf("registered as %s (%s)\n", s.Name, s.UserID)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <email> <password>",
	Short: "Authenticate and start a session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newClient().Login(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("logged in as %s (%s)\n", s.Name, s.UserID)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the current token and clear the session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the stored session, verified against the server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newClient().RestoreSession(cmd.Context())
		if errors.Is(err, client.ErrNoSession) {
			fmt.Println("not logged in")
			return nil
		}
		if errors.Is(err, client.ErrSessionExpired) {
			fmt.Println("session expired; please log in again")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", s.Name, s.UserID)
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the stored token against the server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		s, err := c.Store.Load()
		if err != nil {
			return err
		}
		if !s.Active() {
			return client.ErrNoSession
		}
		u, err := c.Verify(cmd.Context(), s.Token)
		if err != nil {
			return err
		}
		fmt.Printf("token valid for %s\n", u.Email)
		return nil
	},
}

var reviewCmd = &cobra.Command{
	Use:   "review <name> <rating> <description>",
	Short: "Submit a review (requires login)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		var rating int
		if _, err := fmt.Sscanf(args[1], "%d", &rating); err != nil {
			return fmt.Errorf("rating must be a number between 1 and 5")
		}
		image, _ := cmd.Flags().GetString("image")
		rev, err := newClient().SubmitReview(cmd.Context(), client.ReviewInput{
			Name:        args[0],
			Image:       image,
			Description: args[2],
			Rating:      rating,
		})
		if err != nil {
			return err
		}
		fmt.Printf("review submitted (%s)\n", rev.ID)
		return nil
	},
}

var reviewsCmd = &cobra.Command{
	Use:   "reviews",
	Short: "List reviews, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		limit, _ := cmd.Flags().GetInt("limit")
		res, err := newClient().ListReviews(cmd.Context(), page, limit)
		if err != nil {
			return err
		}
		for _, r := range res.Reviews {
			fmt.Printf("%-20s %d/5  %s\n", r.Name, r.Rating, r.Description)
		}
		fmt.Printf("page %d of %d (%d reviews)\n", res.CurrentPage, res.TotalPages, res.TotalReviews)
		return nil
	},
}

func init() {
	reviewCmd.Flags().String("image", "", "optional image URL")
	reviewsCmd.Flags().Int("page", 1, "page number")
	reviewsCmd.Flags().Int("limit", 10, "reviews per page")
}

// Command plantctl drives a PlantAlly server from the terminal.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dom/plantally/internal/domain"
	"github.com/spf13/cobra"
)

const defaultAPIURL = "http://localhost:8080"

var (
	apiURL string
	token  string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "plantctl",
		Short: "Manage plants on a PlantAlly server",
		Long: `plantctl talks to the PlantAlly HTTP API.

Sign in with "login" or "demo", then export the printed token:

  export PLANTALLY_TOKEN=$(plantctl demo -q)
  plantctl plants
  plantctl add --name Fern --every 3`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&apiURL, "api", envOr("API_URL", defaultAPIURL), "backend API URL")
	root.PersistentFlags().StringVar(&token, "token", os.Getenv("PLANTALLY_TOKEN"), "session token")

	root.AddCommand(
		newLoginCmd(),
		newDemoCmd(),
		newLogoutCmd(),
		newSubscribeCmd(),
		newTimerCmd(),
		newPlantsCmd(),
		newAddCmd(),
		newWaterCmd(),
		newDeadCmd(),
		newDeleteCmd(),
	)
	return root
}

func client() *APIClient {
	return NewAPIClient(apiURL, token)
}

func authedClient() (*APIClient, error) {
	if token == "" {
		return nil, errors.New("no session token: pass --token or set PLANTALLY_TOKEN")
	}
	return client(), nil
}

func newLoginCmd() *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Start a session signed in to email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := client().Login(args[0])
			if err != nil {
				return err
			}
			printToken(cmd.OutOrStdout(), result, quiet)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only the token")
	return cmd
}

func newDemoCmd() *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Start a time-limited demo session with sample plants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := client().StartDemo()
			if err != nil {
				return err
			}
			printToken(cmd.OutOrStdout(), result, quiet)
			if quiet {
				return nil
			}
			views, err := NewAPIClient(apiURL, result.Token).ListPlants()
			if err != nil {
				return err
			}
			printPlants(cmd.OutOrStdout(), views)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only the token")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := authedClient()
			if err != nil {
				return err
			}
			if err := c.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newSubscribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subscribe",
		Short: "Mark the account as paid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := authedClient()
			if err != nil {
				return err
			}
			if _, err := c.Subscribe(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Subscribed")
			return nil
		},
	}
}

func newTimerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "timer",
		Short: "Show how long the demo has left",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := authedClient()
			if err != nil {
				return err
			}
			timer, err := c.Timer()
			if err != nil {
				return err
			}
			if !timer.Active {
				fmt.Fprintln(cmd.OutOrStdout(), "No demo running")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%ds left\n", timer.RemainingSeconds)
			return nil
		},
	}
}

func newPlantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plants",
		Short: "List plants with their watering status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := authedClient()
			if err != nil {
				return err
			}
			views, err := c.ListPlants()
			if err != nil {
				return err
			}
			printPlants(cmd.OutOrStdout(), views)
			return nil
		},
	}
}

func newAddCmd() *cobra.Command {
	var (
		name     string
		every    int
		location string
		light    string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a plant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := authedClient()
			if err != nil {
				return err
			}
			body := map[string]interface{}{
				"name":               name,
				"waterFrequencyDays": every,
				"location":           location,
				"lightLevel":         light,
			}
			view, err := c.AddPlant(body)
			if err != nil {
				return err
			}
			printPlants(cmd.OutOrStdout(), []domain.PlantView{*view})
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "plant name")
	cmd.Flags().IntVar(&every, "every", 7, "water every N days")
	cmd.Flags().StringVar(&location, "location", "", "where the plant lives")
	cmd.Flags().StringVar(&light, "light", "", "light level (Low, Medium, High, Direct)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newWaterCmd() *cobra.Command {
	return plantActionCmd("water <id>", "Record a watering now", (*APIClient).WaterPlant)
}

func newDeadCmd() *cobra.Command {
	return plantActionCmd("dead <id>", "Mark a plant as dead", (*APIClient).MarkDead)
}

func plantActionCmd(use, short string, action func(*APIClient, string) (*domain.PlantView, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := authedClient()
			if err != nil {
				return err
			}
			view, err := action(c, args[0])
			if err != nil {
				return err
			}
			printPlants(cmd.OutOrStdout(), []domain.PlantView{*view})
			return nil
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a plant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := authedClient()
			if err != nil {
				return err
			}
			if err := c.DeletePlant(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func printToken(w io.Writer, result *AuthResponse, quiet bool) {
	if quiet {
		fmt.Fprintln(w, result.Token)
		return
	}
	email := ""
	if result.Session.UserEmail != nil {
		email = *result.Session.UserEmail
	}
	fmt.Fprintf(w, "Signed in as %s\n", email)
	fmt.Fprintf(w, "export PLANTALLY_TOKEN=%s\n", result.Token)
}

func printPlants(w io.Writer, views []domain.PlantView) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tNEXT WATERING\tDUE")
	for _, v := range views {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			v.ID, v.Name, v.Status, v.NextWatering.Format("2006-01-02"), dueLabel(v))
	}
	tw.Flush()
}

func dueLabel(v domain.PlantView) string {
	switch {
	case v.Status == domain.PlantStatusDead:
		if v.DaysLived != nil {
			return fmt.Sprintf("lived %d days", *v.DaysLived)
		}
		return "-"
	case v.IsOverdue:
		return "overdue"
	case v.Due:
		return "today"
	default:
		return fmt.Sprintf("in %d days", v.DaysUntilNext)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

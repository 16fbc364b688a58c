package main

import (
	"appointment-ivr/internal/config"
	"appointment-ivr/internal/observability"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "ivrctl",
	Short: "Operate the appointment IVR",
	Long: `ivrctl talks to a running appointment IVR server and its integrations.

Flags can also be set from the environment: --server reads SERVER, and
--twilio-account-sid reads TWILIO_ACCOUNT_SID, matching the server's own
variable names.`,
	SilenceUsage:       true,
	PersistentPreRunE:  startTracing,
	PersistentPostRunE: stopTracing,
}

var shutdownTracing = func(context.Context) error { return nil }

// startTracing exports the CLI's HTTP spans when OTEL_ENABLED is set, so a
// request can be followed from ivrctl into the server.
func startTracing(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadTracing()
	if err != nil {
		return err
	}
	cfg.ServiceName = "ivrctl"
	shutdown, err := observability.SetupTracing(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	shutdownTracing = shutdown
	return nil
}

func stopTracing(cmd *cobra.Command, args []string) error {
	return shutdownTracing(context.Background())
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().String("server", "http://localhost:8080", "base URL of the IVR server")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	_ = viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func registerCommands() {
	rootCmd.AddCommand(slotsCmd())
	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(callCmd())
	rootCmd.AddCommand(eventsCmd())
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

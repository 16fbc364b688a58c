package main

import (
	"appointment-ivr/internal/clients/twilio"
	"appointment-ivr/internal/observability"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func callCmd() *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "call",
		Short: "Place an outbound call that is answered by the IVR",
		RunE: func(cmd *cobra.Command, args []string) error {
			if to == "" {
				return fmt.Errorf("--to required")
			}
			base := strings.TrimRight(viper.GetString("public-base-url"), "/")
			if base == "" {
				return fmt.Errorf("--public-base-url (or PUBLIC_BASE_URL) required so Twilio can reach the server")
			}

			client, err := twilio.NewClient(
				viper.GetString("twilio-account-sid"),
				viper.GetString("twilio-auth-token"),
				viper.GetString("twilio-from-number"),
				observability.NewDevelopmentLogger(),
			)
			if err != nil {
				return err
			}

			sid, err := client.PlaceCall(cmd.Context(), to, base+"/api/phone/incoming-call", base+"/api/phone/status")
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(map[string]string{"call_sid": sid, "to": to})
			}
			fmt.Printf("Calling %s (call sid %s)\n", to, sid)
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "number to call in E.164 format")
	cmd.Flags().String("public-base-url", "", "externally reachable server URL")
	cmd.Flags().String("twilio-account-sid", "", "Twilio account SID")
	cmd.Flags().String("twilio-auth-token", "", "Twilio auth token")
	cmd.Flags().String("twilio-from-number", "", "Twilio number to call from")
	for _, name := range []string{"public-base-url", "twilio-account-sid", "twilio-auth-token", "twilio-from-number"} {
		_ = viper.BindPFlag(name, cmd.Flags().Lookup(name))
	}
	return cmd
}

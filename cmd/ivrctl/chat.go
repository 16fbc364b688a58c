package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func chatCmd() *cobra.Command {
	var sessionID string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the booking assistant from the terminal",
		Long:  "Sends each line to the assistant as a caller turn. An empty line or EOF ends the chat.",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient(viper.GetString("server"))
			return runChat(cmd.Context(), client, sessionID, os.Stdin, os.Stdout)
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "resume an existing session")
	return cmd
}

type asker interface {
	Ask(ctx context.Context, text, sessionID string) (askResponse, error)
}

func runChat(ctx context.Context, client asker, sessionID string, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(out, "Type your message. An empty line ends the chat.")
	for {
		fmt.Fprint(out, "you> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			break
		}

		resp, err := client.Ask(ctx, text, sessionID)
		if err != nil {
			return err
		}
		sessionID = resp.SessionID
		fmt.Fprintf(out, "ivr> %s\n", resp.Response)
	}
	if sessionID != "" {
		fmt.Fprintf(out, "\nsession: %s\n", sessionID)
	}
	return scanner.Err()
}

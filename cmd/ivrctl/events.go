package main

import (
	"appointment-ivr/internal/clients/kafka"
	"appointment-ivr/internal/config"
	"appointment-ivr/internal/events"
	"appointment-ivr/internal/observability"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func eventsCmd() *cobra.Command {
	var fromBeginning bool
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Tail appointment events from Kafka",
		RunE: func(cmd *cobra.Command, args []string) error {
			brokers := config.KafkaConfig{Brokers: viper.GetString("kafka-brokers")}.BrokerList()
			if len(brokers) == 0 {
				return fmt.Errorf("--kafka-brokers (or KAFKA_BROKERS) required")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			consumer := kafka.NewConsumer(kafka.ConsumerConfig{
				Brokers:    brokers,
				Topic:      viper.GetString("kafka-topic"),
				GroupID:    viper.GetString("kafka-consumer-group"),
				FromLatest: !fromBeginning,
			}, observability.NewDevelopmentLogger())
			defer consumer.Close()

			asJSON := viper.GetBool("json")
			err := consumer.ConsumeEvents(ctx, func(ctx context.Context, msg kafka.EventMessage) error {
				event, err := events.Decode(msg)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(eventView(event))
				}
				printEvent(os.Stdout, event)
				return nil
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&fromBeginning, "from-beginning", false, "replay the topic for a new consumer group")
	cmd.Flags().String("kafka-brokers", "", "comma separated Kafka brokers")
	cmd.Flags().String("kafka-topic", "appointment-events", "appointment event topic")
	cmd.Flags().String("kafka-consumer-group", "ivrctl", "consumer group id")
	for _, name := range []string{"kafka-brokers", "kafka-topic", "kafka-consumer-group"} {
		_ = viper.BindPFlag(name, cmd.Flags().Lookup(name))
	}
	return cmd
}

func eventView(event events.AppointmentEvent) map[string]any {
	return map[string]any{
		"id":               event.ID,
		"type":             event.Type,
		"timestamp":        event.Timestamp,
		"appointment_id":   event.AppointmentID,
		"email":            event.Email,
		"appointment_type": event.AppointmentType,
		"start":            event.Start,
		"status":           event.Status,
	}
}

func printEvent(w io.Writer, event events.AppointmentEvent) {
	fmt.Fprintf(w, "%s  %-24s #%-4d %-10s %s  %s\n",
		event.Timestamp.Format(time.RFC3339),
		event.Type,
		event.AppointmentID,
		event.AppointmentType,
		event.Start.Format("2006-01-02 15:04 MST"),
		observability.MaskEmail(event.Email),
	)
}

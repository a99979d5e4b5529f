package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Eun/go-echo/client"
	"github.com/Eun/go-echo/logger"
	"github.com/Eun/go-echo/option"
	"github.com/Eun/go-echo/version"
)

func main() {
	opt := option.NewClientOptions()

	rootCmd := &cobra.Command{
		Use:           "client <port>",
		Short:         "Send one message to the echo server and print the response.",
		Version:       version.Long,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			port, err := option.ParsePort(args[0])
			if err != nil {
				return err
			}
			opt.Port = port

			logger.Init(opt.Debug)
			defer logger.Close()

			cmd.SilenceUsage = true
			return run(opt)
		},
	}

	rootCmd.Flags().StringVar(&opt.Hostname, "hostname", opt.Hostname, "the hostname to use")
	rootCmd.Flags().StringVar(&opt.Message, "message", opt.Message, "the message to send to the server")
	rootCmd.Flags().BoolVar(&opt.Debug, "debug", false, "enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func run(opt *option.ClientOptions) error {
	address := opt.ServerAddress()
	logger.Infof("connecting to server at %s", address)
	logger.Infof("sending message: %q", opt.Message)

	var c client.Client
	response, err := c.Exchange(context.Background(), address, []byte(opt.Message))
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", response)
	return nil
}

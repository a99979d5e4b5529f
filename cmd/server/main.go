package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Eun/go-echo/logger"
	"github.com/Eun/go-echo/option"
	"github.com/Eun/go-echo/server"
	"github.com/Eun/go-echo/version"
)

func main() {
	opt := option.NewServerOptions()

	rootCmd := &cobra.Command{
		Use:           "server <port>",
		Short:         "A sequential TCP echo server.",
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
	rootCmd.Flags().DurationVar(&opt.ShutdownTimeout, "shutdown-timeout", server.DefaultShutdownTimeout, "how long to wait for the in-flight session on shutdown")
	rootCmd.Flags().BoolVar(&opt.Debug, "debug", false, "enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func run(opt *option.ServerOptions) error {
	logger.Infof("%s", version.Long)
	logger.Infof("starting server at %s:%d", opt.Hostname, opt.Port)

	// the hostname is informational only, the listener binds the
	// wildcard address
	ln, err := net.Listen("tcp", opt.ListenAddress())
	if err != nil {
		return err
	}

	s := server.Server{}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.Serve(ln)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return err
	case sig := <-sigChan:
		logger.Infof("%s signal received, closing server", sig)
		if err := s.Shutdown(opt.ShutdownTimeout); err != nil {
			if server.IsShutdownTimeoutError(err) {
				logger.Warnf("session did not drain in %v, connection closed forcefully", opt.ShutdownTimeout)
				return nil
			}
			return err
		}
		return nil
	}
}

// deskd is the desk controller server: it discovers a desk over BLE,
// drives it through the overshoot motion controller, and exposes
// GetState/SubscribeState/Stop/StartMove over a JSON-coded gRPC
// facade.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/commatea/deskd/internal/config"
	"github.com/commatea/deskd/internal/controller"
	"github.com/commatea/deskd/internal/desk"
	"github.com/commatea/deskd/internal/logging"
	"github.com/commatea/deskd/internal/motion"
	"github.com/commatea/deskd/internal/rpc"
)

var (
	version   = "0.1.0"
	buildTime = "dev"
	gitCommit = "unknown"
)

var (
	cfgFile       string
	deskAddress   string
	serverAddress string
	logLevel      string
	logFile       string
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "deskd",
		Short:   "deskd - BLE sit/stand desk controller server",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildTime),
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&deskAddress, "desk", "d", "", "desk BLE MAC address")
	rootCmd.PersistentFlags().StringVarP(&serverAddress, "server", "s", "", "gRPC bind address")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "v", "", "log level [debug|info|warn|error]")
	rootCmd.PersistentFlags().StringVarP(&logFile, "log-file", "f", "", "log file path (implies file output)")

	rootCmd.AddCommand(newServeCmd(), newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Connect to the desk and start serving RPC requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg, err := config.Load(cfgFile, config.Overrides{
		DeskAddress:   deskAddress,
		ServerAddress: serverAddress,
		LogLevel:      logLevel,
		LogFile:       logFile,
	})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
		File:   cfg.Logging.File,
	})
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info("discovering desk", "address", cfg.Desk.Address)
	peripheral := desk.NewBluetoothPeripheral()
	deskCfg := desk.Config{Address: cfg.Desk.Address}
	adapter, err := desk.Find(ctx, peripheral, deskCfg)
	if err != nil {
		return fmt.Errorf("find desk: %w", err)
	}

	motionCtl := motion.New(adapter)
	driver := controller.New(adapter, motionCtl, log)

	rpcCfg := rpc.DefaultServerConfig()
	rpcCfg.BindAddress = cfg.Server.Address
	server := rpc.NewServer(driver, rpcCfg, log)

	driverErrCh := make(chan error, 1)
	go func() { driverErrCh <- driver.Run(ctx) }()

	if err := server.Start(); err != nil {
		cancel()
		return fmt.Errorf("start rpc server: %w", err)
	}
	log.Info("serving", "address", cfg.Server.Address)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Info("shutting down")
		driver.Close()
		<-driverErrCh
	case err := <-driverErrCh:
		if err != nil {
			log.Error("controller driver stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("error stopping rpc server", "error", err)
	}

	cancel()
	log.Info("stopped")
	return nil
}

const shutdownTimeout = 5 * time.Second

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("deskd %s\n", version)
			fmt.Printf("  commit: %s\n", gitCommit)
			fmt.Printf("  built:  %s\n", buildTime)
		},
	}
}

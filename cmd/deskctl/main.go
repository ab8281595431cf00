// deskctl is a thin CLI client for deskd: query desk status, send it
// to a target height (by absolute centimeters or a named preset), or
// stop it mid-move.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/commatea/deskd/internal/config"
	"github.com/commatea/deskd/internal/rpc"
)

var (
	cfgFile       string
	serverAddress string
	waitForMove   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "deskctl",
		Short: "deskctl - a thin client for deskd",
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&serverAddress, "server", "s", "", "deskd gRPC address")

	rootCmd.AddCommand(newStatusCmd(), newStopCmd(), newToCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func dial() (*grpc.ClientConn, rpc.DeskServiceClient, *config.Config, error) {
	cfg, err := config.Load(cfgFile, config.Overrides{ServerAddress: serverAddress})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	conn, err := grpc.NewClient(cfg.Server.Address,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		rpc.DialOption(),
	)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("dial %s: %w", cfg.Server.Address, err)
	}
	return conn, rpc.NewDeskServiceClient(conn), cfg, nil
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the desk's current position and velocity",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, client, _, err := dial()
			if err != nil {
				return err
			}
			defer conn.Close()

			resp, err := client.GetState(context.Background(), &rpc.GetStateRequest{})
			if err != nil {
				return fmt.Errorf("get state: %w", err)
			}
			fmt.Printf("Position: %6.2f cm\nVelocity: %6.3f cm/s\n", resp.PositionCM, resp.VelocityCMPerSecond)
			return nil
		},
	}
}

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the desk immediately",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, client, _, err := dial()
			if err != nil {
				return err
			}
			defer conn.Close()

			if _, err := client.Stop(context.Background(), &rpc.StopRequest{}); err != nil {
				return fmt.Errorf("stop: %w", err)
			}
			return nil
		},
	}
}

func newToCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "to <target-cm|preset>",
		Short: "Move the desk to a target height",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTo(args[0])
		},
	}
	cmd.Flags().BoolVarP(&waitForMove, "wait", "w", false, "wait and report position until the target is reached")
	return cmd
}

func runTo(arg string) error {
	conn, client, cfg, err := dial()
	if err != nil {
		return err
	}
	defer conn.Close()

	target, err := resolveTarget(cfg, arg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	var states rpc.DeskService_SubscribeStateClient
	if waitForMove {
		states, err = client.SubscribeState(ctx, &rpc.SubscribeStateRequest{})
		if err != nil {
			return fmt.Errorf("subscribe state: %w", err)
		}
	}

	if _, err := client.StartMove(ctx, &rpc.StartMoveRequest{TargetCM: target}); err != nil {
		return fmt.Errorf("start move: %w", err)
	}

	if states == nil {
		return nil
	}
	for {
		state, err := states.Recv()
		if err != nil {
			return fmt.Errorf("receive state update: %w", err)
		}
		fmt.Printf("Position: %6.2f cm  Velocity: %6.3f cm/s\n", state.PositionCM, state.VelocityCMPerSecond)
		if abs32(state.PositionCM-target) < 0.1 {
			return nil
		}
	}
}

// resolveTarget parses arg as an absolute centimeter value, falling
// back to a named preset from cfg.Presets.
func resolveTarget(cfg *config.Config, arg string) (float32, error) {
	if cm, err := strconv.ParseFloat(arg, 32); err == nil {
		return float32(cm), nil
	}
	if cm, ok := cfg.ResolvePreset(arg); ok {
		return cm, nil
	}
	return 0, fmt.Errorf("preset %q not found", arg)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

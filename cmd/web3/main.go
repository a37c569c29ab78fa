// web3 serves historical eth_call, eth_estimateGas and debug tracing
// against a mirror node database.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
	_ "go.uber.org/automaxprocs"

	"github.com/hashgraph/hedera-mirror-node-sub001/internal/config"
	"github.com/hashgraph/hedera-mirror-node-sub001/internal/debug"
	"github.com/hashgraph/hedera-mirror-node-sub001/internal/version"
	"github.com/hashgraph/hedera-mirror-node-sub001/params"
)

var configFileFlag = &cli.StringFlag{
	Name:    "config",
	Usage:   "TOML configuration file",
	EnvVars: []string{config.EnvPrefix + "CONFIG"},
}

var app = newApp()

func newApp() *cli.App {
	return &cli.App{
		Name:     "web3",
		Usage:    "historical EVM execution for the mirror node",
		Version:  params.VersionWithMeta,
		Flags:    append([]cli.Flag{configFileFlag}, debug.Flags...),
		Before:   debug.Setup,
		After:    exit,
		Action:   runWeb3,
		Commands: []*cli.Command{
			versionCommand,
			dumpConfigCommand,
		},
	}
}

func exit(*cli.Context) error {
	debug.Exit()
	return nil
}

var versionCommand = &cli.Command{
	Name:  "version",
	Usage: "Print version numbers",
	Action: func(ctx *cli.Context) error {
		v, vcs := version.Info()
		fmt.Println(v)
		if vcs != "" {
			fmt.Println("Git Commit:", vcs)
		}
		return nil
	},
}

var dumpConfigCommand = &cli.Command{
	Name:  "dumpconfig",
	Usage: "Show the effective configuration values",
	Action: func(ctx *cli.Context) error {
		out, err := config.Dump(ctx.String(configFileFlag.Name))
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	},
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runWeb3 is the main entry point. It runs the node until it is interrupted.
func runWeb3(ctx *cli.Context) error {
	if args := ctx.Args().Slice(); len(args) > 0 {
		return fmt.Errorf("invalid command: %q", args[0])
	}
	cfg, err := config.Load(ctx.String(configFileFlag.Name))
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	n, err := newNode(runCtx, cfg)
	if err != nil {
		return err
	}
	defer n.Close()

	v, _ := version.Info()
	log.Info("Starting web3", "version", v, "chainId", cfg.EVM.ChainID, "rpc", cfg.RPC.Addr, "metrics", cfg.Metrics.Addr)
	if err := n.Run(runCtx); err != nil && err != context.Canceled {
		return err
	}
	log.Info("Stopped web3")
	return nil
}

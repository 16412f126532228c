package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sisu-network/dbridge/client"
	"github.com/sisu-network/dbridge/config"
	"github.com/sisu-network/dbridge/utils"
	"github.com/sisu-network/lib/log"
	"github.com/urfave/cli/v2"
)

var initConfigCommand = cli.Command{
	Name:   "init-config",
	Usage:  "Write a config for a local two chain setup",
	Action: initConfig,
	Flags:  []cli.Flag{configFlag},
}

var pendingCommand = cli.Command{
	Name:   "pending",
	Usage:  "List the pending transfers of a running relayer",
	Action: listPending,
	Flags:  []cli.Flag{urlFlag},
}

func initConfig(c *cli.Context) error {
	path := c.String(configFlag.Name)
	if err := config.WriteConfig(path, config.DefaultConfig()); err != nil {
		return err
	}

	log.Info("Config is written to ", path)
	return nil
}

func listPending(c *cli.Context) error {
	ctx, cancel := context.WithTimeout(c.Context, 10*time.Second)
	defer cancel()

	relayer, err := client.Dial(ctx, c.String(urlFlag.Name))
	if err != nil {
		return err
	}
	defer relayer.Close()

	transfers, err := relayer.ListPendingTransfers(ctx)
	if err != nil {
		return err
	}

	for _, transfer := range transfers {
		line := fmt.Sprintf("%d\tchain=%d\ttx=%s", transfer.Seq, transfer.ChainId, transfer.Hash.Hex())
		if transfer.WatchFailed {
			line += "\tfailed"
		}
		if transfer.Transfer != nil && transfer.Transfer.Message != nil {
			msg := transfer.Transfer.Message
			line += fmt.Sprintf("\tto=%d\tasset=%s\tvalue=%s", transfer.Transfer.ToChainId, msg.AssetType(),
				utils.WeiToEther(msg.DepositValue))
		}
		fmt.Fprintln(c.App.Writer, line)
	}

	return nil
}

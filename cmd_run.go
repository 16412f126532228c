package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sisu-network/dbridge/bridge"
	"github.com/sisu-network/dbridge/chains/eth"
	"github.com/sisu-network/dbridge/config"
	"github.com/sisu-network/dbridge/core"
	"github.com/sisu-network/dbridge/database"
	"github.com/sisu-network/dbridge/server"
	"github.com/sisu-network/dbridge/utils"
	"github.com/sisu-network/lib/log"
	"github.com/urfave/cli/v2"
)

const ShutdownTimeout = 5 * time.Second

var runCommand = cli.Command{
	Name:   "run",
	Usage:  "Run the relayer",
	Action: run,
	Flags:  []cli.Flag{configFlag, envFlag},
}

func run(c *cli.Context) error {
	loadEnv(c.String(envFlag.Name))

	cfg, err := config.Load(c.String(configFlag.Name))
	if err != nil {
		return err
	}

	db := database.NewDb(cfg)
	if err := db.Init(); err != nil {
		return err
	}
	defer db.Close()

	clients := make(map[uint64]eth.EthClient)
	confirmers := make(map[uint64]eth.Confirmer)
	for name, chainCfg := range cfg.Chains {
		client := eth.NewEthClient(chainCfg)
		client.Start()
		defer client.Close()

		clients[chainCfg.ChainId] = client
		confirmers[chainCfg.ChainId] = eth.NewConfirmer(name, client,
			time.Duration(chainCfg.GetBlockTime())*time.Millisecond)
	}

	signers, err := newSigners(cfg, clients)
	if err != nil {
		return err
	}

	registry, err := bridge.NewRegistryFromConfig(cfg, clients, bridge.DefaultHandlers(eth.NewStorageProver()))
	if err != nil {
		return err
	}

	processor := core.NewProcessor(cfg, db, registry, confirmers, signers)
	if err := processor.Start(); err != nil {
		return err
	}
	defer processor.Stop()

	s, err := server.NewServer(server.NewApi(processor), cfg.ServerPort)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Run()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info("Received signal ", sig, ", shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	return s.Shutdown(ctx)
}

// newSigners binds the signer key to every configured chain. Without a key nothing can be
// released.
func newSigners(cfg *config.Relayer, clients map[uint64]eth.EthClient) (map[uint64]*eth.Signer, error) {
	signers := make(map[uint64]*eth.Signer)
	if cfg.SignerKey == "" {
		log.Warnf("No signer key is set, transfers cannot be released")
		return signers, nil
	}

	key, err := utils.PrivateKeyFromHex(cfg.SignerKey)
	if err != nil {
		return nil, err
	}

	for name, chainCfg := range cfg.Chains {
		client := clients[chainCfg.ChainId]
		signer, err := eth.NewSigner(key, chainCfg.ChainId, client)
		if err != nil {
			return nil, fmt.Errorf("cannot create signer for chain %s: %w", name, err)
		}
		signers[chainCfg.ChainId] = signer

		ctx, cancel := context.WithTimeout(context.Background(), eth.RpcTimeOut)
		balance, err := eth.SignerBalance(ctx, client, signer)
		cancel()
		if err != nil {
			log.Warnf("Signer %s cannot release on chain %s, err = %v", signer.Address.Hex(), name, err)
			continue
		}

		log.Infof("Signer %s on chain %s has balance %s", signer.Address.Hex(), name, utils.WeiToEther(balance))
	}

	return signers, nil
}

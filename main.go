package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sisu-network/lib/log"
	"github.com/urfave/cli/v2"
)

var (
	Version = "0.1.0"

	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "Path of the toml config file",
		Value: "dbridge.toml",
	}
	envFlag = &cli.StringFlag{
		Name:  "env",
		Usage: "Path of the .env file holding secrets",
		Value: ".env",
	}
	urlFlag = &cli.StringFlag{
		Name:  "url",
		Usage: "Url of a running relayer",
		Value: "http://localhost:25456",
	}
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "dbridge"
	app.Usage = "Tracks bridge transfers and releases them on their destination chain"
	app.Version = Version
	app.EnableBashCompletion = true
	app.Commands = []*cli.Command{
		&runCommand,
		&initConfigCommand,
		&pendingCommand,
	}

	return app
}

// loadEnv loads secrets from the env file. A missing file is fine, the variables may be set
// already.
func loadEnv(path string) {
	if err := godotenv.Load(path); err != nil {
		log.Verbose("Env file is not loaded, err = ", err)
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

package config

import (
	"os"
	"text/template"
)

const RelayerConfigTemplate = `db_host = "{{ .DbHost }}"
db_port = {{ .DbPort }}
db_username = "{{ .DbUsername }}"
db_schema = "{{ .DbSchema }}"
in_memory = {{ .InMemory }}

server_port = {{ .ServerPort }}
auto_release = {{ .AutoRelease }}

[chains]{{ range $k, $v := .Chains }}
	[chains.{{ $k }}]
	chain = "{{ $v.Chain }}"
	chain_id = {{ $v.ChainId }}
	block_time = {{ $v.BlockTime }}
	rpcs = [{{ range $i, $rpc := $v.Rpcs }}{{ if $i }}, {{ end }}"{{ $rpc }}"{{ end }}]
	bridge_address = "{{ $v.BridgeAddress }}"
	token_vault_address = "{{ $v.TokenVaultAddress }}"
{{ end }}
`

// WriteConfig renders cfg into a toml file. Secrets are never written, they come from the
// environment.
func WriteConfig(path string, cfg *Relayer) error {
	tmpl, err := template.New("relayer").Parse(RelayerConfigTemplate)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return tmpl.Execute(f, cfg)
}

// DefaultConfig is a two chain local setup.
func DefaultConfig() *Relayer {
	return &Relayer{
		DbHost:      "localhost",
		DbPort:      3306,
		DbUsername:  "root",
		DbSchema:    "dbridge",
		ServerPort:  25456,
		AutoRelease: true,
		Chains: map[string]Chain{
			"ganache1": {
				Chain:             "ganache1",
				ChainId:           31337,
				BlockTime:         DefaultBlockTime,
				Rpcs:              []string{"http://localhost:7545"},
				BridgeAddress:     "0x0000000000000000000000000000000000000001",
				TokenVaultAddress: "0x0000000000000000000000000000000000000002",
			},
			"ganache2": {
				Chain:             "ganache2",
				ChainId:           31338,
				BlockTime:         DefaultBlockTime,
				Rpcs:              []string{"http://localhost:8545"},
				BridgeAddress:     "0x0000000000000000000000000000000000000003",
				TokenVaultAddress: "0x0000000000000000000000000000000000000004",
			},
		},
	}
}

package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

var outFile string

const template = `# karchag-backend generated config template
[server]
bind-address=":8080"
mode="debug"  # GIN mode. Either debug, release or test
rollbar-token=""
rollbar-environment="development"
boiler-mode=""  # set to debug to log SQL

[db]
url="postgres://localhost/karchag?sslmode=disable&user=postgres"

[auth]
secret=""  # required
issuer="kangyur-api"
audience="kangyur-client"
access-ttl="60m"
refresh-ttl="168h"

[elasticsearch]
url=""  # empty disables full-text search
index="kangyur_texts"

[nats]
enabled=false
url="nats://localhost:4222"
cluster-id="test-cluster"
client-id="karchag-backend"
subject="karchag"

[storage]
backend="local"  # local or minio
local-dir="uploads"
base-url="/uploads"
endpoint="localhost:9000"
access-key=""
secret-key=""
bucket="karchag"
use-ssl=false

[cache]
refresh-interval="5m"

[feeds]
base-url=""  # defaults to the request host

[test]
db-url="postgres://localhost/postgres?sslmode=disable&user=postgres"
url-template="postgres://localhost/%s?sslmode=disable&user=postgres"
`

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate configuration file template",
	Long:  "Write default configuration to given file or stdout",
	Run:   configFn,
}

func init() {
	RootCmd.AddCommand(configCmd)
	configCmd.Flags().StringVarP(&outFile, "file", "f", "", "Path to generated config file (default is config.toml)")
}

func configFn(cmd *cobra.Command, args []string) {
	if outFile == "" && len(args) > 0 {
		outFile = args[0]
	}
	if err := writeConfig(os.Stdout, outFile); err != nil {
		panic(err)
	}
}

// writeConfig writes the template to path, or to w when path is empty.
func writeConfig(w io.Writer, path string) error {
	if path == "" {
		_, err := io.WriteString(w, template)
		return err
	}
	return os.WriteFile(path, []byte(template), 0644)
}

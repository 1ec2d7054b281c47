// cmd/server/config.go
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind      string
	port      int
	redisAddr string
	verbose   bool
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	return nil
}

func (c *Config) addr() string {
	return fmt.Sprintf("%s:%d", c.bind, c.port)
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("DFG")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:     "dfg-server",
		Short:   "Authoritative room server for the dfg influencer-tactics party game.",
		Args:    cobra.ExactArgs(0),
		Version: releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return serve(cfg)
		},
	}

	fs := cmd.Flags()

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: DFG_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: DFG_PORT)")
	fs.StringVar(&cfg.redisAddr, "redis-addr", "", "redis address for the score historian, empty to disable (env: DFG_REDIS_ADDR)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "enable debug logging (env: DFG_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("dfg-server v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}

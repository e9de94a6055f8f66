package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/trezcool/canvastool/core"
	"github.com/trezcool/canvastool/services/canvas"
)

// mockable
var (
	readPasswordFunc = term.ReadPassword
	probeURLFunc     = probeURL
)

func newSetupCmd() *cobra.Command {
	var token bool
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "check the configuration and guide through fixing it",
		Long: `Validate the config file, the server url, and the access token, reporting the
first problem found. --token prompts for a new token and stores it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if token {
				if err := storeToken(cmd); err != nil {
					return err
				}
			}

			if _, err := os.Stat(core.ConfigPath); err != nil {
				core.Errorf("%s does not exist. you need to create it.", core.ConfigPath)
				core.Errorf("it should have the form:")
				printConfigFormat()
				return errors.New("no config file")
			}
			core.Infof("great! %s exists. let's check it!", core.ConfigPath)

			conf := core.ServerConf()
			if err := validate.Struct(conf); err != nil {
				printConfigFormat()
				return errors.Wrapf(err, "bad config in %s", core.ConfigPath)
			}

			if err := probeURLFunc(conf.URL); err != nil {
				return errors.Wrapf(err, "please check the url in %s", core.ConfigPath)
			}
			core.Infof("%s is reachable.", conf.URL)

			core.Infof("token found. checking to see if it is usable")
			client := canvas.NewClient(conf)
			user, err := client.CurrentUser(cmd.Context())
			if err != nil {
				return errors.Wrap(err, "problem accessing canvas")
			}
			core.Infof("you are successfully able to use canvas as %s", user.Name)
			return nil
		},
	}
	cmd.Flags().BoolVar(&token, "token", false, "prompt for a new access token and store it")
	return cmd
}

// storeToken prompts for a token without echo and rewrites the config file.
func storeToken(cmd *cobra.Command) error {
	fmt.Fprint(cmd.OutOrStdout(), "access token: ")
	raw, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return errors.Wrap(err, "reading token")
	}
	core.Conf.Set("server.token", string(raw))
	if err := os.MkdirAll(filepath.Dir(core.ConfigPath), 0o755); err != nil {
		return errors.WithStack(err)
	}
	return errors.Wrapf(core.Conf.WriteConfigAs(core.ConfigPath), "writing %s", core.ConfigPath)
}

func probeURL(url string) error {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return errors.WithStack(err)
	}
	_ = resp.Body.Close()
	return nil
}

func printConfigFormat() {
	core.Outputf(`[server]
url = https://school.instructure.com
token = the-token-from-account-settings

[moss]
userid = 123456789`)
}

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/carlmjohnson/versioninfo"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/topix-dev/topix/internal"
	"github.com/topix-dev/topix/internal/history"
	"github.com/topix-dev/topix/internal/keymap"
)

var (
	// Version is public so users can optionally specify or override the version
	// at build time by passing in ldflags, e.g.
	//   go build -ldflags "-X github.com/topix-dev/topix/cmd.Version=vX.Y.Z"
	Version = ""
)

type arg struct {
	cliShort, cfgFileEnvVar, description, defaultString string
	isBool, defaultIfBool                               bool
}

var (
	rootNameToArg = map[string]arg{
		"brokers": {
			cliShort:      "b",
			cfgFileEnvVar: "brokers",
			description:   `Comma-separated list of bootstrap brokers. Default localhost:9092`,
			defaultString: "localhost:9092",
		},
		"export-dir": {
			cliShort:      "",
			cfgFileEnvVar: "export-dir",
			description:   `Directory record exports are written to. Default current directory`,
			defaultString: ".",
		},
		"help": {
			description: `Print usage`,
		},
		"history-file": {
			cliShort:      "",
			cfgFileEnvVar: "history-file",
			description:   `Search history file path. Defaults to $HOME/.config/topix/history.db`,
		},
		"query": {
			cliShort:      "q",
			cfgFileEnvVar: "query",
			description:   `Search query to run at startup. Requires --topics`,
		},
		"registry": {
			cliShort:      "r",
			cfgFileEnvVar: "registry",
			description:   `Schema registry URL, e.g. http://localhost:8081`,
		},
		"topics": {
			cliShort:      "t",
			cfgFileEnvVar: "topics",
			description:   `Comma-separated list of topics to pre-select`,
		},
		"url-template": {
			cliShort:      "",
			cfgFileEnvVar: "url-template",
			description:   `Browser URL for a record with {topic}, {partition} and {offset} placeholders`,
		},
	}

	description = fmt.Sprintf(`topix %s

topix is an interactive terminal UI for searching records across Kafka topics`,
		getVersion(),
	)

	rootCmd = &cobra.Command{
		Use:   "topix",
		Short: "topix: kafka topic explorer",
		Long:  description,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, rootNameToArg)
		},
		Run:     mainEntrypoint,
		Version: getVersion(),
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cliLong := "help"
	rootCmd.PersistentFlags().BoolP(cliLong, rootNameToArg[cliLong].cliShort, rootNameToArg[cliLong].defaultIfBool, rootNameToArg[cliLong].description)

	for _, cliLong = range []string{
		"brokers",
		"export-dir",
		"history-file",
		"query",
		"registry",
		"topics",
		"url-template",
	} {
		c := rootNameToArg[cliLong]
		if c.isBool {
			rootCmd.PersistentFlags().BoolP(cliLong, c.cliShort, c.defaultIfBool, c.description)
		} else {
			rootCmd.PersistentFlags().StringP(cliLong, c.cliShort, c.defaultString, c.description)
		}
		_ = viper.BindPFlag(cliLong, rootCmd.PersistentFlags().Lookup(c.cfgFileEnvVar))
	}
	rootCmd.SetVersionTemplate(`{{printf "topix %s\n" .Version}}`)
	rootCmd.Flags().BoolP("version", "v", false, "Show topix version")
}

func initConfig(cmd *cobra.Command, nameToArg map[string]arg) error {
	// bind viper to env vars
	viper.AutomaticEnv()

	bindFlags(cmd, nameToArg)
	return nil
}

func bindFlags(cmd *cobra.Command, nameToArg map[string]arg) {
	v := viper.GetViper()
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		cliLong := f.Name
		viperName := nameToArg[cliLong].cfgFileEnvVar

		// Apply the viper config value to the flag when the flag is not manually specified
		// and viper has a value from the config file or env var
		if !f.Changed && v.IsSet(viperName) {
			val := v.Get(viperName)
			err := cmd.Flags().Set(cliLong, fmt.Sprintf("%v", val))
			if err != nil {
				fmt.Printf("error setting flag %s: %v\n", cliLong, err)
				os.Exit(1)
			}
		}
	})
}

func mainEntrypoint(cmd *cobra.Command, _ []string) {
	initialModel, options := setup(cmd)
	program := tea.NewProgram(initialModel, options...)

	if _, err := program.Run(); err != nil {
		fmt.Printf("error on topix startup: %v", err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command) (internal.Model, []tea.ProgramOption) {
	config := internal.Config{
		KeyMap:       keymap.DefaultKeyMap(),
		Brokers:      splitList(flagValue(cmd, "brokers")),
		RegistryURL:  flagValue(cmd, "registry"),
		Topics:       splitList(flagValue(cmd, "topics")),
		InitialQuery: flagValue(cmd, "query"),
		ExportDir:    flagValue(cmd, "export-dir"),
		URLTemplate:  flagValue(cmd, "url-template"),
		HistoryPath:  flagValue(cmd, "history-file"),
		Version:      getVersion(),
	}
	if config.HistoryPath == "" {
		config.HistoryPath = history.DefaultPath()
	}
	if config.InitialQuery != "" && len(config.Topics) == 0 {
		fmt.Println("error: --query requires --topics")
		os.Exit(1)
	}
	return internal.InitialModel(config), []tea.ProgramOption{tea.WithAltScreen()}
}

func flagValue(cmd *cobra.Command, name string) string {
	return cmd.Flags().Lookup(name).Value.String()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getVersion() string {
	if Version != "" {
		return Version
	}
	return versioninfo.Short()
}

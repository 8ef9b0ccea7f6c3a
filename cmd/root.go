package cmd

import (
	"bytes"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/spf13/cobra"

	"github.com/cmmoran/cdecl/pkg/parser"
)

const levelTrace = slog.Level(-8)

var (
	configFiles    []string
	level, version string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cdecl",
	Short: "C declaration front end",
	Long:  "Tokenize, scan and parse C declarations, then lay out and mirror their types",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVarP(&level, "level", "l", "info", "log level (trace, debug, info, warn, error, debug+1, etc)")
	rootCmd.PersistentFlags().StringSliceVar(&configFiles, "config", []string{}, "config file(s) - multiple config files are merged with last specified file having highest priority")
	rootCmd.PersistentFlags().String("platform", "lp64", "data model used for layout (lp64, llp64, ilp32)")
	rootCmd.PersistentFlags().Bool("strict-implicit-int", false, "reject declarations without a type specifier")
	rootCmd.PersistentFlags().StringSlice("typedefs", []string{}, "names to treat as typedefs before parsing, ex: size_t,FILE")
	_ = viper.BindPFlag("platform", rootCmd.PersistentFlags().Lookup("platform"))
	_ = viper.BindPFlag("strict_implicit_int", rootCmd.PersistentFlags().Lookup("strict-implicit-int"))
	_ = viper.BindPFlag("typedefs", rootCmd.PersistentFlags().Lookup("typedefs"))
}

func parseLevel(s string) (slog.Level, bool) {
	var ll slog.Level
	if strings.EqualFold(s, "trace") {
		return levelTrace, true
	}
	if err := (&ll).UnmarshalText([]byte(s)); err != nil {
		return 0, false
	}
	return ll, true
}

func setLogger(ll slog.Level) *slog.Logger {
	l := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		AddSource:   false,
		Level:       ll,
		ReplaceAttr: nil,
	}))
	slog.SetDefault(l)
	return l
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	ll, ok := parseLevel(level)
	if !ok {
		panic("invalid log level: " + level)
	}
	l := setLogger(ll)

	if len(configFiles) > 0 {
		// Use config file from the flag.
		viper.SetConfigFile(configFiles[0])
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/cdecl")
		viper.SetConfigType("yaml")
		viper.SetConfigName("cdecl")
	}

	viper.SetEnvPrefix("cdecl")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		l.With("config", viper.ConfigFileUsed()).Debug("using config file(s)")
	} else {
		l.With("error", err, "config", viper.ConfigFileUsed()).Debug("unable to use config file(s)")
	}
	if len(configFiles) > 1 {
		for _, file := range configFiles[1:] {
			if configBytes, err := os.ReadFile(file); err == nil {
				if err = viper.MergeConfig(bytes.NewReader(configBytes)); err != nil {
					l.With("error", err, "file", file).Warn("failed to merge config file")
				} else {
					l.With("file", file).Debug("merged config file")
				}
			}
		}
	}
	if len(version) > 0 {
		viper.Set("version", version)
	}

	// the config file may lower or raise the level when the flag was left alone
	llstr := viper.GetString("common.log.level")
	if llstr != "" && !rootCmd.PersistentFlags().Changed("level") {
		cl, ok := parseLevel(llstr)
		if !ok {
			panic("invalid log level: " + llstr)
		}
		setLogger(cl)
	}
}

// newOptions returns parser options for file, filled from flags, config
// files and the environment.
func newOptions(file string) *parser.Options {
	o := parser.NewOptions()
	o.InFile = file
	o.Platform = viper.GetString("platform")
	o.StrictImplicitInt = viper.GetBool("strict_implicit_int")
	o.Typedefs = viper.GetStringSlice("typedefs")
	return o
}

// parseFile runs every stage over file.
func parseFile(file string) (*parser.Parser, error) {
	p, err := parser.NewWithOpts(newOptions(file))
	if err != nil {
		return nil, err
	}
	if err := p.Parse(); err != nil {
		return nil, err
	}
	return p, nil
}

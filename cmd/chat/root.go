package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/term"

	"friday-chat/internal/chat"
	"friday-chat/internal/client"
	"friday-chat/internal/logging"
	"friday-chat/internal/render"
	"friday-chat/internal/tui"
)

// clientConfig is the resolved client configuration.
type clientConfig struct {
	ServerURL     string
	Timeout       time.Duration
	AssistantName string
	AccentColor   string
	Style         string
	SendHistory   bool
	MaxHistory    int
	Plain         bool
	Verbose       bool
}

// historyLimit is the number of prior turns sent with each message.
func (c clientConfig) historyLimit() int {
	if !c.SendHistory {
		return 0
	}
	return c.MaxHistory
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "friday-chat",
		Short: "Chat with FRIDAY from the terminal",
		Long: `friday-chat is a terminal client for the FRIDAY chat proxy.

It opens a full-screen chat view when attached to a terminal, or a plain
line-based prompt with --plain or when input is piped.

Configuration comes from flags, FRIDAY_* environment variables and an
optional TOML file (default $HOME/.config/friday/config.toml).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadClientConfig(v)
			log := newLogger(cfg.Verbose)
			defer log.Sync()

			log.Debug("starting client",
				zap.String("server_url", cfg.ServerURL),
				zap.Duration("timeout", cfg.Timeout),
				zap.Int("max_history", cfg.historyLimit()),
			)

			c := client.New(cfg.ServerURL, cfg.Timeout)

			if cfg.Plain || !term.IsTerminal(int(os.Stdin.Fd())) {
				r, err := render.New("notty", 80)
				if err != nil {
					return err
				}
				session := chat.NewSession(c, cfg.historyLimit())
				return runPlain(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), session, r, cfg.AssistantName)
			}

			m := tui.NewModel(c, tui.Options{
				AssistantName: cfg.AssistantName,
				AccentColor:   cfg.AccentColor,
				Style:         cfg.Style,
				MaxHistory:    cfg.historyLimit(),
			})
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return fmt.Errorf("chat view: %w", err)
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/friday/config.toml)")
	flags.String("server-url", "http://localhost:8080", "chat proxy base URL")
	flags.Duration("timeout", 60*time.Second, "request timeout")
	flags.BoolP("verbose", "v", false, "verbose output")

	local := rootCmd.Flags()
	local.String("assistant-name", "FRIDAY", "name shown for assistant messages")
	local.String("accent-color", "", "accent color (ANSI number or hex)")
	local.String("style", "dark", "markdown style: dark, light, notty, auto, dracula, ...")
	local.Bool("send-history", true, "send prior turns with each message")
	local.Int("max-history", 20, "maximum prior turns sent with each message")
	local.Bool("plain", false, "use the plain line-based prompt")

	for key, name := range map[string]string{
		"server_url":     "server-url",
		"timeout":        "timeout",
		"verbose":        "verbose",
		"assistant_name": "assistant-name",
		"accent_color":   "accent-color",
		"style":          "style",
		"send_history":   "send-history",
		"max_history":    "max-history",
		"plain":          "plain",
	} {
		f := flags.Lookup(name)
		if f == nil {
			f = local.Lookup(name)
		}
		cobra.CheckErr(v.BindPFlag(key, f))
	}

	rootCmd.AddCommand(newStatusCmd(v))
	return rootCmd
}

// initConfig reads in config file and ENV variables if set.
func initConfig(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix("FRIDAY")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	v.AddConfigPath(filepath.Join(home, ".config", "friday"))
	v.SetConfigType("toml")
	v.SetConfigName("config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	return nil
}

func loadClientConfig(v *viper.Viper) clientConfig {
	return clientConfig{
		ServerURL:     v.GetString("server_url"),
		Timeout:       v.GetDuration("timeout"),
		AssistantName: v.GetString("assistant_name"),
		AccentColor:   v.GetString("accent_color"),
		Style:         v.GetString("style"),
		SendHistory:   v.GetBool("send_history"),
		MaxHistory:    v.GetInt("max_history"),
		Plain:         v.GetBool("plain"),
		Verbose:       v.GetBool("verbose"),
	}
}

func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	return logging.NewOrNop(logging.Config{
		Level:       "debug",
		Development: true,
		OutputPaths: []string{"stderr"},
	})
}

package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"vx/internal/app"
	"vx/internal/types"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "VX"

type RootConfig struct {
	ConfigFile string
	LogLevel   string
}

func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Commands read the logger through their context; the level set in
	// PersistentPreRunE applies globally.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	ctx = log.Logger.WithContext(ctx)

	root := newRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		os.Exit(exitCodeForError(err))
	}
}

func newRootCommand() *cobra.Command {
	cfg := RootConfig{}
	cmd := &cobra.Command{
		Use:     "vx",
		Short:   "Multi-runtime version manager and tool launcher",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cfg.ConfigFile); err != nil {
				return err
			}
			setupLogging(viper.GetString("log_level"))
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&cfg.ConfigFile, "config", "", "Config file path")
	cmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", "info", "Log level")
	cmd.PersistentFlags().String("cache-mode", "normal", "Resolution cache mode (normal, refresh, offline, no-cache)")
	cmd.PersistentFlags().Bool("prefer-vx-managed", true, "Prefer store-managed runtimes over system ones")
	cmd.PersistentFlags().Bool("fallback-to-system", true, "Fall back to PATH when the store has no match")
	_ = viper.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("cache_mode", cmd.PersistentFlags().Lookup("cache-mode"))
	_ = viper.BindPFlag("prefer_vx_managed", cmd.PersistentFlags().Lookup("prefer-vx-managed"))
	_ = viper.BindPFlag("fallback_to_system", cmd.PersistentFlags().Lookup("fallback-to-system"))

	cmd.AddCommand(newResolveCommand())
	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newInstallCommand())
	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newWhichCommand())
	cmd.AddCommand(newCacheCommand())
	return cmd
}

func initConfig(configFile string) error {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read config file").
				WithCause(err)
		}
		return nil
	}

	viper.SetConfigName("vx")
	viper.SetConfigType("toml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/vx")
	if err := viper.ReadInConfig(); err != nil {
		return nil
	}
	return nil
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// newAppService builds the service from resolved configuration, flags
// and file and environment merged through viper.
func newAppService() app.Service {
	cfg := types.DefaultResolverConfig()
	if viper.IsSet("auto_install") {
		cfg.AutoInstall = viper.GetBool("auto_install")
	}
	if viper.IsSet("auto_install_dependencies") {
		cfg.AutoInstallDependencies = viper.GetBool("auto_install_dependencies")
	}
	if viper.IsSet("prefer_vx_managed") {
		cfg.PreferVxManaged = viper.GetBool("prefer_vx_managed")
	}
	if viper.IsSet("fallback_to_system") {
		cfg.FallbackToSystem = viper.GetBool("fallback_to_system")
	}
	if viper.IsSet("verify_after_install") {
		cfg.VerifyAfterInstall = viper.GetBool("verify_after_install")
	}
	if viper.IsSet("inherit_vx_path") {
		cfg.InheritVxPath = viper.GetBool("inherit_vx_path")
	}
	if viper.IsSet("max_parallel_installs") {
		cfg.MaxParallelInstalls = viper.GetInt("max_parallel_installs")
	}
	if raw := viper.GetString("cache_mode"); raw != "" {
		cfg.CacheMode = types.ParseCacheMode(raw)
	}
	if secs := viper.GetInt64("cache_ttl_secs"); secs > 0 {
		cfg.CacheTTL = time.Duration(secs) * time.Second
	}
	if secs := viper.GetInt64("execution_timeout_secs"); secs > 0 {
		cfg.ExecutionTimeout = time.Duration(secs) * time.Second
	}
	if secs := viper.GetInt64("install_timeout_secs"); secs > 0 {
		cfg.InstallTimeout = time.Duration(secs) * time.Second
	}

	app.Version = version
	return app.NewService(cfg)
}

func exitCodeForError(err error) int {
	code := errbuilder.CodeOf(err)
	message := errorMessage(err)
	switch code {
	case errbuilder.CodeInvalidArgument, errbuilder.CodeAlreadyExists:
		return 2
	case errbuilder.CodeFailedPrecondition:
		return 4
	case errbuilder.CodeNotFound:
		return 5
	case errbuilder.CodeDeadlineExceeded, errbuilder.CodeUnavailable:
		return 6
	case errbuilder.CodeInternal:
		if strings.HasPrefix(message, "cyclic tool dependency") {
			return 3
		}
		return 5
	default:
		return 1
	}
}

func errorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"welcomebot/bot"
	"welcomebot/config"
	"welcomebot/health"
	"welcomebot/logger"
	"welcomebot/packages/atomicfile"
	"welcomebot/packages/avatar"
	"welcomebot/packages/banner"
)

var (
	testingMode      bool
	envFile          string
	registerCommands bool

	avatarPath  string
	bannerName  string
	memberCount int
	outPath     string
	fontPaths   []string
)

var rootCmd = &cobra.Command{
	Use:           "welcomebot",
	Short:         "Discord bot that greets new members with a rendered banner",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBot,
}

var bannerCmd = &cobra.Command{
	Use:   "banner",
	Short: "Render a welcome banner to a PNG file without connecting to Discord",
	RunE:  runBanner,
}

func init() {
	rootCmd.Flags().BoolVar(&testingMode, "testing", false, "Load variables from .env before reading the environment")
	rootCmd.Flags().StringVar(&envFile, "env-file", "", "Load variables from this file before reading the environment")
	rootCmd.Flags().BoolVar(&registerCommands, "register-commands", true, "True by default (useful in development)")

	bannerCmd.Flags().StringVar(&avatarPath, "avatar", "", "Avatar image file (png, jpeg, gif or webp)")
	bannerCmd.Flags().StringVar(&bannerName, "name", "", "Display name to print on the banner")
	bannerCmd.Flags().IntVar(&memberCount, "count", 1, "Member count")
	bannerCmd.Flags().StringVar(&outPath, "out", "welcome_banner.png", "Output file")
	bannerCmd.Flags().StringSliceVar(&fontPaths, "font", nil, "Font files to try before the system fonts")
	bannerCmd.MarkFlagRequired("avatar")
	bannerCmd.MarkFlagRequired("name")

	rootCmd.AddCommand(bannerCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("Exiting", "error", err)
		os.Exit(1)
	}
}

func runBot(cmd *cobra.Command, args []string) error {
	file := envFile
	if file == "" && testingMode {
		file = ".env"
	}

	cfg, err := config.Load(file)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("register-commands") {
		cfg.RegisterCommands = registerCommands
	}

	log, closer := logger.New(cfg.LogLevel, cfg.LogFile)
	defer closer.Close()
	slog.SetDefault(log)

	b, err := bot.New(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := b.Start(ctx); err != nil {
		return errors.Join(err, b.Stop())
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return health.NewServer(cfg.HealthAddr).ListenAndServe(ctx)
	})

	slog.Info("Press Ctrl+C to exit")
	<-ctx.Done()

	slog.Info("Gracefully shutting down.")
	stop()

	return errors.Join(g.Wait(), b.Stop())
}

func runBanner(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(avatarPath)
	if err != nil {
		return fmt.Errorf("failed to read avatar: %w", err)
	}

	img, err := avatar.Decode(data)
	if err != nil {
		return err
	}

	compositor := banner.NewCompositor(banner.NewFontResolver(banner.DefaultFontSources(fontPaths)...))
	png := compositor.Compose(img, bannerName, memberCount)
	if png == nil {
		return errors.New("banner rendering failed")
	}

	if err := atomicfile.Write(outPath, png, 0o644); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", outPath, len(png))
	return nil
}

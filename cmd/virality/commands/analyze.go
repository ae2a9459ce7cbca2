package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/benvon/virality-checker/internal/analyzer"
	"github.com/benvon/virality-checker/internal/compose"
	"github.com/benvon/virality-checker/internal/models"
	"github.com/benvon/virality-checker/internal/presentation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// draftSource is where the analyzed text comes from and where a rewrite goes
type draftSource interface {
	compose.Locator
	compose.Writer
	compose.ProfileReader
}

// NewAnalyzeCmd creates the analyze command
func NewAnalyzeCmd(opts *Options) *cobra.Command {
	var (
		useBrowser bool
		apply      bool
		htmlPath   string
		followers  int
		bio        string
	)

	cmd := &cobra.Command{
		Use:   "analyze [text]",
		Short: "Analyze a draft post",
		Long: "Analyze a draft post for viral potential. The draft is taken from the arguments, " +
			"from stdin, or with --browser from the compose box open in Chrome.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			a, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			var explicitFollowers *int
			if cmd.Flags().Changed("followers") {
				if followers < 0 {
					return fmt.Errorf("--followers must be non-negative")
				}
				explicitFollowers = &followers
			}

			var source draftSource
			if useBrowser {
				b, err := compose.OpenBrowser(ctx, a.cfg.Browser, a.logger)
				if err != nil {
					return err
				}
				defer b.Close()
				source = b
			} else {
				text, err := readDraft(cmd.InOrStdin(), args)
				if err != nil {
					return err
				}
				source = compose.NewStaticLocator(text, compose.Profile{})
			}

			_, content, err := compose.ActiveText(ctx, source)
			if err != nil {
				return err
			}

			profile, err := source.ReadProfile(ctx)
			if err != nil {
				a.logger.Warn("profile_read_failed", zap.Error(err))
			}
			if explicitFollowers != nil {
				profile.FollowerCount = explicitFollowers
			}
			if cmd.Flags().Changed("bio") {
				profile.Bio = bio
			}

			settings, err := analyzer.LoadSettings(ctx, a.scopes.Synced)
			if err != nil {
				a.logger.Warn("settings_load_failed", zap.Error(err))
			}

			overlay := presentation.NewTerminalOverlay(cmd.OutOrStdout(), cmd.ErrOrStderr())
			if htmlPath != "" {
				f, err := os.Create(htmlPath)
				if err != nil {
					return fmt.Errorf("create %s: %w", htmlPath, err)
				}
				defer func() { _ = f.Close() }()
				overlay.HTML = f
			}

			var analyzeErr error
			controller := presentation.NewController(overlay, a.logger)
			controller.Trigger(ctx, content, func(ctx context.Context, content string) (*models.AnalysisResult, error) {
				result, err := a.orchestrator.Analyze(ctx, models.AnalysisRequest{
					Content:       content,
					FollowerCount: profile.FollowerCount,
					Bio:           profile.Bio,
				})
				analyzeErr = err
				return result, err
			}, settings)
			if analyzeErr != nil {
				return ErrReported
			}
			if overlay.Err != nil {
				return fmt.Errorf("render result: %w", overlay.Err)
			}

			if !apply {
				return nil
			}
			if err := controller.ApplyRewrite(ctx, source, source); err != nil {
				return ErrReported
			}
			if static, ok := source.(*compose.StaticLocator); ok {
				_, text, _ := compose.ActiveText(ctx, static)
				fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", text)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&useBrowser, "browser", false, "Read the draft from the compose box in Chrome")
	cmd.Flags().BoolVar(&apply, "apply", false, "Replace the draft with the suggested rewrite")
	cmd.Flags().StringVar(&htmlPath, "html", "", "Also write the result as an HTML overlay to this file")
	cmd.Flags().IntVar(&followers, "followers", 0, "Follower count to calibrate predictions")
	cmd.Flags().StringVar(&bio, "bio", "", "Profile bio to give the analysis context")
	return cmd
}

// readDraft joins args, or reads stdin when there are none
func readDraft(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read draft from stdin: %w", err)
	}
	return string(data), nil
}

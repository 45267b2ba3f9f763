package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ayusman/fingercount/internal/app"
	"github.com/ayusman/fingercount/internal/config"
	"github.com/ayusman/fingercount/internal/logging"
	"github.com/ayusman/fingercount/internal/render"
	"github.com/ayusman/fingercount/internal/server"
	"github.com/ayusman/fingercount/internal/tray"
)

// runCounter runs the pipeline with the configured presenters until the
// user quits, a signal arrives or the camera fails.
func runCounter(cmd *cobra.Command, cmdCtx *commandContext, cfg *config.Config) error {
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	logger.Info("configuration loaded", "path", cmdCtx.configPath, "exists", cmdCtx.configExists)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var presenters render.Multi
	if cfg.Display.Enabled {
		presenters = append(presenters, render.NewWindow(cfg.Display.WindowTitle, cfg.Display.QuitKey))
	}
	var hub *server.Hub
	if cfg.Server.Enabled {
		hub = server.NewHub()
		presenters = append(presenters, hub)
	}
	var tr *tray.Tray
	if cfg.Tray.Enabled {
		tr = tray.New()
		presenters = append(presenters, tr)
	}

	ctl := app.New(app.Options{
		Config:    cfg,
		Presenter: presenters,
		Logger:    logger,
	})
	if err := ctl.Start(ctx); err != nil {
		return err
	}

	serverCtx, stopServer := context.WithCancel(ctx)
	defer stopServer()

	var g errgroup.Group
	g.Go(func() error {
		defer stopServer()
		return ctl.Wait()
	})

	if hub != nil {
		srv := server.New(server.Config{
			Hub:       hub,
			State:     func() string { return ctl.State().String() },
			StaticDir: cfg.Server.StaticDir,
			Logger:    logger,
		})
		g.Go(func() error {
			if err := srv.ListenAndServe(serverCtx, cfg.Server.Bind); err != nil {
				_ = ctl.Stop()
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
	}

	if tr != nil {
		if hub != nil {
			url := "http://" + cfg.Server.Bind + "/"
			tr.OnDashboard(func() {
				if err := openBrowser(url); err != nil {
					logger.Warn("open dashboard", "url", url, logging.Error(err))
				}
			})
		}
		// The tray needs the main goroutine on some platforms; it returns
		// once the pipeline closes its presenters.
		tr.Run()
	}

	return g.Wait()
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

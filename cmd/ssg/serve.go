package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	ssg "github.com/goliatone/go-ssg"
	"github.com/goliatone/go-ssg/internal/logging"
)

var servePort int

const rebuildDebounce = 500 * time.Millisecond

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site locally and rebuild on changes",
	Long: `Serve performs an initial build, starts a local file server over the
output directory, and watches the content, layout, and asset directories.
Changes trigger a debounced rebuild.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		module, site, err := newModule()
		if err != nil {
			return err
		}

		provider, err := newLoggerProvider()
		if err != nil {
			return err
		}
		log := logging.ModuleLogger(provider, "ssg.serve")

		if _, err := module.Build(cmd.Context(), ssg.BuildOptions{Clean: true}); err != nil {
			return fmt.Errorf("initial build: %w", err)
		}
		log.Info("initial build complete", "output", site.Output)

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer watcher.Close()

		go func() {
			var timer *time.Timer
			for {
				select {
				case event, ok := <-watcher.Events:
					if !ok {
						return
					}
					if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
						!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
						continue
					}
					log.Debug("change detected", "path", event.Name, "op", event.Op.String())

					// New directories need their own watch entry.
					if event.Has(fsnotify.Create) && isDir(event.Name) {
						if err := watcher.Add(event.Name); err != nil {
							log.Warn("watch new directory", "path", event.Name, "error", err)
						}
					}

					if timer != nil {
						timer.Stop()
					}
					timer = time.AfterFunc(rebuildDebounce, func() {
						if _, err := module.Build(cmd.Context(), ssg.BuildOptions{Clean: true}); err != nil {
							log.Error("rebuild failed", "error", err)
							return
						}
						log.Info("site rebuilt")
					})
				case err, ok := <-watcher.Errors:
					if !ok {
						return
					}
					log.Warn("watcher error", "error", err)
				}
			}
		}()

		for _, dir := range []string{site.Content.Dir, site.Content.Layouts, site.Content.Assets} {
			if dir == "" || !isDir(dir) {
				continue
			}
			if err := watchTree(watcher, dir); err != nil {
				log.Warn("watch directory", "path", dir, "error", err)
			}
		}

		addr := fmt.Sprintf(":%d", servePort)
		log.Info("serving site", "dir", site.Output, "url", fmt.Sprintf("http://localhost%s", addr))

		handler := http.FileServer(http.Dir(site.Output))
		return http.ListenAndServe(addr, noCache(handler))
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "port to serve the site on")
	rootCmd.AddCommand(serveCmd)
}

// watchTree registers every directory under root with the watcher. fsnotify
// watches are not recursive.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// noCache disables client caching so rebuilds show up on refresh.
func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrUltraEnder/pagelang"
	"github.com/MrUltraEnder/pagelang/cache"
	"github.com/MrUltraEnder/pagelang/notify"
	"github.com/MrUltraEnder/pagelang/state"
)

type translateOptions struct {
	from, to     string
	output       string
	jsonOut      bool
	providerName string
	retries      int
	cacheFile    string
	context      string
	exclude      string
	ignoreTags   string
	init         bool
	session      string
}

// translateOutput is the JSON output of the translate command.
type translateOutput struct {
	Content       string           `json:"content"`
	Language      string           `json:"language"`
	Translated    bool             `json:"translated"`
	Status        pagelang.Status  `json:"status"`
	Stats         pagelang.Stats   `json:"stats"`
	Notifications []notify.Message `json:"notifications,omitempty"`
	ElapsedMs     int64            `json:"elapsed_ms"`
}

func newTranslateCmd(a *app) *cobra.Command {
	var o translateOptions

	cmd := &cobra.Command{
		Use:   "translate [file]",
		Short: "Switch a page to the other language",
		Long: `Translate reads an HTML page (file or stdin) and switches it to the other
language: a source page goes to the target language, a page marked
data-translated="true" goes back to the source language.

With --init the page is reconciled with the saved language instead: the
saved language is restored, or the page language is detected and foreign
content is translated to the source language.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return a.runTranslate(cmd, path, o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.from, "from", "", "Source language (default from config)")
	f.StringVar(&o.to, "to", "", "Target language (default from config)")
	f.StringVarP(&o.output, "output", "o", "", "Output file (default: stdout)")
	f.BoolVar(&o.jsonOut, "json", false, "Output result as JSON")
	f.StringVar(&o.providerName, "provider", "", "Provider: google, openai or mock (default from config)")
	f.IntVar(&o.retries, "retries", -1, "Retry transient failures this many times (default from config)")
	f.StringVar(&o.cacheFile, "cache-file", "", "Load and save translations from this cache export file")
	f.StringVar(&o.context, "context", "", "Translation context (e.g., 'Developer portfolio')")
	f.StringVar(&o.exclude, "exclude", "", "Comma-separated terms to never translate")
	f.StringVar(&o.ignoreTags, "ignore-tags", "", "Comma-separated extra elements whose text is never translated")
	f.BoolVar(&o.init, "init", false, "Reconcile the page with the saved language instead of switching")
	f.StringVar(&o.session, "session", "cli", "Session id for the redis state backend")
	return cmd
}

func (a *app) runTranslate(cmd *cobra.Command, path string, o translateOptions) error {
	ctx := cmd.Context()

	input, inputName, err := a.readInput(path)
	if err != nil {
		return err
	}

	p, err := a.newProvider(o.providerName)
	if err != nil {
		return err
	}
	retries := a.cfg.Provider.Retries
	if o.retries >= 0 {
		retries = o.retries
	}
	p = pagelang.NewRateLimitedProvider(a.withRetries(p, retries), a.rateConfig())

	tm, err := a.newCache(ctx)
	if err != nil {
		return err
	}
	if o.cacheFile != "" {
		if tm == nil {
			tm = cache.NewInMemoryCache(a.cfg.Cache.TTL)
		}
		if err := a.loadCacheFile(tm, o.cacheFile); err != nil {
			return err
		}
	}

	if o.context != "" {
		a.cfg.Translation.Context = o.context
	}
	client := a.newClient(p, tm, splitTerms(o.exclude)...)

	doc, err := a.newProcessor(splitTerms(o.ignoreTags)...).Parse(input)
	if err != nil {
		return err
	}

	var store pagelang.StateStore = state.NewMemoryStore()
	if o.init {
		if store, err = a.newStore(ctx, o.session); err != nil {
			return err
		}
	}

	localizer, err := notify.NewLocalizer(a.cfg.Translation.SourceLang)
	if err != nil {
		return err
	}
	rec := notify.NewRecorder(localizer)
	opts := append(a.pageOptions(o.from, o.to),
		pagelang.WithNotifier(notify.Multi{rec, notify.NewLogNotifier(localizer, a.logger)}))
	page := pagelang.NewPage(doc, client, store, opts...)

	start := time.Now()
	if o.init {
		a.progress("Restoring language of %s...\n", inputName)
		err = page.Init(ctx)
	} else {
		a.progress("Translating %s...\n", inputName)
		err = page.Toggle(ctx)
	}
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}
	elapsed := time.Since(start)

	if o.cacheFile != "" {
		if _, err := cache.NewExporter(tm).ExportToFile(ctx, o.cacheFile, map[string]string{"source": inputName}); err != nil {
			return fmt.Errorf("saving cache file: %w", err)
		}
	}

	content, err := page.Render()
	if err != nil {
		return err
	}

	var out io.Writer = a.stdout
	if o.output != "" {
		f, err := os.Create(o.output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	st := page.State()
	stats := page.LastStats()

	if o.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(translateOutput{
			Content:       content,
			Language:      st.Lang,
			Translated:    st.Translated,
			Status:        page.Status(),
			Stats:         stats,
			Notifications: rec.Messages(),
			ElapsedMs:     elapsed.Milliseconds(),
		})
	}

	fmt.Fprint(out, content)

	a.progress("\nDone in %v\n", elapsed.Round(time.Millisecond))
	a.progress("  Language:     %s\n", st.Lang)
	a.progress("  Strings:      %d\n", stats.Requested)
	a.progress("  Translated:   %d\n", stats.Translated)
	a.progress("  From cache:   %d\n", stats.Cached)
	a.progress("  Skipped:      %d\n", stats.Skipped)
	return nil
}

// loadCacheFile imports a previous export. A missing file is not an error:
// it is created after the first run.
func (a *app) loadCacheFile(tm pagelang.TranslationCache, path string) error {
	res, err := cache.NewImporter(tm).ImportFromFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading cache file: %w", err)
	}
	a.logger.Debug("cache file loaded", "path", path, "imported", res.Imported, "failed", res.Failed)
	return nil
}

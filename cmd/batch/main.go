package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"studio/internal/domain"
	"studio/internal/infra"
	"studio/internal/media"
	"studio/internal/providers/genai"
	"studio/internal/providers/image"
	"studio/internal/storage"
	"studio/internal/studio"
	ziputil "studio/pkg/zip"
)

type batchOptions struct {
	Preset string
	Color  string
	Logo   string
	Out    string
}

var opts batchOptions

var errRendersFailed = errors.New("one or more renders failed")

var rootCmd = &cobra.Command{
	Use:   "studio-batch [photos...]",
	Short: "Restyle bakery photos into editorial shots from the command line.",
	Long: `Uploads the given photos into a throwaway studio session, renders every one
with the chosen preset and writes the PNG results to the output directory.
Without GEMINI_API_KEY the renders are synthetic.`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBatch,
}

func init() {
	rootCmd.Flags().StringVarP(&opts.Preset, "preset", "p", string(domain.PresetAvenueMontaigne), "editorial preset id")
	rootCmd.Flags().StringVarP(&opts.Color, "color", "c", "", "surface color for the solid-chic preset")
	rootCmd.Flags().StringVarP(&opts.Logo, "logo", "l", "", "logo image to place on every render")
	rootCmd.Flags().StringVarP(&opts.Out, "out", "o", "./renders", "directory for the rendered PNG files")
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := infra.LoadConfig()
	if err != nil {
		return err
	}
	logger := infra.NewLogger(cfg.AppEnv)

	workdir, err := os.MkdirTemp("", "studio-batch-*")
	if err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	defer os.RemoveAll(workdir)

	store, err := storage.NewFileStore(workdir)
	if err != nil {
		return err
	}

	generator, err := newGenerator(ctx, cfg, &logger)
	if err != nil {
		return err
	}

	st, err := studio.New(studio.Options{
		Blobs:       store,
		Encoder:     media.NewEncoder(store, media.Options{MaxEdge: cfg.MaxImageEdge}),
		Generator:   generator,
		DefaultLogo: domain.BrandLogo{Name: cfg.DefaultLogoName, Source: cfg.DefaultLogoURL},
		Logger:      &logger,
	})
	if err != nil {
		return err
	}

	if err := applyBranding(ctx, st); err != nil {
		return err
	}

	uploads := make([]studio.Upload, 0, len(args))
	for _, p := range args {
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		uploads = append(uploads, studio.Upload{Filename: filepath.Base(p), Data: data})
	}
	if _, err := st.Upload(ctx, uploads); err != nil {
		return err
	}

	if err := os.MkdirAll(opts.Out, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	jobs := st.ProcessAll()
	names := ziputil.NewNames()
	failed := 0
	for _, job := range jobs {
		select {
		case <-job.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
		rec := job.Result()
		if rec.Status != domain.ImageStatusCompleted {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "FAILED  %s: %s\n", rec.Name, rec.Error)
			continue
		}
		dl, err := st.Download(ctx, rec.ID)
		if err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "FAILED  %s: %v\n", rec.Name, err)
			continue
		}
		dest, err := writeResult(opts.Out, names, dl.Filename, dl.Data)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "OK      %s -> %s\n", rec.Name, dest)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errRendersFailed, failed, len(jobs))
	}
	return nil
}

// writeResult saves data under the first name that is neither used earlier in
// this run nor already present in dir. Existing files are never overwritten.
func writeResult(dir string, names *ziputil.Names, filename string, data []byte) (string, error) {
	for {
		dest := filepath.Join(dir, names.Next(filename))
		f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create %s: %w", dest, err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", fmt.Errorf("write %s: %w", dest, err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close %s: %w", dest, err)
		}
		return dest, nil
	}
}

func applyBranding(ctx context.Context, st *studio.Studio) error {
	brand := st.Branding()
	if _, err := brand.SetPreset(opts.Preset); err != nil {
		return err
	}
	if opts.Color != "" {
		if _, err := brand.SetColor(opts.Color); err != nil {
			return err
		}
	}
	if opts.Logo == "" {
		return nil
	}
	data, err := os.ReadFile(opts.Logo)
	if err != nil {
		return fmt.Errorf("read logo: %w", err)
	}
	_, _, err = st.AddLogo(ctx, studio.Upload{Filename: filepath.Base(opts.Logo), Data: data})
	return err
}

func newGenerator(ctx context.Context, cfg *infra.Config, logger *infra.Logger) (image.Generator, error) {
	if !cfg.HasGemini() {
		logger.Warn().Msg("GEMINI_API_KEY not set; using synthetic renders")
		return image.NewSynthetic(), nil
	}
	client, err := genai.NewClient(ctx, genai.Options{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Timeout: cfg.GeminiTimeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	return image.NewGeminiGenerator(client), nil
}

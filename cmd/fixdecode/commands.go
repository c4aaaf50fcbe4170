package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/danmuck/fixdecode/internal/config"
	"github.com/danmuck/fixdecode/internal/dictionary"
	"github.com/danmuck/fixdecode/internal/fix"
	"github.com/danmuck/fixdecode/internal/logging"
	"github.com/danmuck/fixdecode/internal/observability"
	"github.com/danmuck/fixdecode/internal/render"
	"github.com/danmuck/fixdecode/internal/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type app struct {
	prefsPath string
	cfg       cliConfig
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: defaultCLIConfig()}
	root := &cobra.Command{
		Use:   "fixdecode",
		Short: "Decode FIX protocol messages into named, annotated fields",
		Long: `fixdecode splits a raw FIX message into tag=value fields, picks the data
dictionary from BeginString (8) and annotates every field with its name and,
for enumerated tags, the meaning of its value.

Fields the dictionary does not define are marked (*).`,
		SilenceUsage:      true,
		PersistentPreRunE: a.preRun,
	}
	root.PersistentFlags().StringVar(&a.prefsPath, "prefs", "", "CLI preferences TOML (default $"+EnvPrefs+")")
	root.AddCommand(
		a.decodeCmd(),
		a.convertCmd(),
		a.versionsCmd(),
		a.lookupCmd(),
		a.fieldsCmd(),
		a.serveCmd(),
	)
	return root
}

func (a *app) preRun(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "serve" {
		logging.ConfigureRuntime()
	} else {
		logging.ConfigureCLI()
	}

	path := a.prefsPath
	if path == "" {
		path = os.Getenv(EnvPrefs)
	}
	if path == "" {
		return nil
	}
	cfg, err := loadCLIConfig(path)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// decodeFlags are shared by every command that decodes or renders.
type decodeFlags struct {
	delimiter string
	malformed string
	specs     []string
	format    string
	color     bool
	file      string
}

func (f *decodeFlags) register(cmd *cobra.Command, input bool) {
	fs := cmd.Flags()
	fs.StringVarP(&f.delimiter, "delimiter", "d", "auto", "field delimiter: auto, pipe or soh")
	fs.StringVar(&f.malformed, "malformed", "empty", "segments without '=': empty or skip")
	fs.StringSliceVar(&f.specs, "spec", nil, "QuickFIX XML dictionary to layer over the builtin ones (repeatable)")
	fs.StringVarP(&f.format, "format", "o", "table", "output format: table, plain or json")
	fs.BoolVar(&f.color, "color", false, "colour table output (default: when stdout is a terminal)")
	if input {
		fs.StringVarP(&f.file, "file", "f", "", "read the message from a file instead of stdin")
	}
}

// resolve applies explicitly set flags over the loaded preferences.
func (f *decodeFlags) resolve(cmd *cobra.Command, base cliConfig) (cliConfig, error) {
	out := base
	fs := cmd.Flags()
	if fs.Changed("delimiter") {
		out.Decode.Delimiter = f.delimiter
	}
	if fs.Changed("malformed") {
		out.Decode.MalformedSegments = f.malformed
	}
	if fs.Changed("spec") {
		out.Decode.QuickFIXSpecs = append(append([]string{}, out.Decode.QuickFIXSpecs...), normalizePaths(f.specs)...)
	}
	if fs.Changed("format") {
		format, err := render.ParseFormat(f.format)
		if err != nil {
			return cliConfig{}, err
		}
		out.Format = format
	}
	if fs.Changed("color") {
		out.Color = f.color
	}
	if err := config.ValidateDecodeConfig(out.Decode); err != nil {
		return cliConfig{}, err
	}
	return out, nil
}

func (a *app) decodeCmd() *cobra.Command {
	var flags decodeFlags
	cmd := &cobra.Command{
		Use:   "decode [message]",
		Short: "Decode one FIX message",
		Long: `Decode one FIX message given as an argument, read from --file, or read from
stdin. Stdin is read to EOF and treated as a single message.

Examples:
  fixdecode decode '` + fix.DelimiterPipe.Example() + `'
  fixdecode decode -f order.fix -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.resolve(cmd, a.cfg)
			if err != nil {
				return err
			}
			raw, err := readMessage(cmd, args, flags.file)
			if err != nil {
				return err
			}
			dec, err := opts.Decode.BuildDecoder()
			if err != nil {
				return err
			}
			res, err := dec.Decode(raw, opts.Decode.DefaultDelimiter())
			if err != nil {
				return err
			}
			if res.VersionDefaulted && res.BeginString != "" {
				log.Warn().
					Str("begin_string", res.BeginString).
					Str("using", res.Version.String()).
					Msg("unrecognised BeginString")
			}
			return render.Renderer{Format: opts.Format, Color: opts.Color}.Result(cmd.OutOrStdout(), res)
		},
	}
	flags.register(cmd, true)
	return cmd
}

func (a *app) convertCmd() *cobra.Command {
	var from, to, file string
	cmd := &cobra.Command{
		Use:   "convert [message]",
		Short: "Rewrite a message between SOH and pipe delimiters",
		Long: `Rewrite every delimiter of a message. The current delimiter is detected
unless --from is given; without --to the message is toggled between
` + fix.DelimiterSOH.Label() + ` and ` + fix.DelimiterPipe.Label() + `.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := fix.ParseDelimiter(from)
			if err != nil {
				return err
			}
			dst, err := fix.ParseDelimiter(to)
			if err != nil {
				return err
			}
			raw, err := readMessage(cmd, args, file)
			if err != nil {
				return err
			}
			raw = strings.TrimSpace(raw)
			src = fix.ResolveDelimiter(raw, src)
			if dst == fix.DelimiterAuto {
				dst = src.Toggle()
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), fix.ConvertDelimiter(raw, src, dst))
			return err
		},
	}
	cmd.Flags().StringVar(&from, "from", "auto", "current delimiter: auto, pipe or soh")
	cmd.Flags().StringVar(&to, "to", "auto", "target delimiter: pipe or soh (default: the other one)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the message from a file instead of stdin")
	return cmd
}

func (a *app) versionsCmd() *cobra.Command {
	var flags decodeFlags
	cmd := &cobra.Command{
		Use:   "versions",
		Short: "List the FIX versions with a data dictionary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := flags.resolve(cmd, a.cfg)
			if err != nil {
				return err
			}
			store, err := opts.Decode.BuildStore(dictionary.Builtin())
			if err != nil {
				return err
			}
			return render.Renderer{Format: opts.Format, Color: opts.Color}.Versions(cmd.OutOrStdout(), store)
		},
	}
	flags.register(cmd, false)
	return cmd
}

func (a *app) lookupCmd() *cobra.Command {
	var flags decodeFlags
	var version string
	cmd := &cobra.Command{
		Use:   "lookup <tag>",
		Short: "Show a tag's name and enumerated values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.resolve(cmd, a.cfg)
			if err != nil {
				return err
			}
			v, err := dictionary.RequireVersion(version)
			if err != nil {
				return err
			}
			store, err := loadedStore(opts, v)
			if err != nil {
				return err
			}
			tag := strings.TrimSpace(args[0])
			info, ok := store.Lookup(v, tag)
			if !ok {
				return fmt.Errorf("tag %s is not known to %s", tag, v)
			}
			return render.Renderer{Format: opts.Format, Color: opts.Color}.Field(cmd.OutOrStdout(), info)
		},
	}
	flags.register(cmd, false)
	cmd.Flags().StringVar(&version, "version", dictionary.DefaultVersion.String(), "FIX version to look the tag up in")
	return cmd
}

func (a *app) fieldsCmd() *cobra.Command {
	var flags decodeFlags
	var version string
	cmd := &cobra.Command{
		Use:   "fields",
		Short: "List every field a version's dictionary defines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := flags.resolve(cmd, a.cfg)
			if err != nil {
				return err
			}
			v, err := dictionary.RequireVersion(version)
			if err != nil {
				return err
			}
			store, err := loadedStore(opts, v)
			if err != nil {
				return err
			}
			return render.Renderer{Format: opts.Format, Color: opts.Color}.Fields(cmd.OutOrStdout(), store.DictionaryFor(v))
		},
	}
	flags.register(cmd, false)
	cmd.Flags().StringVar(&version, "version", dictionary.DefaultVersion.String(), "FIX version to list")
	return cmd
}

// loadedStore builds the store for opts and checks it carries v.
func loadedStore(opts cliConfig, v dictionary.Version) (*dictionary.Store, error) {
	store, err := opts.Decode.BuildStore(dictionary.Builtin())
	if err != nil {
		return nil, err
	}
	if !store.Has(v) {
		return nil, fmt.Errorf("no dictionary loaded for %s", v)
	}
	return store, nil
}

func (a *app) serveCmd() *cobra.Command {
	var path, addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the decoder over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultServerConfig()
			if path != "" {
				loaded, err := config.LoadServerConfig(path)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			logger := observability.InitLogger(cfg.Name)
			dec, err := cfg.Decode.BuildDecoder(fix.WithLogger(logger.With().Str("component", "decoder").Logger()))
			if err != nil {
				return err
			}
			logger.Info().
				Str("config", path).
				Int("quickfix_specs", len(cfg.Decode.QuickFIXSpecs)).
				Strs("versions", versionNames(dec.Store())).
				Msg("decoder ready")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(cfg, dec).Run(ctx)
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", "", "server config TOML (see configgen -kind server)")
	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	return cmd
}

func readMessage(cmd *cobra.Command, args []string, file string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read message: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func versionNames(store *dictionary.Store) []string {
	versions := store.Versions()
	out := make([]string, 0, len(versions))
	for _, v := range versions {
		out = append(out, v.String())
	}
	return out
}

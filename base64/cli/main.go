// Command b64 encodes and decodes base64 from files or stdin and can serve
// the codec over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/presbrey/b64/b64http"
	"github.com/presbrey/b64/base64"
	"github.com/presbrey/b64/config"
)

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	envFile    string
	urlSafe    bool

	cfg *config.Config
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}

	rootCmd := a.rootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "b64",
		Short: "Base64 encoding and decoding utility",
		Long: `A command-line utility for encoding and decoding data with padded base64,
using either the standard alphabet or the URL-safe one.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&a.urlSafe, "url", "u", false, "use the URL-safe alphabet ('-' and '_' instead of '+' and '/')")
	flags.StringVarP(&a.configPath, "config", "c", "", "configuration file or URL (.yaml, .toml or .json)")
	flags.StringVar(&a.envFile, "env-file", config.DefaultEnvFile, "env file name searched from the working directory upwards, empty to disable")

	rootCmd.AddCommand(a.encodeCmd(), a.decodeCmd(), a.lengthCmd(), a.serveCmd())
	return rootCmd
}

// loadConfig resolves .env files, the config file, environment overrides
// and finally the command line flags, in that order of increasing priority.
func (a *app) loadConfig(cmd *cobra.Command) error {
	if a.envFile != "" {
		if _, err := config.LoadEnvFiles(a.envFile); err != nil {
			return err
		}
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("url") {
		cfg.Codec.Variant = base64.Standard
		if a.urlSafe {
			cfg.Codec.Variant = base64.URLSafe
		}
	}

	a.cfg = cfg
	return nil
}

func (a *app) encodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode [file]",
		Short: "Encode data to base64",
		Long:  `Encode data from stdin or a file to padded base64.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := a.readInput(args)
			if err != nil {
				return err
			}

			enc := a.cfg.Encoding()
			encoded := make([]byte, enc.EncodeLength(len(input)))
			if _, err := enc.Encode(encoded, input); err != nil {
				return fmt.Errorf("error encoding data: %w", err)
			}

			_, err = fmt.Fprintln(a.stdout, string(encoded))
			return err
		},
	}
}

func (a *app) decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode base64 data",
		Long:  `Decode padded base64 data from stdin or a file to its original bytes.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := a.readInput(args)
			if err != nil {
				return err
			}

			// Trim any newlines that might have been added when writing files
			decoded, err := a.cfg.Encoding().DecodeString(trimNewlines(string(input)))
			if err != nil {
				return fmt.Errorf("error decoding base64 data: %w", err)
			}

			_, err = a.stdout.Write(decoded)
			return err
		},
	}
}

func (a *app) lengthCmd() *cobra.Command {
	lengthCmd := &cobra.Command{
		Use:   "length",
		Short: "Compute encoded or decoded sizes",
	}

	lengthCmd.AddCommand(&cobra.Command{
		Use:   "encode N",
		Short: "Print the encoded length of N bytes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 0 {
				return fmt.Errorf("invalid byte count %q", args[0])
			}
			m, err := base64.CheckEncodeLength(n)
			if err != nil {
				return fmt.Errorf("byte count %d: %w", n, err)
			}
			_, err = fmt.Fprintln(a.stdout, m)
			return err
		},
	}, &cobra.Command{
		Use:   "decode TEXT",
		Short: "Print the number of bytes TEXT decodes to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := base64.DecodeLength([]byte(args[0]))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.stdout, n)
			return err
		},
	})

	return lengthCmd
}

func (a *app) serveCmd() *cobra.Command {
	var host string
	var port int

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the codec over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("host") {
				a.cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			silent := a.cfg.Log.Silent
			if !silent {
				log.SetFlags(log.Lshortfile | log.LstdFlags)
				if a.cfg.Source != "" {
					log.Printf("Loaded configuration from %s", a.cfg.Source)
				}
				log.Printf("Listening on %s (variant %s)", a.cfg.ListenAddress(), a.cfg.Codec.Variant)
			}

			if err := b64http.New(a.cfg).Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			if !silent {
				log.Println("Server stopped")
			}
			return nil
		},
	}

	serveCmd.Flags().StringVar(&host, "host", "", "listen host (overrides config)")
	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides config)")
	return serveCmd
}

// readInput reads the named file, or stdin when no file is given.
func (a *app) readInput(args []string) ([]byte, error) {
	if len(args) == 0 {
		input, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, fmt.Errorf("error reading from stdin: %w", err)
		}
		return input, nil
	}

	input, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", args[0], err)
	}
	return input, nil
}

// trimNewlines removes trailing newlines from a string
func trimNewlines(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

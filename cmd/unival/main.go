package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/josephcopenhaver/unival"
	"github.com/josephcopenhaver/unival/base64"
)

var errInputsFailed = errors.New("one or more inputs failed")

const usage = `Usage: unival [flags] <command> [file...]

Commands:
  detect    print the detected encoding and the BOM-less candidates
  validate  validate each input in its detected (or -encoding) encoding
  count     print the code point count of each valid input
  to-utf8   write each valid input transcoded to UTF-8
  b64enc    write each input base64 encoded, one line per input
  b64dec    write each input base64 decoded

Reads stdin when no file is given. Flags:
`

type config struct {
	cmd      string
	files    []string
	opts     base64.Options
	policy   base64.LastChunk
	encoding unival.Encoding
	verbose  bool
}

var encodingFlags = map[string]unival.Encoding{
	"auto":    unival.Unspecified,
	"utf8":    unival.UTF8,
	"utf16le": unival.UTF16LE,
	"utf16be": unival.UTF16BE,
	"utf32le": unival.UTF32LE,
	"utf32be": unival.UTF32BE,
}

var policyFlags = map[string]base64.LastChunk{
	"loose":   base64.Loose,
	"strict":  base64.Strict,
	"partial": base64.StopBeforePartial,
}

func parseArgs(args []string, stderr io.Writer) (config, error) {
	var cfg config

	fs := flag.NewFlagSet("unival", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	var (
		url      = fs.Bool("url", false, "use the URL-safe base64 alphabet")
		flipPad  = fs.Bool("flip-padding", false, "reverse the alphabet's default base64 padding")
		policy   = fs.String("policy", "loose", "base64 last chunk policy: loose, strict or partial")
		encoding = fs.String("encoding", "auto", "input encoding: auto, utf8, utf16le, utf16be, utf32le or utf32be")
	)
	fs.BoolVar(&cfg.verbose, "v", false, "debug logging")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return cfg, errors.New("missing command")
	}

	cfg.cmd = fs.Arg(0)
	cfg.files = fs.Args()[1:]

	if *url {
		cfg.opts |= base64.URL
	}
	if *flipPad {
		cfg.opts |= base64.ReversePadding
	}

	var ok bool
	if cfg.policy, ok = policyFlags[*policy]; !ok {
		return cfg, fmt.Errorf("unknown policy %q", *policy)
	}
	if cfg.encoding, ok = encodingFlags[strings.ToLower(*encoding)]; !ok {
		return cfg, fmt.Errorf("unknown encoding %q", *encoding)
	}

	switch cfg.cmd {
	case "detect", "validate", "count", "to-utf8", "b64enc", "b64dec":
	default:
		return cfg, fmt.Errorf("unknown command %q", cfg.cmd)
	}

	return cfg, nil
}

func newLogger(verbose bool) *zap.Logger {
	zcfg := zap.NewProductionConfig()
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, err := zcfg.Build()
	if err != nil {
		return zap.NewNop()
	}

	return logger
}

func main() {
	cfg, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(2)
	}

	logger := newLogger(cfg.verbose)
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, os.Stdin, os.Stdout, logger); err != nil {
		logger.Error("unival failed", zap.String("command", cfg.cmd), zap.Error(err))
		os.Exit(1)
	}
}

type input struct {
	name string
	data []byte
}

func readInputs(files []string, stdin io.Reader) ([]input, error) {
	if len(files) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return []input{{"-", data}}, nil
	}

	inputs := make([]input, 0, len(files))
	for _, name := range files {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		inputs = append(inputs, input{name, data})
	}

	return inputs, nil
}

// run applies cfg.cmd to every input. A failing input is logged and the
// remaining inputs still run; the returned error says whether any failed.
func run(cfg config, stdin io.Reader, stdout io.Writer, logger *zap.Logger) error {
	inputs, err := readInputs(cfg.files, stdin)
	if err != nil {
		return err
	}

	logger.Debug("inputs loaded",
		zap.String("command", cfg.cmd),
		zap.Int("count", len(inputs)),
		zap.String("unival_version", unival.Version),
	)

	failed := 0
	for _, in := range inputs {
		if err := process(cfg, in, stdout, logger); err != nil {
			failed++

			fields := []zap.Field{zap.String("input", in.name), zap.Error(err)}
			var uerr *unival.Error
			if errors.As(err, &uerr) {
				fields = append(fields, zap.Stringer("kind", uerr.Kind), zap.Int("position", uerr.Position))
			}
			logger.Warn("input rejected", fields...)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errInputsFailed, failed, len(inputs))
	}

	return nil
}

func (cfg config) encodingOf(data []byte) unival.Encoding {
	if cfg.encoding != unival.Unspecified {
		return cfg.encoding
	}

	return unival.Detect(data)
}

func process(cfg config, in input, stdout io.Writer, logger *zap.Logger) error {
	var line []byte

	switch cfg.cmd {
	case "detect":
		line = fmt.Appendf(line, "%s\t%s\tcandidates=%s\n", in.name, unival.Detect(in.data), unival.Candidates(in.data))
	case "validate":
		enc := cfg.encodingOf(in.data)
		n, err := unival.ValidateEncoded(in.data, enc)
		if err != nil {
			return fmt.Errorf("validate %s: %w", enc, err)
		}
		line = fmt.Appendf(line, "%s\t%s\tok\tunits=%d\n", in.name, enc, n)
	case "count":
		enc := cfg.encodingOf(in.data)
		text, err := unival.AppendUTF8(nil, in.data, enc)
		if err != nil {
			return fmt.Errorf("transcode %s: %w", enc, err)
		}
		line = fmt.Appendf(line, "%s\t%d\n", in.name, unival.CountUTF8(text))
	case "to-utf8":
		enc := cfg.encodingOf(in.data)
		text, err := unival.AppendUTF8(nil, in.data, enc)
		if err != nil {
			return fmt.Errorf("transcode %s: %w", enc, err)
		}
		line = text
	case "b64enc":
		line = base64.AppendEncode(nil, in.data, cfg.opts)
		line = append(line, '\n')
	case "b64dec":
		src := bytes.TrimRight(in.data, "\r\n")
		dst := make([]byte, base64.DecodedLength(len(src)))
		r, err := base64.DecodeInto(dst, src, cfg.opts, cfg.policy)
		if err != nil {
			return fmt.Errorf("decode base64: %w", err)
		}
		if r.Consumed < len(src) {
			logger.Debug("partial group left undecoded",
				zap.String("input", in.name),
				zap.Int("unconsumed", len(src)-r.Consumed),
			)
		}
		line = dst[:r.Written]
	}

	logger.Debug("input processed", zap.String("input", in.name), zap.Int("bytes", len(line)))

	_, err := stdout.Write(line)
	return err
}

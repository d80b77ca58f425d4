package main

import (
	"context"
	"crypto/cipher"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/zmohling/TDES/internal/config"
	"github.com/zmohling/TDES/internal/des"
	"github.com/zmohling/TDES/internal/fileio"
	"github.com/zmohling/TDES/internal/kdf"
	"github.com/zmohling/TDES/internal/logger"
	"github.com/zmohling/TDES/internal/pipeline"
	"github.com/zmohling/TDES/internal/progress"
	"github.com/zmohling/TDES/internal/prompt"
)

const usageLine = "Incorrect usage: tdes [-enc|-dec] <source> <dest>"

const (
	exitOK         = 0
	exitFailure    = 1
	exitBadArgs    = -1
	exitBadMode    = -2
	exitBadOptions = 2
)

type options struct {
	mode          pipeline.Mode
	src, dst      string
	single        bool
	passwordStdin bool
	quiet         bool
	iterSet       bool
	cfg           *config.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin *os.File, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tdes", flag.ContinueOnError)
	fs.SetOutput(stderr)
	encrypt := fs.Bool("enc", false, "encryption mode")
	decrypt := fs.Bool("dec", false, "decryption mode")
	single := fs.Bool("des", false, "use single DES with an 8-byte key instead of Triple-DES")
	workers := fs.Int("workers", 0, "number of worker goroutines (default from config, 8)")
	chunkSize := fs.Int("chunk-size", 0, "bytes per buffer chunk (default from config, 4096)")
	chunks := fs.Int("chunks", 0, "chunks in the circular buffer (default from config, 16)")
	iterations := fs.Int("iterations", 0, "PBKDF2 iterations (default 100000, 1000 with -des)")
	kdfName := fs.String("kdf", "", "key derivation: pbkdf2 or argon2id")
	configPath := fs.String("config", "", "config file (default $XDG_CONFIG_HOME/tdes/config.json)")
	saveConfig := fs.Bool("save-config", false, "store the effective settings in the config file")
	passwordStdin := fs.Bool("password-stdin", false, "read the password lines from stdin instead of the terminal")
	verbose := fs.Bool("v", false, "log every chunk load and flush")
	quiet := fs.Bool("quiet", false, "suppress progress and summary output")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: tdes [options] -enc|-dec <source> <dest>")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitBadOptions
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(stderr, usageLine)
		return exitBadArgs
	}
	if *encrypt == *decrypt {
		fmt.Fprintln(stderr, usageLine)
		fmt.Fprintln(stderr, "You must specify exactly one of -enc (encrypt) or -dec (decrypt).")
		return exitBadMode
	}

	log := logger.New(stderr, *verbose)

	path, cfg, err := loadConfig(*configPath)
	if err != nil {
		log.WithError(err).Error("could not load configuration")
		return exitBadOptions
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["workers"] {
		cfg.Workers = *workers
	}
	if set["chunk-size"] {
		cfg.ChunkSize = *chunkSize
	}
	if set["chunks"] {
		cfg.NumChunks = *chunks
	}
	if set["iterations"] {
		cfg.Iterations = *iterations
	}
	if set["kdf"] {
		cfg.KDF = *kdfName
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Error("invalid options")
		return exitBadOptions
	}
	if *saveConfig {
		if path == "" {
			log.Error("no config path; pass -config")
			return exitBadOptions
		}
		if err := config.Save(path, cfg); err != nil {
			log.WithError(err).Error("could not save configuration")
			return exitFailure
		}
		log.WithField("path", path).Info("configuration saved")
	}

	opts := options{
		mode:          pipeline.Encrypt,
		src:           fs.Arg(0),
		dst:           fs.Arg(1),
		single:        *single,
		passwordStdin: *passwordStdin,
		quiet:         *quiet,
		iterSet:       set["iterations"],
		cfg:           cfg,
	}
	if *decrypt {
		opts.mode = pipeline.Decrypt
	}

	if err := execute(ctx, opts, stdin, stdout, log); err != nil {
		log.WithFields(logrus.Fields{
			"mode":   opts.mode.String(),
			"source": opts.src,
			"dest":   opts.dst,
		}).WithError(err).Error("aborting")
		return exitFailure
	}
	return exitOK
}

// loadConfig returns the config file path in use, which is empty when no
// home directory is known, and the settings read from it.
func loadConfig(path string) (string, *config.Config, error) {
	if path == "" {
		p, err := config.Path()
		if err != nil {
			return "", config.Default(), nil
		}
		path = p
	}
	cfg, err := config.Load(path)
	return path, cfg, err
}

// execute runs one file through the pipeline. The destination is created
// only after the password is accepted and is removed again if the run fails.
func execute(ctx context.Context, o options, stdin *os.File, stdout io.Writer, log *logrus.Logger) (err error) {
	src, srcLen, err := fileio.OpenSource(o.src)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := fileio.CheckDestination(o.src, o.dst); err != nil {
		return err
	}

	var pw []byte
	if o.passwordStdin {
		pw, err = prompt.Lines(stdin, stdout, true)
	} else {
		pw, err = prompt.Password(stdin, stdout, true)
	}
	if err != nil {
		return err
	}
	defer kdf.Zeroize(pw)

	block, err := newBlock(pw, o)
	if err != nil {
		return err
	}

	dst, err := fileio.CreateDestination(o.src, o.dst)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := dst.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("could not close %s: %w", o.dst, cerr)
		}
		if err != nil {
			os.Remove(o.dst)
		}
	}()

	name := filepath.Base(o.src)
	popts := []pipeline.Option{
		pipeline.WithLogger(log.WithField("file", name)),
	}
	if !o.quiet {
		popts = append(popts, pipeline.WithProgress(progress.NewConsole(stdout, name)))
	}
	p := pipeline.New(block, o.mode, o.cfg.Pipeline(), popts...)

	stats, err := p.Run(ctx, src, srcLen, dst)
	if err != nil {
		return err
	}
	if err := dst.Sync(); err != nil {
		return fmt.Errorf("could not sync %s: %w", o.dst, err)
	}

	if !o.quiet {
		fmt.Fprintln(stdout, "----- SUMMARY -----")
		fmt.Fprintln(stdout, "Mode:          ", strings.ToUpper(o.mode.String()))
		fmt.Fprintln(stdout, "Source:        ", o.src)
		fmt.Fprintln(stdout, "Destination:   ", o.dst)
		fmt.Fprintln(stdout, "Read:          ", humanize.Bytes(uint64(stats.BytesRead)))
		fmt.Fprintln(stdout, "Written:       ", humanize.Bytes(uint64(stats.BytesWritten)))
		fmt.Fprintln(stdout, "Blocks:        ", humanize.Comma(stats.Blocks))
		fmt.Fprintln(stdout, "Elapsed:       ", stats.Elapsed.Round(time.Millisecond))
	}
	return nil
}

// newBlock derives the key material for the selected cipher and builds it.
func newBlock(pw []byte, o options) (cipher.Block, error) {
	params := kdf.TripleDES()
	if o.single {
		params = kdf.SingleDES()
	}
	params.Algorithm = kdf.Algorithm(o.cfg.KDF)
	if !o.single || o.iterSet {
		params.Iterations = o.cfg.Iterations
	}

	key, err := kdf.Derive(pw, params)
	if err != nil {
		return nil, fmt.Errorf("error while deriving key from password: %w", err)
	}
	defer kdf.Zeroize(key)

	if o.single {
		return des.NewCipher(key)
	}
	return des.NewTripleCipher(key)
}

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"golang.org/x/text/language"

	"github.com/atomicstack/caption-pair-manager/internal/app"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	File    string
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envFolder       = "CAPTION_PAIRS_FOLDER"
	envAddr         = "CAPTION_PAIRS_ADDR"
	envDebounce     = "CAPTION_PAIRS_DEBOUNCE"
	envPollInterval = "CAPTION_PAIRS_POLL_INTERVAL"
	envTokenizer    = "CAPTION_PAIRS_TOKENIZER"
	envCollation    = "CAPTION_PAIRS_COLLATION"
	envWidth        = "CAPTION_PAIRS_WIDTH"
	envHeight       = "CAPTION_PAIRS_HEIGHT"
	envShowFooter   = "CAPTION_PAIRS_FOOTER"
	envVerbose      = "CAPTION_PAIRS_VERBOSE"
	envTrace        = "CAPTION_PAIRS_TRACE"
	envLogFile      = "CAPTION_PAIRS_LOG_FILE"
	envConfigFile   = "CAPTION_PAIRS_CONFIG"
)

const (
	DefaultAddr         = "127.0.0.1:7654"
	DefaultDebounce     = time.Second
	DefaultPollInterval = 500 * time.Millisecond
	DefaultTokenizer    = "segment"
	DefaultCollation    = "und"
)

// flagEnv pairs each flag that a config file may set with its environment
// variable. File values apply only when neither source set the flag.
var flagEnv = map[string]string{
	"folder":        envFolder,
	"addr":          envAddr,
	"debounce":      envDebounce,
	"poll-interval": envPollInterval,
	"tokenizer":     envTokenizer,
	"collation":     envCollation,
	"width":         envWidth,
	"height":        envHeight,
	"footer":        envShowFooter,
	"verbose":       envVerbose,
	"trace":         envTrace,
	"log-file":      envLogFile,
}

type flagValues struct {
	folder, addr, tokenizer, collation, logFile, configFile *string
	debounce, poll                                           *time.Duration
	width, height                                            *int
	footer, trace, verbose                                   *bool
}

// FlagSet returns the command-line flags with defaults taken from environ.
// Commands use it for help output.
func FlagSet(environ []string) *pflag.FlagSet {
	fs, _ := newFlagSet(parseEnv(environ))
	return fs
}

func newFlagSet(env map[string]string) (*pflag.FlagSet, flagValues) {
	fs := pflag.NewFlagSet("caption-pair-manager", pflag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	v := flagValues{
		folder:     fs.String("folder", envOrDefault(env, envFolder, ""), "folder of image/caption pairs (may also be given as an argument)"),
		addr:       fs.String("addr", envOrDefault(env, envAddr, DefaultAddr), "listen address for the web surface"),
		debounce:   fs.Duration("debounce", envOrDuration(env, envDebounce, DefaultDebounce), "quiet period before a folder change triggers a rescan"),
		poll:       fs.Duration("poll-interval", envOrDuration(env, envPollInterval, DefaultPollInterval), "how often the folder is checked for changes"),
		tokenizer:  fs.String("tokenizer", envOrDefault(env, envTokenizer, DefaultTokenizer), "token counter: segment or estimate"),
		collation:  fs.String("collation", envOrDefault(env, envCollation, DefaultCollation), "BCP 47 language used to order base names"),
		width:      fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)"),
		height:     fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)"),
		footer:     fs.Bool("footer", envOrBool(env, envShowFooter, false), "enable footer hint row (disabled by default)"),
		trace:      fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging"),
		verbose:    fs.Bool("verbose", envOrBool(env, envVerbose, false), "show confirmation notices after saves"),
		logFile:    fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file"),
		configFile: fs.String("config", envOrDefault(env, envConfigFile, ""), "optional TOML configuration file"),
	}
	return fs, v
}

// LoadArgs parses configuration from args and environ.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)
	fs, v := newFlagSet(env)

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if strings.TrimSpace(*v.configFile) != "" {
		if err := applyFile(fs, env, *v.configFile); err != nil {
			return Config{}, err
		}
	}

	rest := fs.Args()
	if len(rest) > 1 {
		return Config{}, fmt.Errorf("expected at most one folder argument, got %d", len(rest))
	}
	if len(rest) == 1 {
		*v.folder = rest[0]
	}

	if *v.width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *v.width)
	}
	if *v.height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *v.height)
	}

	cfg := Config{
		App: app.Config{
			Root:         *v.folder,
			Addr:         *v.addr,
			Debounce:     *v.debounce,
			PollInterval: *v.poll,
			Tokenizer:    *v.tokenizer,
			Collation:    *v.collation,
			Width:        *v.width,
			Height:       *v.height,
			ShowFooter:   *v.footer,
			Verbose:      *v.verbose,
		},
		Logging: Logging{
			FilePath: *v.logFile,
			Trace:    *v.trace,
		},
		File: *v.configFile,
		Flags: map[string]string{
			"folder":       *v.folder,
			"addr":         *v.addr,
			"debounce":     v.debounce.String(),
			"pollInterval": v.poll.String(),
			"tokenizer":    *v.tokenizer,
			"collation":    *v.collation,
			"width":        strconv.Itoa(*v.width),
			"height":       strconv.Itoa(*v.height),
			"footer":       strconv.FormatBool(*v.footer),
			"trace":        strconv.FormatBool(*v.trace),
			"verbose":      strconv.FormatBool(*v.verbose),
			"logFile":      *v.logFile,
			"config":       *v.configFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

// fileValues mirrors the flags a TOML file may set.
type fileValues struct {
	Folder       *string `toml:"folder"`
	Addr         *string `toml:"addr"`
	Debounce     *string `toml:"debounce"`
	PollInterval *string `toml:"poll_interval"`
	Tokenizer    *string `toml:"tokenizer"`
	Collation    *string `toml:"collation"`
	Width        *int    `toml:"width"`
	Height       *int    `toml:"height"`
	Footer       *bool   `toml:"footer"`
	Verbose      *bool   `toml:"verbose"`
	Trace        *bool   `toml:"trace"`
	LogFile      *string `toml:"log_file"`
}

func (v fileValues) settings() map[string]string {
	out := make(map[string]string)
	str := func(name string, p *string) {
		if p != nil {
			out[name] = *p
		}
	}
	num := func(name string, p *int) {
		if p != nil {
			out[name] = strconv.Itoa(*p)
		}
	}
	flag := func(name string, p *bool) {
		if p != nil {
			out[name] = strconv.FormatBool(*p)
		}
	}
	str("folder", v.Folder)
	str("addr", v.Addr)
	str("debounce", v.Debounce)
	str("poll-interval", v.PollInterval)
	str("tokenizer", v.Tokenizer)
	str("collation", v.Collation)
	num("width", v.Width)
	num("height", v.Height)
	flag("footer", v.Footer)
	flag("verbose", v.Verbose)
	flag("trace", v.Trace)
	str("log-file", v.LogFile)
	return out
}

func applyFile(fs *pflag.FlagSet, env map[string]string, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var values fileValues
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&values); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("config file %s: %s", path, strict.String())
		}
		return fmt.Errorf("config file %s: %w", path, err)
	}
	for name, value := range values.settings() {
		if fs.Changed(name) {
			continue
		}
		if _, ok := env[flagEnv[name]]; ok {
			continue
		}
		if err := fs.Set(name, value); err != nil {
			return fmt.Errorf("config file %s: %s: %w", path, name, err)
		}
	}
	return nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// Validate rejects values the application cannot run with.
func Validate(cfg Config) error {
	a := cfg.App
	if a.Debounce <= 0 {
		return fmt.Errorf("debounce must be > 0 (got %s)", a.Debounce)
	}
	if a.PollInterval <= 0 {
		return fmt.Errorf("poll-interval must be > 0 (got %s)", a.PollInterval)
	}
	switch a.Tokenizer {
	case "segment", "estimate":
	default:
		return fmt.Errorf("tokenizer must be segment or estimate (got %q)", a.Tokenizer)
	}
	if _, err := language.Parse(a.Collation); err != nil {
		return fmt.Errorf("collation %q: %w", a.Collation, err)
	}
	return nil
}

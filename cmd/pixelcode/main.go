package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"io/ioutil"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/bodgit/pixelcode"
	"github.com/bodgit/pixelcode/ansi"
	"github.com/bodgit/pixelcode/code"
	pcimage "github.com/bodgit/pixelcode/image"
	"github.com/bodgit/pixelcode/layout"
	"github.com/bodgit/pixelcode/metadata"
	"github.com/bodgit/pixelcode/tile"
	"github.com/bodgit/pixelcode/view"
	"github.com/gdamore/tcell/v2"
	_ "github.com/go-forks/gopnm"
	"github.com/urfave/cli/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/term"
)

const (
	defaultDB = "pixelcode.db"

	wrongCode = "Error: no code matches \"%s\""
)

var errNotTileable = errors.New("only a row or a grid can be tiled")

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func openDB(c *cli.Context) (*pixelcode.CodeDB, error) {
	return pixelcode.NewCodeDB(c.String("db"))
}

// snapshot reads the mappings from JSON when either file is given,
// otherwise from the database
func snapshot(c *cli.Context, logger *log.Logger) (*pixelcode.Snapshot, error) {
	if c.IsSet("codes") || c.IsSet("pixels") {
		return pixelcode.LoadSnapshot(c.String("codes"), c.String("pixels"), logger)
	}

	db, err := openDB(c)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return db.Snapshot()
}

func chooser(c *cli.Context) layout.Chooser {
	seed := c.Int64("seed")
	if !c.IsSet("seed") {
		seed = time.Now().UnixNano()
	}
	return layout.CoinFlip(rand.New(rand.NewSource(seed)))
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}

func create(c *cli.Context) (io.WriteCloser, error) {
	if file := c.String("output"); file != "" {
		return os.Create(file)
	}
	return nopCloser{os.Stdout}, nil
}

func writeJSON(c *cli.Context, v interface{}) error {
	w, err := create(c)
	if err != nil {
		return err
	}
	defer w.Close()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func readRows(file string) (code.Rows, error) {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, err
	}

	meta := metadata.New()
	if err := json.Unmarshal(b, meta); err != nil {
		return nil, err
	}

	return meta.Rows(), nil
}

func terminal() (int, bool) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0, false
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0, true
	}
	return width, true
}

// useColor follows the NO_COLOR convention, where any non-empty value
// disables color
func useColor(tty, noColor bool, env string) bool {
	return tty && !noColor && env == ""
}

// readWords reads one key per line, skipping blank lines and lines
// starting with #
func readWords(file string) ([]string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}

	return words, scanner.Err()
}

func remap(c *cli.Context, codes map[string][]string) (map[string][]string, error) {
	if !c.IsSet("keys") {
		return codes, nil
	}
	words, err := readWords(c.String("keys"))
	if err != nil {
		return nil, err
	}
	return pixelcode.Remap(codes, words), nil
}

func withScreen(f func(context.Context, tcell.Screen) error) error {
	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := f(ctx, s); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func imageOptions(c *cli.Context) *pcimage.Options {
	return &pcimage.Options{
		Size:   c.Int("size"),
		Colors: c.Int("colors"),
		Named:  c.Bool("named"),
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "pixelcode"
	app.Usage = "Pixel-Code rendering utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"PIXELCODE_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
		&cli.StringFlag{
			Name:    "codes",
			EnvVars: []string{"PIXELCODE_CODES"},
			Usage:   "read the code mapping from `FILE` instead of the database",
		},
		&cli.StringFlag{
			Name:    "pixels",
			EnvVars: []string{"PIXELCODE_PIXELS"},
			Usage:   "read the metadata mapping from `FILE` instead of the database",
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "disable color, also disabled when NO_COLOR is set",
		},
	}

	outputFlag := &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "write to `FILE` instead of stdout",
	}

	keysFlag := &cli.StringFlag{
		Name:  "keys",
		Usage: "rename the ROW_n keys to the words in `FILE`, one per line",
	}

	imageFlags := []cli.Flag{
		&cli.IntFlag{
			Name:  "size",
			Usage: "encode at `N` by N codes",
		},
		&cli.IntFlag{
			Name:  "colors",
			Usage: "reduce to at most `N` colors",
		},
		&cli.BoolFlag{
			Name:  "named",
			Usage: "use the nearest color name instead of hex",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "show",
			Usage:       "Render the codes stored for a key",
			Description: "",
			ArgsUsage:   "KEY",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    "interactive",
					Aliases: []string{"i"},
					Usage:   "show as a dismissable overlay",
				},
				&cli.Int64Flag{
					Name:  "seed",
					Usage: "seed for choosing how sampled lists are shown",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				logger := newLogger(c)

				s, err := snapshot(c, logger)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				key := c.Args().First()
				result, ok := s.Render(key, chooser(c))
				if !ok {
					return cli.NewExitError(fmt.Sprintf(wrongCode, pixelcode.Key(key)), 2)
				}
				logger.Printf("Rendering \"%s\" as a %s\n", pixelcode.Key(key), result.Kind)

				if c.Bool("interactive") {
					if err := withScreen(view.NewOverlay(result).Show); err != nil {
						return cli.NewExitError(err, 1)
					}
					return nil
				}

				width, tty := terminal()
				w := ansi.New(os.Stdout, ansi.Options{
					Width: width,
					Color: useColor(tty, c.Bool("no-color"), os.Getenv("NO_COLOR")),
				})
				if err := w.Write(result); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "generate",
			Usage:       "Generate a code from text",
			Description: "",
			ArgsUsage:   "TEXT...",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				for _, text := range c.Args().Slice() {
					fmt.Println(code.Generate(text))
				}

				return nil
			},
		},
		{
			Name:        "import-codes",
			Usage:       "Import a code mapping",
			Description: "",
			ArgsUsage:   "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				db, err := openDB(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer db.Close()

				if err := db.ImportCodes(c.Args().First()); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "import-pixels",
			Usage:       "Import a metadata mapping",
			Description: "",
			ArgsUsage:   "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				db, err := openDB(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer db.Close()

				if err := db.ImportPixels(c.Args().First()); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "export",
			Usage:       "Export the code mapping",
			Description: "",
			Flags:       []cli.Flag{outputFlag},
			Action: func(c *cli.Context) error {
				db, err := openDB(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer db.Close()

				w, err := create(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer w.Close()

				if err := db.ExportCodes(w); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "scan",
			Usage:       "Scan filesystem and store images as codes",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Flags:       imageFlags,
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				db, err := openDB(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer db.Close()

				p := pixelcode.New(db, newLogger(c))
				if err := p.Scan(c.Args().First(), imageOptions(c)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "encode",
			Usage:       "Convert an image to pixel codes",
			Description: "",
			ArgsUsage:   "IMAGE",
			Flags:       append([]cli.Flag{outputFlag}, imageFlags...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				f, err := os.Open(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer f.Close()

				m, format, err := image.Decode(f)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				o := imageOptions(c)
				if o.Size == 0 {
					o.Size = pcimage.RecommendSize(m.Bounds())
				}
				newLogger(c).Printf("Encoding %s image at %dx%d\n", format, o.Size, o.Size)

				w, err := create(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer w.Close()

				if err := pcimage.Encode(w, m, o); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "decode",
			Usage:       "Convert pixel codes to a PNG image",
			Description: "",
			ArgsUsage:   "FILE",
			Flags:       []cli.Flag{outputFlag},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				f, err := os.Open(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer f.Close()

				m, err := pcimage.Decode(f)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				w, err := create(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer w.Close()

				if err := png.Encode(w, m); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "extract",
			Usage:       "List every code of a pixel file",
			Description: "",
			ArgsUsage:   "FILE",
			Flags:       []cli.Flag{outputFlag},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				file := c.Args().First()
				rows, err := readRows(file)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := writeJSON(c, pixelcode.Extract(filepath.Base(file), rows)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "sequences",
			Usage:       "Build a code mapping from a pixel file",
			Description: "",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				outputFlag,
				keysFlag,
				&cli.StringFlag{
					Name:  "prefix",
					Usage: "prepend `PREFIX` to every key",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				rows, err := readRows(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				codes, err := remap(c, pixelcode.Sequences(c.String("prefix"), rows))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := writeJSON(c, codes); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "remap",
			Usage:       "Rename the row keys of a code mapping",
			Description: "",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				outputFlag,
				&cli.StringFlag{
					Name:     "keys",
					Required: true,
					Usage:    "rename the ROW_n keys to the words in `FILE`, one per line",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				b, err := ioutil.ReadFile(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				var codes map[string][]string
				if err := json.Unmarshal(b, &codes); err != nil {
					return cli.NewExitError(err, 1)
				}

				codes, err = remap(c, codes)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := writeJSON(c, codes); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "tile",
			Usage:       "Render the codes stored for a key as a PNG image",
			Description: "",
			ArgsUsage:   "KEY",
			Flags: []cli.Flag{
				outputFlag,
				&cli.IntFlag{
					Name:  "cell-size",
					Value: tile.DefaultCellSize,
					Usage: "draw each code as `N` by N pixels",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				s, err := snapshot(c, newLogger(c))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				key := c.Args().First()
				result, ok := s.Render(key, nil)
				if !ok {
					return cli.NewExitError(fmt.Sprintf(wrongCode, pixelcode.Key(key)), 2)
				}
				if len(result.Cells) == 0 {
					return cli.NewExitError(errNotTileable, 1)
				}

				w, err := create(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer w.Close()

				if err := tile.Encode(w, result.Cells, c.Int("cell-size")); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "rain",
			Usage:       "Animate the background until a key is pressed",
			Description: "",
			Flags: []cli.Flag{
				&cli.DurationFlag{
					Name:  "interval",
					Value: view.DefaultInterval,
					Usage: "time between frames",
				},
			},
			Action: func(c *cli.Context) error {
				rain := view.NewRain(rand.New(rand.NewSource(time.Now().UnixNano())))
				err := withScreen(func(ctx context.Context, s tcell.Screen) error {
					return rain.Run(ctx, s, c.Duration("interval"))
				})
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

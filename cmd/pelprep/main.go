package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/bodgit/pelprep"
	"github.com/bodgit/pelprep/bitmap"
	"github.com/bodgit/pelprep/pel"
	"github.com/bodgit/pelprep/raw"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	if c.Bool("verbose") {
		logger.SetLevel(logrus.DebugLevel)
	}
	if c.Bool("log-json") {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
	return logger
}

// loadConfig reads the configuration file, if any, and then applies any
// flags explicitly set on the command line.
func loadConfig(c *cli.Context) (pelprep.Config, error) {
	cfg := pelprep.DefaultConfig()
	if file := c.String("config"); file != "" {
		var err error
		if cfg, err = pelprep.LoadConfig(file); err != nil {
			return cfg, err
		}
	}

	for _, name := range c.FlagNames() {
		if !c.IsSet(name) {
			continue
		}
		switch name {
		case "width":
			cfg.Width = c.Int(name)
		case "height":
			cfg.Height = c.Int(name)
		case "input":
			cfg.Input = c.String(name)
		case "output":
			cfg.Output = c.String(name)
		case "step":
			cfg.Steps = c.StringSlice(name)
		case "bmp":
			cfg.Bitmap = c.Bool(name)
		case "strict":
			cfg.Strict = c.Bool(name)
		case "workers":
			cfg.Workers = c.Int(name)
		case "train":
			cfg.Train = c.String(name)
		case "test":
			cfg.Test = c.String(name)
		case "holdout":
			cfg.HoldOut = c.Int(name)
		}
	}

	return cfg, cfg.Validate()
}

func newPreparer(c *cli.Context) (*pelprep.Preparer, func(), error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}

	var manifest *pelprep.Manifest
	cleanup := func() {}
	if file := c.String("manifest"); file != "" {
		if manifest, err = pelprep.OpenManifest(file); err != nil {
			return nil, nil, err
		}
		cleanup = func() { manifest.Close() }
	}

	p, err := pelprep.New(cfg, manifest, newLogger(c))
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return p, cleanup, nil
}

func printReport(verb string, report *pelprep.Report) error {
	fmt.Printf("%s %d item(s)\n", verb, report.Succeeded())
	for _, r := range report.Failed() {
		fmt.Fprintf(os.Stderr, "%s: %v\n", r.Item, r.Err)
	}
	return report.Err()
}

// printCenterOfMass prints the centre of the blue channel, the same mass the
// recenter step uses by default. Nothing is printed for an image with no mass.
func printCenterOfMass(w io.Writer, m *pel.Matrix) {
	if x, y, err := m.CenterOfMass(pel.ChannelWeight(pel.Blue)); err == nil {
		fmt.Fprintf(w, "COM = %.2f, %.2f\n", x, y)
	}
}

func dimensionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "width",
			Value: pelprep.DefaultWidth,
			Usage: "image width in pixels",
		},
		&cli.IntFlag{
			Name:  "height",
			Value: pelprep.DefaultHeight,
			Usage: "image height in pixels",
		},
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "pelprep"
	app.Usage = "Neural network image dataset preparation utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			EnvVars: []string{"PELPREP_CONFIG"},
			Usage:   "path to YAML dataset configuration",
		},
		&cli.StringFlag{
			Name:    "manifest",
			EnvVars: []string{"PELPREP_MANIFEST"},
			Usage:   "path to sqlite run manifest",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
		&cli.BoolFlag{
			Name:  "log-json",
			Usage: "log in JSON format",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "process",
			Usage:       "Run raw images through the transform pipeline",
			Description: "Reads {type}_{num}.bin from the input directory and writes {type}_{num}_processed.bin to the output directory.",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:  "input",
					Usage: "directory of raw images",
				},
				&cli.StringFlag{
					Name:  "output",
					Usage: "directory for processed images",
				},
				&cli.StringSliceFlag{
					Name:  "step",
					Usage: "pipeline step, may be repeated",
				},
				&cli.BoolFlag{
					Name:  "bmp",
					Usage: "also write a bitmap preview of each processed image",
				},
				&cli.BoolFlag{
					Name:  "strict",
					Usage: "fail truncated images instead of zero-filling them",
				},
				&cli.IntFlag{
					Name:  "workers",
					Value: 1,
					Usage: "number of images processed at once",
				},
			}, dimensionFlags()...),
			Action: func(c *cli.Context) error {
				p, cleanup, err := newPreparer(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer cleanup()

				report, err := p.Process(c.Context)
				if err != nil {
					return cli.Exit(err, 1)
				}

				if pipeline := p.Pipeline(); len(pipeline) > 0 {
					fmt.Printf("Pipeline: %s\n", pipeline)
				} else {
					fmt.Println("Pipeline: none, images copied as is")
				}

				if err := printReport("Processed", report); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "export",
			Usage:       "Export processed images as training and test corpora",
			Description: "Each processed image becomes one line of values scaled to [0, 1).",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:  "output",
					Usage: "directory of processed images",
				},
				&cli.StringFlag{
					Name:  "train",
					Usage: "training corpus file",
				},
				&cli.StringFlag{
					Name:  "test",
					Usage: "test corpus file",
				},
				&cli.IntFlag{
					Name:  "holdout",
					Usage: "image type exported to the test corpus",
				},
			}, dimensionFlags()...),
			Action: func(c *cli.Context) error {
				p, cleanup, err := newPreparer(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer cleanup()

				report, err := p.Export(c.Context)
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := printReport("Exported", report); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "bmp",
			Usage:     "Convert a raw image to a bitmap",
			ArgsUsage: "MODE WIDTH HEIGHT INPUT OUTPUT",
			Action: func(c *cli.Context) error {
				if c.NArg() < 5 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				mode, err := bitmap.ParseMode(c.Args().Get(0))
				if err != nil {
					return cli.Exit(err, 1)
				}

				width, err := strconv.Atoi(c.Args().Get(1))
				if err != nil {
					return cli.Exit(err, 1)
				}

				height, err := strconv.Atoi(c.Args().Get(2))
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := bitmap.ConvertRaw(mode, width, height, c.Args().Get(3), c.Args().Get(4)); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "scale",
			Usage:     "Smoothly rescale a bitmap",
			ArgsUsage: "INPUT OUTPUT",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "width",
					Value: 150,
					Usage: "target width in pixels",
				},
				&cli.IntFlag{
					Name:  "height",
					Value: 100,
					Usage: "target height in pixels",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				if err := bitmap.ScaleFile(c.Args().Get(0), c.Args().Get(1), c.Int("width"), c.Int("height")); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "dump",
			Usage:     "Print the pixel values of a raw image",
			ArgsUsage: "FILE",
			Flags: append([]cli.Flag{
				&cli.BoolFlag{
					Name:  "hex",
					Usage: "print values in hexadecimal",
				},
				&cli.StringSliceFlag{
					Name:  "step",
					Usage: "apply a pipeline step before dumping, may be repeated",
				},
			}, dimensionFlags()...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m, err := raw.ReadFile(c.Args().First(), c.Int("width"), c.Int("height"))
				if m == nil {
					return cli.Exit(err, 1)
				}
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
				}

				pipeline, err := pelprep.ParsePipeline(c.StringSlice("step"))
				if err != nil {
					return cli.Exit(err, 1)
				}

				if m, err = pipeline.Apply(m); err != nil {
					return cli.Exit(err, 1)
				}

				format := pel.DecimalFormat
				if c.Bool("hex") {
					format = pel.HexFormat
				}

				if err := m.Dump(os.Stdout, format); err != nil {
					return cli.Exit(err, 1)
				}

				printCenterOfMass(os.Stdout, m)

				return nil
			},
		},
		{
			Name:  "steps",
			Usage: "List the available pipeline steps",
			Action: func(c *cli.Context) error {
				for _, s := range pelprep.Steps() {
					fmt.Println(s)
				}
				return nil
			},
		},
		{
			Name:  "report",
			Usage: "List failed items recorded in the manifest",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "all",
					Usage: "list every item, not just failures",
				},
			},
			Action: func(c *cli.Context) error {
				file := c.String("manifest")
				if file == "" {
					return cli.Exit("no manifest given", 1)
				}

				m, err := pelprep.OpenManifest(file)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer m.Close()

				query := m.Failures
				if c.Bool("all") {
					query = m.Entries
				}

				entries, err := query()
				if err != nil {
					return cli.Exit(err, 1)
				}

				for _, e := range entries {
					fmt.Printf("%s\t%s\t%s\t%s\n", e.Stage, e.Name, e.Status, e.Error)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

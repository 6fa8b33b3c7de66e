// Command vkreg demonstrates the registry package: loading a vk.xml
// document, applying a filter, and inspecting the resulting graph. It
// prints results to stdout and logs to stderr, writes no files, and never
// generates code.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/googlestadia/vkregistry/cmd/vkreg/profile"
	"github.com/googlestadia/vkregistry/internal/vklog"
	"github.com/googlestadia/vkregistry/registry"
)

var version = "0.1.0"

type filterFlags struct {
	platforms []string
	authors   []string
	supported string
	allow     []string
	block     []string
	profile   string
}

func registerFilterFlags(flags *pflag.FlagSet, f *filterFlags) {
	flags.StringSliceVar(&f.platforms, "platform", nil, "restrict to these platform names (repeatable)")
	flags.StringSliceVar(&f.authors, "author", nil, "restrict to these author tags (repeatable)")
	flags.StringVar(&f.supported, "supported", "vulkan", "supported= tag to match")
	flags.StringSliceVar(&f.allow, "allow", nil, "force-include this extension (repeatable)")
	flags.StringSliceVar(&f.block, "block", nil, "force-exclude this extension (repeatable)")
	flags.StringVar(&f.profile, "profile", "", "TOML filter profile file")
}

func (f *filterFlags) resolve() (registry.FilterOptions, error) {
	if profile.Exists(f.profile) {
		return profile.Load(f.profile)
	}
	return registry.FilterOptions{
		Platforms:         f.platforms,
		Authors:           f.authors,
		Supported:         f.supported,
		AllowedExtensions: f.allow,
		BlockedExtensions: f.block,
	}, nil
}

func main() {
	var logLevel, logFormat string

	root := &cobra.Command{
		Use:          "vkreg",
		Short:        "Inspect a Vulkan API registry (vk.xml)",
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text, json")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logger, err := vklog.New(os.Stderr, logLevel, logFormat)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	}

	root.AddCommand(loadCmd())
	root.AddCommand(describeCmd())
	root.AddCommand(platformsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadCmd() *cobra.Command {
	flags := &filterFlags{}
	cmd := &cobra.Command{
		Use:   "load <vk.xml>",
		Short: "Load and filter a registry, printing a summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadFiltered(args[0], flags)
			if err != nil {
				return err
			}
			fmt.Printf("version %d.%d.%d\n", r.VersionMajor, r.VersionMinor, r.VersionPatch)
			fmt.Printf("types: %d\n", len(r.Types))
			fmt.Printf("commands: %d\n", len(r.Commands))
			fmt.Printf("extensions: %d\n", len(r.Extensions))
			fmt.Printf("platforms: %d\n", len(r.Platforms))
			return nil
		},
	}
	registerFilterFlags(cmd.Flags(), flags)
	return cmd
}

func describeCmd() *cobra.Command {
	flags := &filterFlags{}
	cmd := &cobra.Command{
		Use:   "describe <vk.xml> <name>",
		Short: "Print what the registry knows about a type or command",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadFiltered(args[0], flags)
			if err != nil {
				return err
			}
			name := args[1]
			if t, ok := r.Types[name]; ok {
				describeType(t)
				return nil
			}
			if c, ok := r.Commands[name]; ok {
				describeCommand(c)
				return nil
			}
			return fmt.Errorf("%s: not found in the filtered registry", name)
		},
	}
	registerFilterFlags(cmd.Flags(), flags)
	return cmd
}

func platformsCmd() *cobra.Command {
	flags := &filterFlags{}
	cmd := &cobra.Command{
		Use:   "platforms <vk.xml>",
		Short: "List the platform views produced by the current filter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadFiltered(args[0], flags)
			if err != nil {
				return err
			}
			for name, p := range r.Platforms {
				label := name
				if label == "" {
					label = "(core)"
				}
				fmt.Printf("%-20s macro=%-25s types=%-4d commands=%-4d\n",
					label, p.Macro, len(p.Types), len(p.Commands))
			}
			return nil
		},
	}
	registerFilterFlags(cmd.Flags(), flags)
	return cmd
}

func loadFiltered(path string, flags *filterFlags) (*registry.Registry, error) {
	r, err := registry.Load(path)
	if err != nil {
		return nil, err
	}
	opts, err := flags.resolve()
	if err != nil {
		return nil, err
	}
	return r.Filter(opts)
}

func describeType(t registry.Type) {
	fmt.Printf("%s: %T\n", t.TypeName(), t)
	switch v := t.(type) {
	case *registry.Struct:
		for _, m := range v.Members {
			fmt.Printf("  %-30s %s\n", m.Name, m.Type.TypeName())
		}
	case *registry.Enum:
		for name, val := range v.GetIntegerValues() {
			fmt.Printf("  %-40s = %d\n", name, val)
		}
	case *registry.Handle:
		fmt.Printf("  instance handle: %v\n", v.IsInstanceHandle())
	}
}

func describeCommand(c *registry.Command) {
	fmt.Printf("%s returns %s\n", c.Name, c.ReturnType.TypeName())
	for _, p := range c.Parameters {
		fmt.Printf("  %-30s %s\n", p.Name, p.Type.TypeName())
	}
}

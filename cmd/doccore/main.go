// Command doccore is a thin command line front end over the document
// service: inspect a project tree, clone a project from an archetype,
// archive a project into the vault, and list an archetype library.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"doccore/internal/registry"
	"doccore/internal/service"
	"doccore/internal/vault"
	"doccore/pkg/logger"
	"doccore/pkg/model"
)

var exitFunc = os.Exit

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "doccore:", err)
		exitFunc(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		usage(out)
		return fmt.Errorf("missing command")
	}
	ctx := context.Background()
	switch args[0] {
	case "inspect":
		return runInspect(ctx, args[1:], out)
	case "clone-project":
		return runCloneProject(ctx, args[1:], out)
	case "archive":
		return runArchive(ctx, args[1:], out)
	case "archetypes":
		return runArchetypes(ctx, args[1:], out)
	case "help", "-h", "--help":
		usage(out)
		return nil
	default:
		usage(out)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage(out io.Writer) {
	fmt.Fprintln(out, `usage: doccore <command> [flags]

commands:
  inspect <project-dir>                      print the document tree and states
  clone-project -lib <dir> -name <archetype> -target <dir> -as <name>
  archive <project-dir>                      save and archive into the vault
  archetypes <library-dir>                   list the archetype library`)
}

func newService(cfg service.Config, opts ...service.Option) (*service.Service, error) {
	log, err := logger.New().WithLevel(zerolog.InfoLevel).Make()
	if err != nil {
		return nil, err
	}
	model.SetLogger(log)
	opts = append(opts, service.WithLogger(log))
	return service.New(cfg, opts...)
}

func runInspect(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(out)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("inspect: expected one project directory")
	}
	svc, err := newService(service.Config{})
	if err != nil {
		return err
	}
	p, err := svc.OpenProject(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "project %s %q [%s]\n", p.ID(), p.Name(), p.State())
	docs, err := p.Documents()
	if err != nil {
		return err
	}
	for _, doc := range docs {
		if err := printTree(out, doc, 1); err != nil {
			return err
		}
	}
	return nil
}

func printTree(out io.Writer, o *model.Object, depth int) error {
	name := o.Name()
	if name == "" {
		name = string(o.ID())
	}
	fmt.Fprintf(out, "%s%s %q (%s) [%s]\n", strings.Repeat("  ", depth), o.ID(), name, o.EffectiveClass(), o.State())
	children, err := o.Children()
	if err != nil {
		return err
	}
	for _, c := range children {
		if err := printTree(out, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func runCloneProject(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("clone-project", flag.ContinueOnError)
	fs.SetOutput(out)
	lib := fs.String("lib", "", "archetype library directory")
	name := fs.String("name", "", "project archetype name")
	target := fs.String("target", ".", "directory to create the project in")
	as := fs.String("as", "", "new project directory name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *lib == "" || *name == "" || *as == "" {
		return fmt.Errorf("clone-project: -lib, -name and -as are required")
	}
	svc, err := newService(service.Config{ArchetypesDir: *lib})
	if err != nil {
		return err
	}
	p, err := svc.CloneProjectFromArchetype(ctx, *name, *target, *as)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "cloned project %s into %s\n", p.ID(), p.Dir())
	return nil
}

func runArchive(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("archive", flag.ContinueOnError)
	fs.SetOutput(out)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("archive: expected one project directory")
	}
	store, err := vault.Open(ctx)
	if err != nil {
		return err
	}
	reg, err := registry.Open(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = reg.Close() }()
	svc, err := newService(service.Config{}, service.WithVault(store), service.WithRegistry(reg))
	if err != nil {
		return err
	}
	p, err := svc.OpenProject(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	if err := svc.SaveProject(ctx, p); err != nil {
		return err
	}
	info, err := svc.ArchiveProject(ctx, p)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "archived %s (%d bytes) as %s\n", p.ID(), info.Size, info.Key)
	return nil
}

func runArchetypes(_ context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("archetypes", flag.ContinueOnError)
	fs.SetOutput(out)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("archetypes: expected one library directory")
	}
	svc, err := newService(service.Config{ArchetypesDir: fs.Arg(0)})
	if err != nil {
		return err
	}
	repo := svc.Archetypes()

	projects, err := repo.ProjectArchetypes()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "projects (%d):\n", len(projects))
	for _, p := range projects {
		fmt.Fprintf(out, "  %s %q\n", p.ID(), p.Name())
	}

	documents, err := repo.DocumentArchetypes()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "documents (%d):\n", len(documents))
	for _, d := range documents {
		fmt.Fprintf(out, "  %s %q\n", d.ID(), d.Name())
	}

	byClass, err := repo.ObjectArchetypes()
	if err != nil {
		return err
	}
	classes := make([]string, 0, len(byClass))
	for class := range byClass {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	fmt.Fprintf(out, "object classes (%d):\n", len(byClass))
	for _, class := range classes {
		fmt.Fprintf(out, "  %s (%d objects)\n", class, len(byClass[class]))
	}
	return nil
}

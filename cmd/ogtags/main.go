package main

import (
	"fmt"
	"log"
	"os"

	"github.com/eringen/ogtags"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		app := openApp()
		defer app.Close()
		log.Printf("ogtags: serving %s on %s", app.Config.URL, app.Config.Addr)
		if err := app.Start(); err != nil {
			log.Fatal(err)
		}
	case "import":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: ogtags import <content.yaml>")
			os.Exit(1)
		}
		app := initApp()
		defer app.Close()
		stats, err := app.Import(os.Args[2])
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("imported %s\n", stats)
	case "image":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: ogtags image <file> [title]")
			os.Exit(1)
		}
		title := ""
		if len(os.Args) > 3 {
			title = os.Args[3]
		}
		app := initApp()
		defer app.Close()
		post, err := app.ImportImage(os.Args[2], title)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("created attachment %q (%s)\n", post.Slug, app.Permalink(post))
	case "inspect":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: ogtags inspect <path>")
			os.Exit(1)
		}
		app := initApp()
		defer app.Close()
		tags, err := app.Inspect(os.Args[2])
		if err != nil {
			log.Fatal(err)
		}
		for _, t := range tags {
			fmt.Printf("%-16s %s\n", t.Property, t.Content)
		}
	case "new":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: ogtags new <directory>")
			os.Exit(1)
		}
		if err := runNew(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("ogtags %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// openApp loads the site configuration named by OGTAGS_CONFIG.
func openApp() *ogtags.App {
	cfg, err := ogtags.LoadConfig(ogtags.EnvOr("OGTAGS_CONFIG", "site.yaml"))
	if err != nil {
		log.Fatal(err)
	}
	return ogtags.New(cfg, ogtags.ViewFuncs{})
}

// initApp opens the store and registers routes without listening.
func initApp() *ogtags.App {
	app := openApp()
	if err := app.Init(); err != nil {
		log.Fatal(err)
	}
	return app
}

func printUsage() {
	fmt.Println(`ogtags - A content site that writes Open Graph tags for every page

Usage:
  ogtags <command> [arguments]

Commands:
  serve                 Start the site
  import <file.yaml>    Import post types, images, authors, terms and posts
  image <file> [title]  Import an image as an attachment
  inspect <path>        Render a path and print its Open Graph tags
  new <directory>       Create a starter site
  version               Print the ogtags version
  help                  Show this help message

Environment:
  OGTAGS_CONFIG         Site config file (default site.yaml)

Examples:
  ogtags new myblog
  ogtags import content.yaml
  ogtags inspect /blog/hello-world/`)
}

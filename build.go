//go:build ignore

// build.go - diamondprep build system
// Usage: go run build.go [-target=TARGET] [-v]
// Targets: all, diamonds, diamonds-explore, diamonds-server, test, clean, package

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

var (
	rootDir string
	distDir string

	// Source dir under cmd/ for every binary
	executables = []string{"diamonds", "diamonds-explore", "diamonds-server"}

	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorBlue  = "\033[34m"
	colorCyan  = "\033[36m"
)

func init() {
	cwd, err := os.Getwd()
	if err != nil {
		panic(fmt.Sprintf("Failed to get current directory: %v", err))
	}
	rootDir = cwd
	distDir = filepath.Join(rootDir, "dist")
}

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	printHeader()
	startTime := time.Now()

	switch *target {
	case "all":
		buildAll(*verbose)
	case "diamonds", "diamonds-explore", "diamonds-server":
		buildExecutable(*target, *verbose)
	case "test":
		runTests(*verbose)
	case "clean":
		clean()
	case "package":
		buildAll(*verbose)
		createPackage()
	default:
		showHelp()
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Build completed in %s", time.Since(startTime).Round(time.Millisecond)))
}

func printHeader() {
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println(colorCyan + "       diamondprep - Build System          " + colorReset)
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println()
}

func printInfo(msg string) {
	fmt.Printf("%s[INFO]%s %s\n", colorBlue, colorReset, msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s[SUCCESS]%s %s\n", colorGreen, colorReset, msg)
}

func printError(msg string) {
	fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg)
}

func buildAll(verbose bool) {
	printInfo("Building all binaries...")
	if err := os.MkdirAll(distDir, 0755); err != nil {
		printError(fmt.Sprintf("Failed to create dist directory: %v", err))
		os.Exit(1)
	}
	for _, name := range executables {
		buildExecutable(name, verbose)
	}
}

func buildExecutable(name string, verbose bool) {
	printInfo(fmt.Sprintf("Building %s...", name))

	exeName := name
	if runtime.GOOS == "windows" {
		exeName += ".exe"
	}
	outputPath := filepath.Join(distDir, exeName)

	args := []string{"build", "-trimpath", "-ldflags", "-s -w", "-o", outputPath, "./cmd/" + name}
	if verbose {
		args = append([]string{"build", "-v"}, args[1:]...)
	}

	if err := goCommand(verbose, args...); err != nil {
		printError(fmt.Sprintf("Failed to build %s: %v", name, err))
		os.Exit(1)
	}

	if info, err := os.Stat(outputPath); err == nil {
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", exeName, float64(info.Size())/1024/1024))
	}
}

func runTests(verbose bool) {
	printInfo("Running Go tests...")
	args := []string{"test", "-race"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	if err := goCommand(true, args...); err != nil {
		printError(fmt.Sprintf("Go tests failed: %v", err))
		os.Exit(1)
	}
	printSuccess("All tests passed")
}

func goCommand(verbose bool, args ...string) error {
	cmd := exec.Command("go", args...)
	cmd.Dir = rootDir
	cmd.Stderr = os.Stderr
	if verbose {
		cmd.Stdout = os.Stdout
	}
	return cmd.Run()
}

func clean() {
	printInfo("Cleaning build artifacts...")
	if err := os.RemoveAll(distDir); err != nil {
		printError(fmt.Sprintf("Failed to clean dist directory: %v", err))
	}
	printSuccess("Build artifacts cleaned")
}

// createPackage lays out dist/ as a runnable install: binaries, the default
// config and empty data and log directories.
func createPackage() {
	printInfo("Preparing package layout...")

	for _, dir := range []string{"configs", "data/reports", "data/cache", "logs"} {
		if err := os.MkdirAll(filepath.Join(distDir, dir), 0755); err != nil {
			printError(fmt.Sprintf("Failed to create %s: %v", dir, err))
			os.Exit(1)
		}
	}

	src := filepath.Join(rootDir, "configs", "config.yaml")
	dest := filepath.Join(distDir, "configs", "config.yaml")
	if err := copyFile(src, dest); err != nil {
		printError(fmt.Sprintf("Failed to copy config: %v", err))
		os.Exit(1)
	}
	printSuccess(fmt.Sprintf("Package ready in %s", distDir))
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func showHelp() {
	fmt.Println("Usage: go run build.go [-target=TARGET] [-v]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  all               Build every binary into dist/ (default)")
	fmt.Println("  diamonds          Build the normalizer CLI")
	fmt.Println("  diamonds-explore  Build the exploration CLI")
	fmt.Println("  diamonds-server   Build the HTTP server")
	fmt.Println("  test              Run go test -race ./...")
	fmt.Println("  clean             Remove dist/")
	fmt.Println("  package           Build and lay out dist/ with config and data dirs")
}

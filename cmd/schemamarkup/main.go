// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/schemamarkup

// schemamarkup renders mock signatures and sample payloads for API models.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jessevdk/go-flags"

	"github.com/woozymasta/schemamarkup"
)

var (
	Version    = "dev"
	Commit     = "unknown"
	BuildTime  = time.Unix(0, 0)
	URL        = "https://github.com/woozymasta/schemamarkup"
	_buildTime string
)

// cliOptions describes schemamarkup CLI flags and subcommands.
type cliOptions struct {
	Verbose bool `short:"v" long:"verbose" description:"Log debug details such as closed reference cycles"`

	Version   versionCommand   `command:"version" description:"Print version information"`
	Template  templateCommand  `command:"template" description:"Print built-in signature template"`
	Models    modelsCommand    `command:"models" description:"List models of a document"`
	Signature signatureCommand `command:"signature" description:"Render model mock signature"`
	Sample    sampleCommand    `command:"sample" description:"Generate model sample payload"`
}

// documentFlags groups document loading and model selection flags.
type documentFlags struct {
	Model    string `short:"m" long:"model" description:"Definition name or response model name (\"<operationId> <status>\")" required:"yes"`
	Validate bool   `long:"validate" description:"Validate Swagger/OpenAPI document before rendering"`
}

// templateSelectFlags groups built-in template selection flags.
type templateSelectFlags struct {
	TemplateName string `short:"t" long:"template" description:"Built-in template style" choice:"html" choice:"markdown" default:"html"`
}

// ioArgs are positional input and output paths shared by document commands.
type ioArgs struct {
	Input  string `positional-arg-name:"input" description:"Input document file path (optional; stdin when omitted)"`
	Output string `positional-arg-name:"output" description:"Output file path (optional; stdout when omitted)"`
}

// signatureCommand renders mock signature markup.
type signatureCommand struct {
	runner *cliRunner
	Args   ioArgs `positional-args:"yes"`

	DocumentFlags documentFlags       `group:"Document"`
	TemplateFlags templateSelectFlags `group:"Template Select"`
	TemplatePath  string              `short:"f" long:"template-file" description:"Path to custom signature template (.gotmpl)"`
}

// Execute runs signature subcommand.
func (command *signatureCommand) Execute(_ []string) error {
	return command.runner.runSignature(
		command.DocumentFlags,
		command.TemplateFlags.TemplateName,
		command.TemplatePath,
		command.Args,
	)
}

// sampleCommand generates sample payload.
type sampleCommand struct {
	runner *cliRunner
	Args   ioArgs `positional-args:"yes"`

	DocumentFlags documentFlags `group:"Document"`
	Format        string        `short:"F" long:"format" description:"Sample payload format" choice:"json" choice:"yaml" default:"json"`
}

// Execute runs sample subcommand.
func (command *sampleCommand) Execute(_ []string) error {
	return command.runner.runSample(command.DocumentFlags, command.Format, command.Args)
}

// modelsCommand lists definition and response model names.
type modelsCommand struct {
	runner *cliRunner
	Args   ioArgs `positional-args:"yes"`

	Validate bool `long:"validate" description:"Validate Swagger/OpenAPI document before listing"`
}

// Execute runs models subcommand.
func (command *modelsCommand) Execute(_ []string) error {
	return command.runner.runModels(command.Validate, command.Args)
}

// templateCommand exports built-in signature template.
type templateCommand struct {
	runner *cliRunner
	Args   struct {
		Output string `positional-arg-name:"output" description:"Output template file path (optional; stdout when omitted)"`
	} `positional-args:"yes"`

	TemplateFlags templateSelectFlags `group:"Template Select"`
}

// Execute runs template subcommand.
func (command *templateCommand) Execute(_ []string) error {
	return command.runner.runTemplate(command.TemplateFlags.TemplateName, command.Args.Output)
}

// versionCommand prints version information.
type versionCommand struct {
	runner *cliRunner
}

// Execute runs version subcommand.
func (command *versionCommand) Execute(_ []string) error {
	return command.runner.printVersionInfo()
}

// cliRunner executes CLI operations with custom IO streams.
type cliRunner struct {
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	programName string
	options     *cliOptions
}

func init() {
	if _buildTime != "" {
		if t, err := time.Parse(time.RFC3339, _buildTime); err == nil {
			BuildTime = t.UTC()
		}
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes CLI logic and returns process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	return runWithIO(args, os.Stdin, stdout, stderr)
}

// runWithIO executes CLI logic with custom stdin, for tests.
func runWithIO(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	programName := strings.TrimSpace(os.Args[0])
	if programName == "" {
		programName = "schemamarkup"
	}

	runner := cliRunner{
		programName: filepath.Base(programName),
		stdin:       stdin,
		stdout:      stdout,
		stderr:      stderr,
	}

	return runner.run(args)
}

// run parses CLI args and maps errors to process exit codes.
func (runner *cliRunner) run(args []string) int {
	err := parseCLIArgs(args, runner)
	if err == nil {
		return 0
	}

	var flagErr *flags.Error
	if errors.As(err, &flagErr) {
		if flagErr.Type == flags.ErrHelp {
			writeCLIError(runner.stdout, err)
			return 0
		}

		writeCLIError(runner.stderr, err)
		return 2
	}

	writeCLIError(runner.stderr, err)
	return 1
}

// logger builds timestamped stderr logger; warnings by default, debug with --verbose.
func (runner *cliRunner) logger() *log.Logger {
	level := log.WarnLevel
	if runner.options != nil && runner.options.Verbose {
		level = log.DebugLevel
	}

	return log.NewWithOptions(runner.stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// loadDocument reads input and parses it into document with model registry.
func (runner *cliRunner) loadDocument(inputPath string, opt schemamarkup.Options) (*schemamarkup.Document, error) {
	data, source, err := runner.readDocumentInput(inputPath)
	if err != nil {
		return nil, fmt.Errorf("read document input: %w", err)
	}

	doc, err := schemamarkup.LoadDocument(context.Background(), data, opt)
	if err != nil {
		return nil, fmt.Errorf("load document %s: %w", source, err)
	}

	opt.Logger.Debug("document loaded", "source", source, "format", doc.Format,
		"models", doc.Registry.Len(), "responses", len(doc.ResponseNames()))
	return doc, nil
}

// runSignature renders mock signature markup and writes result to stdout or file.
func (runner *cliRunner) runSignature(documentOptions documentFlags, templateName, templatePath string, paths ioArgs) error {
	opt := schemamarkup.Options{
		Logger:           runner.logger(),
		TemplateName:     templateName,
		ValidateDocument: documentOptions.Validate,
	}

	if templatePath != "" {
		customTemplate, err := os.ReadFile(templatePath)
		if err != nil {
			return fmt.Errorf("read template file %q: %w", templatePath, err)
		}

		opt.TemplateText = string(customTemplate)
	}

	doc, err := runner.loadDocument(paths.Input, opt)
	if err != nil {
		return err
	}

	model, err := doc.Model(strings.TrimSpace(documentOptions.Model))
	if err != nil {
		return err
	}

	rendered, err := model.MockSignature()
	if err != nil {
		return fmt.Errorf("render signature: %w", err)
	}

	return runner.writeOutput(paths.Output, []byte(rendered), "signature")
}

// runSample generates sample payload and writes result to stdout or file.
func (runner *cliRunner) runSample(documentOptions documentFlags, format string, paths ioArgs) error {
	opt := schemamarkup.Options{
		Logger:           runner.logger(),
		ValidateDocument: documentOptions.Validate,
	}

	doc, err := runner.loadDocument(paths.Input, opt)
	if err != nil {
		return err
	}

	model, err := doc.Model(strings.TrimSpace(documentOptions.Model))
	if err != nil {
		return err
	}

	data, err := model.Sample(schemamarkup.SampleFormat(format))
	if err != nil {
		return fmt.Errorf("generate sample: %w", err)
	}

	return runner.writeOutput(paths.Output, data, "sample")
}

// runModels lists definition names, then response model names, one per line.
func (runner *cliRunner) runModels(validate bool, paths ioArgs) error {
	doc, err := runner.loadDocument(paths.Input, schemamarkup.Options{
		Logger:           runner.logger(),
		ValidateDocument: validate,
	})
	if err != nil {
		return err
	}

	var out strings.Builder
	for _, name := range doc.ModelNames() {
		out.WriteString(name)
		out.WriteByte('\n')
	}

	for _, name := range doc.ResponseNames() {
		out.WriteString(name)
		out.WriteByte('\n')
	}

	return runner.writeOutput(paths.Output, []byte(out.String()), "model list")
}

// runTemplate writes selected built-in template to stdout or file.
func (runner *cliRunner) runTemplate(templateName, outputPath string) error {
	tpl, err := schemamarkup.BuiltinTemplate(templateName)
	if err != nil {
		return fmt.Errorf("load built-in template %q: %w", templateName, err)
	}

	return runner.writeOutput(outputPath, []byte(tpl), "template")
}

// writeOutput writes data to output file or stdout when path is empty.
func (runner *cliRunner) writeOutput(outputPath string, data []byte, what string) error {
	if strings.TrimSpace(outputPath) == "" {
		if _, err := runner.stdout.Write(data); err != nil {
			return fmt.Errorf("write %s to stdout: %w", what, err)
		}

		return nil
	}

	if err := os.WriteFile(outputPath, data, 0o600); err != nil {
		return fmt.Errorf("write %s file %q: %w", what, outputPath, err)
	}

	return nil
}

// readDocumentInput reads document from file path or stdin and returns source marker.
func (runner *cliRunner) readDocumentInput(path string) ([]byte, string, error) {
	path = strings.TrimSpace(path)
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("read document file %q: %w", path, err)
		}

		return data, path, nil
	}

	data, err := io.ReadAll(runner.stdin)
	if err != nil {
		return nil, "", fmt.Errorf("read document from stdin: %w", err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, "", errors.New("read document from stdin: empty input")
	}

	return data, "(stdin)", nil
}

// writeCLIError writes a plain-text CLI error line to the selected stream.
func writeCLIError(output io.Writer, err error) {
	if err == nil {
		return
	}

	//nolint:gosec // CLI writes plain-text diagnostics to terminal streams, not HTTP responses.
	_, _ = fmt.Fprintln(output, err.Error())
}

// parseCLIArgs parses CLI arguments and triggers selected subcommand execution.
func parseCLIArgs(args []string, runner *cliRunner) error {
	options := &cliOptions{}
	options.Version.runner = runner
	options.Template.runner = runner
	options.Models.runner = runner
	options.Signature.runner = runner
	options.Sample.runner = runner
	runner.options = options

	parser := flags.NewParser(options, flags.HelpFlag)
	parser.Name = runner.programName
	applyCommandLongDescriptions(parser, runner.programName)

	_, err := parser.ParseArgs(args)
	return err
}

// applyCommandLongDescriptions configures detailed command help text with examples.
func applyCommandLongDescriptions(parser *flags.Parser, programName string) {
	descriptions := map[string]string{
		"template": strings.TrimSpace(fmt.Sprintf(`
Print built-in signature template text (`+"`html` or `markdown`"+`).
Use it as a starting point for a custom template file.

Examples:
> $ %s template > signature.html.gotmpl
> $ %s template -t markdown signature.md.gotmpl
`, programName, programName)),
		"signature": strings.TrimSpace(fmt.Sprintf(`
Render mock signature of one model and every model it references.
Reads Swagger 2.0, OpenAPI 3 or JSON Schema from file argument or stdin.

Examples:
> $ %s signature -m Pet petstore.yaml > pet.html
> $ cat petstore.json | %s signature -t markdown -m "getPetById 200"
`, programName, programName)),
		"sample": strings.TrimSpace(fmt.Sprintf(`
Generate representative sample payload of one model.
Response examples declared for application/json take precedence.

Examples:
> $ %s sample -m Pet petstore.yaml
> $ %s sample -F yaml -m Root schema.json pet.yaml
`, programName, programName)),
		"models": strings.TrimSpace(fmt.Sprintf(`
List definition names, then response model names, one per line.

Examples:
> $ %s models petstore.yaml
`, programName)),
	}

	for commandName, description := range descriptions {
		command := parser.Find(commandName)
		if command == nil {
			continue
		}

		command.LongDescription = description
	}
}

// printVersionInfo writes build metadata to stdout.
func (runner *cliRunner) printVersionInfo() error {
	_, err := fmt.Fprintf(runner.stdout, `url:      %s
file:     %s
version:  %s
commit:   %s
built:    %s
`, URL, os.Args[0], Version, Commit, BuildTime)
	return err
}
